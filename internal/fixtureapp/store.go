package fixtureapp

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/transportqa/suite/internal/config"
)

// FirstRequestID is the number given to the first request created.
const FirstRequestID = 1000

var (
	ErrRequestNotFound    = errors.New("request not found")
	ErrInvalidCredentials = errors.New("invalid email or password")
)

// DemoCredentials log into the fixture app when none are configured.
var DemoCredentials = config.Credentials{
	Email:    "shipper@example.com",
	Password: "Demo1234!",
}

// RequestStore keeps transport requests in memory.
type RequestStore struct {
	mu       sync.RWMutex
	nextID   int
	requests map[int]*TransportRequest
	now      func() time.Time
}

// NewRequestStore creates an empty store. now defaults to time.Now.
func NewRequestStore(now func() time.Time) *RequestStore {
	if now == nil {
		now = time.Now
	}
	return &RequestStore{
		nextID:   FirstRequestID,
		requests: make(map[int]*TransportRequest),
		now:      now,
	}
}

// Create validates in, sends the request and stores it under a fresh ID.
// Identical submissions are stored twice.
func (s *RequestStore) Create(in RequestInput, owner string) (*TransportRequest, error) {
	now := s.now()
	req, err := NewTransportRequest(in, owner, now)
	if err != nil {
		return nil, fmt.Errorf("invalid request: %w", err)
	}
	if err := req.Send(now); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	req.ID = s.nextID
	s.nextID++
	s.requests[req.ID] = req
	return req, nil
}

// Get returns the request with id if owner may see it.
func (s *RequestStore) Get(id int, owner string) (*TransportRequest, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	req, ok := s.requests[id]
	if !ok || req.Owner != owner {
		return nil, fmt.Errorf("%w: %d", ErrRequestNotFound, id)
	}
	cp := *req
	return &cp, nil
}

// List returns owner's requests, newest first.
func (s *RequestStore) List(owner string) []*TransportRequest {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*TransportRequest, 0, len(s.requests))
	for id := s.nextID - 1; id >= FirstRequestID; id-- {
		req, ok := s.requests[id]
		if !ok || req.Owner != owner {
			continue
		}
		cp := *req
		out = append(out, &cp)
	}
	return out
}

// Cancel withdraws owner's request id.
func (s *RequestStore) Cancel(id int, owner string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	req, ok := s.requests[id]
	if !ok || req.Owner != owner {
		return fmt.Errorf("%w: %d", ErrRequestNotFound, id)
	}
	return req.Cancel(s.now())
}

// Accounts holds registered users and their browser sessions.
type Accounts struct {
	mu        sync.RWMutex
	passwords map[string]string
	profiles  map[string]Registration
	sessions  map[string]string
}

// NewAccounts creates an account store that knows creds.
func NewAccounts(creds config.Credentials) *Accounts {
	a := &Accounts{
		passwords: make(map[string]string),
		profiles:  make(map[string]Registration),
		sessions:  make(map[string]string),
	}
	a.passwords[creds.Email] = creds.Password
	return a
}

// Register stores reg. Registering an email again replaces the profile.
func (a *Accounts) Register(reg Registration) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.profiles[reg.Email] = reg
}

// Profile returns the registration stored for email.
func (a *Accounts) Profile(email string) (Registration, bool) {
	a.mu.RLock()
	defer a.mu.RUnlock()
	reg, ok := a.profiles[email]
	return reg, ok
}

// Authenticate checks a login attempt.
func (a *Accounts) Authenticate(email, password string) error {
	a.mu.RLock()
	defer a.mu.RUnlock()
	want, ok := a.passwords[email]
	if !ok || want != password || password == "" {
		return ErrInvalidCredentials
	}
	return nil
}

// StartSession returns a new session token for email.
func (a *Accounts) StartSession(email string) string {
	token := uuid.NewString()
	a.mu.Lock()
	defer a.mu.Unlock()
	a.sessions[token] = email
	return token
}

// SessionUser resolves a session token.
func (a *Accounts) SessionUser(token string) (string, bool) {
	a.mu.RLock()
	defer a.mu.RUnlock()
	email, ok := a.sessions[token]
	return email, ok
}

// EndSession forgets token.
func (a *Accounts) EndSession(token string) {
	a.mu.Lock()
	defer a.mu.Unlock()
	delete(a.sessions, token)
}
