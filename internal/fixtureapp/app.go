// Package fixtureapp is a small in-process shipper portal with the same
// screens, labels and quirks as the production application, so the browser
// scenarios can run without network access or real accounts.
package fixtureapp

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"log"
	"net/http"
	"slices"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/transportqa/suite/internal/config"
)

//go:embed templates/*.html
var templateFS embed.FS

// SessionCookie carries the signed-in user's session token.
const SessionCookie = "tqa_session"

// Carrier is a transport company a request can be sent to.
type Carrier struct {
	ID   string
	Name string
}

// DefaultCarriers are offered on the Carriers tab.
var DefaultCarriers = []Carrier{
	{ID: config.DefaultCarrierID, Name: "Demo Carrier s.r.o."},
	{ID: "6801", Name: "Tatra Freight a.s."},
	{ID: "7012", Name: "Morava Logistics"},
}

// DefaultCountries populate both country pickers.
var DefaultCountries = []string{"Slovakia", "Czechia", "Austria", "Hungary", "Poland", "Germany"}

// Options configure an App.
type Options struct {
	// Credentials of the pre-seeded shipper. Zero means DemoCredentials.
	Credentials config.Credentials
	Carriers    []Carrier
	Countries   []string
	Now         func() time.Time
}

// OptionsFromConfig seeds the app with cfg's credentials and makes sure the
// configured countries and carrier are selectable.
func OptionsFromConfig(cfg *config.Config) Options {
	opts := Options{
		Credentials: cfg.Credentials,
		Carriers:    slices.Clone(DefaultCarriers),
		Countries:   slices.Clone(DefaultCountries),
	}
	for _, c := range []string{cfg.Locations.Pickup.Country, cfg.Locations.Delivery.Country} {
		if c != "" && !slices.Contains(opts.Countries, c) {
			opts.Countries = append(opts.Countries, c)
		}
	}
	known := slices.ContainsFunc(opts.Carriers, func(c Carrier) bool { return c.ID == cfg.CarrierID })
	if cfg.CarrierID != "" && !known {
		opts.Carriers = append(opts.Carriers, Carrier{ID: cfg.CarrierID, Name: "Carrier " + cfg.CarrierID})
	}
	return opts
}

// App serves the fixture portal.
type App struct {
	accounts  *Accounts
	requests  *RequestStore
	validate  *validator.Validate
	pages     map[string]*template.Template
	carriers  []Carrier
	countries []string
	mux       *http.ServeMux
}

// New builds the app and parses its templates.
func New(opts Options) (*App, error) {
	creds := opts.Credentials
	if creds.Email == "" || creds.Password == "" {
		creds = DemoCredentials
	}
	if len(opts.Carriers) == 0 {
		opts.Carriers = DefaultCarriers
	}
	if len(opts.Countries) == 0 {
		opts.Countries = DefaultCountries
	}

	a := &App{
		accounts:  NewAccounts(creds),
		requests:  NewRequestStore(opts.Now),
		validate:  newValidator(),
		pages:     make(map[string]*template.Template),
		carriers:  opts.Carriers,
		countries: opts.Countries,
		mux:       http.NewServeMux(),
	}

	funcs := template.FuncMap{
		"contains": func(values []string, v string) bool { return slices.Contains(values, v) },
	}
	for _, page := range []string{"register.html", "login.html", "list.html", "new.html", "view.html"} {
		tmpl, err := template.New("layout.html").Funcs(funcs).ParseFS(templateFS, "templates/layout.html", "templates/"+page)
		if err != nil {
			return nil, fmt.Errorf("failed to parse template %s: %w", page, err)
		}
		a.pages[page] = tmpl
	}

	a.routes()
	return a, nil
}

func (a *App) routes() {
	a.mux.HandleFunc("GET /{$}", func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, "/register", http.StatusSeeOther)
	})
	a.mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("ok"))
	})
	a.mux.HandleFunc("GET /register", a.showRegister)
	a.mux.HandleFunc("POST /register", a.register)
	a.mux.HandleFunc("GET /login", a.showLogin)
	a.mux.HandleFunc("POST /login", a.login)
	a.mux.HandleFunc("POST /logout", a.logout)
	a.mux.HandleFunc("GET /request/list", a.requireUser(a.listRequests))
	a.mux.HandleFunc("GET /request/new", a.requireUser(a.showNewRequest))
	a.mux.HandleFunc("POST /request/new", a.requireUser(a.createRequest))
	a.mux.HandleFunc("GET /request/view/{id}", a.requireUser(a.viewRequest))
	a.mux.HandleFunc("POST /request/view/{id}/cancel", a.requireUser(a.cancelRequest))
}

// ServeHTTP implements http.Handler.
func (a *App) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	a.mux.ServeHTTP(w, r)
}

// Requests exposes the request store.
func (a *App) Requests() *RequestStore {
	return a.requests
}

type pageData struct {
	Title     string
	User      string
	Profile   Registration
	Form      Registration
	Errors    FieldErrors
	Email     string
	Error     string
	Requests  []*TransportRequest
	Request   *TransportRequest
	Input     RequestInput
	Carriers  []Carrier
	Countries []string
}

func (a *App) render(w http.ResponseWriter, status int, page string, data pageData) {
	var buf bytes.Buffer
	if err := a.pages[page].ExecuteTemplate(&buf, "layout", data); err != nil {
		log.Printf("[fixtureapp] Error rendering %s: %v", page, err)
		http.Error(w, "Failed to render page", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	buf.WriteTo(w)
}

type userHandler func(w http.ResponseWriter, r *http.Request, user string)

// requireUser redirects anonymous visitors to the login page.
func (a *App) requireUser(next userHandler) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		c, err := r.Cookie(SessionCookie)
		if err != nil {
			http.Redirect(w, r, "/login", http.StatusSeeOther)
			return
		}
		user, ok := a.accounts.SessionUser(c.Value)
		if !ok {
			http.Redirect(w, r, "/login", http.StatusSeeOther)
			return
		}
		next(w, r, user)
	}
}

func (a *App) signIn(w http.ResponseWriter, r *http.Request, email string) {
	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookie,
		Value:    a.accounts.StartSession(email),
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	http.Redirect(w, r, "/request/list", http.StatusSeeOther)
}
