package ledger

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/transportqa/suite/internal/datetime"
)

// RunStatus is the outcome of a suite run.
type RunStatus string

// Run statuses
const (
	RunStatusRunning RunStatus = "running"
	RunStatusPassed  RunStatus = "passed"
	RunStatusFailed  RunStatus = "failed"
)

var (
	ErrRunNotFound   = errors.New("run not found")
	ErrRunFinished   = errors.New("run already finished")
	ErrInvalidStatus = errors.New("invalid run status")
)

// Run is one execution of the scenario suite.
type Run struct {
	ID         uuid.UUID
	BaseURL    string
	Status     RunStatus
	StartedAt  time.Time
	FinishedAt sql.NullTime
}

// CreatedRequest is a transport request a scenario left in the application.
type CreatedRequest struct {
	RunID          uuid.UUID
	RequestID      string
	Scenario       string
	PickupEarliest datetime.Timestamp
	DeliveryLatest datetime.Timestamp
	CreatedAt      time.Time
}

// Repository reads and writes the ledger tables.
type Repository struct {
	db  *sql.DB
	now func() time.Time
}

// NewRepository creates a repository over db.
func NewRepository(db *sql.DB) *Repository {
	return &Repository{db: db, now: time.Now}
}

// StartRun inserts a running run against baseURL.
func (r *Repository) StartRun(ctx context.Context, baseURL string) (*Run, error) {
	run := &Run{
		ID:        uuid.New(),
		BaseURL:   baseURL,
		Status:    RunStatusRunning,
		StartedAt: r.now().UTC(),
	}

	_, err := r.db.ExecContext(ctx,
		`INSERT INTO runs (id, base_url, status, started_at) VALUES ($1, $2, $3, $4)`,
		run.ID, run.BaseURL, run.Status, run.StartedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to start run: %w", err)
	}
	return run, nil
}

// FinishRun stores the outcome of a running run.
func (r *Repository) FinishRun(ctx context.Context, id uuid.UUID, status RunStatus) error {
	if status != RunStatusPassed && status != RunStatusFailed {
		return fmt.Errorf("%w: %s", ErrInvalidStatus, status)
	}

	result, err := r.db.ExecContext(ctx,
		`UPDATE runs SET status = $1, finished_at = $2 WHERE id = $3 AND status = $4`,
		status, r.now().UTC(), id, RunStatusRunning,
	)
	if err != nil {
		return fmt.Errorf("failed to finish run: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		if _, err := r.GetRun(ctx, id); err != nil {
			return err
		}
		return fmt.Errorf("%w: %s", ErrRunFinished, id)
	}
	return nil
}

// GetRun loads a run by ID.
func (r *Repository) GetRun(ctx context.Context, id uuid.UUID) (*Run, error) {
	run := &Run{}
	err := r.db.QueryRowContext(ctx,
		`SELECT id, base_url, status, started_at, finished_at FROM runs WHERE id = $1`, id,
	).Scan(&run.ID, &run.BaseURL, &run.Status, &run.StartedAt, &run.FinishedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", ErrRunNotFound, id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get run: %w", err)
	}
	return run, nil
}

// ListRuns returns the latest runs, newest first.
func (r *Repository) ListRuns(ctx context.Context, limit int) ([]Run, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, base_url, status, started_at, finished_at FROM runs ORDER BY started_at DESC LIMIT $1`, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list runs: %w", err)
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		var run Run
		if err := rows.Scan(&run.ID, &run.BaseURL, &run.Status, &run.StartedAt, &run.FinishedAt); err != nil {
			return nil, fmt.Errorf("failed to scan run: %w", err)
		}
		runs = append(runs, run)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to list runs: %w", err)
	}
	return runs, nil
}

// RecordRequest stores a request created during a run. Recording the same
// request twice is a no-op.
func (r *Repository) RecordRequest(ctx context.Context, req CreatedRequest) error {
	if req.CreatedAt.IsZero() {
		req.CreatedAt = r.now().UTC()
	}
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO created_requests (run_id, request_id, scenario, pickup_earliest, delivery_latest, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6)
		 ON CONFLICT (run_id, request_id) DO NOTHING`,
		req.RunID, req.RequestID, req.Scenario, req.PickupEarliest.String(), req.DeliveryLatest.String(), req.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to record request %s: %w", req.RequestID, err)
	}
	return nil
}

// RequestsForRun lists the requests a run created, oldest first.
func (r *Repository) RequestsForRun(ctx context.Context, runID uuid.UUID) ([]CreatedRequest, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT run_id, request_id, scenario, pickup_earliest, delivery_latest, created_at
		 FROM created_requests WHERE run_id = $1 ORDER BY created_at, request_id`, runID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list requests: %w", err)
	}
	defer rows.Close()

	var out []CreatedRequest
	for rows.Next() {
		var req CreatedRequest
		var earliest, latest string
		if err := rows.Scan(&req.RunID, &req.RequestID, &req.Scenario, &earliest, &latest, &req.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan request: %w", err)
		}
		if req.PickupEarliest, err = datetime.Parse(earliest); err != nil {
			return nil, fmt.Errorf("request %s: %w", req.RequestID, err)
		}
		if req.DeliveryLatest, err = datetime.Parse(latest); err != nil {
			return nil, fmt.Errorf("request %s: %w", req.RequestID, err)
		}
		out = append(out, req)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to list requests: %w", err)
	}
	return out, nil
}
