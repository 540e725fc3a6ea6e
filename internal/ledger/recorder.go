package ledger

import (
	"context"
	"log"

	"github.com/transportqa/suite/internal/datetime"
)

// Recorder notes what a scenario run leaves behind.
type Recorder interface {
	RecordRequest(ctx context.Context, scenario, requestID string, pickupEarliest, deliveryLatest datetime.Timestamp) error
	Finish(ctx context.Context, failed bool) error
}

// NopRecorder is used when no ledger database is configured.
type NopRecorder struct{}

func (NopRecorder) RecordRequest(context.Context, string, string, datetime.Timestamp, datetime.Timestamp) error {
	return nil
}

func (NopRecorder) Finish(context.Context, bool) error { return nil }

// RunRecorder writes into one run of the ledger.
type RunRecorder struct {
	repo *Repository
	run  *Run
}

// StartRecorder opens a new run against baseURL.
func StartRecorder(ctx context.Context, repo *Repository, baseURL string) (*RunRecorder, error) {
	run, err := repo.StartRun(ctx, baseURL)
	if err != nil {
		return nil, err
	}
	log.Printf("[ledger] Started run %s against %s", run.ID, baseURL)
	return &RunRecorder{repo: repo, run: run}, nil
}

// Run returns the run being recorded.
func (r *RunRecorder) Run() *Run {
	return r.run
}

func (r *RunRecorder) RecordRequest(ctx context.Context, scenario, requestID string, pickupEarliest, deliveryLatest datetime.Timestamp) error {
	return r.repo.RecordRequest(ctx, CreatedRequest{
		RunID:          r.run.ID,
		RequestID:      requestID,
		Scenario:       scenario,
		PickupEarliest: pickupEarliest,
		DeliveryLatest: deliveryLatest,
	})
}

func (r *RunRecorder) Finish(ctx context.Context, failed bool) error {
	status := RunStatusPassed
	if failed {
		status = RunStatusFailed
	}
	if err := r.repo.FinishRun(ctx, r.run.ID, status); err != nil {
		return err
	}
	log.Printf("[ledger] Run %s %s", r.run.ID, status)
	return nil
}
