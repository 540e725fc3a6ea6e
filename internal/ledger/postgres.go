// Package ledger records suite runs and the transport requests they create
// in PostgreSQL, so data left behind on a shared environment can be traced
// back to the run that made it.
package ledger

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"time"

	_ "github.com/lib/pq"

	"github.com/transportqa/suite/internal/config"
)

// Open connects to the ledger database and verifies the connection.
func Open(ctx context.Context, pg *config.PostgresConfig) (*sql.DB, error) {
	db, err := sql.Open("postgres", pg.ConnectionString())
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// Scenarios write a handful of rows; keep the pool small.
	db.SetMaxOpenConns(5)
	db.SetMaxIdleConns(2)
	db.SetConnMaxLifetime(5 * time.Minute)

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database %s on %s: %w", pg.Database, pg.Host, err)
	}
	return db, nil
}

const schema = `
CREATE TABLE IF NOT EXISTS runs (
	id UUID PRIMARY KEY,
	base_url TEXT NOT NULL,
	status VARCHAR(20) NOT NULL,
	started_at TIMESTAMPTZ NOT NULL,
	finished_at TIMESTAMPTZ
);

CREATE TABLE IF NOT EXISTS created_requests (
	run_id UUID NOT NULL REFERENCES runs(id) ON DELETE CASCADE,
	request_id VARCHAR(64) NOT NULL,
	scenario TEXT NOT NULL,
	pickup_earliest VARCHAR(16) NOT NULL,
	delivery_latest VARCHAR(16) NOT NULL,
	created_at TIMESTAMPTZ NOT NULL DEFAULT CURRENT_TIMESTAMP,
	PRIMARY KEY (run_id, request_id)
);

CREATE INDEX IF NOT EXISTS idx_runs_started_at ON runs(started_at DESC);
`

// Migrate creates the ledger tables if they do not exist.
func Migrate(ctx context.Context, db *sql.DB) error {
	if db == nil {
		return fmt.Errorf("database connection not initialized")
	}
	if _, err := db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("failed to create ledger tables: %w", err)
	}
	log.Println("[ledger] Migrations completed")
	return nil
}
