// Package ledgertest gives integration tests a throwaway ledger schema.
package ledgertest

import (
	"context"
	"database/sql"
	"fmt"
	"math/rand/v2"
	"os"
	"testing"
	"time"

	_ "github.com/lib/pq"

	"github.com/transportqa/suite/internal/config"
	"github.com/transportqa/suite/internal/ledger"
)

// TestDatabase is an isolated schema inside the configured PostgreSQL database.
type TestDatabase struct {
	DB         *sql.DB
	SchemaName string
	masterDB   *sql.DB
}

// Setup creates a fresh schema, migrates it and drops it when t finishes.
// The POSTGRES_* variables default to a local postgres/postgres instance.
func Setup(t *testing.T) *TestDatabase {
	t.Helper()

	pg, err := config.LoadPostgresConfig(func(key string) string {
		defaults := map[string]string{
			config.EnvPostgresUser:     "postgres",
			config.EnvPostgresPassword: "postgres",
			config.EnvPostgresDB:       "postgres",
			config.EnvPostgresHostname: "localhost",
		}
		if v := os.Getenv(key); v != "" {
			return v
		}
		return defaults[key]
	})
	if err != nil {
		t.Fatalf("Failed to load postgres config: %v", err)
	}

	ctx := context.Background()
	masterDB, err := ledger.Open(ctx, pg)
	if err != nil {
		t.Fatalf("Failed to connect to master database: %v", err)
	}

	schemaName := fmt.Sprintf("ledger_test_%d_%d", time.Now().UnixNano(), rand.IntN(10000))
	if _, err := masterDB.ExecContext(ctx, "CREATE SCHEMA "+schemaName); err != nil {
		masterDB.Close()
		t.Fatalf("Failed to create test schema: %v", err)
	}

	testDB, err := sql.Open("postgres", pg.ConnectionString()+" search_path="+schemaName)
	if err == nil {
		err = testDB.PingContext(ctx)
	}
	if err != nil {
		masterDB.Exec("DROP SCHEMA " + schemaName + " CASCADE")
		masterDB.Close()
		t.Fatalf("Failed to connect to test schema: %v", err)
	}

	td := &TestDatabase{DB: testDB, SchemaName: schemaName, masterDB: masterDB}
	t.Cleanup(func() { td.teardown(t) })

	if err := ledger.Migrate(ctx, testDB); err != nil {
		t.Fatalf("Failed to run migrations: %v", err)
	}
	return td
}

func (td *TestDatabase) teardown(t *testing.T) {
	td.DB.Close()
	if _, err := td.masterDB.Exec("DROP SCHEMA IF EXISTS " + td.SchemaName + " CASCADE"); err != nil {
		t.Logf("Warning: Failed to drop test schema %s: %v", td.SchemaName, err)
	}
	td.masterDB.Close()
}
