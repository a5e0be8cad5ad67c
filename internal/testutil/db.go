package testutil

import (
	"context"
	"database/sql"
	"fmt"
	"net/url"
	"os"
	"testing"

	"github.com/google/uuid"
	_ "github.com/jackc/pgx/v5/stdlib"
)

// DatabaseURLEnv names the DSN used by integration tests.
const DatabaseURLEnv = "TEST_DATABASE_URL"

// IsolatedDB is a throwaway schema with its own people table.
type IsolatedDB struct {
	// Admin is a regular handle for seeding and inspecting the store.
	Admin *sql.DB
	// DB resolves "people" to the isolated schema and retains no idle connections.
	DB *sql.DB
	// Schema is the schema created for this test.
	Schema string
	// AppName tags every backend opened through DB in pg_stat_activity.
	AppName string
}

// OpenIsolatedDB creates a fresh schema containing an empty people table.
// The test is skipped when TEST_DATABASE_URL is unset.
func OpenIsolatedDB(t *testing.T) *IsolatedDB {
	t.Helper()

	dsn := os.Getenv(DatabaseURLEnv)
	if dsn == "" {
		t.Skipf("%s not set; skipping integration test", DatabaseURLEnv)
	}

	admin, err := sql.Open("pgx", dsn)
	if err != nil {
		t.Fatalf("failed to open db: %v", err)
	}
	if err := admin.Ping(); err != nil {
		t.Fatalf("failed to ping db: %v. Make sure Postgres is running!", err)
	}
	t.Cleanup(func() { _ = admin.Close() })

	suffix := uuid.NewString()[:8]
	schema := "people_it_" + suffix
	appName := "peopleapi-it-" + suffix

	ctx := context.Background()
	if _, err := admin.ExecContext(ctx, fmt.Sprintf(`CREATE SCHEMA %q`, schema)); err != nil {
		t.Fatalf("failed to create schema: %v", err)
	}
	t.Cleanup(func() {
		_, _ = admin.ExecContext(context.Background(), fmt.Sprintf(`DROP SCHEMA %q CASCADE`, schema))
	})
	if _, err := admin.ExecContext(ctx, fmt.Sprintf(`CREATE TABLE %q.people (id TEXT PRIMARY KEY, name TEXT NOT NULL)`, schema)); err != nil {
		t.Fatalf("failed to create table: %v", err)
	}

	u, err := url.Parse(dsn)
	if err != nil {
		t.Fatalf("invalid %s: %v", DatabaseURLEnv, err)
	}
	q := u.Query()
	q.Set("search_path", schema)
	q.Set("application_name", appName)
	u.RawQuery = q.Encode()

	db, err := sql.Open("pgx", u.String())
	if err != nil {
		t.Fatalf("failed to open isolated db: %v", err)
	}
	db.SetMaxIdleConns(0)
	t.Cleanup(func() { _ = db.Close() })

	return &IsolatedDB{Admin: admin, DB: db, Schema: schema, AppName: appName}
}

// Seed inserts people into the isolated table.
func (d *IsolatedDB) Seed(t *testing.T, people map[string]string) {
	t.Helper()
	q := fmt.Sprintf(`INSERT INTO %q.people (id, name) VALUES ($1, $2)`, d.Schema)
	for id, name := range people {
		if _, err := d.Admin.ExecContext(context.Background(), q, id, name); err != nil {
			t.Fatalf("failed to seed person %s: %v", id, err)
		}
	}
}

// OpenBackends counts server backends opened through DB.
func (d *IsolatedDB) OpenBackends(ctx context.Context) (int, error) {
	var n int
	err := d.Admin.QueryRowContext(ctx,
		`SELECT count(*) FROM pg_stat_activity WHERE application_name = $1`, d.AppName).Scan(&n)
	return n, err
}
