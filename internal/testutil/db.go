//go:build integration

package testutil

import (
	"context"
	"os"
	"testing"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	pgdb "github.com/alanyang/support-router/internal/adapter/postgres"
)

// SetupTestDB connects to the test database and applies the migrations.
// It skips the test if TEST_DATABASE_URL is not set.
// Each call uses the same DB, so callers isolate by a unique tenant id.
func SetupTestDB(t *testing.T) *pgxpool.Pool {
	t.Helper()
	url := os.Getenv("TEST_DATABASE_URL")
	if url == "" {
		t.Skip("TEST_DATABASE_URL not set, skipping integration test")
	}

	ctx := context.Background()
	pool, err := pgdb.Connect(ctx, url)
	if err != nil {
		t.Fatalf("connect to test DB: %v", err)
	}
	if _, err := pgdb.Migrate(ctx, pool); err != nil {
		// Parallel test packages may race to apply the same file; log and continue.
		t.Logf("migrate test DB: %v (may already be applied)", err)
	}

	t.Cleanup(func() { pool.Close() })
	return pool
}

// TenantID returns a tenant id unique to this test run.
func TenantID(t *testing.T) string {
	t.Helper()
	return "t-" + uuid.NewString()[:8]
}
