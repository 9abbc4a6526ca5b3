package postgresql_test

import (
	"context"
	"os"
	"testing"

	"github.com/crewcall/crewcall-backend-go/internal/pkg/database"
)

// Repository integration tests. They run against a disposable database whose
// schema is already applied and are skipped when TEST_DATABASE_URL is not set.

var testTables = []string{
	"shift_assignments",
	"scheduled_shifts",
	"shift_records",
	"refresh_tokens",
	"audit_trails",
	"employees",
}

func newTestDB(t *testing.T) *database.DB {
	t.Helper()

	dsn := os.Getenv("TEST_DATABASE_URL")
	if dsn == "" {
		t.Skip("TEST_DATABASE_URL is not set")
	}

	db, err := database.NewPostgreSQLDB(context.Background(), dsn)
	if err != nil {
		t.Fatalf("failed to connect to test database: %v", err)
	}
	t.Cleanup(db.Close)

	truncateAllTables(t, db)
	return db
}

func truncateAllTables(t *testing.T, db *database.DB) {
	t.Helper()

	ctx := context.Background()
	for _, table := range testTables {
		if _, err := db.Exec(ctx, "TRUNCATE TABLE "+table+" CASCADE"); err != nil {
			t.Fatalf("failed to truncate table %s: %v", table, err)
		}
	}
}
