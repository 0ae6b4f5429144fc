package db

import (
	"database/sql"
	"testing"
)

// NewTestDB opens a private in-memory database with the full schema applied.
// Every test gets its own database; Cleanup closes it when the test ends.
func NewTestDB(t *testing.T) *sql.DB {
	t.Helper()

	database, err := Open(":memory:")
	if err != nil {
		t.Fatalf("opening in-memory database: %v", err)
	}
	t.Cleanup(func() { database.Close() })

	if err := EnsureSchema(database); err != nil {
		t.Fatalf("applying schema: %v", err)
	}

	return database
}
