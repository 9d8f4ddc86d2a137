package db

import (
	"database/sql"
	"path/filepath"
	"testing"
)

// NewTestDB opens a schema-ready database in the test's temp dir. A file
// database keeps the WAL pragmas and lets the pool serve concurrent requests
// the way a deployed backend does.
func NewTestDB(t *testing.T) *sql.DB {
	t.Helper()

	db, err := Open(filepath.Join(t.TempDir(), "cruisedesk.sqlite3"))
	if err != nil {
		t.Fatalf("opening test database: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	if err := EnsureSchema(db); err != nil {
		t.Fatalf("creating test database schema: %v", err)
	}
	return db
}
