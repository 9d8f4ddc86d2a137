package db

import (
	"strings"
	"testing"
)

func TestDSN(t *testing.T) {
	got := dsn("data.db")
	if !strings.HasPrefix(got, "data.db?_pragma=journal_mode(WAL)&") {
		t.Errorf("dsn = %q", got)
	}
	if got := dsn("file:x.db?mode=rwc"); !strings.HasPrefix(got, "file:x.db?mode=rwc&_pragma=") {
		t.Errorf("dsn with query = %q", got)
	}
}

func TestForeignKeysEnforced(t *testing.T) {
	db := NewTestDB(t)

	_, err := db.Exec(`INSERT INTO departure_ports (code, name, destination_code) VALUES ('MIA', 'Miami', 'NOPE')`)
	if err == nil {
		t.Fatal("expected foreign key violation")
	}
}

func TestEnsureSchemaIdempotent(t *testing.T) {
	db := NewTestDB(t)
	if err := EnsureSchema(db); err != nil {
		t.Fatalf("second EnsureSchema: %v", err)
	}
}

func TestPragmasApplied(t *testing.T) {
	db := NewTestDB(t)

	var mode string
	if err := db.QueryRow(`PRAGMA journal_mode`).Scan(&mode); err != nil {
		t.Fatal(err)
	}
	if mode != "wal" {
		t.Errorf("journal_mode = %q, want wal", mode)
	}
	var fk int
	if err := db.QueryRow(`PRAGMA foreign_keys`).Scan(&fk); err != nil {
		t.Fatal(err)
	}
	if fk != 1 {
		t.Errorf("foreign_keys = %d, want 1", fk)
	}
}
