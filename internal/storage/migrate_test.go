package storage

import (
	"database/sql"
	"path/filepath"
	"testing"
)

func openBareDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := sql.Open("sqlite3", filepath.Join(t.TempDir(), "noted-migrate.db"))
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = db.Close() })
	return db
}

func TestMigrateUpRecordsVersions(t *testing.T) {
	db := openBareDB(t)
	if err := MigrateUp(db); err != nil {
		t.Fatalf("migrate up: %v", err)
	}

	var count int
	if err := db.QueryRow(`SELECT COUNT(*) FROM schema_migrations`).Scan(&count); err != nil {
		t.Fatalf("read ledger: %v", err)
	}
	if count != 2 {
		t.Fatalf("expected 2 recorded versions, got %d", count)
	}
	if _, err := db.Exec(`SELECT COUNT(*) FROM notes`); err != nil {
		t.Fatalf("notes table missing after migrate up: %v", err)
	}
	if _, err := db.Exec(`SELECT COUNT(*) FROM events`); err != nil {
		t.Fatalf("events table missing after migrate up: %v", err)
	}
}

func TestMigrateUpIsIdempotent(t *testing.T) {
	db := openBareDB(t)
	if err := MigrateUp(db); err != nil {
		t.Fatalf("first migrate up: %v", err)
	}
	if _, err := db.Exec(`INSERT INTO notes (id, title, body, is_receipt, created_at, updated_at)
		VALUES ('n1', 'Kept', '', 0, '2026-02-10T12:00:00.000000000Z', '2026-02-10T12:00:00.000000000Z')`); err != nil {
		t.Fatalf("seed note: %v", err)
	}

	// Applied versions are skipped, so existing rows survive the rerun.
	if err := MigrateUp(db); err != nil {
		t.Fatalf("second migrate up: %v", err)
	}
	var count int
	if err := db.QueryRow(`SELECT COUNT(*) FROM notes`).Scan(&count); err != nil {
		t.Fatalf("count notes: %v", err)
	}
	if count != 1 {
		t.Fatalf("expected seeded note to survive rerun, got %d rows", count)
	}
}

func TestMigrateDownClearsLedger(t *testing.T) {
	db := openBareDB(t)
	if err := MigrateUp(db); err != nil {
		t.Fatalf("migrate up: %v", err)
	}
	if err := MigrateDown(db); err != nil {
		t.Fatalf("migrate down: %v", err)
	}

	var count int
	if err := db.QueryRow(`SELECT COUNT(*) FROM schema_migrations`).Scan(&count); err != nil {
		t.Fatalf("read ledger: %v", err)
	}
	if count != 0 {
		t.Fatalf("expected empty ledger after migrate down, got %d", count)
	}
}
