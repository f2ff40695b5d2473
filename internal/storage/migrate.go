package storage

import (
	"database/sql"
	"embed"
	"fmt"
	"io/fs"
	"sort"
	"strings"
	"time"
)

//go:embed migrations/*.sql
var migrationFiles embed.FS

const migrationLedger = `
CREATE TABLE IF NOT EXISTS schema_migrations (
	version    TEXT PRIMARY KEY,
	applied_at TEXT NOT NULL
)`

// MigrateUp brings the database to the latest schema version. Applied
// versions are recorded in schema_migrations, so rerunning is a no-op.
func MigrateUp(db *sql.DB) error {
	applied, err := appliedVersions(db)
	if err != nil {
		return err
	}
	versions, err := migrationVersions()
	if err != nil {
		return err
	}
	for _, version := range versions {
		if applied[version] {
			continue
		}
		if err := applyMigration(db, version); err != nil {
			return err
		}
	}
	return nil
}

// MigrateDown rolls back every applied migration, newest first.
func MigrateDown(db *sql.DB) error {
	applied, err := appliedVersions(db)
	if err != nil {
		return err
	}
	versions, err := migrationVersions()
	if err != nil {
		return err
	}
	for i := len(versions) - 1; i >= 0; i-- {
		if !applied[versions[i]] {
			continue
		}
		if err := revertMigration(db, versions[i]); err != nil {
			return err
		}
	}
	return nil
}

func appliedVersions(db *sql.DB) (map[string]bool, error) {
	if _, err := db.Exec(migrationLedger); err != nil {
		return nil, fmt.Errorf("storage: create migration ledger: %w", err)
	}
	rows, err := db.Query(`SELECT version FROM schema_migrations`)
	if err != nil {
		return nil, fmt.Errorf("storage: read migration ledger: %w", err)
	}
	defer rows.Close()

	applied := make(map[string]bool)
	for rows.Next() {
		var version string
		if err := rows.Scan(&version); err != nil {
			return nil, fmt.Errorf("storage: read migration ledger: %w", err)
		}
		applied[version] = true
	}
	return applied, rows.Err()
}

// migrationVersions lists the embedded migration names; the numeric
// filename prefix gives the apply order.
func migrationVersions() ([]string, error) {
	entries, err := fs.Glob(migrationFiles, "migrations/*.up.sql")
	if err != nil {
		return nil, fmt.Errorf("storage: list migrations: %w", err)
	}
	versions := make([]string, 0, len(entries))
	for _, name := range entries {
		version := strings.TrimSuffix(strings.TrimPrefix(name, "migrations/"), ".up.sql")
		versions = append(versions, version)
	}
	sort.Strings(versions)
	return versions, nil
}

func applyMigration(db *sql.DB, version string) error {
	if err := execMigrationFile(db, version+".up.sql"); err != nil {
		return fmt.Errorf("storage: apply migration %s: %w", version, err)
	}
	_, err := db.Exec(`INSERT INTO schema_migrations (version, applied_at) VALUES (?, ?)`,
		version, time.Now().UTC().Format(time.RFC3339))
	if err != nil {
		return fmt.Errorf("storage: record migration %s: %w", version, err)
	}
	return nil
}

func revertMigration(db *sql.DB, version string) error {
	if err := execMigrationFile(db, version+".down.sql"); err != nil {
		return fmt.Errorf("storage: revert migration %s: %w", version, err)
	}
	if _, err := db.Exec(`DELETE FROM schema_migrations WHERE version = ?`, version); err != nil {
		return fmt.Errorf("storage: unrecord migration %s: %w", version, err)
	}
	return nil
}

func execMigrationFile(db *sql.DB, name string) error {
	raw, err := migrationFiles.ReadFile("migrations/" + name)
	if err != nil {
		return err
	}
	_, err = db.Exec(string(raw))
	return err
}
