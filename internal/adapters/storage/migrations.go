package storage

import (
	"database/sql"
	"fmt"
	"log/slog"
)

// A migration moves the schema from version-1 to version.
type migration struct {
	version int
	apply   func(db *sql.DB) error
}

// migrations is the ordered chain. Never edit an entry after it has shipped;
// append a new one instead.
var migrations = []migration{
	{version: 1, apply: InitDB},
}

// LatestSchemaVersion returns the version the chain migrates to.
func LatestSchemaVersion() int {
	return migrations[len(migrations)-1].version
}

// SchemaVersion reports the current schema version, 0 for an untracked database.
// PRE: db is a valid database connection
// POST: Returns the recorded version without modifying the database
func SchemaVersion(db *sql.DB) (int, error) {
	var exists int
	err := db.QueryRow(
		"SELECT COUNT(*) FROM sqlite_master WHERE type='table' AND name='schema_version'").Scan(&exists)
	if err != nil {
		return 0, fmt.Errorf("failed to check schema_version table: %w", err)
	}
	if exists == 0 {
		return 0, nil
	}

	var version int
	err = db.QueryRow("SELECT COALESCE(MAX(version), 0) FROM schema_version").Scan(&version)
	if err != nil {
		return 0, fmt.Errorf("failed to read schema version: %w", err)
	}
	return version, nil
}

// MigrateDB brings the database up to the latest schema version. The dbPath is
// only used for logging.
// PRE: db is a valid database connection
// POST: Schema is at LatestSchemaVersion(); already-applied migrations are skipped
func MigrateDB(db *sql.DB, dbPath string) error {
	if _, err := db.Exec(`CREATE TABLE IF NOT EXISTS schema_version (
		version INTEGER PRIMARY KEY,
		applied_at TEXT NOT NULL DEFAULT (strftime('%Y-%m-%dT%H:%M:%SZ', 'now'))
	)`); err != nil {
		return fmt.Errorf("failed to create schema_version table: %w", err)
	}

	current, err := SchemaVersion(db)
	if err != nil {
		return err
	}

	for _, m := range migrations {
		if m.version <= current {
			continue
		}
		if err := m.apply(db); err != nil {
			return fmt.Errorf("migration %d failed: %w", m.version, err)
		}
		if _, err := db.Exec("INSERT INTO schema_version (version) VALUES (?)", m.version); err != nil {
			return fmt.Errorf("failed to record migration %d: %w", m.version, err)
		}
		slog.Info("migration_applied", "version", m.version, "db", dbPath)
	}
	return nil
}
