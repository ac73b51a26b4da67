package storage

import (
	"database/sql"
	"fmt"
)

// InitDB initializes the database schema.
// PRE: db is a valid database connection
// POST: All tables are created, WAL mode enabled
func InitDB(db *sql.DB) error {
	// Enable WAL mode for better concurrency
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		return fmt.Errorf("failed to enable WAL mode: %w", err)
	}
	// Enable foreign key enforcement
	if _, err := db.Exec("PRAGMA foreign_keys=ON"); err != nil {
		return fmt.Errorf("failed to enable foreign keys: %w", err)
	}

	// Create tables
	schema := `
	CREATE TABLE IF NOT EXISTS account (
		id TEXT PRIMARY KEY,
		email TEXT NOT NULL UNIQUE,
		name TEXT NOT NULL,
		password_hash TEXT NOT NULL DEFAULT '',
		role TEXT NOT NULL,
		is_active INTEGER NOT NULL DEFAULT 1,
		created_at TEXT NOT NULL,
		failed_logins INTEGER NOT NULL DEFAULT 0,
		locked_until TEXT
	);

	CREATE TABLE IF NOT EXISTS coach_detail (
		id TEXT PRIMARY KEY,
		account_id TEXT NOT NULL UNIQUE,
		qualification TEXT NOT NULL DEFAULT '',
		contact_number TEXT NOT NULL DEFAULT '',
		emergency_contact_name TEXT NOT NULL DEFAULT '',
		emergency_contact_number TEXT NOT NULL DEFAULT '',
		coaching_expiry TEXT,
		dbs_number TEXT NOT NULL DEFAULT '',
		dbs_expiry TEXT,
		first_aid_expiry TEXT,
		safeguarding_expiry TEXT,
		created_at TEXT NOT NULL,
		updated_at TEXT,
		FOREIGN KEY (account_id) REFERENCES account(id)
	);

	CREATE TABLE IF NOT EXISTS student (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		date_of_birth TEXT,
		contact_email TEXT NOT NULL DEFAULT '',
		created_at TEXT NOT NULL
	);

	CREATE TABLE IF NOT EXISTS tennis_group (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL UNIQUE,
		description TEXT NOT NULL DEFAULT '',
		created_at TEXT NOT NULL
	);

	CREATE TABLE IF NOT EXISTS group_session (
		id TEXT PRIMARY KEY,
		group_id TEXT NOT NULL,
		day_of_week INTEGER NOT NULL,
		start_time TEXT NOT NULL,
		end_time TEXT NOT NULL,
		created_at TEXT NOT NULL,
		FOREIGN KEY (group_id) REFERENCES tennis_group(id)
	);

	CREATE TABLE IF NOT EXISTS teaching_period (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		start_date TEXT NOT NULL,
		end_date TEXT NOT NULL,
		is_active INTEGER NOT NULL DEFAULT 1,
		created_at TEXT NOT NULL
	);

	CREATE TABLE IF NOT EXISTS player (
		id TEXT PRIMARY KEY,
		student_id TEXT NOT NULL,
		group_id TEXT NOT NULL,
		session_id TEXT,
		period_id TEXT NOT NULL,
		coach_id TEXT NOT NULL,
		created_at TEXT NOT NULL,
		UNIQUE (student_id, period_id),
		FOREIGN KEY (student_id) REFERENCES student(id),
		FOREIGN KEY (group_id) REFERENCES tennis_group(id),
		FOREIGN KEY (session_id) REFERENCES group_session(id),
		FOREIGN KEY (period_id) REFERENCES teaching_period(id),
		FOREIGN KEY (coach_id) REFERENCES account(id)
	);

	CREATE TABLE IF NOT EXISTS report_template (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		description TEXT NOT NULL DEFAULT '',
		created_by TEXT NOT NULL,
		is_active INTEGER NOT NULL DEFAULT 1,
		created_at TEXT NOT NULL,
		updated_at TEXT,
		FOREIGN KEY (created_by) REFERENCES account(id)
	);

	CREATE TABLE IF NOT EXISTS template_section (
		id TEXT PRIMARY KEY,
		template_id TEXT NOT NULL,
		name TEXT NOT NULL,
		sort_order INTEGER NOT NULL DEFAULT 0,
		FOREIGN KEY (template_id) REFERENCES report_template(id)
	);

	CREATE TABLE IF NOT EXISTS template_field (
		id TEXT PRIMARY KEY,
		section_id TEXT NOT NULL,
		name TEXT NOT NULL,
		description TEXT NOT NULL DEFAULT '',
		field_type TEXT NOT NULL,
		is_required INTEGER NOT NULL DEFAULT 0,
		sort_order INTEGER NOT NULL DEFAULT 0,
		options TEXT,
		FOREIGN KEY (section_id) REFERENCES template_section(id)
	);

	CREATE TABLE IF NOT EXISTS group_template (
		id TEXT PRIMARY KEY,
		group_id TEXT NOT NULL,
		template_id TEXT NOT NULL,
		is_active INTEGER NOT NULL DEFAULT 1,
		created_at TEXT NOT NULL,
		UNIQUE (group_id, template_id),
		FOREIGN KEY (group_id) REFERENCES tennis_group(id),
		FOREIGN KEY (template_id) REFERENCES report_template(id)
	);

	CREATE TABLE IF NOT EXISTS report (
		id TEXT PRIMARY KEY,
		player_id TEXT NOT NULL,
		template_id TEXT NOT NULL,
		coach_id TEXT NOT NULL,
		content TEXT NOT NULL,
		recommended_group_id TEXT,
		is_draft INTEGER NOT NULL DEFAULT 0,
		email_sent INTEGER NOT NULL DEFAULT 0,
		email_sent_at TEXT,
		created_at TEXT NOT NULL,
		updated_at TEXT,
		UNIQUE (player_id, template_id),
		FOREIGN KEY (player_id) REFERENCES player(id),
		FOREIGN KEY (template_id) REFERENCES report_template(id),
		FOREIGN KEY (coach_id) REFERENCES account(id),
		FOREIGN KEY (recommended_group_id) REFERENCES tennis_group(id)
	);

	CREATE INDEX IF NOT EXISTS idx_player_period ON player(period_id);
	CREATE INDEX IF NOT EXISTS idx_player_coach ON player(coach_id, period_id);
	CREATE INDEX IF NOT EXISTS idx_report_player ON report(player_id);
	CREATE INDEX IF NOT EXISTS idx_template_section_template ON template_section(template_id);
	CREATE INDEX IF NOT EXISTS idx_template_field_section ON template_field(section_id);
	`

	if _, err := db.Exec(schema); err != nil {
		return fmt.Errorf("failed to create schema: %w", err)
	}
	return nil
}
