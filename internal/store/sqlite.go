// Package store provides SQLite-backed persistence for decision review intakes.
package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	_ "modernc.org/sqlite"
)

// ErrNotFound is returned when a requested row does not exist.
var ErrNotFound = errors.New("not found")

const schemaV1 = `
CREATE TABLE IF NOT EXISTS veterans (
	file_number       TEXT PRIMARY KEY,
	participant_id    TEXT NOT NULL DEFAULT '',
	first_name        TEXT NOT NULL DEFAULT '',
	last_name         TEXT NOT NULL DEFAULT '',
	sensitivity_level INTEGER NOT NULL DEFAULT 0,
	created_at        INTEGER NOT NULL DEFAULT 0
);

CREATE TABLE IF NOT EXISTS intakes (
	uuid                    TEXT PRIMARY KEY,
	review_type             TEXT NOT NULL DEFAULT 'higher_level_review',
	veteran_file_number     TEXT NOT NULL,
	benefit_type            TEXT NOT NULL DEFAULT '',
	receipt_date            TEXT NOT NULL DEFAULT '',
	informal_conference     INTEGER NOT NULL DEFAULT 0,
	same_office             INTEGER NOT NULL DEFAULT 0,
	legacy_opt_in_approved  INTEGER NOT NULL DEFAULT 0,
	claimant_participant_id TEXT NOT NULL DEFAULT '',
	payee_code              TEXT NOT NULL DEFAULT '',
	status                  TEXT NOT NULL DEFAULT 'started',
	error_code              TEXT NOT NULL DEFAULT '',
	started_at              INTEGER NOT NULL DEFAULT 0,
	completed_at            INTEGER NOT NULL DEFAULT 0,
	updated_at              INTEGER NOT NULL DEFAULT 0
);
CREATE INDEX IF NOT EXISTS idx_intakes_veteran_status ON intakes(veteran_file_number, status);

CREATE TABLE IF NOT EXISTS request_issues (
	id              INTEGER PRIMARY KEY AUTOINCREMENT,
	intake_uuid     TEXT NOT NULL REFERENCES intakes(uuid),
	position        INTEGER NOT NULL,
	attributes_json TEXT NOT NULL DEFAULT '{}',
	created_at      INTEGER NOT NULL DEFAULT 0,
	UNIQUE(intake_uuid, position)
);
CREATE INDEX IF NOT EXISTS idx_request_issues_intake ON request_issues(intake_uuid);
`

// NewDB opens a SQLite database at the given path and runs the V1 schema.
func NewDB(path string) (*sql.DB, error) {
	dsn := fmt.Sprintf("file:%s?_pragma=journal_mode(WAL)&_pragma=synchronous(NORMAL)&_pragma=foreign_keys(ON)&_pragma=busy_timeout(5000)", path)

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	// Single writer; WAL still allows concurrent readers.
	db.SetMaxOpenConns(1)

	if err := migrate(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate schema: %w", err)
	}
	return db, nil
}

func migrate(db *sql.DB) error {
	_, err := db.ExecContext(context.Background(), schemaV1)
	return err
}

func boolInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
