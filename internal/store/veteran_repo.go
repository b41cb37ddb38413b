package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"
)

// Veteran is the subset of veteran data intake needs.
type Veteran struct {
	FileNumber       string
	ParticipantID    string
	FirstName        string
	LastName         string
	SensitivityLevel int
	CreatedAtUnix    int64
}

// VeteranRepo handles persistence for Veteran records.
type VeteranRepo struct {
	DB *sql.DB
}

// Upsert inserts or replaces a veteran keyed by file number.
func (r *VeteranRepo) Upsert(ctx context.Context, v Veteran) error {
	if v.CreatedAtUnix == 0 {
		v.CreatedAtUnix = time.Now().Unix()
	}
	const q = `INSERT INTO veterans (file_number, participant_id, first_name, last_name, sensitivity_level, created_at)
VALUES (?, ?, ?, ?, ?, ?)
ON CONFLICT(file_number) DO UPDATE SET
	participant_id = excluded.participant_id,
	first_name = excluded.first_name,
	last_name = excluded.last_name,
	sensitivity_level = excluded.sensitivity_level`
	_, err := r.DB.ExecContext(ctx, q, v.FileNumber, v.ParticipantID, v.FirstName, v.LastName, v.SensitivityLevel, v.CreatedAtUnix)
	if err != nil {
		return fmt.Errorf("upsert veteran: %w", err)
	}
	return nil
}

// GetByFileNumber returns the veteran with the given file number or ErrNotFound.
func (r *VeteranRepo) GetByFileNumber(ctx context.Context, fileNumber string) (*Veteran, error) {
	const q = `SELECT file_number, participant_id, first_name, last_name, sensitivity_level, created_at
FROM veterans WHERE file_number = ?`
	var v Veteran
	err := r.DB.QueryRowContext(ctx, q, fileNumber).Scan(
		&v.FileNumber, &v.ParticipantID, &v.FirstName, &v.LastName, &v.SensitivityLevel, &v.CreatedAtUnix,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get veteran: %w", err)
	}
	return &v, nil
}
