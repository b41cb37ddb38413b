package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"
)

// IntakeStatus tracks how far an intake got through start → review → complete.
type IntakeStatus string

const (
	IntakeStarted   IntakeStatus = "started"
	IntakeReviewed  IntakeStatus = "reviewed"
	IntakeCompleted IntakeStatus = "completed"
	IntakeFailed    IntakeStatus = "failed"
)

// Intake is one higher level review intake row.
type Intake struct {
	UUID                  string
	VeteranFileNumber     string
	BenefitType           string
	ReceiptDate           string
	InformalConference    bool
	SameOffice            bool
	LegacyOptInApproved   bool
	ClaimantParticipantID string
	PayeeCode             string
	Status                IntakeStatus
	ErrorCode             string
	StartedAtUnix         int64
	CompletedAtUnix       int64
	UpdatedAtUnix         int64
}

// Review holds the attributes written during the review phase.
type Review struct {
	BenefitType           string
	ReceiptDate           string
	InformalConference    bool
	SameOffice            bool
	LegacyOptInApproved   bool
	ClaimantParticipantID string
	PayeeCode             string
}

// RequestIssue is one persisted, normalized request issue.
type RequestIssue struct {
	ID         int64
	IntakeUUID string
	Position   int
	Attributes map[string]any
}

// IntakeRepo handles persistence for intakes and their request issues.
type IntakeRepo struct {
	DB *sql.DB
}

// Start inserts a new intake in the started state.
func (r *IntakeRepo) Start(ctx context.Context, uuid, fileNumber string) (*Intake, error) {
	now := time.Now().Unix()
	const q = `INSERT INTO intakes (uuid, veteran_file_number, status, started_at, updated_at) VALUES (?, ?, ?, ?, ?)`
	if _, err := r.DB.ExecContext(ctx, q, uuid, fileNumber, string(IntakeStarted), now, now); err != nil {
		return nil, fmt.Errorf("start intake: %w", err)
	}
	return &Intake{
		UUID:              uuid,
		VeteranFileNumber: fileNumber,
		Status:            IntakeStarted,
		StartedAtUnix:     now,
		UpdatedAtUnix:     now,
	}, nil
}

// SaveReview writes review attributes and moves a started intake to reviewed.
func (r *IntakeRepo) SaveReview(ctx context.Context, uuid string, rv Review) error {
	const q = `UPDATE intakes SET
		benefit_type = ?,
		receipt_date = ?,
		informal_conference = ?,
		same_office = ?,
		legacy_opt_in_approved = ?,
		claimant_participant_id = ?,
		payee_code = ?,
		status = ?,
		updated_at = ?
	WHERE uuid = ? AND status = ?`
	res, err := r.DB.ExecContext(ctx, q,
		rv.BenefitType,
		rv.ReceiptDate,
		boolInt(rv.InformalConference),
		boolInt(rv.SameOffice),
		boolInt(rv.LegacyOptInApproved),
		rv.ClaimantParticipantID,
		rv.PayeeCode,
		string(IntakeReviewed),
		time.Now().Unix(),
		uuid,
		string(IntakeStarted),
	)
	if err != nil {
		return fmt.Errorf("save review: %w", err)
	}
	return expectOneRow(res, "save review")
}

// Complete stores the request issues in order and marks the intake completed,
// all in one transaction. Only a reviewed intake can be completed.
func (r *IntakeRepo) Complete(ctx context.Context, uuid string, issues []map[string]any) (err error) {
	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	now := time.Now().Unix()
	const insertIssue = `INSERT INTO request_issues (intake_uuid, position, attributes_json, created_at) VALUES (?, ?, ?, ?)`
	for i, attrs := range issues {
		data, mErr := json.Marshal(attrs)
		if mErr != nil {
			return fmt.Errorf("encode request issue %d: %w", i, mErr)
		}
		if _, err = tx.ExecContext(ctx, insertIssue, uuid, i, string(data), now); err != nil {
			return fmt.Errorf("insert request issue %d: %w", i, err)
		}
	}

	const q = `UPDATE intakes SET status = ?, completed_at = ?, updated_at = ? WHERE uuid = ? AND status = ?`
	res, err := tx.ExecContext(ctx, q, string(IntakeCompleted), now, now, uuid, string(IntakeReviewed))
	if err != nil {
		return fmt.Errorf("complete intake: %w", err)
	}
	if err = expectOneRow(res, "complete intake"); err != nil {
		return err
	}
	if err = tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}

// MarkFailed records the error code and moves the intake to failed.
func (r *IntakeRepo) MarkFailed(ctx context.Context, uuid, code string) error {
	const q = `UPDATE intakes SET status = ?, error_code = ?, updated_at = ? WHERE uuid = ?`
	res, err := r.DB.ExecContext(ctx, q, string(IntakeFailed), code, time.Now().Unix(), uuid)
	if err != nil {
		return fmt.Errorf("mark intake failed: %w", err)
	}
	return expectOneRow(res, "mark intake failed")
}

// HasInProgress reports whether the veteran has an intake that is started or
// reviewed but not yet completed or failed.
func (r *IntakeRepo) HasInProgress(ctx context.Context, fileNumber string) (bool, error) {
	const q = `SELECT COUNT(*) FROM intakes WHERE veteran_file_number = ? AND status IN (?, ?)`
	var n int
	if err := r.DB.QueryRowContext(ctx, q, fileNumber, string(IntakeStarted), string(IntakeReviewed)).Scan(&n); err != nil {
		return false, fmt.Errorf("count in-progress intakes: %w", err)
	}
	return n > 0, nil
}

// Get returns the intake with the given uuid or ErrNotFound.
func (r *IntakeRepo) Get(ctx context.Context, uuid string) (*Intake, error) {
	const q = `SELECT uuid, veteran_file_number, benefit_type, receipt_date, informal_conference, same_office,
	legacy_opt_in_approved, claimant_participant_id, payee_code, status, error_code, started_at, completed_at, updated_at
FROM intakes WHERE uuid = ?`
	var (
		in                          Intake
		status                      string
		informal, same, legacyOptIn int
	)
	err := r.DB.QueryRowContext(ctx, q, uuid).Scan(
		&in.UUID, &in.VeteranFileNumber, &in.BenefitType, &in.ReceiptDate, &informal, &same,
		&legacyOptIn, &in.ClaimantParticipantID, &in.PayeeCode, &status, &in.ErrorCode,
		&in.StartedAtUnix, &in.CompletedAtUnix, &in.UpdatedAtUnix,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get intake: %w", err)
	}
	in.Status = IntakeStatus(status)
	in.InformalConference = informal == 1
	in.SameOffice = same == 1
	in.LegacyOptInApproved = legacyOptIn == 1
	return &in, nil
}

// Issues returns the request issues of an intake in submission order.
func (r *IntakeRepo) Issues(ctx context.Context, uuid string) ([]RequestIssue, error) {
	const q = `SELECT id, intake_uuid, position, attributes_json FROM request_issues WHERE intake_uuid = ? ORDER BY position`
	rows, err := r.DB.QueryContext(ctx, q, uuid)
	if err != nil {
		return nil, fmt.Errorf("list request issues: %w", err)
	}
	defer rows.Close()

	issues := []RequestIssue{}
	for rows.Next() {
		var (
			ri   RequestIssue
			data string
		)
		if err := rows.Scan(&ri.ID, &ri.IntakeUUID, &ri.Position, &data); err != nil {
			return nil, fmt.Errorf("scan request issue: %w", err)
		}
		dec := json.NewDecoder(strings.NewReader(data))
		dec.UseNumber()
		if err := dec.Decode(&ri.Attributes); err != nil {
			return nil, fmt.Errorf("decode request issue %d: %w", ri.ID, err)
		}
		issues = append(issues, ri)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate request issues: %w", err)
	}
	return issues, nil
}

func expectOneRow(res sql.Result, op string) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("%s: rows affected: %w", op, err)
	}
	if n != 1 {
		return fmt.Errorf("%s: %w", op, ErrNotFound)
	}
	return nil
}
