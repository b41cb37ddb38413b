package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"path/filepath"
	"testing"
)

func newTestDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := NewDB(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("NewDB: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

func TestNewDB_Idempotent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.db")
	db1, err := NewDB(path)
	if err != nil {
		t.Fatalf("first NewDB: %v", err)
	}
	db1.Close()

	db2, err := NewDB(path)
	if err != nil {
		t.Fatalf("second NewDB: %v", err)
	}
	db2.Close()
}

func TestVeteranRepo_UpsertAndGet(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	repo := &VeteranRepo{DB: db}

	if err := repo.Upsert(ctx, Veteran{FileNumber: "123456789", ParticipantID: "p1", FirstName: "Ada", LastName: "Lovelace"}); err != nil {
		t.Fatalf("Upsert: %v", err)
	}
	if err := repo.Upsert(ctx, Veteran{FileNumber: "123456789", ParticipantID: "p1", FirstName: "Ada", LastName: "Byron", SensitivityLevel: 8}); err != nil {
		t.Fatalf("Upsert again: %v", err)
	}

	got, err := repo.GetByFileNumber(ctx, "123456789")
	if err != nil {
		t.Fatalf("GetByFileNumber: %v", err)
	}
	if got.LastName != "Byron" {
		t.Errorf("LastName = %q, want Byron", got.LastName)
	}
	if got.SensitivityLevel != 8 {
		t.Errorf("SensitivityLevel = %d, want 8", got.SensitivityLevel)
	}
	if got.CreatedAtUnix == 0 {
		t.Error("CreatedAtUnix should be set")
	}
}

func TestVeteranRepo_NotFound(t *testing.T) {
	repo := &VeteranRepo{DB: newTestDB(t)}
	_, err := repo.GetByFileNumber(context.Background(), "000000000")
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}
}

func TestIntakeRepo_FullLifecycle(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	repo := &IntakeRepo{DB: db}

	in, err := repo.Start(ctx, "intake-1", "123456789")
	if err != nil {
		t.Fatalf("Start: %v", err)
	}
	if in.Status != IntakeStarted {
		t.Errorf("Status = %q, want started", in.Status)
	}

	busy, err := repo.HasInProgress(ctx, "123456789")
	if err != nil {
		t.Fatalf("HasInProgress: %v", err)
	}
	if !busy {
		t.Error("started intake should count as in progress")
	}

	err = repo.SaveReview(ctx, "intake-1", Review{
		BenefitType:         "pension",
		ReceiptDate:         "2020-10-20",
		InformalConference:  true,
		LegacyOptInApproved: true,
		PayeeCode:           "00",
	})
	if err != nil {
		t.Fatalf("SaveReview: %v", err)
	}

	issues := []map[string]any{
		{"is_unidentified": false, "benefit_type": "pension", "rating_issue_reference_id": "r1", "notes": "first"},
		{"is_unidentified": true, "benefit_type": "pension", "notes": "second", "decision_date": nil, "decision_text": "t"},
	}
	if err := repo.Complete(ctx, "intake-1", issues); err != nil {
		t.Fatalf("Complete: %v", err)
	}

	got, err := repo.Get(ctx, "intake-1")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got.Status != IntakeCompleted {
		t.Errorf("Status = %q, want completed", got.Status)
	}
	if got.BenefitType != "pension" || got.ReceiptDate != "2020-10-20" {
		t.Errorf("review fields = %q/%q", got.BenefitType, got.ReceiptDate)
	}
	if !got.InformalConference || got.SameOffice || !got.LegacyOptInApproved {
		t.Errorf("flags = %v/%v/%v", got.InformalConference, got.SameOffice, got.LegacyOptInApproved)
	}
	if got.CompletedAtUnix == 0 {
		t.Error("CompletedAtUnix should be set")
	}

	stored, err := repo.Issues(ctx, "intake-1")
	if err != nil {
		t.Fatalf("Issues: %v", err)
	}
	if len(stored) != 2 {
		t.Fatalf("issues = %d, want 2", len(stored))
	}
	if stored[0].Attributes["notes"] != "first" || stored[1].Attributes["notes"] != "second" {
		t.Errorf("issues out of order: %+v", stored)
	}
	if stored[1].Attributes["is_unidentified"] != true {
		t.Errorf("is_unidentified = %v, want true", stored[1].Attributes["is_unidentified"])
	}

	busy, err = repo.HasInProgress(ctx, "123456789")
	if err != nil {
		t.Fatalf("HasInProgress: %v", err)
	}
	if busy {
		t.Error("completed intake should not count as in progress")
	}
}

func TestIntakeRepo_CompleteRequiresReview(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	repo := &IntakeRepo{DB: db}

	if _, err := repo.Start(ctx, "intake-2", "111111111"); err != nil {
		t.Fatalf("Start: %v", err)
	}
	err := repo.Complete(ctx, "intake-2", []map[string]any{{"notes": "n"}})
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}

	issues, err := repo.Issues(ctx, "intake-2")
	if err != nil {
		t.Fatalf("Issues: %v", err)
	}
	if len(issues) != 0 {
		t.Errorf("issues = %d, want 0 after rollback", len(issues))
	}
}

func TestIntakeRepo_MarkFailed(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	repo := &IntakeRepo{DB: db}

	if _, err := repo.Start(ctx, "intake-3", "222222222"); err != nil {
		t.Fatalf("Start: %v", err)
	}
	if err := repo.MarkFailed(ctx, "intake-3", "intake_review_failed"); err != nil {
		t.Fatalf("MarkFailed: %v", err)
	}
	got, err := repo.Get(ctx, "intake-3")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got.Status != IntakeFailed || got.ErrorCode != "intake_review_failed" {
		t.Errorf("status/code = %q/%q", got.Status, got.ErrorCode)
	}
	if err := repo.SaveReview(ctx, "intake-3", Review{BenefitType: "pension"}); !errors.Is(err, ErrNotFound) {
		t.Errorf("SaveReview on failed intake: err = %v, want ErrNotFound", err)
	}
	if err := repo.MarkFailed(ctx, "missing", "x"); !errors.Is(err, ErrNotFound) {
		t.Errorf("MarkFailed missing: err = %v, want ErrNotFound", err)
	}
}

func TestIntakeRepo_GetNotFound(t *testing.T) {
	repo := &IntakeRepo{DB: newTestDB(t)}
	if _, err := repo.Get(context.Background(), "nope"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}
}

func TestIntakeRepo_IssuesKeepLargeNumericIDs(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	repo := &IntakeRepo{DB: db}

	if _, err := repo.Start(ctx, "intake-1", "123456789"); err != nil {
		t.Fatalf("Start: %v", err)
	}
	if err := repo.SaveReview(ctx, "intake-1", Review{BenefitType: "compensation"}); err != nil {
		t.Fatalf("SaveReview: %v", err)
	}
	issues := []map[string]any{{"rating_issue_reference_id": json.Number("9007199254740993")}}
	if err := repo.Complete(ctx, "intake-1", issues); err != nil {
		t.Fatalf("Complete: %v", err)
	}

	stored, err := repo.Issues(ctx, "intake-1")
	if err != nil {
		t.Fatalf("Issues: %v", err)
	}
	got, ok := stored[0].Attributes["rating_issue_reference_id"].(json.Number)
	if !ok || got.String() != "9007199254740993" {
		t.Errorf("rating_issue_reference_id = %#v, want json.Number 9007199254740993", stored[0].Attributes["rating_issue_reference_id"])
	}
}
