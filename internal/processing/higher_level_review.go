// Package processing runs a validated higher level review through the intake
// workflow: start, review, complete.
package processing

import (
	"context"
	"errors"
	"log"
	"regexp"
	"time"

	"github.com/google/uuid"

	"decision-review-api/internal/intake"
	"decision-review-api/internal/model"
	"decision-review-api/internal/policy"
	"decision-review-api/internal/store"
)

// VeteranFinder looks veterans up by file number.
type VeteranFinder interface {
	GetByFileNumber(ctx context.Context, fileNumber string) (*store.Veteran, error)
}

// AccessChecker reports whether intake may act on a veteran.
type AccessChecker interface {
	CheckVeteran(ctx context.Context, fileNumber string) (policy.AccessStatus, error)
}

// IntakeLocker serializes intakes per veteran.
type IntakeLocker interface {
	Acquire(ctx context.Context, fileNumber string) (token string, ok bool, err error)
	Release(ctx context.Context, fileNumber, token string) error
}

// IntakeStore persists intakes through their phases.
type IntakeStore interface {
	Start(ctx context.Context, uuid, fileNumber string) (*store.Intake, error)
	SaveReview(ctx context.Context, uuid string, rv store.Review) error
	Complete(ctx context.Context, uuid string, issues []map[string]any) error
	MarkFailed(ctx context.Context, uuid, code string) error
	HasInProgress(ctx context.Context, fileNumber string) (bool, error)
	Get(ctx context.Context, uuid string) (*store.Intake, error)
	Issues(ctx context.Context, uuid string) ([]store.RequestIssue, error)
}

// EventPublisher announces completed intakes.
type EventPublisher interface {
	PublishIntakeCompleted(ctx context.Context, evt model.IntakeCompleted) error
}

var fileNumberPattern = regexp.MustCompile(`^\d{8,9}$`)

// Service drives the three-phase intake workflow.
type Service struct {
	veterans VeteranFinder
	access   AccessChecker
	locks    IntakeLocker
	intakes  IntakeStore
	events   EventPublisher

	newUUID func() string
}

// NewService wires the workflow to its collaborators.
func NewService(veterans VeteranFinder, access AccessChecker, locks IntakeLocker, intakes IntakeStore, events EventPublisher) *Service {
	return &Service{
		veterans: veterans,
		access:   access,
		locks:    locks,
		intakes:  intakes,
		events:   events,
		newUUID:  uuid.NewString,
	}
}

// Submit commits a validated batch. It refuses a result that carries
// validation errors. Failures come back as intake.ValidationError values.
func (s *Service) Submit(ctx context.Context, res *intake.Result) (*store.Intake, error) {
	if res.HasErrors() {
		return nil, res.Errors[0]
	}
	rv := res.Review

	in, token, err := s.start(ctx, rv.VeteranFileNumber)
	if err != nil {
		return nil, err
	}
	defer s.release(rv.VeteranFileNumber, token)

	if err := s.review(ctx, in, rv); err != nil {
		return nil, err
	}
	if err := s.complete(ctx, in, rv, res.Issues); err != nil {
		return nil, err
	}
	return in, nil
}

func (s *Service) start(ctx context.Context, fileNumber string) (*store.Intake, string, error) {
	if !fileNumberPattern.MatchString(fileNumber) {
		return nil, "", intake.ErrorFor(intake.CodeInvalidFileNumber)
	}

	if _, err := s.veterans.GetByFileNumber(ctx, fileNumber); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, "", intake.ErrorFor(intake.CodeVeteranNotFound)
		}
		log.Printf("Intake start: veteran lookup %s: %v", fileNumber, err)
		return nil, "", intake.ErrorFor(intake.CodeIntakeStartFailed)
	}

	status, err := s.access.CheckVeteran(ctx, fileNumber)
	if err != nil {
		log.Printf("Intake start: access check %s: %v", fileNumber, err)
		return nil, "", intake.ErrorFor(intake.CodeIntakeStartFailed)
	}
	if status == policy.AccessDenied {
		return nil, "", intake.ErrorFor(intake.CodeVeteranNotAccessible)
	}

	token, ok, err := s.locks.Acquire(ctx, fileNumber)
	if err != nil {
		log.Printf("Intake start: lock %s: %v", fileNumber, err)
		return nil, "", intake.ErrorFor(intake.CodeIntakeStartFailed)
	}
	if !ok {
		return nil, "", intake.ErrorFor(intake.CodeDuplicateIntakeInProgress)
	}

	busy, err := s.intakes.HasInProgress(ctx, fileNumber)
	if err != nil || busy {
		s.release(fileNumber, token)
		if err != nil {
			log.Printf("Intake start: in-progress check %s: %v", fileNumber, err)
			return nil, "", intake.ErrorFor(intake.CodeIntakeStartFailed)
		}
		return nil, "", intake.ErrorFor(intake.CodeDuplicateIntakeInProgress)
	}

	in, err := s.intakes.Start(ctx, s.newUUID(), fileNumber)
	if err != nil {
		s.release(fileNumber, token)
		log.Printf("Intake start: create %s: %v", fileNumber, err)
		return nil, "", intake.ErrorFor(intake.CodeIntakeStartFailed)
	}
	return in, token, nil
}

func (s *Service) review(ctx context.Context, in *store.Intake, rv intake.ReviewAttributes) error {
	err := s.intakes.SaveReview(ctx, in.UUID, store.Review{
		BenefitType:           rv.BenefitType,
		ReceiptDate:           rv.ReceiptDate,
		InformalConference:    rv.InformalConference,
		SameOffice:            rv.SameOffice,
		LegacyOptInApproved:   rv.LegacyOptInApproved,
		ClaimantParticipantID: rv.ClaimantParticipantID,
		PayeeCode:             rv.PayeeCode,
	})
	if err != nil {
		log.Printf("Intake review: %s: %v", in.UUID, err)
		return s.fail(ctx, in, intake.CodeIntakeReviewFailed)
	}
	in.Status = store.IntakeReviewed
	in.BenefitType = rv.BenefitType
	in.ReceiptDate = rv.ReceiptDate
	in.InformalConference = rv.InformalConference
	in.SameOffice = rv.SameOffice
	in.LegacyOptInApproved = rv.LegacyOptInApproved
	in.ClaimantParticipantID = rv.ClaimantParticipantID
	in.PayeeCode = rv.PayeeCode
	return nil
}

func (s *Service) complete(ctx context.Context, in *store.Intake, rv intake.ReviewAttributes, issues []intake.NormalizedIssue) error {
	attrs := make([]map[string]any, 0, len(issues))
	for _, iss := range issues {
		attrs = append(attrs, iss)
	}
	if err := s.intakes.Complete(ctx, in.UUID, attrs); err != nil {
		log.Printf("Intake complete: %s: %v", in.UUID, err)
		return s.fail(ctx, in, intake.CodeIntakeCompleteFailed)
	}
	now := time.Now().UTC()
	in.Status = store.IntakeCompleted
	in.CompletedAtUnix = now.Unix()

	// Fire-and-forget: the intake is already committed.
	evt := model.IntakeCompleted{
		IntakeUUID:        in.UUID,
		VeteranFileNumber: rv.VeteranFileNumber,
		BenefitType:       rv.BenefitType,
		ReceiptDate:       rv.ReceiptDate,
		IssueCount:        len(attrs),
		Timestamp:         now.Format(time.RFC3339Nano),
	}
	if err := s.events.PublishIntakeCompleted(ctx, evt); err != nil {
		log.Printf("Intake complete: publish %s: %v", in.UUID, err)
	}
	return nil
}

// fail marks the intake failed and returns the error for code.
func (s *Service) fail(ctx context.Context, in *store.Intake, code intake.Code) error {
	if err := s.intakes.MarkFailed(ctx, in.UUID, string(code)); err != nil {
		log.Printf("Intake: mark %s failed: %v", in.UUID, err)
	}
	in.Status = store.IntakeFailed
	in.ErrorCode = string(code)
	return intake.ErrorFor(code)
}

// release frees the veteran lock on a fresh context so a cancelled request
// still unlocks.
func (s *Service) release(fileNumber, token string) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := s.locks.Release(ctx, fileNumber, token); err != nil {
		log.Printf("Intake: release lock %s: %v", fileNumber, err)
	}
}

// Status returns the intake with the given uuid.
func (s *Service) Status(ctx context.Context, id string) (*store.Intake, error) {
	in, err := s.intakes.Get(ctx, id)
	if errors.Is(err, store.ErrNotFound) {
		return nil, intake.ErrorFor(intake.CodeIntakeNotFound)
	}
	return in, err
}

// Get returns the intake and its request issues.
func (s *Service) Get(ctx context.Context, id string) (*store.Intake, []store.RequestIssue, error) {
	in, err := s.Status(ctx, id)
	if err != nil {
		return nil, nil, err
	}
	issues, err := s.intakes.Issues(ctx, id)
	if err != nil {
		return nil, nil, err
	}
	return in, issues, nil
}
