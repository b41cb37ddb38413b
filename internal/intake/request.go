package intake

// IntakeRequest is one parsed higher level review submission.
type IntakeRequest struct {
	BenefitType           string
	ReceiptDate           string
	InformalConference    bool
	SameOffice            bool
	LegacyOptInApproved   bool
	VeteranFileNumber     string
	ClaimantParticipantID string
	PayeeCode             string
	Issues                []RawIssueRecord
}

// RawIssueRecord is one RequestIssue from the included array. Fields keep the
// JSON value as sent so the blank check sees booleans and nulls.
type RawIssueRecord struct {
	Contests     any
	ID           any
	Notes        any
	Category     any
	DecisionDate any
	DecisionText any
}

// NormalizedIssue holds the persistence-ready attributes of one issue.
type NormalizedIssue map[string]any

// Keys used in a NormalizedIssue.
const (
	KeyIsUnidentified           = "is_unidentified"
	KeyBenefitType              = "benefit_type"
	KeyContestedDecisionIssueID = "contested_decision_issue_id"
	KeyRatingIssueReferenceID   = "rating_issue_reference_id"
	KeyVacolsID                 = "vacols_id"
	KeyNonratingIssueCategory   = "nonrating_issue_category"
	KeyNotes                    = "notes"
	KeyDecisionDate             = "decision_date"
	KeyDecisionText             = "decision_text"
)

// ReviewAttributes are the batch-level attributes handed to the intake
// workflow together with the normalized issues.
type ReviewAttributes struct {
	BenefitType           string `json:"benefit_type"`
	ReceiptDate           string `json:"receipt_date"`
	InformalConference    bool   `json:"informal_conference"`
	SameOffice            bool   `json:"same_office"`
	LegacyOptInApproved   bool   `json:"legacy_opt_in_approved"`
	VeteranFileNumber     string `json:"veteran_file_number"`
	ClaimantParticipantID string `json:"claimant,omitempty"`
	PayeeCode             string `json:"payee_code,omitempty"`
}

// Review returns the batch-level attributes of r.
func (r *IntakeRequest) Review() ReviewAttributes {
	return ReviewAttributes{
		BenefitType:           r.BenefitType,
		ReceiptDate:           r.ReceiptDate,
		InformalConference:    r.InformalConference,
		SameOffice:            r.SameOffice,
		LegacyOptInApproved:   r.LegacyOptInApproved,
		VeteranFileNumber:     r.VeteranFileNumber,
		ClaimantParticipantID: r.ClaimantParticipantID,
		PayeeCode:             r.PayeeCode,
	}
}
