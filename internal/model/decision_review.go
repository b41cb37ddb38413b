package model

import "encoding/json"

// HigherLevelReviewEnvelope models the top-level V3 higher level review payload.
type HigherLevelReviewEnvelope struct {
	Data     *ReviewData        `json:"data" validate:"required"`
	Included []IncludedResource `json:"included" validate:"required"`
}

type ReviewData struct {
	Type          string              `json:"type" validate:"required,eq=HigherLevelReview"`
	Attributes    ReviewAttributes    `json:"attributes"`
	Relationships ReviewRelationships `json:"relationships"`
}

type ReviewAttributes struct {
	ReceiptDate         string `json:"receiptDate" validate:"omitempty,datetime=2006-01-02"`
	InformalConference  bool   `json:"informalConference"`
	SameOffice          bool   `json:"sameOffice"`
	LegacyOptInApproved bool   `json:"legacyOptInApproved"`
	BenefitType         string `json:"benefitType" validate:"required"`
}

type ReviewRelationships struct {
	Veteran  *VeteranRelationship  `json:"veteran" validate:"required"`
	Claimant *ClaimantRelationship `json:"claimant,omitempty"`
}

type VeteranRelationship struct {
	Data ResourceIdentifier `json:"data"`
}

type ResourceIdentifier struct {
	Type string `json:"type" validate:"required,eq=Veteran"`
	ID   string `json:"id" validate:"required"` // file number
}

type ClaimantRelationship struct {
	Data ClaimantIdentifier `json:"data"`
}

type ClaimantIdentifier struct {
	Type string       `json:"type" validate:"required,eq=Claimant"`
	ID   string       `json:"id" validate:"required"` // participant id
	Meta ClaimantMeta `json:"meta"`
}

type ClaimantMeta struct {
	PayeeCode string `json:"payeeCode"`
}

// IncludedResource is one entry of the top-level included array. Attributes
// stay raw so one bad entry cannot fail the whole envelope; request issue
// fields are checked by the intake package.
type IncludedResource struct {
	Type       string          `json:"type"`
	Attributes json.RawMessage `json:"attributes"`
}

// RequestIssueType is the included resource type carrying contested issues.
const RequestIssueType = "RequestIssue"
