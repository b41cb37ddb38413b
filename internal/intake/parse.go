package intake

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"

	"decision-review-api/internal/model"
)

// go-playground/validator/v10: struct validator for the envelope shape.
var validate = validator.New()

// Parse decodes a higher level review body into an IntakeRequest. Structural
// problems (bad JSON, missing data/included, missing veteran) fail the whole
// request with ErrMalformedRequest before any issue is looked at.
func Parse(body []byte) (*IntakeRequest, error) {
	var env model.HigherLevelReviewEnvelope
	if err := json.Unmarshal(body, &env); err != nil {
		return nil, fmt.Errorf("%w: invalid JSON body: %v", ErrMalformedRequest, err)
	}
	return FromEnvelope(&env)
}

// FromEnvelope validates an already decoded envelope and flattens it.
func FromEnvelope(env *model.HigherLevelReviewEnvelope) (*IntakeRequest, error) {
	if err := validate.Struct(env); err != nil {
		return nil, fmt.Errorf("%w: %s", ErrMalformedRequest, describe(err))
	}

	attrs := env.Data.Attributes
	req := &IntakeRequest{
		BenefitType:         attrs.BenefitType,
		ReceiptDate:         attrs.ReceiptDate,
		InformalConference:  attrs.InformalConference,
		SameOffice:          attrs.SameOffice,
		LegacyOptInApproved: attrs.LegacyOptInApproved,
		VeteranFileNumber:   strings.TrimSpace(env.Data.Relationships.Veteran.Data.ID),
		Issues:              []RawIssueRecord{},
	}
	if c := env.Data.Relationships.Claimant; c != nil {
		req.ClaimantParticipantID = c.Data.ID
		req.PayeeCode = c.Data.Meta.PayeeCode
	}

	for _, inc := range env.Included {
		if inc.Type != model.RequestIssueType {
			continue
		}
		a := issueAttributes(inc.Attributes)
		req.Issues = append(req.Issues, RawIssueRecord{
			Contests:     a["contests"],
			ID:           a["id"],
			Notes:        a["notes"],
			Category:     a["category"],
			DecisionDate: a["decision_date"],
			DecisionText: a["decision_text"],
		})
	}
	return req, nil
}

// issueAttributes decodes one request issue's attributes. Numbers stay
// json.Number so large ids survive intact. Anything that is not a JSON
// object yields nil, which classifies as an unknown contestation.
func issueAttributes(raw json.RawMessage) map[string]any {
	if len(raw) == 0 {
		return nil
	}
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	var attrs map[string]any
	if err := dec.Decode(&attrs); err != nil {
		return nil
	}
	return attrs
}

// describe flattens validator errors into one line of JSON-ish paths.
func describe(err error) string {
	verrs, ok := err.(validator.ValidationErrors)
	if !ok {
		return err.Error()
	}
	parts := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		parts = append(parts, fmt.Sprintf("%s failed %q", fe.Namespace(), fe.Tag()))
	}
	return strings.Join(parts, "; ")
}
