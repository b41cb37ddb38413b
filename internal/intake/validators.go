package intake

// batch carries the request-level values every issue validator needs.
type batch struct {
	benefitType         string
	legacyOptInApproved bool
}

// issueOutcome is the single result of validating one record: exactly one of
// issue or err is set.
type issueOutcome struct {
	issue NormalizedIssue
	err   *ValidationError
}

func failed(code Code) issueOutcome {
	e := ErrorFor(code)
	return issueOutcome{err: &e}
}

func (b batch) identified(fields NormalizedIssue) issueOutcome {
	fields[KeyIsUnidentified] = false
	fields[KeyBenefitType] = b.benefitType
	return issueOutcome{issue: fields}
}

// validate runs the routine for the record's kind. Checks run in a fixed
// order and the first failure wins.
func (b batch) validate(raw RawIssueRecord) issueOutcome {
	switch Classify(raw) {
	case KindDecisionIssue:
		return b.decisionIssue(raw)
	case KindRatingIssue:
		return b.ratingIssue(raw)
	case KindLegacyIssue:
		return b.legacyIssue(raw)
	case KindCategorizedOther:
		return b.categorizedOther(raw)
	case KindUncategorizedOther:
		return b.uncategorizedOther(raw)
	default:
		return failed(CodeUnknownContestationType)
	}
}

func (b batch) decisionIssue(raw RawIssueRecord) issueOutcome {
	if IsBlank(raw.ID) {
		return failed(CodeDecisionIssueIDRequired)
	}
	if IsBlank(raw.Notes) {
		return failed(CodeDecisionIssueNotesRequired)
	}
	return b.identified(NormalizedIssue{
		KeyContestedDecisionIssueID: raw.ID,
		KeyNotes:                    raw.Notes,
	})
}

func (b batch) ratingIssue(raw RawIssueRecord) issueOutcome {
	if IsBlank(raw.ID) {
		return failed(CodeRatingIssueIDRequired)
	}
	if IsBlank(raw.Notes) {
		return failed(CodeRatingIssueNotesRequired)
	}
	return b.identified(NormalizedIssue{
		KeyRatingIssueReferenceID: raw.ID,
		KeyNotes:                  raw.Notes,
	})
}

func (b batch) legacyIssue(raw RawIssueRecord) issueOutcome {
	if !b.legacyOptInApproved {
		return failed(CodeLegacyIssueWithoutOptIn)
	}
	if IsBlank(raw.ID) {
		return failed(CodeLegacyIssueIDRequired)
	}
	if IsBlank(raw.Notes) {
		return failed(CodeLegacyIssueNotesRequired)
	}
	return b.identified(NormalizedIssue{
		KeyVacolsID: raw.ID,
		KeyNotes:    raw.Notes,
	})
}

func (b batch) categorizedOther(raw RawIssueRecord) issueOutcome {
	if !CategoryAllowed(b.benefitType, raw.Category) {
		return failed(CodeUnknownCategoryForBenefit)
	}
	if IsBlank(raw.Notes) && IsBlank(raw.DecisionText) {
		return failed(CodeNotesOrDecisionTextRequired)
	}
	return b.identified(NormalizedIssue{
		KeyNotes:                  raw.Notes,
		KeyDecisionDate:           raw.DecisionDate,
		KeyDecisionText:           raw.DecisionText,
		KeyNonratingIssueCategory: raw.Category,
	})
}

func (b batch) uncategorizedOther(raw RawIssueRecord) issueOutcome {
	if IsBlank(raw.Notes) && IsBlank(raw.DecisionText) {
		return failed(CodeNotesOrDecisionTextRequired)
	}
	return issueOutcome{issue: NormalizedIssue{
		KeyIsUnidentified: true,
		KeyBenefitType:    b.benefitType,
		KeyNotes:          raw.Notes,
		KeyDecisionDate:   raw.DecisionDate,
		KeyDecisionText:   raw.DecisionText,
	}}
}
