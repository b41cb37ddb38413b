package intake

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
)

// ValidationError is the structured error returned to partners. Field order
// matches the wire shape: status, code, title.
type ValidationError struct {
	Status int    `json:"status"`
	Code   string `json:"code"`
	Title  string `json:"title"`
}

// Error implements the error interface.
func (e ValidationError) Error() string {
	return fmt.Sprintf("%d %s: %s", e.Status, e.Code, e.Title)
}

// ErrMalformedRequest marks a body that cannot be turned into an IntakeRequest.
var ErrMalformedRequest = errors.New("malformed request")

// UnknownError is returned for any code missing from the table.
var UnknownError = ValidationError{Status: 422, Code: "unknown_error", Title: "Unknown error"}

type errorEntry struct {
	title string
	code  string // derived from title when empty
}

// errorTitlesByStatus is the literal source of the error table.
var errorTitlesByStatus = map[int][]errorEntry{
	400: {
		{title: "Malformed request"},
	},
	403: {
		{title: "Veteran not accessible"},
	},
	404: {
		{title: "Veteran not found"},
		{title: "Intake not found"},
	},
	409: {
		{title: "Duplicate intake in progress"},
	},
	422: {
		{title: "Adding legacy issue without opting in"},
		{title: "Either notes or decision text must be present when contesting other"},
		{title: "Must have id to contest decision issue"},
		{title: "Must have id to contest legacy issue"},
		{title: "Must have id to contest rating issue"},
		{title: "Notes cannot be blank when contesting decision issue"},
		{title: "Notes cannot be blank when contesting legacy issue"},
		{title: "Notes cannot be blank when contesting rating issue"},
		{title: "Unknown category for benefit type"},
		{title: "Unknown contestation type"},
		{title: "Invalid file number"},
		{title: "Intake start failed"},
		{title: "Intake review failed"},
		{title: "Intake complete failed"},
		{title: "Unknown error"},
	},
}

// errorsByCode is built once at init and never written afterwards.
var errorsByCode = buildErrorTable(errorTitlesByStatus)

var nonCodeChars = regexp.MustCompile(`[^0-9a-z_]`)

// codeFromTitle lowercases, swaps spaces for underscores and strips anything
// outside [0-9a-z_].
func codeFromTitle(title string) string {
	code := strings.ReplaceAll(strings.ToLower(title), " ", "_")
	return nonCodeChars.ReplaceAllString(code, "")
}

func buildErrorTable(src map[int][]errorEntry) map[string]ValidationError {
	table := make(map[string]ValidationError)
	for status, entries := range src {
		for _, e := range entries {
			code := e.code
			if code == "" {
				code = codeFromTitle(e.title)
			}
			table[code] = ValidationError{Status: status, Code: code, Title: e.title}
		}
	}
	return table
}

// ErrorFor looks up the error triple for code. Anything that is not a known
// code, including non-string values, yields UnknownError.
func ErrorFor(code any) ValidationError {
	var key string
	switch c := code.(type) {
	case string:
		key = c
	case Code:
		key = string(c)
	default:
		return UnknownError
	}
	if e, ok := errorsByCode[key]; ok {
		return e
	}
	return UnknownError
}

// Code names an entry in the error table.
type Code string

const (
	CodeMalformedRequest            Code = "malformed_request"
	CodeVeteranNotAccessible        Code = "veteran_not_accessible"
	CodeVeteranNotFound             Code = "veteran_not_found"
	CodeIntakeNotFound              Code = "intake_not_found"
	CodeDuplicateIntakeInProgress   Code = "duplicate_intake_in_progress"
	CodeLegacyIssueWithoutOptIn     Code = "adding_legacy_issue_without_opting_in"
	CodeNotesOrDecisionTextRequired Code = "either_notes_or_decision_text_must_be_present_when_contesting_other"
	CodeDecisionIssueIDRequired     Code = "must_have_id_to_contest_decision_issue"
	CodeLegacyIssueIDRequired       Code = "must_have_id_to_contest_legacy_issue"
	CodeRatingIssueIDRequired       Code = "must_have_id_to_contest_rating_issue"
	CodeDecisionIssueNotesRequired  Code = "notes_cannot_be_blank_when_contesting_decision_issue"
	CodeLegacyIssueNotesRequired    Code = "notes_cannot_be_blank_when_contesting_legacy_issue"
	CodeRatingIssueNotesRequired    Code = "notes_cannot_be_blank_when_contesting_rating_issue"
	CodeUnknownCategoryForBenefit   Code = "unknown_category_for_benefit_type"
	CodeUnknownContestationType     Code = "unknown_contestation_type"
	CodeInvalidFileNumber           Code = "invalid_file_number"
	CodeIntakeStartFailed           Code = "intake_start_failed"
	CodeIntakeReviewFailed          Code = "intake_review_failed"
	CodeIntakeCompleteFailed        Code = "intake_complete_failed"
	CodeUnknownError                Code = "unknown_error"
)
