package intake

import (
	"encoding/json"
	"testing"
)

func TestErrorFor_KnownCodes(t *testing.T) {
	cases := []struct {
		code   Code
		status int
		title  string
	}{
		{CodeVeteranNotAccessible, 403, "Veteran not accessible"},
		{CodeVeteranNotFound, 404, "Veteran not found"},
		{CodeDuplicateIntakeInProgress, 409, "Duplicate intake in progress"},
		{CodeUnknownContestationType, 422, "Unknown contestation type"},
		{CodeNotesOrDecisionTextRequired, 422, "Either notes or decision text must be present when contesting other"},
		{CodeMalformedRequest, 400, "Malformed request"},
	}
	for _, tc := range cases {
		got := ErrorFor(string(tc.code))
		if got.Status != tc.status || got.Code != string(tc.code) || got.Title != tc.title {
			t.Errorf("ErrorFor(%q) = %+v", tc.code, got)
		}
		if ErrorFor(tc.code) != got {
			t.Errorf("ErrorFor(Code(%q)) differs from string lookup", tc.code)
		}
	}
}

func TestErrorFor_EveryValidatorCodeIsInTable(t *testing.T) {
	codes := []Code{
		CodeLegacyIssueWithoutOptIn, CodeNotesOrDecisionTextRequired,
		CodeDecisionIssueIDRequired, CodeLegacyIssueIDRequired, CodeRatingIssueIDRequired,
		CodeDecisionIssueNotesRequired, CodeLegacyIssueNotesRequired, CodeRatingIssueNotesRequired,
		CodeUnknownCategoryForBenefit, CodeUnknownContestationType,
		CodeInvalidFileNumber, CodeIntakeStartFailed, CodeIntakeReviewFailed, CodeIntakeCompleteFailed,
		CodeIntakeNotFound,
	}
	for _, c := range codes {
		if _, ok := errorsByCode[string(c)]; !ok {
			t.Errorf("code %q missing from error table", c)
		}
	}
}

func TestErrorFor_UnknownInputs(t *testing.T) {
	inputs := []any{"no_such_code", "", "Unknown Contestation Type", nil, 422, 3.5, []string{"veteran_not_found"}, struct{}{}}
	for _, in := range inputs {
		if got := ErrorFor(in); got != UnknownError {
			t.Errorf("ErrorFor(%#v) = %+v, want UnknownError", in, got)
		}
	}
	if UnknownError.Status != 422 || UnknownError.Code != "unknown_error" || UnknownError.Title != "Unknown error" {
		t.Errorf("UnknownError = %+v", UnknownError)
	}
}

func TestCodeFromTitle(t *testing.T) {
	cases := map[string]string{
		"Veteran not found":            "veteran_not_found",
		"Intake review failed!":        "intake_review_failed",
		"Audit (DFAS) error - 2nd try": "audit_dfas_error__2nd_try",
	}
	for title, want := range cases {
		if got := codeFromTitle(title); got != want {
			t.Errorf("codeFromTitle(%q) = %q, want %q", title, got, want)
		}
	}
}

func TestBuildErrorTable_ExplicitCodeWins(t *testing.T) {
	table := buildErrorTable(map[int][]errorEntry{
		418: {{title: "Short and stout", code: "teapot"}},
	})
	got, ok := table["teapot"]
	if !ok {
		t.Fatal("explicit code not used")
	}
	if got.Status != 418 || got.Title != "Short and stout" {
		t.Errorf("entry = %+v", got)
	}
	if _, ok := table["short_and_stout"]; ok {
		t.Error("derived code should not be present when explicit code is given")
	}
}

func TestValidationError_JSONKeyOrder(t *testing.T) {
	data, err := json.Marshal(ErrorFor(CodeVeteranNotFound))
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	want := `{"status":404,"code":"veteran_not_found","title":"Veteran not found"}`
	if string(data) != want {
		t.Errorf("json = %s, want %s", data, want)
	}
}
