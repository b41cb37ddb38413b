package intake

import "testing"

func TestIsBlank(t *testing.T) {
	var nilPtr *string
	empty := ""
	text := "x"

	cases := []struct {
		name string
		in   any
		want bool
	}{
		{"nil", nil, true},
		{"false", false, true},
		{"true", true, false},
		{"empty string", "", true},
		{"whitespace", " \t\n", true},
		{"text", "notes", false},
		{"padded text", "  notes ", false},
		{"zero", float64(0), false},
		{"int", 5, false},
		{"empty slice", []any{}, true},
		{"slice", []any{"a"}, false},
		{"empty map", map[string]any{}, true},
		{"typed empty slice", []string{}, true},
		{"nil pointer", nilPtr, true},
		{"pointer to empty", &empty, true},
		{"pointer to text", &text, false},
	}
	for _, tc := range cases {
		if got := IsBlank(tc.in); got != tc.want {
			t.Errorf("%s: IsBlank(%#v) = %v, want %v", tc.name, tc.in, got, tc.want)
		}
	}
}

func TestClassify(t *testing.T) {
	cases := []struct {
		raw  RawIssueRecord
		want Kind
	}{
		{RawIssueRecord{Contests: "on_file_decision_issue"}, KindDecisionIssue},
		{RawIssueRecord{Contests: "on_file_rating_issue"}, KindRatingIssue},
		{RawIssueRecord{Contests: "on_file_legacy_issue"}, KindLegacyIssue},
		{RawIssueRecord{Contests: "other", Category: "Apportionment"}, KindCategorizedOther},
		{RawIssueRecord{Contests: "other"}, KindUncategorizedOther},
		{RawIssueRecord{Contests: "other", Category: ""}, KindUncategorizedOther},
		{RawIssueRecord{Contests: "Other"}, KindUnknown},
		{RawIssueRecord{}, KindUnknown},
		{RawIssueRecord{Contests: 1}, KindUnknown},
	}
	for _, tc := range cases {
		if got := Classify(tc.raw); got != tc.want {
			t.Errorf("Classify(%+v) = %s, want %s", tc.raw, got, tc.want)
		}
	}
}

func TestCategoryAllowed(t *testing.T) {
	if !CategoryAllowed(BenefitPension, "Penalty Period") {
		t.Error("Penalty Period should be allowed for pension")
	}
	if CategoryAllowed(BenefitCompensation, "Penalty Period") {
		t.Error("Penalty Period should not be allowed for compensation")
	}
	if CategoryAllowed("unknown", "Apportionment") {
		t.Error("unknown benefit type should allow nothing")
	}
	if CategoryAllowed(BenefitPension, nil) {
		t.Error("nil category should not be allowed")
	}

	cats := Categories(BenefitPension)
	cats[0] = "mutated"
	if Categories(BenefitPension)[0] == "mutated" {
		t.Error("Categories must return a copy")
	}
}
