package intake

// Kind is the contestation kind of a request issue.
type Kind int

const (
	KindUnknown Kind = iota
	KindDecisionIssue
	KindRatingIssue
	KindLegacyIssue
	KindCategorizedOther
	KindUncategorizedOther
)

// Values accepted in the "contests" attribute.
const (
	ContestsDecisionIssue = "on_file_decision_issue"
	ContestsRatingIssue   = "on_file_rating_issue"
	ContestsLegacyIssue   = "on_file_legacy_issue"
	ContestsOther         = "other"
)

func (k Kind) String() string {
	switch k {
	case KindDecisionIssue:
		return "decision_issue"
	case KindRatingIssue:
		return "rating_issue"
	case KindLegacyIssue:
		return "legacy_issue"
	case KindCategorizedOther:
		return "categorized_other"
	case KindUncategorizedOther:
		return "uncategorized_other"
	default:
		return "unknown"
	}
}

// Classify picks the validation routine for raw from its contests value.
// Matching is exact and case-sensitive; anything else is KindUnknown.
func Classify(raw RawIssueRecord) Kind {
	contests, ok := raw.Contests.(string)
	if !ok {
		return KindUnknown
	}
	switch contests {
	case ContestsDecisionIssue:
		return KindDecisionIssue
	case ContestsRatingIssue:
		return KindRatingIssue
	case ContestsLegacyIssue:
		return KindLegacyIssue
	case ContestsOther:
		if IsBlank(raw.Category) {
			return KindUncategorizedOther
		}
		return KindCategorizedOther
	default:
		return KindUnknown
	}
}
