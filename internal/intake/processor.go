// Package intake validates and normalizes the request issues of a higher
// level review submission.
//
// Each issue is classified by what it contests and checked by the routine for
// that kind. A failing issue becomes a ValidationError; the rest of the batch
// is still processed, so a caller gets every problem in one response.
package intake

// Result is the outcome of processing one IntakeRequest. Issues and Errors
// each keep the input order of the records that produced them.
type Result struct {
	Review ReviewAttributes
	Issues []NormalizedIssue
	Errors []ValidationError
}

// HasErrors reports whether any record failed validation.
func (r *Result) HasErrors() bool {
	return len(r.Errors) > 0
}

// Process validates every issue of req. It never stops early and never
// invokes the intake workflow.
func Process(req *IntakeRequest) *Result {
	res := &Result{
		Review: req.Review(),
		Issues: []NormalizedIssue{},
		Errors: []ValidationError{},
	}
	b := batch{benefitType: req.BenefitType, legacyOptInApproved: req.LegacyOptInApproved}
	for _, raw := range req.Issues {
		out := b.validate(raw)
		if out.err != nil {
			res.Errors = append(res.Errors, *out.err)
			continue
		}
		res.Issues = append(res.Issues, out.issue)
	}
	return res
}
