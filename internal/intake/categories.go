package intake

import "slices"

// Benefit type codes accepted on a higher level review.
const (
	BenefitCompensation = "compensation"
	BenefitPension      = "pension"
	BenefitFiduciary    = "fiduciary"
	BenefitInsurance    = "insurance"
	BenefitEducation    = "education"
	BenefitVocRehab     = "voc_rehab"
	BenefitLoanGuaranty = "loan_guaranty"
	BenefitVHA          = "vha"
	BenefitNCA          = "nca"
)

// issueCategories lists, per benefit type, the nonrating issue categories an
// "other" issue may name. Read-only after init.
var issueCategories = map[string][]string{
	BenefitCompensation: {
		"Unknown issue category",
		"Apportionment",
		"Incarceration Adjustments",
		"Audit Error Worksheet (DFAS)",
		"Active Duty Adjustments",
		"Drill Pay Adjustments",
		"Character of discharge determinations",
		"Income/net worth (pension)",
		"Dependent child - Adopted",
		"Dependent child - Stepchild",
		"Dependent child - Biological",
		"Dependency Spouse - Common law marriage",
		"Dependency Spouse - Inference of marriage",
		"Dependency Spouse - Deemed valid marriage",
		"Military Retired Pay",
		"Contested Claims (other than apportionment)",
		"Lack of Qualifying Service",
		"Other non-rated",
	},
	BenefitPension: {
		"Unknown issue category",
		"Eligibility | Wartime service",
		"Eligibility | Veteran Status",
		"Income/Net Worth | Countable Income",
		"Income/Net Worth | Residential Lot Size",
		"Income/Net Worth | Income Exclusions",
		"Income/Net Worth | Medical Expense Deductions",
		"Effective date | Liberalizing Law",
		"Effective date | Original Claim",
		"Effective date | Claim for Increase",
		"Penalty Period",
		"Apportionment",
		"Incarceration Adjustments",
		"Dependent Child - Biological",
		"Dependent Child - Adopted",
		"Dependent Child - Stepchild",
		"Dependent Child - Surviving Child",
		"Dependent Child - Helpless Child",
		"Dependent Spouse - Common law marriage",
		"Dependent Spouse - Inference of marriage",
		"Dependent Spouse - Deemed valid marriage",
		"Burial Benefits - NSC Burial",
		"Burial Benefits - Plot or Interment Allowance",
		"Burial Benefits - Transportation Allowance",
		"Other non-rated",
	},
	BenefitFiduciary: {
		"Unknown issue category",
		"Appointment of a Fiduciary (38 CFR 13.100)",
		"Removal of a Fiduciary (38 CFR 13.500)",
		"Misuse Determination (38 CFR 13.400)",
		"RO Misuse Determination (38 CFR 13.400)",
		"Other non-rated",
	},
	BenefitInsurance: {
		"Unknown issue category",
		"Waiver of premiums (non-rating)",
		"Reinstatement",
		"Beneficiary designation",
		"Other non-rated",
	},
	BenefitEducation: {
		"Unknown issue category",
		"Accrued",
		"Eligibility | 110 and expiration date",
		"Eligibility | Other",
		"Entitlement | Reduced before",
		"Entitlement | Other",
		"Effective date of award",
		"Other non-rated",
	},
	BenefitVocRehab: {
		"Unknown issue category",
		"Basic Eligibility",
		"Entitlement to Services",
		"Plan/Goal Selection",
		"Other non-rated",
	},
	BenefitLoanGuaranty: {
		"Unknown issue category",
		"Application of Entitlement",
		"Default/Foreclosure",
		"Other non-rated",
	},
	BenefitVHA: {
		"Unknown issue category",
		"Beneficiary Travel",
		"Caregiver | Eligibility",
		"Clothing Allowance",
		"Eligibility for Dental Treatment",
		"Other non-rated",
	},
	BenefitNCA: {
		"Unknown issue category",
		"Burial Benefits - NSC Burial",
		"Entitlement | Reserves/National Guard",
		"Other non-rated",
	},
}

// CategoryAllowed reports whether category is valid for benefitType. The
// comparison is an exact string match; non-strings are never allowed.
func CategoryAllowed(benefitType string, category any) bool {
	s, ok := category.(string)
	if !ok {
		return false
	}
	return slices.Contains(issueCategories[benefitType], s)
}

// Categories returns a copy of the allowed categories for benefitType.
func Categories(benefitType string) []string {
	return slices.Clone(issueCategories[benefitType])
}
