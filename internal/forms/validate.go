package forms

import (
	"fmt"
	"regexp"
	"strings"
)

var (
	emailPattern  = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)
	ieeeNoPattern = regexp.MustCompile(`^\d{8}$`)
	nonDigit      = regexp.MustCompile(`\D`)
	otpPattern    = regexp.MustCompile(`^\d{6}$`)
)

// rule describes validation for one field. Zero values mean "not checked".
type rule struct {
	label    string
	required bool
	email    bool
	phone    bool
	ieeeNo   bool
	minLen   int
}

// rules is the per-field validation table. Minimum lengths follow the rules
// actually enforced by the product, notably trlJustification at 50.
var rules = map[string]rule{
	"firstName":        {label: "First name", required: true},
	"lastName":         {label: "Last name", required: true},
	"ieeeMembershipNo": {label: "IEEE membership number", required: true, ieeeNo: true},
	"emailId":          {label: "Email", required: true, email: true},
	"email":            {label: "Email", required: true, email: true},
	"phoneNo":          {label: "Phone number", required: true, phone: true},
	"year":             {label: "Year of study", required: true},
	"department":       {label: "Department", required: true},

	"projectTitle":   {label: "Project title", required: true},
	"primarySDGGoal": {label: "Primary SDG goal", required: true},
	"teamSize":       {label: "Team size", required: true},
	"mentorName":     {label: "Mentor name", required: true},
	"mentorId":       {label: "Mentor ID", required: true},
	"sapCode":        {label: "SAP code", required: true},

	"problemStatement":       {label: "Problem statement", required: true, minLen: 100},
	"projectIdeaDescription": {label: "Project idea description", required: true, minLen: 100},
	"projectMethodology":     {label: "Project methodology", required: true, minLen: 50},
	"technicalStack":         {label: "Technical stack", required: true},

	"technologyReadinessLevel": {label: "Technology readiness level", required: true},
	"trlJustification":         {label: "TRL justification", required: true, minLen: 50},
	"sdgJustification":         {label: "SDG justification", required: true, minLen: 50},
	"fundingAmount":            {label: "Funding amount", required: true},

	"projectStartDate": {label: "Project start date", required: true},
	"projectEndDate":   {label: "Project end date", required: true},
	"keyMilestones":    {label: "Key milestones", required: true},

	"targetBeneficiaries": {label: "Target beneficiaries", required: true},
	"expectedOutcomes":    {label: "Expected outcomes", required: true, minLen: 50},
	"sustainabilityPlan":  {label: "Sustainability plan", required: true, minLen: 150},
}

// Validate checks one field value and returns an error message, or "" when
// the value passes. It is a pure function: same input, same message. Unknown
// fields are not validated.
func Validate(field, value string) string {
	r, ok := rules[field]
	if !ok {
		return ""
	}

	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		if r.required {
			return r.label + " is required"
		}
		return ""
	}

	if r.email && !emailPattern.MatchString(trimmed) {
		return "Please enter a valid email address"
	}
	if r.phone {
		digits := nonDigit.ReplaceAllString(trimmed, "")
		if len(digits) != 10 {
			return "Phone number must be 10 digits"
		}
	}
	if r.ieeeNo && !ieeeNoPattern.MatchString(trimmed) {
		return "IEEE membership number must be 8 digits"
	}
	if r.minLen > 0 && len(trimmed) < r.minLen {
		return fmt.Sprintf("%s must be at least %d characters", r.label, r.minLen)
	}
	return ""
}

// ValidOTPFormat reports whether the value is a syntactically valid 6-digit
// code. Whether the code matches the one issued is checked server side.
func ValidOTPFormat(code string) bool {
	return otpPattern.MatchString(code)
}

// ValidateSection runs Validate over a set of fields and collects the
// non-empty messages keyed by field name.
func ValidateSection(f *FormData, fields []string) map[string]string {
	out := map[string]string{}
	for _, name := range fields {
		value, _ := fieldValue(f, name)
		if msg := Validate(name, value); msg != "" {
			out[name] = msg
		}
	}
	return out
}

// fieldValue mirrors SetField for reads.
func fieldValue(f *FormData, name string) (string, bool) {
	switch name {
	case "studentId":
		return f.StudentID, true
	case "email":
		return f.Email, true
	case "otp":
		return f.OTP, true
	case "firstName":
		return f.FirstName, true
	case "lastName":
		return f.LastName, true
	case "ieeeMembershipNo":
		return f.IEEEMembershipNo, true
	case "emailId":
		return f.EmailID, true
	case "phoneNo":
		return f.PhoneNo, true
	case "year":
		return f.Year, true
	case "department":
		return f.Department, true
	case "projectTitle":
		return f.ProjectTitle, true
	case "primarySDGGoal":
		return f.PrimarySDGGoal, true
	case "teamSize":
		return f.TeamSize, true
	case "mentorName":
		return f.MentorName, true
	case "mentorId":
		return f.MentorID, true
	case "sapCode":
		return f.SAPCode, true
	case "problemStatement":
		return f.ProblemStatement, true
	case "projectIdeaDescription":
		return f.ProjectIdeaDescription, true
	case "projectMethodology":
		return f.ProjectMethodology, true
	case "technicalStack":
		return f.TechnicalStack, true
	case "technologyReadinessLevel":
		return f.TechnologyReadinessLevel, true
	case "trlJustification":
		return f.TRLJustification, true
	case "sdgJustification":
		return f.SDGJustification, true
	case "fundingAmount":
		return f.FundingAmount, true
	case "ieeeFundingProgram":
		return f.IEEEFundingProgram, true
	case "projectStartDate":
		return f.ProjectStartDate, true
	case "projectEndDate":
		return f.ProjectEndDate, true
	case "keyMilestones":
		return f.KeyMilestones, true
	case "targetBeneficiaries":
		return f.TargetBeneficiaries, true
	case "expectedOutcomes":
		return f.ExpectedOutcomes, true
	case "sustainabilityPlan":
		return f.SustainabilityPlan, true
	}
	return "", false
}

// SectionFields groups field names the way the wizard presents them. Handlers
// use these sets to gate step progression.
var SectionFields = map[string][]string{
	"basicInfo": {
		"firstName", "lastName", "ieeeMembershipNo", "emailId",
		"phoneNo", "year", "department",
	},
	"projectInfo": {
		"projectTitle", "primarySDGGoal", "teamSize",
		"mentorName", "mentorId", "sapCode",
	},
	"technicals": {
		"problemStatement", "projectIdeaDescription",
		"projectMethodology", "technicalStack",
	},
	"fundingTimeline": {
		"technologyReadinessLevel", "trlJustification", "sdgJustification",
		"fundingAmount", "projectStartDate", "projectEndDate", "keyMilestones",
	},
	"impact": {
		"targetBeneficiaries", "expectedOutcomes", "sustainabilityPlan",
	},
}
