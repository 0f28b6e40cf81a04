package forms

import "errors"

var ErrUnknownField = errors.New("unknown form field")

// SetField assigns one named field of the record. Field names match the JSON
// wire names. No validation happens here; validators only ever report, they
// never block a write.
func (f *FormData) SetField(name, value string) error {
	switch name {
	case "studentId":
		f.StudentID = value
	case "email":
		f.Email = value
	case "otp":
		f.OTP = value
	case "firstName":
		f.FirstName = value
	case "lastName":
		f.LastName = value
	case "ieeeMembershipNo":
		f.IEEEMembershipNo = value
	case "emailId":
		f.EmailID = value
	case "phoneNo":
		f.PhoneNo = value
	case "year":
		f.Year = value
	case "department":
		f.Department = value
	case "projectTitle":
		f.ProjectTitle = value
	case "primarySDGGoal":
		f.PrimarySDGGoal = value
	case "teamSize":
		f.TeamSize = value
	case "mentorName":
		f.MentorName = value
	case "mentorId":
		f.MentorID = value
	case "sapCode":
		f.SAPCode = value
	case "problemStatement":
		f.ProblemStatement = value
	case "projectIdeaDescription":
		f.ProjectIdeaDescription = value
	case "projectMethodology":
		f.ProjectMethodology = value
	case "technicalStack":
		f.TechnicalStack = value
	case "technologyReadinessLevel":
		f.TechnologyReadinessLevel = value
	case "trlJustification":
		f.TRLJustification = value
	case "sdgJustification":
		f.SDGJustification = value
	case "fundingAmount":
		f.FundingAmount = value
	case "ieeeFundingProgram":
		f.IEEEFundingProgram = value
	case "projectStartDate":
		f.ProjectStartDate = value
	case "projectEndDate":
		f.ProjectEndDate = value
	case "keyMilestones":
		f.KeyMilestones = value
	case "targetBeneficiaries":
		f.TargetBeneficiaries = value
	case "expectedOutcomes":
		f.ExpectedOutcomes = value
	case "sustainabilityPlan":
		f.SustainabilityPlan = value
	default:
		return ErrUnknownField
	}
	return nil
}

// SetFundingProgram flips one of the four program checkboxes.
func (f *FormData) SetFundingProgram(name string, selected bool) error {
	switch name {
	case "ieeeSight":
		f.FundingPrograms.IEEESight = selected
	case "ieeeHtb":
		f.FundingPrograms.IEEEHTB = selected
	case "ieeeFoundation":
		f.FundingPrograms.IEEEFoundation = selected
	case "ieeeSmartVillage":
		f.FundingPrograms.IEEESmartVillage = selected
	default:
		return ErrUnknownField
	}
	return nil
}
