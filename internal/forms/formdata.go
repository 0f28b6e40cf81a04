package forms

import "errors"

const (
	// MaxSDGGoals caps how many SDG goals one project may claim.
	MaxSDGGoals = 3

	// SDGGoalMin and SDGGoalMax bound the UN goal numbering.
	SDGGoalMin = 1
	SDGGoalMax = 17
)

var (
	ErrSDGLimit    = errors.New("at most 3 SDG goals may be selected")
	ErrSDGRange    = errors.New("SDG goal must be between 1 and 17")
	ErrBudgetField = errors.New("unknown budget item field")
)

// BudgetItem is one row of the project budget. The ID is only list identity
// inside a single application, it is never a database key.
type BudgetItem struct {
	ID            int    `json:"id"`
	Items         string `json:"items"`
	Components    string `json:"components"`
	Quantity      string `json:"quantity"`
	Justification string `json:"justification"`
}

// FundingPrograms holds the IEEE programs the applicant is applying under.
type FundingPrograms struct {
	IEEESight        bool `json:"ieeeSight"`
	IEEEHTB          bool `json:"ieeeHtb"`
	IEEEFoundation   bool `json:"ieeeFoundation"`
	IEEESmartVillage bool `json:"ieeeSmartVillage"`
}

// FormData is the full funding application as collected across all wizard
// steps. Every field is mutated independently; cross-field rules live on the
// mutation helpers below.
type FormData struct {
	// Identity / verification
	StudentID string `json:"studentId"`
	Email     string `json:"email"`
	OTP       string `json:"otp"`

	// Basic information
	FirstName        string `json:"firstName"`
	LastName         string `json:"lastName"`
	IEEEMembershipNo string `json:"ieeeMembershipNo"`
	EmailID          string `json:"emailId"`
	PhoneNo          string `json:"phoneNo"`
	Year             string `json:"year"`
	Department       string `json:"department"`

	// Project information
	ProjectTitle   string `json:"projectTitle"`
	PrimarySDGGoal string `json:"primarySDGGoal"`
	TeamSize       string `json:"teamSize"`
	MentorName     string `json:"mentorName"`
	MentorID       string `json:"mentorId"`
	SAPCode        string `json:"sapCode"`

	// Technical narrative
	ProblemStatement       string `json:"problemStatement"`
	ProjectIdeaDescription string `json:"projectIdeaDescription"`
	ProjectMethodology     string `json:"projectMethodology"`
	TechnicalStack         string `json:"technicalStack"`

	// Funding
	TechnologyReadinessLevel string          `json:"technologyReadinessLevel"`
	TRLJustification         string          `json:"trlJustification"`
	SelectedSDGGoals         []int           `json:"selectedSDGGoals"`
	SDGJustification         string          `json:"sdgJustification"`
	FundingPrograms          FundingPrograms `json:"fundingPrograms"`
	FundingAmount            string          `json:"fundingAmount"`
	IEEEFundingProgram       string          `json:"ieeeFundingProgram"`

	// Budget
	BudgetItems []BudgetItem `json:"budgetItems"`

	// Timeline
	ProjectStartDate string `json:"projectStartDate"`
	ProjectEndDate   string `json:"projectEndDate"`
	KeyMilestones    string `json:"keyMilestones"`

	// Impact
	TargetBeneficiaries string `json:"targetBeneficiaries"`
	ExpectedOutcomes    string `json:"expectedOutcomes"`
	SustainabilityPlan  string `json:"sustainabilityPlan"`
}

// New returns an empty application with one blank budget row. The budget list
// never drops below one row.
func New() *FormData {
	return &FormData{
		SelectedSDGGoals: []int{},
		BudgetItems: []BudgetItem{
			{ID: 1},
		},
	}
}

// ToggleSDGGoal adds or removes one goal from the selection. Toggling the
// same goal twice restores the previous selection. A fourth distinct goal is
// rejected with ErrSDGLimit.
func (f *FormData) ToggleSDGGoal(goalID int) error {
	if goalID < SDGGoalMin || goalID > SDGGoalMax {
		return ErrSDGRange
	}

	for i, g := range f.SelectedSDGGoals {
		if g == goalID {
			f.SelectedSDGGoals = append(f.SelectedSDGGoals[:i], f.SelectedSDGGoals[i+1:]...)
			return nil
		}
	}

	if len(f.SelectedSDGGoals) >= MaxSDGGoals {
		return ErrSDGLimit
	}
	f.SelectedSDGGoals = append(f.SelectedSDGGoals, goalID)
	return nil
}

// AddBudgetItem appends a blank row and returns its id (max existing id + 1).
func (f *FormData) AddBudgetItem() int {
	next := 1
	for _, it := range f.BudgetItems {
		if it.ID >= next {
			next = it.ID + 1
		}
	}
	f.BudgetItems = append(f.BudgetItems, BudgetItem{ID: next})
	return next
}

// RemoveBudgetItem deletes the row with the given id. Removing the last
// remaining row is a no-op; the list never becomes empty. Returns whether a
// row was removed.
func (f *FormData) RemoveBudgetItem(id int) bool {
	if len(f.BudgetItems) <= 1 {
		return false
	}
	for i, it := range f.BudgetItems {
		if it.ID == id {
			f.BudgetItems = append(f.BudgetItems[:i], f.BudgetItems[i+1:]...)
			return true
		}
	}
	return false
}

// SetBudgetItemField updates one column of one budget row.
func (f *FormData) SetBudgetItemField(id int, field, value string) error {
	for i := range f.BudgetItems {
		if f.BudgetItems[i].ID != id {
			continue
		}
		switch field {
		case "items":
			f.BudgetItems[i].Items = value
		case "components":
			f.BudgetItems[i].Components = value
		case "quantity":
			f.BudgetItems[i].Quantity = value
		case "justification":
			f.BudgetItems[i].Justification = value
		default:
			return ErrBudgetField
		}
		return nil
	}
	return ErrBudgetField
}
