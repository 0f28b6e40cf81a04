package models

import "gorm.io/gorm"

type ReviewDecision string

const (
	DecisionApprove       ReviewDecision = "approve"
	DecisionReject        ReviewDecision = "reject"
	DecisionNeedsRevision ReviewDecision = "needs_revision"
	DecisionMarkCompleted ReviewDecision = "mark_completed"
)

// ProjectReview is one mentor's verdict on an application.
type ProjectReview struct {
	gorm.Model
	ApplicationID string `gorm:"size:36;index;not null"`

	MentorID uint `gorm:"not null"` // StaffUser.ID with role mentor
	Mentor   StaffUser

	Decision ReviewDecision `gorm:"type:varchar(20);not null"`
	Comments string         `gorm:"type:text"`
}
