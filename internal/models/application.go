package models

import (
	"time"

	"gorm.io/gorm"
)

type ApplicationStatus string

const (
	StatusSubmitted   ApplicationStatus = "submitted"
	StatusUnderReview ApplicationStatus = "under_review"
	StatusApproved    ApplicationStatus = "approved"
	StatusRejected    ApplicationStatus = "rejected"
	StatusCompleted   ApplicationStatus = "completed"
)

// Application is a submitted funding application. The full form is kept as
// JSON alongside the columns the dashboards filter and list on. The primary
// key is a UUID assigned at the data-access boundary.
type Application struct {
	ID        string `gorm:"primaryKey;size:36"`
	CreatedAt time.Time
	UpdatedAt time.Time

	StudentID    string            `gorm:"uniqueIndex;size:50;not null"`
	Email        string            `gorm:"size:255;not null"`
	FirstName    string            `gorm:"size:100"`
	LastName     string            `gorm:"size:100"`
	ProjectTitle string            `gorm:"size:255;not null"`
	MentorID     string            `gorm:"size:50;index"`
	MentorName   string            `gorm:"size:255"`
	SAPCode      string            `gorm:"size:50"`
	Status       ApplicationStatus `gorm:"type:varchar(20);not null"`

	FundingAmount string `gorm:"size:50"`
	FormJSON      string `gorm:"type:text;not null"` // the whole FormData record
	PDFName       string `gorm:"size:255"`

	BudgetItems []ApplicationBudgetItem
	Attachments []AttachmentMeta
	Reviews     []ProjectReview
}

// ApplicationBudgetItem is one budget row as submitted. Seq preserves the
// order and the in-form row id.
type ApplicationBudgetItem struct {
	gorm.Model
	ApplicationID string `gorm:"size:36;index;not null"`

	Seq           int
	Items         string `gorm:"size:255"`
	Components    string `gorm:"size:255"`
	Quantity      string `gorm:"size:50"`
	Justification string `gorm:"type:text"`
}

// AttachmentMeta describes one uploaded supporting document. File bytes are
// consumed by report generation at submit time; only metadata is kept.
type AttachmentMeta struct {
	ID        string `gorm:"primaryKey;size:36"`
	CreatedAt time.Time

	ApplicationID string `gorm:"size:36;index;not null"`
	DocType       string `gorm:"size:50;not null"`
	FileName      string `gorm:"size:255;not null"`
	MIME          string `gorm:"size:100"`
	SizeBytes     int64
}
