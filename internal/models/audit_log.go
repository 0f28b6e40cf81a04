package models

import "time"

type AuditLog struct {
	ID        uint `gorm:"primaryKey"`
	CreatedAt time.Time

	StaffID uint // 0 for applicant-side actions
	Staff   StaffUser

	Entity   string `gorm:"size:50;not null"` // "application", "staff", "review"
	EntityID string `gorm:"size:50"`
	Action   string `gorm:"size:50;not null"` // "submit", "login", "status_change" etc.
	Details  string `gorm:"type:text"`
}
