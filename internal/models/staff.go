package models

import "gorm.io/gorm"

type StaffRole string

const (
	RoleAdmin  StaffRole = "admin"
	RoleStaff  StaffRole = "staff"
	RoleMentor StaffRole = "mentor"
)

// StaffUser is a chapter staff / mentor / admin account. Applicants never get
// accounts; they are identified by student ID and a verified email.
type StaffUser struct {
	gorm.Model
	Name         string    `gorm:"size:255;not null"`
	Email        string    `gorm:"uniqueIndex;size:255;not null"`
	PasswordHash string    `gorm:"not null"`
	Role         StaffRole `gorm:"type:varchar(20);not null"`
}
