package database

import "ieee-funding-portal/internal/models"

// CreateAuditLog appends one entry to the audit journal. staffID is 0 for
// applicant-side actions (there is no applicant account).
func CreateAuditLog(staffID uint, entity, entityID, action, details string) {
	if DB == nil {
		return
	}
	record := models.AuditLog{
		StaffID:  staffID,
		Entity:   entity,
		EntityID: entityID,
		Action:   action,
		Details:  details,
	}
	_ = DB.Create(&record).Error
}
