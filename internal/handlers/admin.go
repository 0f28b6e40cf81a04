package handlers

import (
	"net/http"

	"ieee-funding-portal/internal/database"
	"ieee-funding-portal/internal/middleware"
	"ieee-funding-portal/internal/models"

	"github.com/gin-gonic/gin"
)

// ListApplications returns submitted applications, optionally filtered by
// status, newest first.
func ListApplications(c *gin.Context) {
	q := database.DB.
		Preload("BudgetItems").
		Preload("Attachments").
		Order("created_at desc")

	if status := c.Query("status"); status != "" {
		q = q.Where("status = ?", status)
	}

	var apps []models.Application
	if err := q.Find(&apps).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load applications"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"applications": apps})
}

// GetApplication returns one application with budget, attachments and
// reviews.
func GetApplication(c *gin.Context) {
	var app models.Application
	err := database.DB.
		Preload("BudgetItems").
		Preload("Attachments").
		Preload("Reviews").
		Preload("Reviews.Mentor").
		First(&app, "id = ?", c.Param("id")).Error
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "application not found"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"application": app})
}

type statusUpdateRequest struct {
	Status string `json:"status" binding:"required"`
}

// UpdateApplicationStatus moves an application through its review lifecycle.
func UpdateApplicationStatus(c *gin.Context) {
	staff, ok := middleware.CurrentStaff(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "authentication required"})
		return
	}

	var req statusUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "status is required"})
		return
	}

	status := models.ApplicationStatus(req.Status)
	switch status {
	case models.StatusSubmitted, models.StatusUnderReview, models.StatusApproved,
		models.StatusRejected, models.StatusCompleted:
	default:
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid status"})
		return
	}

	var app models.Application
	if err := database.DB.First(&app, "id = ?", c.Param("id")).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "application not found"})
		return
	}

	if err := database.DB.Model(&app).Update("status", status).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to update status"})
		return
	}

	database.CreateAuditLog(staff.ID, "application", app.ID, "status_change",
		"Status set to "+req.Status)

	c.JSON(http.StatusOK, gin.H{"success": true, "status": status})
}

// ListStaff returns all staff accounts without password hashes.
func ListStaff(c *gin.Context) {
	var staff []models.StaffUser
	if err := database.DB.Order("created_at asc").Find(&staff).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load staff"})
		return
	}

	type entry struct {
		ID    uint             `json:"id"`
		Name  string           `json:"name"`
		Email string           `json:"email"`
		Role  models.StaffRole `json:"role"`
	}
	out := make([]entry, 0, len(staff))
	for _, u := range staff {
		out = append(out, entry{ID: u.ID, Name: u.Name, Email: u.Email, Role: u.Role})
	}
	c.JSON(http.StatusOK, gin.H{"staff": out})
}

// ListStudents implements GET /api/student: the known applicants.
func ListStudents(c *gin.Context) {
	var apps []models.Application
	if err := database.DB.
		Select("student_id", "email", "first_name", "last_name", "status").
		Order("created_at desc").
		Find(&apps).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load students"})
		return
	}

	type student struct {
		StudentID string `json:"studentId"`
		Email     string `json:"email"`
		Name      string `json:"name"`
		Status    string `json:"status"`
	}
	out := make([]student, 0, len(apps))
	for _, a := range apps {
		out = append(out, student{
			StudentID: a.StudentID,
			Email:     a.Email,
			Name:      a.FirstName + " " + a.LastName,
			Status:    string(a.Status),
		})
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "students": out})
}
