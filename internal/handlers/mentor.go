package handlers

import (
	"net/http"

	"ieee-funding-portal/internal/database"
	"ieee-funding-portal/internal/metrics"
	"ieee-funding-portal/internal/middleware"
	"ieee-funding-portal/internal/models"

	"github.com/gin-gonic/gin"
)

// MentorApplications lists applications awaiting this mentor's review.
// Matching is by the mentor ID the applicant entered on the form.
func MentorApplications(c *gin.Context) {
	staff, ok := middleware.CurrentStaff(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "authentication required"})
		return
	}

	q := database.DB.
		Preload("BudgetItems").
		Preload("Reviews").
		Order("created_at desc")

	// mentors see applications naming them; admins see everything
	if staff.Role == models.RoleMentor {
		q = q.Where("mentor_id = ? OR mentor_name = ?", staff.Email, staff.Name)
	}

	var apps []models.Application
	if err := q.Find(&apps).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load applications"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"applications": apps})
}

type reviewRequest struct {
	ApplicationID string `json:"applicationId" binding:"required"`
	Decision      string `json:"decision" binding:"required"`
	Comments      string `json:"comments"`
}

// SubmitReview records a mentor's verdict and moves the application status
// accordingly.
func SubmitReview(c *gin.Context) {
	staff, ok := middleware.CurrentStaff(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "authentication required"})
		return
	}

	var req reviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "applicationId and decision are required"})
		return
	}

	decision := models.ReviewDecision(req.Decision)
	var newStatus models.ApplicationStatus
	switch decision {
	case models.DecisionApprove:
		newStatus = models.StatusApproved
	case models.DecisionReject:
		newStatus = models.StatusRejected
	case models.DecisionNeedsRevision:
		newStatus = models.StatusUnderReview
	case models.DecisionMarkCompleted:
		newStatus = models.StatusCompleted
	default:
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid decision"})
		return
	}

	var app models.Application
	if err := database.DB.First(&app, "id = ?", req.ApplicationID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "application not found"})
		return
	}

	review := models.ProjectReview{
		ApplicationID: app.ID,
		MentorID:      staff.ID,
		Decision:      decision,
		Comments:      req.Comments,
	}
	if err := database.DB.Create(&review).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to record review"})
		return
	}

	if err := database.DB.Model(&app).Update("status", newStatus).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to update application status"})
		return
	}

	metrics.ReviewsRecorded.WithLabelValues(string(decision)).Inc()
	database.CreateAuditLog(staff.ID, "review", app.ID, "review",
		"Decision "+req.Decision+" by "+staff.Name)

	c.JSON(http.StatusOK, gin.H{"success": true, "status": newStatus})
}

// CompletedProjects lists applications whose projects finished.
func CompletedProjects(c *gin.Context) {
	var apps []models.Application
	err := database.DB.
		Where("status = ?", models.StatusCompleted).
		Order("updated_at desc").
		Find(&apps).Error
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load completed projects"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"projects": apps})
}
