package handlers

import (
	"net/http"

	"ieee-funding-portal/internal/database"
	"ieee-funding-portal/internal/models"

	"github.com/gin-gonic/gin"
)

func ListAuditLogs(c *gin.Context) {
	var logs []models.AuditLog
	err := database.DB.
		Preload("Staff").
		Order("created_at desc").
		Limit(200).
		Find(&logs).Error
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load audit log"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"logs": logs})
}
