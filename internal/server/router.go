package server

import (
	"net/http"

	"ieee-funding-portal/internal/config"
	"ieee-funding-portal/internal/handlers"
	"ieee-funding-portal/internal/middleware"
	"ieee-funding-portal/internal/models"
	"ieee-funding-portal/internal/wizard"

	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

func NewRouter(cfg *config.Config, wiz *wizard.Controller, log *zap.Logger) *gin.Engine {
	r := gin.Default()

	store := cookie.NewStore([]byte(cfg.SessionSecret))
	r.Use(sessions.Sessions("portal_session", store))
	r.Use(middleware.InjectStaff())

	app := handlers.NewApplicationHandler(wiz, log)

	// APPLICANT FLOW (no account; identified by student ID + verified email)
	r.POST("/api/auth/send-otp", app.SendOTP)
	r.POST("/api/auth/verify-otp", app.VerifyOTP)
	r.GET("/api/student", handlers.ListStudents)

	api := r.Group("/api/application")
	{
		api.POST("/start", app.Start)
		api.POST("/continue", app.Continue)
		api.POST("/next", app.Next)
		api.POST("/documents-next", app.DocumentsNext)
		api.PUT("/field", app.UpdateField)
		api.PUT("/funding-program", app.UpdateFundingProgram)
		api.POST("/sdg-toggle", app.ToggleSDGGoal)
		api.POST("/budget-items", app.AddBudgetItem)
		api.POST("/budget-items/remove", app.RemoveBudgetItem)
		api.PUT("/budget-items", app.UpdateBudgetItemField)
		api.POST("/draft", app.SaveDraft)
		api.GET("/validate/:section", app.ValidateSection)
		api.POST("/submit", app.Submit)
	}

	// STAFF AUTH
	r.POST("/api/staff/register", handlers.Register)
	r.POST("/api/staff/login", handlers.Login)
	r.POST("/api/staff/logout", handlers.Logout)

	auth := r.Group("/api")
	auth.Use(middleware.RequireAuth())

	// MENTOR REVIEW DASHBOARD
	auth.GET("/mentor/applications",
		middleware.RequireRole(models.RoleAdmin, models.RoleMentor),
		handlers.MentorApplications,
	)
	auth.POST("/mentor/reviews",
		middleware.RequireRole(models.RoleAdmin, models.RoleMentor),
		handlers.SubmitReview,
	)
	auth.GET("/mentor/completed",
		middleware.RequireRole(models.RoleAdmin, models.RoleMentor, models.RoleStaff),
		handlers.CompletedProjects,
	)

	// ADMIN DASHBOARD
	auth.GET("/admin/applications",
		middleware.RequireRole(models.RoleAdmin, models.RoleStaff),
		handlers.ListApplications,
	)
	auth.GET("/admin/applications/:id",
		middleware.RequireRole(models.RoleAdmin, models.RoleStaff),
		handlers.GetApplication,
	)
	auth.PUT("/admin/applications/:id/status",
		middleware.RequireRole(models.RoleAdmin),
		handlers.UpdateApplicationStatus,
	)
	auth.GET("/admin/staff",
		middleware.RequireRole(models.RoleAdmin),
		handlers.ListStaff,
	)

	// AUDIT
	auth.GET("/admin/audit",
		middleware.RequireRole(models.RoleAdmin),
		handlers.ListAuditLogs,
	)

	// HEALTHCHECK + METRICS
	r.GET("/health", func(c *gin.Context) {
		c.String(http.StatusOK, "ok")
	})
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	return r
}
