package handlers

import (
	"context"
	"errors"
	"io"
	"net/http"

	"ieee-funding-portal/internal/draft"
	"ieee-funding-portal/internal/forms"
	"ieee-funding-portal/internal/report"
	"ieee-funding-portal/internal/wizard"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const maxAttachmentBytes = 10 << 20 // per uploaded file

// ApplicationHandler exposes the wizard over HTTP. Each request loads the
// session from the draft store, applies one operation and relies on the
// controller to write the result back.
type ApplicationHandler struct {
	wiz *wizard.Controller
	log *zap.Logger
}

func NewApplicationHandler(wiz *wizard.Controller, log *zap.Logger) *ApplicationHandler {
	return &ApplicationHandler{wiz: wiz, log: log}
}

type studentRef struct {
	StudentID string `json:"studentId" binding:"required"`
}

func (h *ApplicationHandler) session(c *gin.Context, studentID string) (*wizard.Session, bool) {
	s, _, err := h.wiz.Start(c.Request.Context(), studentID)
	if err != nil {
		h.log.Error("failed to load wizard session", zap.String("studentId", studentID), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load application state"})
		return nil, false
	}
	return s, true
}

// Start resumes a draft or begins a fresh application.
func (h *ApplicationHandler) Start(c *gin.Context) {
	var req studentRef
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "studentId is required"})
		return
	}

	s, resumed, err := h.wiz.Start(c.Request.Context(), req.StudentID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load application state"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"resumed": resumed, "session": s})
}

type sendOTPRequest struct {
	StudentID string `json:"studentId" binding:"required"`
	Email     string `json:"email" binding:"required"`
}

// SendOTP implements POST /api/auth/send-otp.
func (h *ApplicationHandler) SendOTP(c *gin.Context) {
	var req sendOTPRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "studentId and email are required"})
		return
	}

	s, ok := h.session(c, req.StudentID)
	if !ok {
		return
	}
	_ = s.Form.SetField("email", req.Email)

	msg, err := h.wiz.SendOTP(c.Request.Context(), s)
	if err != nil {
		if errors.Is(err, draft.ErrAlreadySubmitted) {
			c.JSON(http.StatusConflict, gin.H{"success": false, "message": msg})
			return
		}
		c.JSON(http.StatusBadGateway, gin.H{"success": false, "message": msg})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": s.Verification.OTPSent, "message": msg})
}

type verifyOTPRequest struct {
	StudentID string `json:"studentId" binding:"required"`
	OTP       string `json:"otp" binding:"required"`
}

// VerifyOTP implements POST /api/auth/verify-otp.
func (h *ApplicationHandler) VerifyOTP(c *gin.Context) {
	var req verifyOTPRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "studentId and otp are required"})
		return
	}

	s, ok := h.session(c, req.StudentID)
	if !ok {
		return
	}

	msg, err := h.wiz.VerifyOTP(c.Request.Context(), s, req.OTP)
	if err != nil {
		c.JSON(http.StatusBadGateway, gin.H{"success": false, "message": msg})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": s.Verification.OTPVerified, "message": msg, "step": s.Step})
}

// Continue, Next and DocumentsNext advance the wizard one screen.
func (h *ApplicationHandler) Continue(c *gin.Context) {
	h.transition(c, h.wiz.Continue)
}

func (h *ApplicationHandler) Next(c *gin.Context) {
	h.transition(c, h.wiz.NextStep)
}

func (h *ApplicationHandler) DocumentsNext(c *gin.Context) {
	h.transition(c, h.wiz.DocumentsNext)
}

func (h *ApplicationHandler) transition(c *gin.Context, op func(ctx context.Context, s *wizard.Session) error) {
	var req studentRef
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "studentId is required"})
		return
	}

	s, ok := h.session(c, req.StudentID)
	if !ok {
		return
	}

	if err := op(c.Request.Context(), s); err != nil {
		status := http.StatusConflict
		if errors.Is(err, wizard.ErrNotVerified) {
			status = http.StatusForbidden
		}
		c.JSON(status, gin.H{"error": err.Error(), "step": s.Step})
		return
	}
	c.JSON(http.StatusOK, gin.H{"step": s.Step})
}

type fieldRequest struct {
	StudentID string `json:"studentId" binding:"required"`
	Name      string `json:"name" binding:"required"`
	Value     string `json:"value"`
}

func (h *ApplicationHandler) UpdateField(c *gin.Context) {
	var req fieldRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "studentId and name are required"})
		return
	}

	s, ok := h.session(c, req.StudentID)
	if !ok {
		return
	}

	if err := h.wiz.UpdateField(c.Request.Context(), s, req.Name, req.Value); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	// validation decorates, it never blocks the write
	c.JSON(http.StatusOK, gin.H{"validation": forms.Validate(req.Name, req.Value)})
}

type fundingProgramRequest struct {
	StudentID string `json:"studentId" binding:"required"`
	Name      string `json:"name" binding:"required"`
	Selected  bool   `json:"selected"`
}

func (h *ApplicationHandler) UpdateFundingProgram(c *gin.Context) {
	var req fundingProgramRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "studentId and name are required"})
		return
	}

	s, ok := h.session(c, req.StudentID)
	if !ok {
		return
	}

	if err := h.wiz.UpdateFundingProgram(c.Request.Context(), s, req.Name, req.Selected); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"fundingPrograms": s.Form.FundingPrograms})
}

type sdgToggleRequest struct {
	StudentID string `json:"studentId" binding:"required"`
	GoalID    int    `json:"goalId" binding:"required"`
}

func (h *ApplicationHandler) ToggleSDGGoal(c *gin.Context) {
	var req sdgToggleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "studentId and goalId are required"})
		return
	}

	s, ok := h.session(c, req.StudentID)
	if !ok {
		return
	}

	if err := h.wiz.ToggleSDGGoal(c.Request.Context(), s, req.GoalID); err != nil {
		if errors.Is(err, forms.ErrSDGLimit) {
			c.JSON(http.StatusConflict, gin.H{"error": "You can select a maximum of 3 SDG goals"})
			return
		}
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"selectedSDGGoals": s.Form.SelectedSDGGoals})
}

func (h *ApplicationHandler) AddBudgetItem(c *gin.Context) {
	var req studentRef
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "studentId is required"})
		return
	}

	s, ok := h.session(c, req.StudentID)
	if !ok {
		return
	}

	id, err := h.wiz.AddBudgetItem(c.Request.Context(), s)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to save draft"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"id": id, "budgetItems": s.Form.BudgetItems})
}

type budgetItemRef struct {
	StudentID string `json:"studentId" binding:"required"`
	ID        int    `json:"id" binding:"required"`
}

func (h *ApplicationHandler) RemoveBudgetItem(c *gin.Context) {
	var req budgetItemRef
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "studentId and id are required"})
		return
	}

	s, ok := h.session(c, req.StudentID)
	if !ok {
		return
	}

	removed, err := h.wiz.RemoveBudgetItem(c.Request.Context(), s, req.ID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to save draft"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"removed": removed, "budgetItems": s.Form.BudgetItems})
}

type budgetFieldRequest struct {
	StudentID string `json:"studentId" binding:"required"`
	ID        int    `json:"id" binding:"required"`
	Field     string `json:"field" binding:"required"`
	Value     string `json:"value"`
}

func (h *ApplicationHandler) UpdateBudgetItemField(c *gin.Context) {
	var req budgetFieldRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "studentId, id and field are required"})
		return
	}

	s, ok := h.session(c, req.StudentID)
	if !ok {
		return
	}

	if err := h.wiz.UpdateBudgetItemField(c.Request.Context(), s, req.ID, req.Field, req.Value); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"budgetItems": s.Form.BudgetItems})
}

type saveDraftRequest struct {
	StudentID string         `json:"studentId" binding:"required"`
	FormData  forms.FormData `json:"formData" binding:"required"`
	Step      string         `json:"step"`
}

// SaveDraft accepts a wholesale snapshot from the client. Verification flags
// are taken from the server-side session, never from the payload.
func (h *ApplicationHandler) SaveDraft(c *gin.Context) {
	var req saveDraftRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "studentId and formData are required"})
		return
	}

	s, ok := h.session(c, req.StudentID)
	if !ok {
		return
	}

	req.FormData.StudentID = req.StudentID
	s.Form = req.FormData
	if step := wizard.Step(req.Step); step.Valid() {
		s.Step = step
	}

	if err := h.wiz.SaveDraft(c.Request.Context(), s); err != nil {
		if errors.Is(err, draft.ErrDraftInvalid) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "formData violates draft constraints"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to save draft"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"saved": true})
}

// ValidateSection reports field errors for one wizard section without
// mutating anything.
func (h *ApplicationHandler) ValidateSection(c *gin.Context) {
	studentID := c.Query("studentId")
	section := c.Param("section")
	fields, known := forms.SectionFields[section]
	if studentID == "" || !known {
		c.JSON(http.StatusBadRequest, gin.H{"error": "unknown section or missing studentId"})
		return
	}

	s, ok := h.session(c, studentID)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, gin.H{"errors": forms.ValidateSection(&s.Form, fields)})
}

// Submit finishes the application. The request is multipart: one file part
// per document-type key. The response body is the generated PDF.
func (h *ApplicationHandler) Submit(c *gin.Context) {
	studentID := c.PostForm("studentId")
	if studentID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "studentId is required"})
		return
	}

	s, ok := h.session(c, studentID)
	if !ok {
		return
	}

	docs, err := h.collectAttachments(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	res, err := h.wiz.SubmitDeclaration(c.Request.Context(), s, docs)
	if err != nil {
		switch {
		case errors.Is(err, draft.ErrAlreadySubmitted):
			c.JSON(http.StatusConflict, gin.H{"error": wizard.MsgAlreadySubmitted})
		case errors.Is(err, wizard.ErrNotVerified):
			c.JSON(http.StatusForbidden, gin.H{"error": err.Error()})
		case errors.Is(err, wizard.ErrBadTransition):
			c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
		default:
			h.log.Error("submission failed", zap.String("studentId", studentID), zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": wizard.MsgPDFFailed})
		}
		return
	}

	c.Header("Content-Disposition", `attachment; filename="`+res.FileName+`"`)
	c.Data(http.StatusOK, "application/pdf", res.PDF)
}

func (h *ApplicationHandler) collectAttachments(c *gin.Context) ([]report.Attachment, error) {
	form, err := c.MultipartForm()
	if err != nil {
		return nil, errors.New("invalid multipart form")
	}

	var docs []report.Attachment
	for _, docType := range report.DocumentTypes {
		files := form.File[docType]
		if len(files) == 0 {
			continue
		}
		fh := files[0]
		if fh.Size > maxAttachmentBytes {
			return nil, errors.New("attachment too large: " + fh.Filename)
		}

		f, err := fh.Open()
		if err != nil {
			return nil, errors.New("failed to read attachment " + fh.Filename)
		}
		data := make([]byte, fh.Size)
		_, err = io.ReadFull(f, data)
		_ = f.Close()
		if err != nil {
			return nil, errors.New("failed to read attachment " + fh.Filename)
		}

		docs = append(docs, report.Attachment{
			DocType:  docType,
			FileName: fh.Filename,
			MIME:     fh.Header.Get("Content-Type"),
			Data:     data,
		})
	}
	return docs, nil
}
