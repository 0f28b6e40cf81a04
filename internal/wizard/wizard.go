package wizard

import (
	"context"
	"errors"
	"fmt"
	"time"

	"ieee-funding-portal/internal/draft"
	"ieee-funding-portal/internal/forms"
	"ieee-funding-portal/internal/metrics"
	"ieee-funding-portal/internal/otp"
	"ieee-funding-portal/internal/report"

	"go.uber.org/zap"
)

var (
	ErrBadTransition = errors.New("operation not allowed from the current step")
	ErrNotVerified   = errors.New("email is not verified yet")
)

// Messages surfaced to the applicant alongside errors.
const (
	MsgAlreadySubmitted = "An application with this Student ID has already been submitted"
	MsgStudentIDMissing = "Please enter your Student ID"
	MsgEmailInvalid     = "Please enter a valid email address"
	MsgPDFFailed        = "Failed to generate application PDF. Please try again"
)

// Session is one applicant's wizard state: the whole form, the active step
// and the OTP flags. It is loaded from the draft store per request and
// written back by every mutating operation.
type Session struct {
	Form         forms.FormData     `json:"formData"`
	Step         Step               `json:"step"`
	Verification draft.Verification `json:"verification"`
}

// OTPService issues and checks one-time codes.
type OTPService interface {
	Send(ctx context.Context, email string) (string, error)
	Verify(ctx context.Context, email, code string) (bool, string, error)
}

// ReportBuilder renders the submitted form into the PDF artifact.
type ReportBuilder interface {
	Build(f *forms.FormData, docs []report.Attachment) ([]byte, error)
}

// Recorder persists the accepted application (database layer).
type Recorder interface {
	Record(ctx context.Context, f *forms.FormData, pdfName string, docs []report.Attachment) error
}

// SubmitResult is the outcome of a successful declaration submit.
type SubmitResult struct {
	FileName string
	PDF      []byte
}

// Controller drives the application wizard: step transitions, draft
// persistence, OTP gating and final submission.
type Controller struct {
	drafts  *draft.Manager
	otp     OTPService
	reports ReportBuilder
	rec     Recorder
	log     *zap.Logger
	now     func() time.Time
}

func NewController(drafts *draft.Manager, otp OTPService, reports ReportBuilder, rec Recorder, log *zap.Logger) *Controller {
	return &Controller{
		drafts:  drafts,
		otp:     otp,
		reports: reports,
		rec:     rec,
		log:     log,
		now:     time.Now,
	}
}

// Start loads the saved draft for the student, or begins a fresh session on
// the instructions step. A corrupt draft is dropped with a warning rather
// than failing the whole wizard.
func (c *Controller) Start(ctx context.Context, studentID string) (*Session, bool, error) {
	env, err := c.drafts.Load(ctx, studentID)
	switch {
	case err == nil:
		step := Step(env.Step)
		if !step.Valid() {
			step = StepInstructions
		}
		return &Session{Form: env.FormData, Step: step, Verification: env.Verification}, true, nil

	case errors.Is(err, draft.ErrNoDraft):
		// fresh session

	case errors.Is(err, draft.ErrDraftCorrupt):
		c.log.Warn("dropping corrupt draft", zap.String("studentId", studentID), zap.Error(err))
		_ = c.drafts.Clear(ctx, studentID)

	default:
		return nil, false, err
	}

	f := forms.New()
	f.StudentID = studentID
	return &Session{Form: *f, Step: StepInstructions}, false, nil
}

// persist writes the session back as the draft for its student ID.
func (c *Controller) persist(ctx context.Context, s *Session) error {
	return c.drafts.Save(ctx, s.Form.StudentID, &draft.Envelope{
		FormData:     s.Form,
		Step:         string(s.Step),
		Verification: s.Verification,
	})
}

// advance moves the session along the transition table and persists the new
// step.
func (c *Controller) advance(ctx context.Context, s *Session, from Step) error {
	if s.Step != from {
		return fmt.Errorf("%w: at %s, expected %s", ErrBadTransition, s.Step, from)
	}
	s.Step = forward[from]
	return c.persist(ctx, s)
}

// Continue moves from the instructions screen to the ID/email details.
func (c *Controller) Continue(ctx context.Context, s *Session) error {
	return c.advance(ctx, s, StepInstructions)
}

// NextStep moves from the main form to the documents checklist. The main
// form is only reachable with a verified email, so no extra guard is needed
// beyond the step check.
func (c *Controller) NextStep(ctx context.Context, s *Session) error {
	if !s.Verification.OTPVerified {
		return ErrNotVerified
	}
	return c.advance(ctx, s, StepMainForm)
}

// DocumentsNext moves from the documents checklist to the declaration.
func (c *Controller) DocumentsNext(ctx context.Context, s *Session) error {
	return c.advance(ctx, s, StepDocuments)
}

// SendOTP issues a verification code for the entered email. The returned
// message is user-facing whether or not err is set.
func (c *Controller) SendOTP(ctx context.Context, s *Session) (string, error) {
	if s.Form.StudentID == "" {
		return MsgStudentIDMissing, ErrBadTransition
	}
	if msg := forms.Validate("email", s.Form.Email); msg != "" {
		return MsgEmailInvalid, nil
	}

	submitted, err := c.drafts.IsSubmitted(ctx, s.Form.StudentID)
	if err != nil {
		return otp.MsgSendFailed, err
	}
	if submitted {
		return MsgAlreadySubmitted, draft.ErrAlreadySubmitted
	}

	msg, err := c.otp.Send(ctx, s.Form.Email)
	if err != nil {
		metrics.OTPSendsFailed.Inc()
		return msg, err
	}
	metrics.OTPSent.Inc()

	s.Verification.OTPSent = true
	if err := c.persist(ctx, s); err != nil {
		return msg, err
	}
	return msg, nil
}

// VerifyOTP checks the entered code; on success the wizard advances to the
// main form. A malformed or wrong code only produces a message, the session
// stays where it was.
func (c *Controller) VerifyOTP(ctx context.Context, s *Session, code string) (string, error) {
	ok, msg, err := c.otp.Verify(ctx, s.Form.Email, code)
	if err != nil {
		return msg, err
	}
	if !ok {
		metrics.OTPVerifyFailed.Inc()
		return msg, nil
	}
	metrics.OTPVerified.Inc()

	s.Verification.OTPVerified = true
	if s.Step == StepDetails {
		s.Step = StepMainForm
	}
	return msg, c.persist(ctx, s)
}

// UpdateField writes one form field through to the draft.
func (c *Controller) UpdateField(ctx context.Context, s *Session, name, value string) error {
	if err := s.Form.SetField(name, value); err != nil {
		return err
	}
	return c.persist(ctx, s)
}

// UpdateFundingProgram flips one program checkbox through to the draft.
func (c *Controller) UpdateFundingProgram(ctx context.Context, s *Session, name string, selected bool) error {
	if err := s.Form.SetFundingProgram(name, selected); err != nil {
		return err
	}
	return c.persist(ctx, s)
}

// ToggleSDGGoal toggles one goal, enforcing the cap of three.
func (c *Controller) ToggleSDGGoal(ctx context.Context, s *Session, goalID int) error {
	if err := s.Form.ToggleSDGGoal(goalID); err != nil {
		return err
	}
	return c.persist(ctx, s)
}

// AddBudgetItem appends a blank budget row and returns its id.
func (c *Controller) AddBudgetItem(ctx context.Context, s *Session) (int, error) {
	id := s.Form.AddBudgetItem()
	return id, c.persist(ctx, s)
}

// RemoveBudgetItem deletes a row; removing the last row is a no-op.
func (c *Controller) RemoveBudgetItem(ctx context.Context, s *Session, id int) (bool, error) {
	removed := s.Form.RemoveBudgetItem(id)
	if !removed {
		return false, nil
	}
	return true, c.persist(ctx, s)
}

// UpdateBudgetItemField writes one budget cell through to the draft.
func (c *Controller) UpdateBudgetItemField(ctx context.Context, s *Session, id int, field, value string) error {
	if err := s.Form.SetBudgetItemField(id, field, value); err != nil {
		return err
	}
	return c.persist(ctx, s)
}

// SaveDraft snapshots the session without validation.
func (c *Controller) SaveDraft(ctx context.Context, s *Session) error {
	return c.persist(ctx, s)
}

// SubmitDeclaration finishes the application: render the PDF, record the
// application, mark the student ID as used and drop the draft. On PDF
// failure the session is put back on the declaration step for a retry.
func (c *Controller) SubmitDeclaration(ctx context.Context, s *Session, docs []report.Attachment) (*SubmitResult, error) {
	if s.Step != StepDeclaration {
		return nil, fmt.Errorf("%w: at %s, expected %s", ErrBadTransition, s.Step, StepDeclaration)
	}
	// the step alone is not trusted; a saved snapshot can name any step
	if !s.Verification.OTPVerified {
		return nil, ErrNotVerified
	}
	submitted, err := c.drafts.IsSubmitted(ctx, s.Form.StudentID)
	if err != nil {
		return nil, err
	}
	if submitted {
		return nil, draft.ErrAlreadySubmitted
	}

	s.Step = StepLoading
	if err := c.persist(ctx, s); err != nil {
		return nil, err
	}

	pdf, err := c.reports.Build(&s.Form, docs)
	if err != nil {
		metrics.PDFFailures.Inc()
		s.Step = StepDeclaration
		_ = c.persist(ctx, s)
		return nil, fmt.Errorf("%s: %w", MsgPDFFailed, err)
	}

	name := report.FileName(s.Form.StudentID, c.now())
	if err := c.rec.Record(ctx, &s.Form, name, docs); err != nil {
		s.Step = StepDeclaration
		_ = c.persist(ctx, s)
		return nil, err
	}

	if err := c.drafts.MarkSubmitted(ctx, s.Form.StudentID); err != nil {
		return nil, err
	}
	if err := c.drafts.Clear(ctx, s.Form.StudentID); err != nil {
		c.log.Warn("failed to clear draft after submit",
			zap.String("studentId", s.Form.StudentID), zap.Error(err))
	}
	metrics.ApplicationsSubmitted.Inc()

	s.Step = StepEvents
	c.log.Info("application submitted",
		zap.String("studentId", s.Form.StudentID),
		zap.String("pdf", name),
		zap.Int("attachments", len(docs)))

	return &SubmitResult{FileName: name, PDF: pdf}, nil
}
