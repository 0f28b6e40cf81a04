package wizard

import (
	"context"
	"errors"
	"testing"

	"ieee-funding-portal/internal/draft"
	"ieee-funding-portal/internal/forms"
	"ieee-funding-portal/internal/otp"
	"ieee-funding-portal/internal/report"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

// fakeReports returns a canned artifact, or an error when failing is set.
type fakeReports struct {
	failing bool
	builds  int
}

func (r *fakeReports) Build(_ *forms.FormData, _ []report.Attachment) ([]byte, error) {
	r.builds++
	if r.failing {
		return nil, errors.New("render failed")
	}
	return []byte("%PDF-fake"), nil
}

// fakeRecorder remembers what was recorded.
type fakeRecorder struct {
	recorded []string
	err      error
}

func (r *fakeRecorder) Record(_ context.Context, f *forms.FormData, pdfName string, _ []report.Attachment) error {
	if r.err != nil {
		return r.err
	}
	r.recorded = append(r.recorded, f.StudentID+"/"+pdfName)
	return nil
}

type fixture struct {
	ctrl    *Controller
	store   *draft.MemoryStore
	drafts  *draft.Manager
	mailer  *captureMailer
	reports *fakeReports
	rec     *fakeRecorder
}

type captureMailer struct {
	code string
}

func (m *captureMailer) SendOTP(_ context.Context, _, code string) error {
	m.code = code
	return nil
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	log := zaptest.NewLogger(t)
	store := draft.NewMemoryStore()
	drafts := draft.NewManager(store)
	mailer := &captureMailer{}
	reports := &fakeReports{}
	rec := &fakeRecorder{}
	svc := otp.NewService(store, mailer, log)
	return &fixture{
		ctrl:    NewController(drafts, svc, reports, rec, log),
		store:   store,
		drafts:  drafts,
		mailer:  mailer,
		reports: reports,
		rec:     rec,
	}
}

// walk a session to the given step with a verified email.
func (fx *fixture) verifiedSession(t *testing.T, target Step) *Session {
	t.Helper()
	ctx := context.Background()

	s, resumed, err := fx.ctrl.Start(ctx, "AB123")
	require.NoError(t, err)
	require.False(t, resumed)

	require.NoError(t, fx.ctrl.UpdateField(ctx, s, "email", "x@y.com"))
	require.NoError(t, fx.ctrl.Continue(ctx, s))

	_, err = fx.ctrl.SendOTP(ctx, s)
	require.NoError(t, err)
	_, err = fx.ctrl.VerifyOTP(ctx, s, fx.mailer.code)
	require.NoError(t, err)
	require.Equal(t, StepMainForm, s.Step)

	if target == StepMainForm {
		return s
	}
	require.NoError(t, fx.ctrl.NextStep(ctx, s))
	if target == StepDocuments {
		return s
	}
	require.NoError(t, fx.ctrl.DocumentsNext(ctx, s))
	require.Equal(t, StepDeclaration, s.Step)
	return s
}

func TestStart_FreshSession(t *testing.T) {
	fx := newFixture(t)

	s, resumed, err := fx.ctrl.Start(context.Background(), "AB123")
	require.NoError(t, err)
	assert.False(t, resumed)
	assert.Equal(t, StepInstructions, s.Step)
	assert.Equal(t, "AB123", s.Form.StudentID)
	assert.Len(t, s.Form.BudgetItems, 1)
	assert.False(t, s.Verification.OTPSent)
}

func TestStart_ResumesDraft(t *testing.T) {
	fx := newFixture(t)
	ctx := context.Background()

	s, _, err := fx.ctrl.Start(ctx, "AB123")
	require.NoError(t, err)
	require.NoError(t, fx.ctrl.UpdateField(ctx, s, "projectTitle", "Microgrid monitor"))
	require.NoError(t, fx.ctrl.Continue(ctx, s))

	resumedSession, resumed, err := fx.ctrl.Start(ctx, "AB123")
	require.NoError(t, err)
	assert.True(t, resumed)
	assert.Equal(t, StepDetails, resumedSession.Step)
	assert.Equal(t, "Microgrid monitor", resumedSession.Form.ProjectTitle)
}

func TestStart_CorruptDraftStartsFresh(t *testing.T) {
	fx := newFixture(t)
	ctx := context.Background()

	require.NoError(t, fx.store.Set(ctx, "draft_AB123", "{broken", 0))

	s, resumed, err := fx.ctrl.Start(ctx, "AB123")
	require.NoError(t, err)
	assert.False(t, resumed)
	assert.Equal(t, StepInstructions, s.Step)

	// the corrupt entry is gone
	_, err = fx.store.Get(ctx, "draft_AB123")
	assert.ErrorIs(t, err, draft.ErrNotFound)
}

func TestSendOTP_SetsFlagAndMessage(t *testing.T) {
	fx := newFixture(t)
	ctx := context.Background()

	s, _, err := fx.ctrl.Start(ctx, "AB123")
	require.NoError(t, err)
	require.NoError(t, fx.ctrl.UpdateField(ctx, s, "email", "x@y.com"))
	require.NoError(t, fx.ctrl.Continue(ctx, s))
	require.False(t, s.Verification.OTPSent)

	msg, err := fx.ctrl.SendOTP(ctx, s)
	require.NoError(t, err)
	assert.Equal(t, "OTP sent successfully to your email", msg)
	assert.True(t, s.Verification.OTPSent)

	// flag survives a reload
	reloaded, _, err := fx.ctrl.Start(ctx, "AB123")
	require.NoError(t, err)
	assert.True(t, reloaded.Verification.OTPSent)
}

func TestSendOTP_InvalidEmail(t *testing.T) {
	fx := newFixture(t)
	ctx := context.Background()

	s, _, err := fx.ctrl.Start(ctx, "AB123")
	require.NoError(t, err)
	require.NoError(t, fx.ctrl.UpdateField(ctx, s, "email", "not-an-email"))

	msg, err := fx.ctrl.SendOTP(ctx, s)
	require.NoError(t, err)
	assert.Equal(t, MsgEmailInvalid, msg)
	assert.False(t, s.Verification.OTPSent)
}

func TestVerifyOTP_FiveDigits(t *testing.T) {
	fx := newFixture(t)
	ctx := context.Background()

	s, _, err := fx.ctrl.Start(ctx, "AB123")
	require.NoError(t, err)
	require.NoError(t, fx.ctrl.UpdateField(ctx, s, "email", "x@y.com"))
	require.NoError(t, fx.ctrl.Continue(ctx, s))
	_, err = fx.ctrl.SendOTP(ctx, s)
	require.NoError(t, err)

	msg, err := fx.ctrl.VerifyOTP(ctx, s, "12345")
	require.NoError(t, err)
	assert.Equal(t, "Please enter a valid 6-digit OTP", msg)
	assert.False(t, s.Verification.OTPVerified)
	assert.Equal(t, StepDetails, s.Step)
}

func TestVerifyOTP_AdvancesToMainForm(t *testing.T) {
	fx := newFixture(t)
	s := fx.verifiedSession(t, StepMainForm)

	assert.True(t, s.Verification.OTPVerified)
	assert.Equal(t, StepMainForm, s.Step)
}

func TestNextStep_RequiresVerification(t *testing.T) {
	fx := newFixture(t)
	ctx := context.Background()

	s, _, err := fx.ctrl.Start(ctx, "AB123")
	require.NoError(t, err)
	s.Step = StepMainForm

	assert.ErrorIs(t, fx.ctrl.NextStep(ctx, s), ErrNotVerified)
}

func TestTransitions_RejectWrongStep(t *testing.T) {
	fx := newFixture(t)
	ctx := context.Background()

	s, _, err := fx.ctrl.Start(ctx, "AB123")
	require.NoError(t, err)

	assert.ErrorIs(t, fx.ctrl.DocumentsNext(ctx, s), ErrBadTransition)
	_, submitErr := fx.ctrl.SubmitDeclaration(ctx, s, nil)
	assert.ErrorIs(t, submitErr, ErrBadTransition)
}

func TestSubmitDeclaration(t *testing.T) {
	fx := newFixture(t)
	ctx := context.Background()
	s := fx.verifiedSession(t, StepDeclaration)

	res, err := fx.ctrl.SubmitDeclaration(ctx, s, []report.Attachment{
		{DocType: "project-proposal", FileName: "p.txt", MIME: "text/plain", Data: []byte("x")},
	})
	require.NoError(t, err)
	assert.Regexp(t, `^IEEE_Application_AB123_\d+\.pdf$`, res.FileName)
	assert.Equal(t, []byte("%PDF-fake"), res.PDF)
	assert.Equal(t, StepEvents, s.Step)

	// recorded once, student ID marked used, draft removed
	require.Len(t, fx.rec.recorded, 1)

	submitted, err := fx.drafts.IsSubmitted(ctx, "AB123")
	require.NoError(t, err)
	assert.True(t, submitted)

	_, err = fx.drafts.Load(ctx, "AB123")
	assert.ErrorIs(t, err, draft.ErrNoDraft)
}

func TestSubmitDeclaration_SecondSubmitRejected(t *testing.T) {
	fx := newFixture(t)
	ctx := context.Background()

	s := fx.verifiedSession(t, StepDeclaration)
	_, err := fx.ctrl.SubmitDeclaration(ctx, s, nil)
	require.NoError(t, err)

	// the same student ID cannot request another OTP round
	again, _, err := fx.ctrl.Start(ctx, "AB123")
	require.NoError(t, err)
	require.NoError(t, fx.ctrl.UpdateField(ctx, again, "email", "x@y.com"))
	require.NoError(t, fx.ctrl.Continue(ctx, again))

	msg, err := fx.ctrl.SendOTP(ctx, again)
	assert.ErrorIs(t, err, draft.ErrAlreadySubmitted)
	assert.Equal(t, MsgAlreadySubmitted, msg)
}

func TestSubmitDeclaration_PDFFailureRestoresStep(t *testing.T) {
	fx := newFixture(t)
	ctx := context.Background()
	fx.reports.failing = true

	s := fx.verifiedSession(t, StepDeclaration)
	_, err := fx.ctrl.SubmitDeclaration(ctx, s, nil)
	require.Error(t, err)

	assert.Equal(t, StepDeclaration, s.Step)
	assert.Empty(t, fx.rec.recorded)

	// draft is still there for the retry
	env, err := fx.drafts.Load(ctx, "AB123")
	require.NoError(t, err)
	assert.Equal(t, string(StepDeclaration), env.Step)

	// and the retry succeeds once rendering recovers
	fx.reports.failing = false
	res, err := fx.ctrl.SubmitDeclaration(ctx, s, nil)
	require.NoError(t, err)
	assert.NotEmpty(t, res.PDF)
}

func TestSaveDraft_RejectsBrokenSnapshot(t *testing.T) {
	fx := newFixture(t)
	ctx := context.Background()

	s, _, err := fx.ctrl.Start(ctx, "AB123")
	require.NoError(t, err)
	require.NoError(t, fx.ctrl.UpdateField(ctx, s, "projectTitle", "Microgrid monitor"))

	// a wholesale snapshot with no budget rows would be unloadable; it must
	// be refused, not written over the good draft
	s.Form.BudgetItems = nil
	assert.ErrorIs(t, fx.ctrl.SaveDraft(ctx, s), draft.ErrDraftInvalid)

	reloaded, resumed, err := fx.ctrl.Start(ctx, "AB123")
	require.NoError(t, err)
	assert.True(t, resumed)
	assert.Equal(t, "Microgrid monitor", reloaded.Form.ProjectTitle)
	require.Len(t, reloaded.Form.BudgetItems, 1)
}

func TestSubmitDeclaration_RequiresVerifiedEmail(t *testing.T) {
	fx := newFixture(t)
	ctx := context.Background()

	// a snapshot can name any step; the declaration still demands a
	// verified email before anything is recorded
	s, _, err := fx.ctrl.Start(ctx, "ZZ999")
	require.NoError(t, err)
	s.Step = StepDeclaration
	require.NoError(t, fx.ctrl.SaveDraft(ctx, s))

	_, err = fx.ctrl.SubmitDeclaration(ctx, s, nil)
	assert.ErrorIs(t, err, ErrNotVerified)
	assert.Empty(t, fx.rec.recorded)

	submitted, err := fx.drafts.IsSubmitted(ctx, "ZZ999")
	require.NoError(t, err)
	assert.False(t, submitted)
}

func TestBudgetOpsPersist(t *testing.T) {
	fx := newFixture(t)
	ctx := context.Background()

	s, _, err := fx.ctrl.Start(ctx, "AB123")
	require.NoError(t, err)

	id, err := fx.ctrl.AddBudgetItem(ctx, s)
	require.NoError(t, err)
	require.NoError(t, fx.ctrl.UpdateBudgetItemField(ctx, s, id, "items", "LoRa module"))

	reloaded, _, err := fx.ctrl.Start(ctx, "AB123")
	require.NoError(t, err)
	require.Len(t, reloaded.Form.BudgetItems, 2)
	assert.Equal(t, "LoRa module", reloaded.Form.BudgetItems[1].Items)

	removed, err := fx.ctrl.RemoveBudgetItem(ctx, s, id)
	require.NoError(t, err)
	assert.True(t, removed)

	removed, err = fx.ctrl.RemoveBudgetItem(ctx, s, s.Form.BudgetItems[0].ID)
	require.NoError(t, err)
	assert.False(t, removed, "last budget row must not be removable")
}

func TestToggleSDGGoalPersists(t *testing.T) {
	fx := newFixture(t)
	ctx := context.Background()

	s, _, err := fx.ctrl.Start(ctx, "AB123")
	require.NoError(t, err)

	require.NoError(t, fx.ctrl.ToggleSDGGoal(ctx, s, 6))
	require.NoError(t, fx.ctrl.ToggleSDGGoal(ctx, s, 3))
	require.NoError(t, fx.ctrl.ToggleSDGGoal(ctx, s, 9))
	assert.ErrorIs(t, fx.ctrl.ToggleSDGGoal(ctx, s, 12), forms.ErrSDGLimit)

	reloaded, _, err := fx.ctrl.Start(ctx, "AB123")
	require.NoError(t, err)
	assert.Equal(t, []int{6, 3, 9}, reloaded.Form.SelectedSDGGoals)
}
