package otp

import (
	"context"
	"errors"
	"testing"

	"ieee-funding-portal/internal/draft"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

// captureMailer records the last code instead of sending mail.
type captureMailer struct {
	to   string
	code string
	err  error
}

func (m *captureMailer) SendOTP(_ context.Context, to, code string) error {
	if m.err != nil {
		return m.err
	}
	m.to = to
	m.code = code
	return nil
}

func newTestService(t *testing.T, mailer *captureMailer) (*Service, draft.Store) {
	t.Helper()
	store := draft.NewMemoryStore()
	return NewService(store, mailer, zaptest.NewLogger(t)), store
}

func TestSendAndVerify(t *testing.T) {
	mailer := &captureMailer{}
	svc, _ := newTestService(t, mailer)
	ctx := context.Background()

	msg, err := svc.Send(ctx, "x@y.com")
	require.NoError(t, err)
	assert.Equal(t, MsgSent, msg)
	assert.Equal(t, "x@y.com", mailer.to)
	assert.Len(t, mailer.code, 6)

	ok, msg, err := svc.Verify(ctx, "x@y.com", mailer.code)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, MsgVerified, msg)
}

func TestVerify_FiveDigitsRejected(t *testing.T) {
	svc, _ := newTestService(t, &captureMailer{})

	ok, msg, err := svc.Verify(context.Background(), "x@y.com", "12345")
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Equal(t, MsgInvalidFormat, msg)
}

func TestVerify_WrongCode(t *testing.T) {
	mailer := &captureMailer{}
	svc, _ := newTestService(t, mailer)
	ctx := context.Background()

	_, err := svc.Send(ctx, "x@y.com")
	require.NoError(t, err)

	wrong := "000000"
	if mailer.code == wrong {
		wrong = "000001"
	}
	ok, msg, err := svc.Verify(ctx, "x@y.com", wrong)
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Equal(t, MsgMismatch, msg)
}

func TestVerify_CodeIsConsumed(t *testing.T) {
	mailer := &captureMailer{}
	svc, _ := newTestService(t, mailer)
	ctx := context.Background()

	_, err := svc.Send(ctx, "x@y.com")
	require.NoError(t, err)

	ok, _, err := svc.Verify(ctx, "x@y.com", mailer.code)
	require.NoError(t, err)
	require.True(t, ok)

	// the same code cannot be replayed
	ok, msg, err := svc.Verify(ctx, "x@y.com", mailer.code)
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Equal(t, MsgMismatch, msg)
}

func TestVerify_NeverIssued(t *testing.T) {
	svc, _ := newTestService(t, &captureMailer{})

	ok, msg, err := svc.Verify(context.Background(), "nobody@y.com", "123456")
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Equal(t, MsgMismatch, msg)
}

func TestSend_MailerFailureLeavesNoCode(t *testing.T) {
	mailer := &captureMailer{err: errors.New("smtp down")}
	svc, store := newTestService(t, mailer)
	ctx := context.Background()

	msg, err := svc.Send(ctx, "x@y.com")
	assert.Error(t, err)
	assert.Equal(t, MsgSendFailed, msg)

	_, err = store.Get(ctx, "otp_x@y.com")
	assert.ErrorIs(t, err, draft.ErrNotFound)
}
