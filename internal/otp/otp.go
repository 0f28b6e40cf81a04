package otp

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"math/big"
	"time"

	"ieee-funding-portal/internal/draft"
	"ieee-funding-portal/internal/forms"

	"go.uber.org/zap"
)

const (
	codeTTL       = 10 * time.Minute
	codeKeyPrefix = "otp_"
)

// Messages shown to the applicant. The wording is part of the product
// contract with the frontend.
const (
	MsgSent          = "OTP sent successfully to your email"
	MsgSendFailed    = "Failed to send OTP. Please try again"
	MsgInvalidFormat = "Please enter a valid 6-digit OTP"
	MsgMismatch      = "Invalid or expired OTP"
	MsgVerified      = "OTP verified successfully"
)

// Mailer delivers the code. Implementations must honour ctx so an abandoned
// session cancels its in-flight send.
type Mailer interface {
	SendOTP(ctx context.Context, to, code string) error
}

// Service issues and checks one-time codes. Codes live in the same key-value
// store as drafts, under otp_{email}, with a 10 minute expiry.
type Service struct {
	store  draft.Store
	mailer Mailer
	log    *zap.Logger
}

func NewService(store draft.Store, mailer Mailer, log *zap.Logger) *Service {
	return &Service{store: store, mailer: mailer, log: log}
}

func codeKey(email string) string {
	return codeKeyPrefix + email
}

// Send issues a fresh 6-digit code for the email and mails it. The returned
// message is user-facing; err is non-nil only for infrastructure failures.
func (s *Service) Send(ctx context.Context, email string) (string, error) {
	code, err := generateCode()
	if err != nil {
		return MsgSendFailed, err
	}

	if err := s.store.Set(ctx, codeKey(email), code, codeTTL); err != nil {
		return MsgSendFailed, fmt.Errorf("store otp: %w", err)
	}

	if err := s.mailer.SendOTP(ctx, email, code); err != nil {
		// don't leave a deliverable code behind a failed send
		_ = s.store.Remove(ctx, codeKey(email))
		s.log.Warn("otp send failed", zap.String("email", email), zap.Error(err))
		return MsgSendFailed, fmt.Errorf("send otp: %w", err)
	}

	s.log.Info("otp sent", zap.String("email", email))
	return MsgSent, nil
}

// Verify checks the submitted code. Format is checked first; a well-formed
// code is then compared against the issued one and consumed on success.
func (s *Service) Verify(ctx context.Context, email, code string) (bool, string, error) {
	if !forms.ValidOTPFormat(code) {
		return false, MsgInvalidFormat, nil
	}

	stored, err := s.store.Get(ctx, codeKey(email))
	if errors.Is(err, draft.ErrNotFound) {
		return false, MsgMismatch, nil
	}
	if err != nil {
		return false, MsgMismatch, err
	}
	if stored != code {
		return false, MsgMismatch, nil
	}

	_ = s.store.Remove(ctx, codeKey(email))
	return true, MsgVerified, nil
}

func generateCode() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(1000000))
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%06d", n.Int64()), nil
}

// LogMailer is the development mailer: it logs the code instead of sending
// mail.
type LogMailer struct {
	Log *zap.Logger
}

func (m *LogMailer) SendOTP(_ context.Context, to, code string) error {
	m.Log.Info("otp issued (log mailer)", zap.String("to", to), zap.String("code", code))
	return nil
}
