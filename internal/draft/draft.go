package draft

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"ieee-funding-portal/internal/forms"
)

const (
	draftKeyPrefix  = "draft_"
	submittedIDsKey = "submittedIDs"
)

var (
	// ErrNoDraft means no draft exists for the student.
	ErrNoDraft = errors.New("no saved draft")

	// ErrDraftCorrupt means the stored payload failed schema validation and
	// cannot be resumed. The wizard starts fresh instead of crashing on it.
	ErrDraftCorrupt = errors.New("saved draft is corrupt")

	// ErrAlreadySubmitted rejects a second application for the same student ID.
	ErrAlreadySubmitted = errors.New("an application with this student ID was already submitted")

	// ErrDraftInvalid rejects a write that would not survive its own Load.
	ErrDraftInvalid = errors.New("draft payload violates the draft schema")
)

// Verification carries the OTP gate flags alongside the draft.
type Verification struct {
	OTPSent     bool `json:"otpSent"`
	OTPVerified bool `json:"otpVerified"`
}

// Envelope is the unit of draft persistence: the whole form, the step the
// applicant was on, and the verification flags, saved under draft_{studentID}.
type Envelope struct {
	FormData     forms.FormData `json:"formData"`
	Step         string         `json:"step"`
	Verification Verification   `json:"verification"`
	SavedAt      time.Time      `json:"savedAt"`
}

// Manager owns the draft key-space on top of an injected Store.
type Manager struct {
	store Store
}

func NewManager(store Store) *Manager {
	return &Manager{store: store}
}

func draftKey(studentID string) string {
	return draftKeyPrefix + studentID
}

// Save snapshots the envelope. Drafts carry no TTL; last write wins. The
// payload is checked against the same schema Load enforces, so a snapshot
// that would be dropped as corrupt on the next load is rejected here instead
// of overwriting a good draft.
func (m *Manager) Save(ctx context.Context, studentID string, env *Envelope) error {
	env.SavedAt = time.Now().UTC()
	payload, err := json.Marshal(env)
	if err != nil {
		return fmt.Errorf("marshal draft: %w", err)
	}
	if err := validateEnvelope(string(payload)); err != nil {
		return fmt.Errorf("%w: %v", ErrDraftInvalid, err)
	}
	return m.store.Set(ctx, draftKey(studentID), string(payload), 0)
}

// Load reads the draft back. A payload that fails schema validation is
// reported as ErrDraftCorrupt rather than panicking inside json decoding.
func (m *Manager) Load(ctx context.Context, studentID string) (*Envelope, error) {
	raw, err := m.store.Get(ctx, draftKey(studentID))
	if errors.Is(err, ErrNotFound) {
		return nil, ErrNoDraft
	}
	if err != nil {
		return nil, err
	}

	if err := validateEnvelope(raw); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDraftCorrupt, err)
	}

	var env Envelope
	if err := json.Unmarshal([]byte(raw), &env); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDraftCorrupt, err)
	}
	return &env, nil
}

// Clear removes the draft after submission or an explicit discard.
func (m *Manager) Clear(ctx context.Context, studentID string) error {
	return m.store.Remove(ctx, draftKey(studentID))
}

// IsSubmitted reports whether the student ID already appears in the
// submitted-ID set.
func (m *Manager) IsSubmitted(ctx context.Context, studentID string) (bool, error) {
	ids, err := m.submittedIDs(ctx)
	if err != nil {
		return false, err
	}
	for _, id := range ids {
		if id == studentID {
			return true, nil
		}
	}
	return false, nil
}

// MarkSubmitted appends the student ID to the submitted set, rejecting
// duplicates.
func (m *Manager) MarkSubmitted(ctx context.Context, studentID string) error {
	ids, err := m.submittedIDs(ctx)
	if err != nil {
		return err
	}
	for _, id := range ids {
		if id == studentID {
			return ErrAlreadySubmitted
		}
	}

	payload, err := json.Marshal(append(ids, studentID))
	if err != nil {
		return err
	}
	return m.store.Set(ctx, submittedIDsKey, string(payload), 0)
}

func (m *Manager) submittedIDs(ctx context.Context) ([]string, error) {
	raw, err := m.store.Get(ctx, submittedIDsKey)
	if errors.Is(err, ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	var ids []string
	if err := json.Unmarshal([]byte(raw), &ids); err != nil {
		// a broken submitted set must not let duplicates through silently
		return nil, fmt.Errorf("decode %s: %w", submittedIDsKey, err)
	}
	return ids, nil
}
