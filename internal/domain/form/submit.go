package form

import (
	"context"
	"errors"
)

// ErrMsgSubmitFailed is the generic message appended when the submit
// operation itself fails. Values are left untouched so the user can retry.
const ErrMsgSubmitFailed = "Failed to submit report. Please try again."

// Sentinel errors returned by Submit.
var (
	ErrValidationFailed = errors.New("form has validation errors")
	ErrSubmitInFlight   = errors.New("a submission is already in progress")
)

// SubmitFunc performs the actual persistence or network call for a valid
// form. It receives the current values and the selected recommendation (""
// for form variants without one).
type SubmitFunc func(ctx context.Context, values Values, recommendedGroupID string) error

// Submit orchestrates validate-then-submit: Idle -> Validating -> {Idle with
// errors | Submitting -> {Idle with a generic failure | done}}.
//
// When validation fails the submit function is never invoked and
// ErrValidationFailed is returned with s.Errors populated. When the submit
// function fails, one generic message is appended, values are preserved, and
// the underlying error is returned for logging. Re-entrant calls while a
// submission is pending are rejected.
// POST: submitFn is invoked at most once
func Submit(ctx context.Context, s *State, submitFn SubmitFunc) error {
	if s.submitting {
		return ErrSubmitInFlight
	}
	if errs := s.Validate(); len(errs) > 0 {
		s.TouchAll()
		return ErrValidationFailed
	}

	s.submitting = true
	defer func() { s.submitting = false }()

	if err := submitFn(ctx, s.Values, s.RecommendedGroupID); err != nil {
		s.Errors = append(s.Errors, ErrMsgSubmitFailed)
		return err
	}
	return nil
}
