package report

import (
	"errors"
	"time"

	"courtside/internal/domain/form"
)

// Domain errors
var (
	ErrMissingPlayer   = errors.New("report player is required")
	ErrMissingTemplate = errors.New("report template is required")
	ErrMissingCoach    = errors.New("report coach is required")
	ErrEmptyContent    = errors.New("report content is required")
	ErrAlreadySent     = errors.New("report has already been emailed")
)

// Report is a completed assessment for one player in one teaching period.
// Content holds the submitted answers keyed by section and field name, in the
// shape of the template the report was written against.
type Report struct {
	ID                 string
	PlayerID           string
	TemplateID         string
	CoachID            string
	Content            form.Values
	RecommendedGroupID string // empty when no next-term recommendation was made
	IsDraft            bool
	EmailSent          bool
	EmailSentAt        time.Time // zero until sent
	CreatedAt          time.Time
	UpdatedAt          time.Time
}

// Validate checks if the Report has valid data.
// PRE: Report struct is populated
// POST: Returns nil if valid, error otherwise
func (r *Report) Validate() error {
	if r.PlayerID == "" {
		return ErrMissingPlayer
	}
	if r.TemplateID == "" {
		return ErrMissingTemplate
	}
	if r.CoachID == "" {
		return ErrMissingCoach
	}
	if len(r.Content) == 0 {
		return ErrEmptyContent
	}
	return nil
}

// MarkSent records a successful email delivery.
// PRE: report has not been sent before
// POST: EmailSent is true and EmailSentAt is set
func (r *Report) MarkSent(now time.Time) error {
	if r.EmailSent {
		return ErrAlreadySent
	}
	r.EmailSent = true
	r.EmailSentAt = now
	return nil
}
