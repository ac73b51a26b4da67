package player

import (
	"errors"
	"time"
)

// Domain errors
var (
	ErrMissingStudent = errors.New("player student is required")
	ErrMissingGroup   = errors.New("player group is required")
	ErrMissingPeriod  = errors.New("player teaching period is required")
	ErrMissingCoach   = errors.New("player coach is required")
)

// Player is a student's enrolment in a group for one teaching period, owned
// by the coach who writes their report. The same student re-enrols as a new
// player each term.
type Player struct {
	ID        string
	StudentID string
	GroupID   string
	SessionID string // optional weekly slot within the group
	PeriodID  string
	CoachID   string
	CreatedAt time.Time
}

// Validate checks if the Player has valid data.
// PRE: Player struct is populated
// POST: Returns nil if valid, error otherwise
func (p *Player) Validate() error {
	if p.StudentID == "" {
		return ErrMissingStudent
	}
	if p.GroupID == "" {
		return ErrMissingGroup
	}
	if p.PeriodID == "" {
		return ErrMissingPeriod
	}
	if p.CoachID == "" {
		return ErrMissingCoach
	}
	return nil
}
