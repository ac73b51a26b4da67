package period

import (
	"errors"
	"strings"
	"time"
)

// Domain errors
var (
	ErrEmptyName    = errors.New("period name is required")
	ErrInvalidDates = errors.New("period must end after it starts")
	ErrMissingDates = errors.New("period start and end dates are required")
)

// Period is a teaching term ("Spring 2026"). Reports are written against the
// period a player is enrolled in.
type Period struct {
	ID        string
	Name      string
	StartDate time.Time
	EndDate   time.Time
	IsActive  bool
	CreatedAt time.Time
}

// Validate checks if the Period has valid data.
// PRE: Period struct is populated
// POST: Returns nil if valid, error otherwise
func (p *Period) Validate() error {
	if strings.TrimSpace(p.Name) == "" {
		return ErrEmptyName
	}
	if p.StartDate.IsZero() || p.EndDate.IsZero() {
		return ErrMissingDates
	}
	if !p.EndDate.After(p.StartDate) {
		return ErrInvalidDates
	}
	return nil
}

// Contains reports whether t falls inside the period, inclusive of both ends.
func (p *Period) Contains(t time.Time) bool {
	return !t.Before(p.StartDate) && !t.After(p.EndDate)
}
