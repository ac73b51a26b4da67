package group

import (
	"errors"
	"strings"
	"time"
)

// Domain errors
var (
	ErrEmptyName    = errors.New("group name is required")
	ErrMissingGroup = errors.New("session group is required")
	ErrInvalidTimes = errors.New("session times must be HH:MM with end after start")
)

// Group is a coaching group (e.g. "Red 1", "Orange 2"). Players are assigned
// to a group for a teaching period, and coaches recommend a group for next term.
type Group struct {
	ID          string
	Name        string
	Description string
	CreatedAt   time.Time
}

// Validate checks if the Group has valid data.
// PRE: Group struct is populated
// POST: Returns nil if valid, error otherwise
func (g *Group) Validate() error {
	if strings.TrimSpace(g.Name) == "" {
		return ErrEmptyName
	}
	return nil
}

// Session is a weekly time slot belonging to a group.
type Session struct {
	ID        string
	GroupID   string
	DayOfWeek time.Weekday
	StartTime string // "HH:MM", 24-hour
	EndTime   string
	CreatedAt time.Time
}

// Validate checks if the Session has valid data.
// PRE: Session struct is populated
// POST: Returns nil if valid, error otherwise
func (s *Session) Validate() error {
	if s.GroupID == "" {
		return ErrMissingGroup
	}
	if !validClockTime(s.StartTime) || !validClockTime(s.EndTime) {
		return ErrInvalidTimes
	}
	if s.EndTime <= s.StartTime {
		return ErrInvalidTimes
	}
	return nil
}

// Label renders the slot for display, e.g. "Monday 16:00-17:00".
func (s *Session) Label() string {
	return s.DayOfWeek.String() + " " + s.StartTime + "-" + s.EndTime
}

func validClockTime(v string) bool {
	if len(v) != 5 || v[2] != ':' {
		return false
	}
	_, err := time.Parse("15:04", v)
	return err == nil
}
