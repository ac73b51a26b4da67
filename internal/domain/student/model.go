package student

import (
	"errors"
	"strings"
	"time"
)

// Max length constants for user-editable fields.
const (
	MaxNameLength = 100
)

// Domain errors
var (
	ErrEmptyName    = errors.New("student name is required")
	ErrInvalidEmail = errors.New("contact email is invalid")
)

// Student is a child enrolled at the club. Contact email belongs to the
// parent/guardian and is where reports are sent.
type Student struct {
	ID           string
	Name         string
	DateOfBirth  time.Time // zero when unknown
	ContactEmail string    // empty when no email on file
	CreatedAt    time.Time
}

// Validate checks if the Student has valid data.
// PRE: Student struct is populated
// POST: Returns nil if valid, error otherwise
func (s *Student) Validate() error {
	if strings.TrimSpace(s.Name) == "" {
		return ErrEmptyName
	}
	if len(s.Name) > MaxNameLength {
		return errors.New("student name cannot exceed 100 characters")
	}
	if s.ContactEmail != "" && !strings.Contains(s.ContactEmail, "@") {
		return ErrInvalidEmail
	}
	return nil
}

// Age returns the student's age in whole years at the given time, or -1 when
// the date of birth is unknown.
func (s *Student) Age(now time.Time) int {
	if s.DateOfBirth.IsZero() {
		return -1
	}
	age := now.Year() - s.DateOfBirth.Year()
	if now.Month() < s.DateOfBirth.Month() ||
		(now.Month() == s.DateOfBirth.Month() && now.Day() < s.DateOfBirth.Day()) {
		age--
	}
	return age
}
