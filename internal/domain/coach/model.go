package coach

import (
	"errors"
	"time"
)

// Qualification constants, lowest to highest.
const (
	QualificationNone   = "none"
	QualificationLevel1 = "level_1"
	QualificationLevel2 = "level_2"
	QualificationLevel3 = "level_3"
	QualificationLevel4 = "level_4"
	QualificationLevel5 = "level_5"
)

// ValidQualifications contains all valid qualification values.
var ValidQualifications = []string{
	QualificationNone,
	QualificationLevel1,
	QualificationLevel2,
	QualificationLevel3,
	QualificationLevel4,
	QualificationLevel5,
}

// ExpiryStatus classifies how close an accreditation is to lapsing.
type ExpiryStatus string

// Expiry status values
const (
	StatusExpired ExpiryStatus = "expired"
	StatusWarning ExpiryStatus = "warning"
	StatusValid   ExpiryStatus = "valid"
)

// WarningWindowDays is how far ahead an upcoming expiry counts as a warning.
const WarningWindowDays = 90

// Domain errors
var (
	ErrMissingAccount       = errors.New("coach account is required")
	ErrInvalidQualification = errors.New("qualification is not recognised")
)

// Accreditation kinds tracked per coach.
const (
	AccreditationCoaching     = "coaching"
	AccreditationDBS          = "dbs"
	AccreditationFirstAid     = "first_aid"
	AccreditationSafeguarding = "safeguarding"
)

// Detail holds the compliance profile for one coach: qualification, contact
// details, and the accreditation expiry dates the club has to keep current.
type Detail struct {
	ID            string
	AccountID     string
	Qualification string
	ContactNumber string

	EmergencyContactName   string
	EmergencyContactNumber string

	CoachingExpiry     time.Time // zero when not recorded
	DBSNumber          string
	DBSExpiry          time.Time
	FirstAidExpiry     time.Time
	SafeguardingExpiry time.Time

	CreatedAt time.Time
	UpdatedAt time.Time
}

// Validate checks if the Detail has valid data.
// PRE: Detail struct is populated
// POST: Returns nil if valid, error otherwise
func (d *Detail) Validate() error {
	if d.AccountID == "" {
		return ErrMissingAccount
	}
	if d.Qualification != "" && !isValidQualification(d.Qualification) {
		return ErrInvalidQualification
	}
	return nil
}

// Expiry pairs an accreditation kind with its classified status.
type Expiry struct {
	Kind      string
	ExpiresAt time.Time
	Status    ExpiryStatus
	DaysLeft  int
}

// ClassifyExpiry grades an expiry date against now: already past is expired,
// within the 90-day window is a warning, anything later is valid.
// PRE: expiresAt is non-zero
// INVARIANT: Detail fields are not mutated
func ClassifyExpiry(expiresAt, now time.Time) (ExpiryStatus, int) {
	daysLeft := int(expiresAt.Sub(now).Hours() / 24)
	switch {
	case daysLeft < 0:
		return StatusExpired, daysLeft
	case daysLeft <= WarningWindowDays:
		return StatusWarning, daysLeft
	default:
		return StatusValid, daysLeft
	}
}

// Expiries returns the recorded accreditations with their status, skipping
// dates the club has not captured.
// INVARIANT: Detail fields are not mutated
func (d *Detail) Expiries(now time.Time) []Expiry {
	tracked := []struct {
		kind string
		at   time.Time
	}{
		{AccreditationCoaching, d.CoachingExpiry},
		{AccreditationDBS, d.DBSExpiry},
		{AccreditationFirstAid, d.FirstAidExpiry},
		{AccreditationSafeguarding, d.SafeguardingExpiry},
	}

	var out []Expiry
	for _, t := range tracked {
		if t.at.IsZero() {
			continue
		}
		status, days := ClassifyExpiry(t.at, now)
		out = append(out, Expiry{Kind: t.kind, ExpiresAt: t.at, Status: status, DaysLeft: days})
	}
	return out
}

// NeedsReminder returns true if any recorded accreditation is expired or
// inside the warning window.
// INVARIANT: Detail fields are not mutated
func (d *Detail) NeedsReminder(now time.Time) bool {
	for _, e := range d.Expiries(now) {
		if e.Status != StatusValid {
			return true
		}
	}
	return false
}

func isValidQualification(q string) bool {
	for _, v := range ValidQualifications {
		if v == q {
			return true
		}
	}
	return false
}
