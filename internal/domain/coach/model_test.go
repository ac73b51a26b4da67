package coach_test

import (
	"testing"
	"time"

	"courtside/internal/domain/coach"
)

// TestDetail_Validate tests validation of Detail.
func TestDetail_Validate(t *testing.T) {
	tests := []struct {
		name    string
		detail  coach.Detail
		wantErr bool
	}{
		{"valid detail", coach.Detail{AccountID: "a1", Qualification: coach.QualificationLevel2}, false},
		{"no qualification recorded", coach.Detail{AccountID: "a1"}, false},
		{"missing account", coach.Detail{Qualification: coach.QualificationLevel2}, true},
		{"unknown qualification", coach.Detail{AccountID: "a1", Qualification: "level_9"}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.detail.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Detail.Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

// TestClassifyExpiry tests the expired / warning / valid boundaries.
func TestClassifyExpiry(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name      string
		expiresAt time.Time
		want      coach.ExpiryStatus
	}{
		{"expired yesterday", now.AddDate(0, 0, -1), coach.StatusExpired},
		{"expired months ago", now.AddDate(0, -6, 0), coach.StatusExpired},
		{"expires tomorrow", now.AddDate(0, 0, 1), coach.StatusWarning},
		{"expires in 90 days", now.AddDate(0, 0, 90), coach.StatusWarning},
		{"expires in 91 days", now.AddDate(0, 0, 91), coach.StatusValid},
		{"expires next year", now.AddDate(1, 0, 0), coach.StatusValid},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			status, _ := coach.ClassifyExpiry(tt.expiresAt, now)
			if status != tt.want {
				t.Errorf("ClassifyExpiry() = %v, want %v", status, tt.want)
			}
		})
	}
}

// TestDetail_Expiries tests that only recorded dates are reported.
func TestDetail_Expiries(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	d := coach.Detail{
		AccountID:      "a1",
		DBSExpiry:      now.AddDate(0, 0, 30),
		FirstAidExpiry: now.AddDate(0, 0, -5),
	}

	expiries := d.Expiries(now)
	if len(expiries) != 2 {
		t.Fatalf("Expiries() returned %d entries, want 2", len(expiries))
	}
	if expiries[0].Kind != coach.AccreditationDBS || expiries[0].Status != coach.StatusWarning {
		t.Errorf("first expiry = %+v, want dbs/warning", expiries[0])
	}
	if expiries[1].Kind != coach.AccreditationFirstAid || expiries[1].Status != coach.StatusExpired {
		t.Errorf("second expiry = %+v, want first_aid/expired", expiries[1])
	}
}

// TestDetail_NeedsReminder tests reminder triggering.
func TestDetail_NeedsReminder(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	allValid := coach.Detail{AccountID: "a1", DBSExpiry: now.AddDate(1, 0, 0)}
	if allValid.NeedsReminder(now) {
		t.Error("NeedsReminder() = true for a fully valid profile")
	}

	expiring := coach.Detail{AccountID: "a1", SafeguardingExpiry: now.AddDate(0, 0, 10)}
	if !expiring.NeedsReminder(now) {
		t.Error("NeedsReminder() = false with safeguarding inside the warning window")
	}

	nothing := coach.Detail{AccountID: "a1"}
	if nothing.NeedsReminder(now) {
		t.Error("NeedsReminder() = true with no recorded accreditations")
	}
}
