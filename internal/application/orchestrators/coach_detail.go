package orchestrators

import (
	"context"
	"log/slog"
	"time"

	"courtside/internal/domain/coach"
)

// CoachDetailStoreForUpdate defines the store interface needed by UpdateCoachDetail.
type CoachDetailStoreForUpdate interface {
	GetByAccountID(ctx context.Context, accountID string) (coach.Detail, error)
	Save(ctx context.Context, d coach.Detail) error
}

// UpdateCoachDetailInput carries input for the update coach detail orchestrator.
type UpdateCoachDetailInput struct {
	AccountID              string
	Qualification          string
	ContactNumber          string
	EmergencyContactName   string
	EmergencyContactNumber string
	CoachingExpiry         time.Time
	DBSNumber              string
	DBSExpiry              time.Time
	FirstAidExpiry         time.Time
	SafeguardingExpiry     time.Time
}

// UpdateCoachDetailDeps holds dependencies for UpdateCoachDetail.
type UpdateCoachDetailDeps struct {
	CoachDetailStore CoachDetailStoreForUpdate
	GenerateID       func() string
	Now              func() time.Time
}

// ExecuteUpdateCoachDetail creates or replaces a coach's compliance profile.
// PRE: AccountID refers to an existing coach account
// POST: Detail persisted; created on first save, updated thereafter
func ExecuteUpdateCoachDetail(ctx context.Context, input UpdateCoachDetailInput, deps UpdateCoachDetailDeps) (coach.Detail, error) {
	d, err := deps.CoachDetailStore.GetByAccountID(ctx, input.AccountID)
	if err != nil {
		d = coach.Detail{
			ID:        deps.GenerateID(),
			AccountID: input.AccountID,
			CreatedAt: deps.Now(),
		}
	} else {
		d.UpdatedAt = deps.Now()
	}

	d.Qualification = input.Qualification
	d.ContactNumber = input.ContactNumber
	d.EmergencyContactName = input.EmergencyContactName
	d.EmergencyContactNumber = input.EmergencyContactNumber
	d.CoachingExpiry = input.CoachingExpiry
	d.DBSNumber = input.DBSNumber
	d.DBSExpiry = input.DBSExpiry
	d.FirstAidExpiry = input.FirstAidExpiry
	d.SafeguardingExpiry = input.SafeguardingExpiry

	if err := d.Validate(); err != nil {
		return coach.Detail{}, err
	}
	if err := deps.CoachDetailStore.Save(ctx, d); err != nil {
		return coach.Detail{}, err
	}

	slog.Info("coach_event", "event", "coach_detail_updated", "account_id", d.AccountID)
	return d, nil
}
