package projections

import (
	"context"
	"sort"
	"time"

	"courtside/internal/domain/account"
	"courtside/internal/domain/coach"
)

// AccreditationDetailStore defines the coach detail store interface needed by the accreditations projection.
type AccreditationDetailStore interface {
	List(ctx context.Context) ([]coach.Detail, error)
}

// AccreditationAccountStore defines the account store interface needed by the accreditations projection.
type AccreditationAccountStore interface {
	GetByID(ctx context.Context, id string) (account.Account, error)
}

// GetAccreditationsDeps holds dependencies for the accreditations projection.
type GetAccreditationsDeps struct {
	CoachDetailStore AccreditationDetailStore
	AccountStore     AccreditationAccountStore
}

// CoachAccreditations is one coach's compliance status for the admin view.
type CoachAccreditations struct {
	AccountID     string
	CoachName     string
	Email         string
	Qualification string
	DBSNumber     string
	Expiries      []coach.Expiry
	NeedsAction   bool // any expiry is expired or inside the warning window
}

// QueryGetAccreditations lists every coach's accreditation status, soonest
// trouble first.
func QueryGetAccreditations(ctx context.Context, deps GetAccreditationsDeps, now time.Time) ([]CoachAccreditations, error) {
	details, err := deps.CoachDetailStore.List(ctx)
	if err != nil {
		return nil, err
	}

	out := make([]CoachAccreditations, 0, len(details))
	for _, d := range details {
		row := CoachAccreditations{
			AccountID:     d.AccountID,
			Qualification: d.Qualification,
			DBSNumber:     d.DBSNumber,
			Expiries:      d.Expiries(now),
			NeedsAction:   d.NeedsReminder(now),
		}
		if acct, err := deps.AccountStore.GetByID(ctx, d.AccountID); err == nil {
			row.CoachName = acct.Name
			row.Email = acct.Email
		}
		out = append(out, row)
	}

	sort.Slice(out, func(i, j int) bool {
		if out[i].NeedsAction != out[j].NeedsAction {
			return out[i].NeedsAction
		}
		return out[i].CoachName < out[j].CoachName
	})
	return out, nil
}
