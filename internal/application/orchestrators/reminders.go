package orchestrators

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"courtside/internal/adapters/email"
	"courtside/internal/domain/coach"
)

// CoachDetailStoreForReminders defines the store interface needed by accreditation reminders.
type CoachDetailStoreForReminders interface {
	List(ctx context.Context) ([]coach.Detail, error)
}

// SendRemindersDeps holds dependencies for SendAccreditationReminders.
type SendRemindersDeps struct {
	CoachDetailStore CoachDetailStoreForReminders
	AccountStore     AccountStoreForSend
	Sender           email.Sender
	Now              func() time.Time
}

// SendRemindersResult summarizes a reminder run.
type SendRemindersResult struct {
	Notified int
	Current  int // coaches with nothing expiring
}

// ExecuteSendAccreditationReminders emails every coach whose DBS, first aid,
// safeguarding or coaching accreditation is expired or inside the 90-day
// warning window.
// POST: One email per affected coach listing each lapsing accreditation
func ExecuteSendAccreditationReminders(ctx context.Context, deps SendRemindersDeps) (SendRemindersResult, error) {
	details, err := deps.CoachDetailStore.List(ctx)
	if err != nil {
		return SendRemindersResult{}, err
	}

	now := deps.Now()
	var result SendRemindersResult
	var reqs []email.SendRequest
	for _, d := range details {
		if !d.NeedsReminder(now) {
			result.Current++
			continue
		}

		acct, err := deps.AccountStore.GetByID(ctx, d.AccountID)
		if err != nil {
			slog.Error("reminder_account_lookup_failed", "account_id", d.AccountID, "error", err)
			continue
		}

		reqs = append(reqs, email.SendRequest{
			To:      []string{acct.Email},
			Subject: "Accreditation renewal needed",
			HTML:    reminderBody(acct.Name, d.Expiries(now)),
		})
		result.Notified++
	}

	if len(reqs) > 0 {
		if _, err := deps.Sender.SendBatch(ctx, reqs); err != nil {
			return result, err
		}
	}

	slog.Info("coach_event", "event", "accreditation_reminders_sent", "notified", result.Notified, "current", result.Current)
	return result, nil
}

func reminderBody(name string, expiries []coach.Expiry) string {
	var items strings.Builder
	for _, e := range expiries {
		if e.Status == coach.StatusValid {
			continue
		}
		state := fmt.Sprintf("expires in %d days", e.DaysLeft)
		if e.Status == coach.StatusExpired {
			state = fmt.Sprintf("expired %d days ago", -e.DaysLeft)
		}
		items.WriteString(fmt.Sprintf("<li>%s: %s (%s)</li>",
			accreditationLabel(e.Kind), e.ExpiresAt.Format("2 January 2006"), state))
	}

	return fmt.Sprintf(`<p>Hi %s,</p>
<p>The following accreditations need your attention:</p>
<ul>%s</ul>
<p>Please arrange renewal and update your profile once done.</p>
<p>Courtside Tennis</p>`, name, items.String())
}

func accreditationLabel(kind string) string {
	switch kind {
	case coach.AccreditationCoaching:
		return "Coaching accreditation"
	case coach.AccreditationDBS:
		return "DBS check"
	case coach.AccreditationFirstAid:
		return "First aid certificate"
	case coach.AccreditationSafeguarding:
		return "Safeguarding certificate"
	}
	return kind
}
