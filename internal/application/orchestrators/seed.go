package orchestrators

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"courtside/internal/domain/account"
	"courtside/internal/domain/group"
)

// SeedDeps holds stores needed for first-run seeding.
type SeedDeps struct {
	AccountStore seedAccountStore
	GroupStore   seedGroupStore
	GenerateID   func() string
	Now          func() time.Time
}

type seedAccountStore interface {
	Save(ctx context.Context, a account.Account) error
	GetByEmail(ctx context.Context, email string) (account.Account, error)
	Count(ctx context.Context) (int, error)
}

type seedGroupStore interface {
	Save(ctx context.Context, g group.Group) error
	List(ctx context.Context) ([]group.Group, error)
}

// defaultGroups returns the starter coaching groups, mini red through yellow.
func defaultGroups() []group.Group {
	return []group.Group{
		{Name: "Red 1", Description: "Mini tennis red, first year"},
		{Name: "Red 2", Description: "Mini tennis red, second year"},
		{Name: "Orange 1", Description: "Mini tennis orange"},
		{Name: "Green 1", Description: "Mini tennis green"},
		{Name: "Yellow 1", Description: "Full ball, development"},
		{Name: "Yellow 2", Description: "Full ball, performance"},
	}
}

// ExecuteSeed bootstraps a fresh installation: a super admin account from the
// given credentials and the starter group ladder. It is idempotent.
// PRE: Database is migrated
// POST: At least one super admin and the default groups exist
func ExecuteSeed(ctx context.Context, adminEmail, adminPassword string, deps SeedDeps) error {
	count, err := deps.AccountStore.Count(ctx)
	if err != nil {
		return fmt.Errorf("seed: count accounts: %w", err)
	}
	if count == 0 {
		if adminEmail == "" || adminPassword == "" {
			return fmt.Errorf("seed: no accounts exist and no admin credentials configured")
		}
		acct := account.Account{
			ID:        deps.GenerateID(),
			Email:     adminEmail,
			Name:      "Administrator",
			Role:      account.RoleSuperAdmin,
			IsActive:  true,
			CreatedAt: deps.Now(),
		}
		if err := acct.SetPassword(adminPassword); err != nil {
			return fmt.Errorf("seed admin: set password: %w", err)
		}
		if err := deps.AccountStore.Save(ctx, acct); err != nil {
			return fmt.Errorf("seed admin: save: %w", err)
		}
		slog.Info("seed_event", "event", "admin_seeded", "email", adminEmail)
	}

	existing, err := deps.GroupStore.List(ctx)
	if err != nil {
		return fmt.Errorf("seed groups: list: %w", err)
	}
	if len(existing) > 0 {
		return nil
	}

	for _, g := range defaultGroups() {
		g.ID = deps.GenerateID()
		g.CreatedAt = deps.Now()
		if err := deps.GroupStore.Save(ctx, g); err != nil {
			return fmt.Errorf("seed group %s: %w", g.Name, err)
		}
	}
	slog.Info("seed_event", "event", "groups_seeded", "count", len(defaultGroups()))
	return nil
}
