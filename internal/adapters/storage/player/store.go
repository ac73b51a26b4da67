package player

import (
	"context"

	domain "courtside/internal/domain/player"
)

// Store persists Player state.
type Store interface {
	GetByID(ctx context.Context, id string) (domain.Player, error)
	Save(ctx context.Context, value domain.Player) error
	Delete(ctx context.Context, id string) error
	ListByPeriodID(ctx context.Context, periodID string) ([]domain.Player, error)
	ListByCoachAndPeriod(ctx context.Context, coachID, periodID string) ([]domain.Player, error)
	GetByStudentAndPeriod(ctx context.Context, studentID, periodID string) (domain.Player, error)
}
