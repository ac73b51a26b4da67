package period

import (
	"context"

	domain "courtside/internal/domain/period"
)

// Store persists Period state.
type Store interface {
	GetByID(ctx context.Context, id string) (domain.Period, error)
	Save(ctx context.Context, value domain.Period) error
	Delete(ctx context.Context, id string) error
	List(ctx context.Context) ([]domain.Period, error)
	ListActive(ctx context.Context) ([]domain.Period, error)
}
