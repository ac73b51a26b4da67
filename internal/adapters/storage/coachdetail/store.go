package coachdetail

import (
	"context"

	domain "courtside/internal/domain/coach"
)

// Store persists coach Detail state.
type Store interface {
	GetByAccountID(ctx context.Context, accountID string) (domain.Detail, error)
	Save(ctx context.Context, value domain.Detail) error
	Delete(ctx context.Context, id string) error
	List(ctx context.Context) ([]domain.Detail, error)
}
