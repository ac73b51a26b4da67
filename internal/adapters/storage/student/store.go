package student

import (
	"context"

	domain "courtside/internal/domain/student"
)

// Store persists Student state.
type Store interface {
	GetByID(ctx context.Context, id string) (domain.Student, error)
	Save(ctx context.Context, value domain.Student) error
	Delete(ctx context.Context, id string) error
	List(ctx context.Context) ([]domain.Student, error)
}
