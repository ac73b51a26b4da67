package group

import (
	"context"

	domain "courtside/internal/domain/group"
)

// Store persists Group and Session state.
type Store interface {
	GetByID(ctx context.Context, id string) (domain.Group, error)
	Save(ctx context.Context, value domain.Group) error
	Delete(ctx context.Context, id string) error
	List(ctx context.Context) ([]domain.Group, error)
	GetSessionByID(ctx context.Context, id string) (domain.Session, error)
	SaveSession(ctx context.Context, value domain.Session) error
	DeleteSession(ctx context.Context, id string) error
	ListSessionsByGroupID(ctx context.Context, groupID string) ([]domain.Session, error)
}
