package template

import (
	"context"

	domain "courtside/internal/domain/template"
)

// Store persists Template and group Assignment state.
type Store interface {
	GetByID(ctx context.Context, id string) (domain.Template, error)
	Save(ctx context.Context, value domain.Template) error
	Delete(ctx context.Context, id string) error
	List(ctx context.Context) ([]domain.Template, error)
	ListActive(ctx context.Context) ([]domain.Template, error)
	SaveAssignment(ctx context.Context, value domain.Assignment) error
	DeleteAssignment(ctx context.Context, id string) error
	ListAssignments(ctx context.Context) ([]domain.Assignment, error)
	GetActiveForGroup(ctx context.Context, groupID string) (domain.Template, error)
}
