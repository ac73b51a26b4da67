package account

import (
	"context"

	domain "courtside/internal/domain/account"
)

// Store persists Account state.
type Store interface {
	GetByID(ctx context.Context, id string) (domain.Account, error)
	GetByEmail(ctx context.Context, email string) (domain.Account, error)
	Save(ctx context.Context, value domain.Account) error
	Delete(ctx context.Context, id string) error
	List(ctx context.Context, filter ListFilter) ([]domain.Account, error)
	Count(ctx context.Context) (int, error)
}

// ListFilter carries filtering parameters for List operations. OrderBy must
// be one of the listed columns; callers validate it against an allow-list
// before building the filter.
type ListFilter struct {
	Limit      int
	Offset     int
	Role       string
	Search     string // matches name or email, case-insensitive substring
	OrderBy    string // name, email, role or created_at; empty means name
	Descending bool
}
