package report

import (
	"context"

	domain "courtside/internal/domain/report"
)

// Store persists Report state.
type Store interface {
	GetByID(ctx context.Context, id string) (domain.Report, error)
	GetByPlayerID(ctx context.Context, playerID string) (domain.Report, error)
	Save(ctx context.Context, value domain.Report) error
	Delete(ctx context.Context, id string) error
	ListByPeriodID(ctx context.Context, periodID string) ([]domain.Report, error)
	ListUnsentByPeriodID(ctx context.Context, periodID string) ([]domain.Report, error)
	CountByPeriodID(ctx context.Context, periodID string) (int, error)
}
