package period

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"courtside/internal/adapters/storage"
	domain "courtside/internal/domain/period"
)

const (
	timeLayout = "2006-01-02T15:04:05Z07:00"
	dateLayout = "2006-01-02"
)

// SQLiteStore implements Store using SQLite.
type SQLiteStore struct {
	db storage.SQLDB
}

// NewSQLiteStore creates a new SQLiteStore.
func NewSQLiteStore(db storage.SQLDB) *SQLiteStore {
	return &SQLiteStore{db: db}
}

// GetByID retrieves a Period by its ID.
// PRE: id is non-empty
// POST: Returns the entity or an error if not found
func (s *SQLiteStore) GetByID(ctx context.Context, id string) (domain.Period, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, name, start_date, end_date, is_active, created_at
		 FROM teaching_period WHERE id = ?`, id)
	entity, err := scanPeriod(row.Scan)
	if err == sql.ErrNoRows {
		return domain.Period{}, fmt.Errorf("period not found: %w", err)
	}
	return entity, err
}

// Save persists a Period to the database.
// PRE: entity has been validated
// POST: Entity is persisted (insert or update)
func (s *SQLiteStore) Save(ctx context.Context, entity domain.Period) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO teaching_period (id, name, start_date, end_date, is_active, created_at)
		 VALUES (?, ?, ?, ?, ?, ?)
		 ON CONFLICT(id) DO UPDATE SET
		   name=excluded.name, start_date=excluded.start_date,
		   end_date=excluded.end_date, is_active=excluded.is_active`,
		entity.ID, entity.Name,
		entity.StartDate.Format(dateLayout), entity.EndDate.Format(dateLayout),
		entity.IsActive, entity.CreatedAt.Format(timeLayout))
	return err
}

// Delete removes a Period from the database.
// PRE: id is non-empty
// POST: Entity with given id is removed
func (s *SQLiteStore) Delete(ctx context.Context, id string) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM teaching_period WHERE id = ?`, id)
	return err
}

// List retrieves all Periods, newest first.
// POST: Returns all periods
func (s *SQLiteStore) List(ctx context.Context) ([]domain.Period, error) {
	return s.list(ctx,
		`SELECT id, name, start_date, end_date, is_active, created_at
		 FROM teaching_period ORDER BY start_date DESC`)
}

// ListActive retrieves active Periods, newest first.
// POST: Returns periods with is_active set
func (s *SQLiteStore) ListActive(ctx context.Context) ([]domain.Period, error) {
	return s.list(ctx,
		`SELECT id, name, start_date, end_date, is_active, created_at
		 FROM teaching_period WHERE is_active = 1 ORDER BY start_date DESC`)
}

func (s *SQLiteStore) list(ctx context.Context, query string) ([]domain.Period, error) {
	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var results []domain.Period
	for rows.Next() {
		entity, err := scanPeriod(rows.Scan)
		if err != nil {
			return nil, err
		}
		results = append(results, entity)
	}
	return results, rows.Err()
}

func scanPeriod(scan func(dest ...interface{}) error) (domain.Period, error) {
	var entity domain.Period
	var startDate, endDate, createdAt string
	err := scan(&entity.ID, &entity.Name, &startDate, &endDate, &entity.IsActive, &createdAt)
	if err != nil {
		return domain.Period{}, err
	}
	entity.StartDate, _ = time.Parse(dateLayout, startDate)
	entity.EndDate, _ = time.Parse(dateLayout, endDate)
	entity.CreatedAt, _ = time.Parse(timeLayout, createdAt)
	return entity, nil
}
