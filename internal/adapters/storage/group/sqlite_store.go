package group

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"courtside/internal/adapters/storage"
	domain "courtside/internal/domain/group"
)

const timeLayout = "2006-01-02T15:04:05Z07:00"

// SQLiteStore implements Store using SQLite.
type SQLiteStore struct {
	db storage.SQLDB
}

// NewSQLiteStore creates a new SQLiteStore.
func NewSQLiteStore(db storage.SQLDB) *SQLiteStore {
	return &SQLiteStore{db: db}
}

// GetByID retrieves a Group by its ID.
// PRE: id is non-empty
// POST: Returns the entity or an error if not found
func (s *SQLiteStore) GetByID(ctx context.Context, id string) (domain.Group, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, name, description, created_at FROM tennis_group WHERE id = ?`, id)
	entity, err := scanGroup(row.Scan)
	if err == sql.ErrNoRows {
		return domain.Group{}, fmt.Errorf("group not found: %w", err)
	}
	return entity, err
}

// Save persists a Group to the database.
// PRE: entity has been validated
// POST: Entity is persisted (insert or update)
func (s *SQLiteStore) Save(ctx context.Context, entity domain.Group) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO tennis_group (id, name, description, created_at)
		 VALUES (?, ?, ?, ?)
		 ON CONFLICT(id) DO UPDATE SET
		   name=excluded.name, description=excluded.description`,
		entity.ID, entity.Name, entity.Description,
		entity.CreatedAt.Format(timeLayout))
	return err
}

// Delete removes a Group from the database.
// PRE: id is non-empty
// POST: Entity with given id is removed
func (s *SQLiteStore) Delete(ctx context.Context, id string) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM tennis_group WHERE id = ?`, id)
	return err
}

// List retrieves all Groups ordered by name.
// POST: Returns all groups
func (s *SQLiteStore) List(ctx context.Context) ([]domain.Group, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, name, description, created_at FROM tennis_group ORDER BY name ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var results []domain.Group
	for rows.Next() {
		entity, err := scanGroup(rows.Scan)
		if err != nil {
			return nil, err
		}
		results = append(results, entity)
	}
	return results, rows.Err()
}

// GetSessionByID retrieves a Session by its ID.
// PRE: id is non-empty
// POST: Returns the entity or an error if not found
func (s *SQLiteStore) GetSessionByID(ctx context.Context, id string) (domain.Session, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, group_id, day_of_week, start_time, end_time, created_at
		 FROM group_session WHERE id = ?`, id)
	entity, err := scanSession(row.Scan)
	if err == sql.ErrNoRows {
		return domain.Session{}, fmt.Errorf("session not found: %w", err)
	}
	return entity, err
}

// SaveSession persists a Session to the database.
// PRE: entity has been validated
// POST: Entity is persisted (insert or update)
func (s *SQLiteStore) SaveSession(ctx context.Context, entity domain.Session) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO group_session (id, group_id, day_of_week, start_time, end_time, created_at)
		 VALUES (?, ?, ?, ?, ?, ?)
		 ON CONFLICT(id) DO UPDATE SET
		   group_id=excluded.group_id, day_of_week=excluded.day_of_week,
		   start_time=excluded.start_time, end_time=excluded.end_time`,
		entity.ID, entity.GroupID, int(entity.DayOfWeek),
		entity.StartTime, entity.EndTime,
		entity.CreatedAt.Format(timeLayout))
	return err
}

// DeleteSession removes a Session from the database.
// PRE: id is non-empty
// POST: Entity with given id is removed
func (s *SQLiteStore) DeleteSession(ctx context.Context, id string) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM group_session WHERE id = ?`, id)
	return err
}

// ListSessionsByGroupID retrieves Sessions for a group ordered by day and start time.
// PRE: groupID is non-empty
// POST: Returns sessions for the given group
func (s *SQLiteStore) ListSessionsByGroupID(ctx context.Context, groupID string) ([]domain.Session, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, group_id, day_of_week, start_time, end_time, created_at
		 FROM group_session WHERE group_id = ? ORDER BY day_of_week ASC, start_time ASC`, groupID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var results []domain.Session
	for rows.Next() {
		entity, err := scanSession(rows.Scan)
		if err != nil {
			return nil, err
		}
		results = append(results, entity)
	}
	return results, rows.Err()
}

func scanGroup(scan func(dest ...interface{}) error) (domain.Group, error) {
	var entity domain.Group
	var createdAt string
	err := scan(&entity.ID, &entity.Name, &entity.Description, &createdAt)
	if err != nil {
		return domain.Group{}, err
	}
	entity.CreatedAt, _ = time.Parse(timeLayout, createdAt)
	return entity, nil
}

func scanSession(scan func(dest ...interface{}) error) (domain.Session, error) {
	var entity domain.Session
	var day int
	var createdAt string
	err := scan(&entity.ID, &entity.GroupID, &day, &entity.StartTime, &entity.EndTime, &createdAt)
	if err != nil {
		return domain.Session{}, err
	}
	entity.DayOfWeek = time.Weekday(day)
	entity.CreatedAt, _ = time.Parse(timeLayout, createdAt)
	return entity, nil
}
