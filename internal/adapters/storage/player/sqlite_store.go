package player

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"courtside/internal/adapters/storage"
	domain "courtside/internal/domain/player"
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

const selectColumns = `SELECT id, student_id, group_id, session_id, period_id, coach_id, created_at FROM player`

// GetByID retrieves a Player by its ID.
// PRE: id is non-empty
// POST: Returns the entity or an error if not found
func (s *SQLiteStore) GetByID(ctx context.Context, id string) (domain.Player, error) {
	row := s.db.QueryRowContext(ctx, selectColumns+` WHERE id = ?`, id)
	entity, err := scanPlayer(row.Scan)
	if err == sql.ErrNoRows {
		return domain.Player{}, fmt.Errorf("player not found: %w", err)
	}
	return entity, err
}

// Save persists a Player to the database.
// PRE: entity has been validated
// POST: Entity is persisted (insert or update)
func (s *SQLiteStore) Save(ctx context.Context, entity domain.Player) error {
	var sessionID interface{}
	if entity.SessionID != "" {
		sessionID = entity.SessionID
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO player (id, student_id, group_id, session_id, period_id, coach_id, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT(id) DO UPDATE SET
		   student_id=excluded.student_id, group_id=excluded.group_id,
		   session_id=excluded.session_id, period_id=excluded.period_id,
		   coach_id=excluded.coach_id`,
		entity.ID, entity.StudentID, entity.GroupID, sessionID,
		entity.PeriodID, entity.CoachID,
		entity.CreatedAt.Format(timeLayout))
	return err
}

// Delete removes a Player from the database.
// PRE: id is non-empty
// POST: Entity with given id is removed
func (s *SQLiteStore) Delete(ctx context.Context, id string) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM player WHERE id = ?`, id)
	return err
}

// ListByPeriodID retrieves Players enrolled in a period.
// PRE: periodID is non-empty
// POST: Returns players for the given period
func (s *SQLiteStore) ListByPeriodID(ctx context.Context, periodID string) ([]domain.Player, error) {
	return s.list(ctx, selectColumns+` WHERE period_id = ?`, periodID)
}

// ListByCoachAndPeriod retrieves a coach's Players for a period.
// PRE: coachID and periodID are non-empty
// POST: Returns the coach's players for the given period
func (s *SQLiteStore) ListByCoachAndPeriod(ctx context.Context, coachID, periodID string) ([]domain.Player, error) {
	return s.list(ctx, selectColumns+` WHERE coach_id = ? AND period_id = ?`, coachID, periodID)
}

// GetByStudentAndPeriod retrieves a student's enrolment in a period.
// PRE: studentID and periodID are non-empty
// POST: Returns the entity or an error if not found
func (s *SQLiteStore) GetByStudentAndPeriod(ctx context.Context, studentID, periodID string) (domain.Player, error) {
	row := s.db.QueryRowContext(ctx, selectColumns+` WHERE student_id = ? AND period_id = ?`, studentID, periodID)
	entity, err := scanPlayer(row.Scan)
	if err == sql.ErrNoRows {
		return domain.Player{}, fmt.Errorf("player not found: %w", err)
	}
	return entity, err
}

func (s *SQLiteStore) list(ctx context.Context, query string, args ...interface{}) ([]domain.Player, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var results []domain.Player
	for rows.Next() {
		entity, err := scanPlayer(rows.Scan)
		if err != nil {
			return nil, err
		}
		results = append(results, entity)
	}
	return results, rows.Err()
}

func scanPlayer(scan func(dest ...interface{}) error) (domain.Player, error) {
	var entity domain.Player
	var sessionID sql.NullString
	var createdAt string
	err := scan(&entity.ID, &entity.StudentID, &entity.GroupID, &sessionID,
		&entity.PeriodID, &entity.CoachID, &createdAt)
	if err != nil {
		return domain.Player{}, err
	}
	if sessionID.Valid {
		entity.SessionID = sessionID.String
	}
	entity.CreatedAt, _ = time.Parse(timeLayout, createdAt)
	return entity, nil
}
