package report

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"courtside/internal/adapters/storage"
	domain "courtside/internal/domain/report"
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

const selectColumns = `SELECT id, player_id, template_id, coach_id, content,
	recommended_group_id, is_draft, email_sent, email_sent_at, created_at, updated_at FROM report`

// GetByID retrieves a Report by its ID.
// PRE: id is non-empty
// POST: Returns the entity or an error if not found
func (s *SQLiteStore) GetByID(ctx context.Context, id string) (domain.Report, error) {
	row := s.db.QueryRowContext(ctx, selectColumns+` WHERE id = ?`, id)
	entity, err := scanReport(row.Scan)
	if err == sql.ErrNoRows {
		return domain.Report{}, fmt.Errorf("report not found: %w", err)
	}
	return entity, err
}

// GetByPlayerID retrieves the Report written for a player.
// PRE: playerID is non-empty
// POST: Returns the entity or an error if not found
func (s *SQLiteStore) GetByPlayerID(ctx context.Context, playerID string) (domain.Report, error) {
	row := s.db.QueryRowContext(ctx, selectColumns+` WHERE player_id = ?`, playerID)
	entity, err := scanReport(row.Scan)
	if err == sql.ErrNoRows {
		return domain.Report{}, fmt.Errorf("report not found: %w", err)
	}
	return entity, err
}

// Save persists a Report to the database.
// PRE: entity has been validated
// POST: Entity is persisted (insert or update)
func (s *SQLiteStore) Save(ctx context.Context, entity domain.Report) error {
	content, err := json.Marshal(entity.Content)
	if err != nil {
		return fmt.Errorf("failed to encode report content: %w", err)
	}
	var recommended interface{}
	if entity.RecommendedGroupID != "" {
		recommended = entity.RecommendedGroupID
	}
	_, err = s.db.ExecContext(ctx,
		`INSERT INTO report (id, player_id, template_id, coach_id, content,
		   recommended_group_id, is_draft, email_sent, email_sent_at, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT(id) DO UPDATE SET
		   content=excluded.content, recommended_group_id=excluded.recommended_group_id,
		   is_draft=excluded.is_draft, email_sent=excluded.email_sent,
		   email_sent_at=excluded.email_sent_at, updated_at=excluded.updated_at`,
		entity.ID, entity.PlayerID, entity.TemplateID, entity.CoachID, string(content),
		recommended, entity.IsDraft, entity.EmailSent, nullTime(entity.EmailSentAt),
		entity.CreatedAt.Format(timeLayout), nullTime(entity.UpdatedAt))
	return err
}

// Delete removes a Report from the database.
// PRE: id is non-empty
// POST: Entity with given id is removed
func (s *SQLiteStore) Delete(ctx context.Context, id string) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM report WHERE id = ?`, id)
	return err
}

// ListByPeriodID retrieves Reports for players enrolled in a period.
// PRE: periodID is non-empty
// POST: Returns reports for the given period, oldest first
func (s *SQLiteStore) ListByPeriodID(ctx context.Context, periodID string) ([]domain.Report, error) {
	return s.list(ctx,
		selectColumns+` WHERE player_id IN (SELECT id FROM player WHERE period_id = ?)
		 ORDER BY created_at ASC`, periodID)
}

// ListUnsentByPeriodID retrieves finalized Reports not yet emailed for a period.
// PRE: periodID is non-empty
// POST: Returns unsent, non-draft reports for the given period
func (s *SQLiteStore) ListUnsentByPeriodID(ctx context.Context, periodID string) ([]domain.Report, error) {
	return s.list(ctx,
		selectColumns+` WHERE email_sent = 0 AND is_draft = 0
		 AND player_id IN (SELECT id FROM player WHERE period_id = ?)
		 ORDER BY created_at ASC`, periodID)
}

// CountByPeriodID returns the number of finalized reports in a period.
// PRE: periodID is non-empty
// POST: Returns the count of non-draft reports
func (s *SQLiteStore) CountByPeriodID(ctx context.Context, periodID string) (int, error) {
	var count int
	err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM report WHERE is_draft = 0
		 AND player_id IN (SELECT id FROM player WHERE period_id = ?)`, periodID).Scan(&count)
	return count, err
}

func (s *SQLiteStore) list(ctx context.Context, query string, args ...interface{}) ([]domain.Report, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var results []domain.Report
	for rows.Next() {
		entity, err := scanReport(rows.Scan)
		if err != nil {
			return nil, err
		}
		results = append(results, entity)
	}
	return results, rows.Err()
}

func scanReport(scan func(dest ...interface{}) error) (domain.Report, error) {
	var entity domain.Report
	var content string
	var recommended, emailSentAt, updatedAt sql.NullString
	var createdAt string
	err := scan(&entity.ID, &entity.PlayerID, &entity.TemplateID, &entity.CoachID, &content,
		&recommended, &entity.IsDraft, &entity.EmailSent, &emailSentAt, &createdAt, &updatedAt)
	if err != nil {
		return domain.Report{}, err
	}
	if err := json.Unmarshal([]byte(content), &entity.Content); err != nil {
		return domain.Report{}, fmt.Errorf("failed to decode report content: %w", err)
	}
	if recommended.Valid {
		entity.RecommendedGroupID = recommended.String
	}
	entity.EmailSentAt = parseNullTime(emailSentAt)
	entity.CreatedAt, _ = time.Parse(timeLayout, createdAt)
	entity.UpdatedAt = parseNullTime(updatedAt)
	return entity, nil
}

func parseNullTime(v sql.NullString) time.Time {
	if !v.Valid || v.String == "" {
		return time.Time{}
	}
	t, _ := time.Parse(timeLayout, v.String)
	return t
}

func nullTime(t time.Time) interface{} {
	if t.IsZero() {
		return nil
	}
	return t.Format(timeLayout)
}
