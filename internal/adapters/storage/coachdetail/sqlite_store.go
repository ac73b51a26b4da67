package coachdetail

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"courtside/internal/adapters/storage"
	domain "courtside/internal/domain/coach"
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

const selectColumns = `SELECT id, account_id, qualification, contact_number,
	emergency_contact_name, emergency_contact_number,
	coaching_expiry, dbs_number, dbs_expiry, first_aid_expiry, safeguarding_expiry,
	created_at, updated_at FROM coach_detail`

// GetByAccountID retrieves a coach Detail by the owning account.
// PRE: accountID is non-empty
// POST: Returns the entity or an error if not found
func (s *SQLiteStore) GetByAccountID(ctx context.Context, accountID string) (domain.Detail, error) {
	row := s.db.QueryRowContext(ctx, selectColumns+` WHERE account_id = ?`, accountID)
	entity, err := scanDetail(row.Scan)
	if err == sql.ErrNoRows {
		return domain.Detail{}, fmt.Errorf("coach detail not found: %w", err)
	}
	return entity, err
}

// Save persists a coach Detail to the database.
// PRE: entity has been validated
// POST: Entity is persisted (insert or update)
func (s *SQLiteStore) Save(ctx context.Context, entity domain.Detail) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO coach_detail (id, account_id, qualification, contact_number,
		   emergency_contact_name, emergency_contact_number,
		   coaching_expiry, dbs_number, dbs_expiry, first_aid_expiry, safeguarding_expiry,
		   created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT(account_id) DO UPDATE SET
		   qualification=excluded.qualification, contact_number=excluded.contact_number,
		   emergency_contact_name=excluded.emergency_contact_name,
		   emergency_contact_number=excluded.emergency_contact_number,
		   coaching_expiry=excluded.coaching_expiry, dbs_number=excluded.dbs_number,
		   dbs_expiry=excluded.dbs_expiry, first_aid_expiry=excluded.first_aid_expiry,
		   safeguarding_expiry=excluded.safeguarding_expiry, updated_at=excluded.updated_at`,
		entity.ID, entity.AccountID, entity.Qualification, entity.ContactNumber,
		entity.EmergencyContactName, entity.EmergencyContactNumber,
		nullTime(entity.CoachingExpiry), entity.DBSNumber, nullTime(entity.DBSExpiry),
		nullTime(entity.FirstAidExpiry), nullTime(entity.SafeguardingExpiry),
		entity.CreatedAt.Format(timeLayout), nullTime(entity.UpdatedAt))
	return err
}

// Delete removes a coach Detail from the database.
// PRE: id is non-empty
// POST: Entity with given id is removed
func (s *SQLiteStore) Delete(ctx context.Context, id string) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM coach_detail WHERE id = ?`, id)
	return err
}

// List retrieves all coach Details.
// POST: Returns all coach details
func (s *SQLiteStore) List(ctx context.Context) ([]domain.Detail, error) {
	rows, err := s.db.QueryContext(ctx, selectColumns+` ORDER BY created_at ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var results []domain.Detail
	for rows.Next() {
		entity, err := scanDetail(rows.Scan)
		if err != nil {
			return nil, err
		}
		results = append(results, entity)
	}
	return results, rows.Err()
}

func scanDetail(scan func(dest ...interface{}) error) (domain.Detail, error) {
	var entity domain.Detail
	var coaching, dbs, firstAid, safeguarding, updatedAt sql.NullString
	var createdAt string
	err := scan(&entity.ID, &entity.AccountID, &entity.Qualification, &entity.ContactNumber,
		&entity.EmergencyContactName, &entity.EmergencyContactNumber,
		&coaching, &entity.DBSNumber, &dbs, &firstAid, &safeguarding,
		&createdAt, &updatedAt)
	if err != nil {
		return domain.Detail{}, err
	}
	entity.CoachingExpiry = parseNullTime(coaching)
	entity.DBSExpiry = parseNullTime(dbs)
	entity.FirstAidExpiry = parseNullTime(firstAid)
	entity.SafeguardingExpiry = parseNullTime(safeguarding)
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
