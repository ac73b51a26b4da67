package student

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"courtside/internal/adapters/storage"
	domain "courtside/internal/domain/student"
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

// GetByID retrieves a Student by its ID.
// PRE: id is non-empty
// POST: Returns the entity or an error if not found
func (s *SQLiteStore) GetByID(ctx context.Context, id string) (domain.Student, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, name, date_of_birth, contact_email, created_at FROM student WHERE id = ?`, id)
	entity, err := scanStudent(row.Scan)
	if err == sql.ErrNoRows {
		return domain.Student{}, fmt.Errorf("student not found: %w", err)
	}
	return entity, err
}

// Save persists a Student to the database.
// PRE: entity has been validated
// POST: Entity is persisted (insert or update)
func (s *SQLiteStore) Save(ctx context.Context, entity domain.Student) error {
	var dob interface{}
	if !entity.DateOfBirth.IsZero() {
		dob = entity.DateOfBirth.Format(dateLayout)
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO student (id, name, date_of_birth, contact_email, created_at)
		 VALUES (?, ?, ?, ?, ?)
		 ON CONFLICT(id) DO UPDATE SET
		   name=excluded.name, date_of_birth=excluded.date_of_birth,
		   contact_email=excluded.contact_email`,
		entity.ID, entity.Name, dob, entity.ContactEmail,
		entity.CreatedAt.Format(timeLayout))
	return err
}

// Delete removes a Student from the database.
// PRE: id is non-empty
// POST: Entity with given id is removed
func (s *SQLiteStore) Delete(ctx context.Context, id string) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM student WHERE id = ?`, id)
	return err
}

// List retrieves all Students ordered by name.
// POST: Returns all students
func (s *SQLiteStore) List(ctx context.Context) ([]domain.Student, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, name, date_of_birth, contact_email, created_at FROM student ORDER BY name ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var results []domain.Student
	for rows.Next() {
		entity, err := scanStudent(rows.Scan)
		if err != nil {
			return nil, err
		}
		results = append(results, entity)
	}
	return results, rows.Err()
}

func scanStudent(scan func(dest ...interface{}) error) (domain.Student, error) {
	var entity domain.Student
	var dob sql.NullString
	var createdAt string
	err := scan(&entity.ID, &entity.Name, &dob, &entity.ContactEmail, &createdAt)
	if err != nil {
		return domain.Student{}, err
	}
	if dob.Valid && dob.String != "" {
		entity.DateOfBirth, _ = time.Parse(dateLayout, dob.String)
	}
	entity.CreatedAt, _ = time.Parse(timeLayout, createdAt)
	return entity, nil
}
