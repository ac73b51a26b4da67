package template

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"courtside/internal/adapters/storage"
	domain "courtside/internal/domain/template"
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

// GetByID retrieves a Template with its sections and fields.
// PRE: id is non-empty
// POST: Returns the entity with sections in display order, or an error if not found
func (s *SQLiteStore) GetByID(ctx context.Context, id string) (domain.Template, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, name, description, created_by, is_active, created_at, updated_at
		 FROM report_template WHERE id = ?`, id)
	entity, err := scanTemplate(row.Scan)
	if err == sql.ErrNoRows {
		return domain.Template{}, fmt.Errorf("template not found: %w", err)
	}
	if err != nil {
		return domain.Template{}, err
	}
	if err := s.loadSections(ctx, &entity); err != nil {
		return domain.Template{}, err
	}
	return entity, nil
}

// Save persists a Template with its sections and fields in one transaction.
// PRE: entity has been validated
// POST: Template row is upserted; sections and fields are replaced
func (s *SQLiteStore) Save(ctx context.Context, entity domain.Template) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx,
		`INSERT INTO report_template (id, name, description, created_by, is_active, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT(id) DO UPDATE SET
		   name=excluded.name, description=excluded.description,
		   is_active=excluded.is_active, updated_at=excluded.updated_at`,
		entity.ID, entity.Name, entity.Description, entity.CreatedBy,
		entity.IsActive, entity.CreatedAt.Format(timeLayout), nullTime(entity.UpdatedAt))
	if err != nil {
		return err
	}

	// Replace the section and field rows wholesale; editing reorders freely.
	if _, err := tx.ExecContext(ctx,
		`DELETE FROM template_field WHERE section_id IN
		   (SELECT id FROM template_section WHERE template_id = ?)`, entity.ID); err != nil {
		return err
	}
	if _, err := tx.ExecContext(ctx,
		`DELETE FROM template_section WHERE template_id = ?`, entity.ID); err != nil {
		return err
	}

	for _, section := range entity.Sections {
		_, err := tx.ExecContext(ctx,
			`INSERT INTO template_section (id, template_id, name, sort_order) VALUES (?, ?, ?, ?)`,
			section.ID, entity.ID, section.Name, section.Order)
		if err != nil {
			return err
		}
		for _, field := range section.Fields {
			opts, err := encodeOptions(field.Options)
			if err != nil {
				return err
			}
			_, err = tx.ExecContext(ctx,
				`INSERT INTO template_field (id, section_id, name, description, field_type, is_required, sort_order, options)
				 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
				field.ID, section.ID, field.Name, field.Description,
				string(field.Kind), field.Required, field.Order, opts)
			if err != nil {
				return err
			}
		}
	}

	return tx.Commit()
}

// Delete removes a Template with its sections and fields.
// PRE: id is non-empty
// POST: Entity with given id is removed
func (s *SQLiteStore) Delete(ctx context.Context, id string) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx,
		`DELETE FROM template_field WHERE section_id IN
		   (SELECT id FROM template_section WHERE template_id = ?)`, id); err != nil {
		return err
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM template_section WHERE template_id = ?`, id); err != nil {
		return err
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM group_template WHERE template_id = ?`, id); err != nil {
		return err
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM report_template WHERE id = ?`, id); err != nil {
		return err
	}
	return tx.Commit()
}

// List retrieves all Templates with their sections.
// POST: Returns all templates ordered by name
func (s *SQLiteStore) List(ctx context.Context) ([]domain.Template, error) {
	return s.list(ctx,
		`SELECT id, name, description, created_by, is_active, created_at, updated_at
		 FROM report_template ORDER BY name ASC`)
}

// ListActive retrieves active Templates with their sections.
// POST: Returns templates with is_active set, ordered by name
func (s *SQLiteStore) ListActive(ctx context.Context) ([]domain.Template, error) {
	return s.list(ctx,
		`SELECT id, name, description, created_by, is_active, created_at, updated_at
		 FROM report_template WHERE is_active = 1 ORDER BY name ASC`)
}

// SaveAssignment persists a group-template Assignment.
// PRE: entity has been validated
// POST: Entity is persisted (insert or update)
func (s *SQLiteStore) SaveAssignment(ctx context.Context, entity domain.Assignment) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO group_template (id, group_id, template_id, is_active, created_at)
		 VALUES (?, ?, ?, ?, ?)
		 ON CONFLICT(group_id, template_id) DO UPDATE SET is_active=excluded.is_active`,
		entity.ID, entity.GroupID, entity.TemplateID, entity.Active,
		entity.CreatedAt.Format(timeLayout))
	return err
}

// DeleteAssignment removes a group-template Assignment.
// PRE: id is non-empty
// POST: Entity with given id is removed
func (s *SQLiteStore) DeleteAssignment(ctx context.Context, id string) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM group_template WHERE id = ?`, id)
	return err
}

// ListAssignments retrieves all group-template Assignments.
// POST: Returns all assignments
func (s *SQLiteStore) ListAssignments(ctx context.Context) ([]domain.Assignment, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, group_id, template_id, is_active, created_at FROM group_template`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var results []domain.Assignment
	for rows.Next() {
		var a domain.Assignment
		var createdAt string
		if err := rows.Scan(&a.ID, &a.GroupID, &a.TemplateID, &a.Active, &createdAt); err != nil {
			return nil, err
		}
		a.CreatedAt, _ = time.Parse(timeLayout, createdAt)
		results = append(results, a)
	}
	return results, rows.Err()
}

// GetActiveForGroup retrieves the active Template assigned to a group.
// PRE: groupID is non-empty
// POST: Returns the template or an error when none is assigned
func (s *SQLiteStore) GetActiveForGroup(ctx context.Context, groupID string) (domain.Template, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT t.id, t.name, t.description, t.created_by, t.is_active, t.created_at, t.updated_at
		 FROM report_template t
		 JOIN group_template gt ON gt.template_id = t.id
		 WHERE gt.group_id = ? AND gt.is_active = 1 AND t.is_active = 1
		 ORDER BY gt.created_at DESC LIMIT 1`, groupID)
	entity, err := scanTemplate(row.Scan)
	if err == sql.ErrNoRows {
		return domain.Template{}, fmt.Errorf("no template assigned to group: %w", err)
	}
	if err != nil {
		return domain.Template{}, err
	}
	if err := s.loadSections(ctx, &entity); err != nil {
		return domain.Template{}, err
	}
	return entity, nil
}

func (s *SQLiteStore) list(ctx context.Context, query string) ([]domain.Template, error) {
	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var results []domain.Template
	for rows.Next() {
		entity, err := scanTemplate(rows.Scan)
		if err != nil {
			return nil, err
		}
		results = append(results, entity)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for i := range results {
		if err := s.loadSections(ctx, &results[i]); err != nil {
			return nil, err
		}
	}
	return results, nil
}

func (s *SQLiteStore) loadSections(ctx context.Context, entity *domain.Template) error {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, name, sort_order FROM template_section
		 WHERE template_id = ? ORDER BY sort_order ASC`, entity.ID)
	if err != nil {
		return err
	}
	defer rows.Close()

	var sections []domain.Section
	for rows.Next() {
		var section domain.Section
		if err := rows.Scan(&section.ID, &section.Name, &section.Order); err != nil {
			return err
		}
		sections = append(sections, section)
	}
	if err := rows.Err(); err != nil {
		return err
	}

	for i := range sections {
		fields, err := s.loadFields(ctx, sections[i].ID)
		if err != nil {
			return err
		}
		sections[i].Fields = fields
	}
	entity.Sections = sections
	return nil
}

func (s *SQLiteStore) loadFields(ctx context.Context, sectionID string) ([]domain.Field, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, name, description, field_type, is_required, sort_order, options
		 FROM template_field WHERE section_id = ? ORDER BY sort_order ASC`, sectionID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var fields []domain.Field
	for rows.Next() {
		var field domain.Field
		var kind string
		var opts sql.NullString
		if err := rows.Scan(&field.ID, &field.Name, &field.Description, &kind,
			&field.Required, &field.Order, &opts); err != nil {
			return nil, err
		}
		field.Kind = domain.Kind(kind)
		field.Options, err = decodeOptions(field.Kind, opts)
		if err != nil {
			return nil, err
		}
		fields = append(fields, field)
	}
	return fields, rows.Err()
}

// optionsRow is the stored shape of the per-kind options column.
type optionsRow struct {
	Min     *float64 `json:"min,omitempty"`
	Max     *float64 `json:"max,omitempty"`
	Choices []string `json:"options,omitempty"`
}

func encodeOptions(opts domain.Options) (interface{}, error) {
	if opts == nil {
		return nil, nil
	}
	var row optionsRow
	switch o := opts.(type) {
	case domain.NumberOptions:
		row.Min, row.Max = o.Min, o.Max
	case domain.RatingOptions:
		min, max := float64(o.Min), float64(o.Max)
		row.Min, row.Max = &min, &max
	case domain.SelectOptions:
		row.Choices = o.Choices
	default:
		return nil, fmt.Errorf("unsupported options type %T", opts)
	}
	raw, err := json.Marshal(row)
	if err != nil {
		return nil, err
	}
	return string(raw), nil
}

func decodeOptions(kind domain.Kind, opts sql.NullString) (domain.Options, error) {
	var row optionsRow
	if opts.Valid && opts.String != "" {
		if err := json.Unmarshal([]byte(opts.String), &row); err != nil {
			return nil, err
		}
	}
	switch kind {
	case domain.KindNumber:
		return domain.NumberOptions{Min: row.Min, Max: row.Max}, nil
	case domain.KindRating:
		if row.Min == nil || row.Max == nil {
			return domain.DefaultRatingOptions(), nil
		}
		return domain.RatingOptions{Min: int(*row.Min), Max: int(*row.Max)}, nil
	case domain.KindSelect:
		return domain.SelectOptions{Choices: row.Choices}, nil
	default:
		return nil, nil
	}
}

func scanTemplate(scan func(dest ...interface{}) error) (domain.Template, error) {
	var entity domain.Template
	var createdAt string
	var updatedAt sql.NullString
	err := scan(&entity.ID, &entity.Name, &entity.Description, &entity.CreatedBy,
		&entity.IsActive, &createdAt, &updatedAt)
	if err != nil {
		return domain.Template{}, err
	}
	entity.CreatedAt, _ = time.Parse(timeLayout, createdAt)
	if updatedAt.Valid && updatedAt.String != "" {
		entity.UpdatedAt, _ = time.Parse(timeLayout, updatedAt.String)
	}
	return entity, nil
}

func nullTime(t time.Time) interface{} {
	if t.IsZero() {
		return nil
	}
	return t.Format(timeLayout)
}
