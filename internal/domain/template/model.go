package template

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"
)

// Max length constants for user-editable fields.
const (
	MaxNameLength        = 100
	MaxDescriptionLength = 500
)

// Domain errors
var (
	ErrEmptyName       = errors.New("template name is required")
	ErrNoSections      = errors.New("template needs at least one section")
	ErrEmptyCreator    = errors.New("created-by account ID is required")
	ErrInactive        = errors.New("template is not active")
	ErrUnknownKind     = errors.New("unknown field kind")
	ErrNoChoices       = errors.New("select field needs at least one choice")
	ErrOptionsMismatch = errors.New("field options do not match field kind")
)

// Template is a coach-authored description of a report's sections and fields.
// It is a pure data aggregate: rendering and validation of filled-in values
// live in the form package.
type Template struct {
	ID          string
	Name        string
	Description string
	Sections    []Section
	IsActive    bool
	CreatedBy   string // AccountID of the authoring admin
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// Section groups related fields under a heading. Display order is ascending
// by Order.
type Section struct {
	ID     string
	Name   string
	Order  int
	Fields []Field
}

// Field is a single report entry declared by a template.
type Field struct {
	ID          string
	Name        string
	Description string
	Kind        Kind
	Required    bool
	Order       int
	Options     Options // nil for kinds that carry no constraints
}

// Validate checks the authoring rules for a template.
// PRE: Template struct is populated
// POST: Returns nil if the template can be saved, error otherwise
func (t *Template) Validate() error {
	if strings.TrimSpace(t.Name) == "" {
		return ErrEmptyName
	}
	if len(t.Name) > MaxNameLength {
		return fmt.Errorf("template name cannot exceed %d characters", MaxNameLength)
	}
	if len(t.Description) > MaxDescriptionLength {
		return fmt.Errorf("template description cannot exceed %d characters", MaxDescriptionLength)
	}
	if t.CreatedBy == "" {
		return ErrEmptyCreator
	}
	if len(t.Sections) == 0 {
		return ErrNoSections
	}
	for si, s := range t.Sections {
		if strings.TrimSpace(s.Name) == "" {
			return fmt.Errorf("section %d needs a name", si+1)
		}
		// "|" delimits section and field in rendered input names.
		if strings.Contains(s.Name, "|") {
			return fmt.Errorf("section name %q cannot contain %q", s.Name, "|")
		}
		if len(s.Fields) == 0 {
			return fmt.Errorf("add at least one field in %s", s.Name)
		}
		for fi, f := range s.Fields {
			if strings.TrimSpace(f.Name) == "" {
				return fmt.Errorf("field %d in section %s needs a name", fi+1, s.Name)
			}
			if strings.Contains(f.Name, "|") {
				return fmt.Errorf("field name %q cannot contain %q", f.Name, "|")
			}
			if err := f.validate(); err != nil {
				return fmt.Errorf("field %s in section %s: %w", f.Name, s.Name, err)
			}
		}
	}
	return nil
}

func (f *Field) validate() error {
	if !f.Kind.Valid() {
		return fmt.Errorf("%w: %q", ErrUnknownKind, f.Kind)
	}
	switch opts := f.Options.(type) {
	case nil:
		// text, textarea and progress carry no options; number and rating
		// fall back to defaults at validation time.
		return nil
	case NumberOptions:
		if f.Kind != KindNumber {
			return ErrOptionsMismatch
		}
		if opts.Min != nil && opts.Max != nil && *opts.Min > *opts.Max {
			return errors.New("min cannot exceed max")
		}
	case RatingOptions:
		if f.Kind != KindRating {
			return ErrOptionsMismatch
		}
	case SelectOptions:
		if f.Kind != KindSelect {
			return ErrOptionsMismatch
		}
		if len(opts.Choices) == 0 {
			return ErrNoChoices
		}
	default:
		return ErrOptionsMismatch
	}
	return nil
}

// Normalize sorts sections and their fields ascending by Order. Display code
// relies on this having been applied.
// POST: Sections and Fields are in declaration order
func (t *Template) Normalize() {
	sort.SliceStable(t.Sections, func(i, j int) bool {
		return t.Sections[i].Order < t.Sections[j].Order
	})
	for si := range t.Sections {
		fields := t.Sections[si].Fields
		sort.SliceStable(fields, func(i, j int) bool {
			return fields[i].Order < fields[j].Order
		})
	}
}

// FieldCount returns the total number of fields across all sections.
func (t *Template) FieldCount() int {
	n := 0
	for _, s := range t.Sections {
		n += len(s.Fields)
	}
	return n
}

// Assignment links a group to its active report template. At most one active
// assignment exists per group; assigning a new template deactivates the old one.
type Assignment struct {
	ID         string
	GroupID    string
	TemplateID string
	Active     bool
	CreatedAt  time.Time
}

// Validate checks if the Assignment has valid data.
func (a *Assignment) Validate() error {
	if a.GroupID == "" {
		return errors.New("group ID is required")
	}
	if a.TemplateID == "" {
		return errors.New("template ID is required")
	}
	return nil
}
