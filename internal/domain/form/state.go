package form

import (
	"strings"

	"courtside/internal/domain/template"
)

// Values holds the filled-in report content: section name -> field name -> value.
// All values are strings as entered; typed interpretation happens in validation.
type Values map[string]map[string]string

// Get returns the current value for a field, or "" when unset.
func (v Values) Get(section, field string) string {
	if fields, ok := v[section]; ok {
		return fields[field]
	}
	return ""
}

// Clone returns a deep copy of the values.
func (v Values) Clone() Values {
	out := make(Values, len(v))
	for section, fields := range v {
		cp := make(map[string]string, len(fields))
		for name, val := range fields {
			cp[name] = val
		}
		out[section] = cp
	}
	return out
}

// Touched mirrors Values with flags marking fields the user has interacted
// with. Inline errors are suppressed for untouched fields so a fresh form
// does not open covered in "required" messages.
type Touched map[string]map[string]bool

// State is the in-memory state of one report form: the declared template,
// the current values, touch flags, and the error list from the last
// validation pass. It performs no I/O.
type State struct {
	Template *template.Template
	Values   Values
	Touched  Touched
	Errors   []string

	// RequireRecommendation marks the post-assessment variant of the form
	// that must carry a next-group recommendation.
	RequireRecommendation bool
	RecommendedGroupID    string

	submitting bool
}

// NewState builds form state for a template. Every declared field gets an
// entry in Values (empty string when initial carries nothing), so validation
// never runs against an absent field. With initial values supplied (edit
// mode) all fields start touched and show their validation state immediately.
// PRE: tpl has been normalized
// POST: Values covers every section/field of tpl; Touched mirrors Values
func NewState(tpl *template.Template, initial Values) *State {
	editing := initial != nil
	values := make(Values, len(tpl.Sections))
	touched := make(Touched, len(tpl.Sections))
	for _, section := range tpl.Sections {
		vals := make(map[string]string, len(section.Fields))
		flags := make(map[string]bool, len(section.Fields))
		for _, field := range section.Fields {
			vals[field.Name] = initial.Get(section.Name, field.Name)
			flags[field.Name] = editing
		}
		values[section.Name] = vals
		touched[section.Name] = flags
	}
	return &State{
		Template: tpl,
		Values:   values,
		Touched:  touched,
	}
}

// SetValue records a user edit: updates the value, marks the field touched,
// and drops any displayed error that references the field's name. Edits to
// fields the template does not declare are ignored.
// POST: calling twice with the same arguments leaves identical state
func (s *State) SetValue(section, field, value string) {
	fields, ok := s.Values[section]
	if !ok {
		return
	}
	if _, ok := fields[field]; !ok {
		return
	}
	fields[field] = value
	s.Touched[section][field] = true

	if len(s.Errors) == 0 {
		return
	}
	kept := s.Errors[:0]
	for _, msg := range s.Errors {
		if !strings.Contains(msg, field) {
			kept = append(kept, msg)
		}
	}
	s.Errors = kept
}

// SetRecommendation records the selected next-group recommendation and
// clears the missing-recommendation error if one is displayed.
func (s *State) SetRecommendation(groupID string) {
	s.RecommendedGroupID = groupID
	if groupID == "" || len(s.Errors) == 0 {
		return
	}
	kept := s.Errors[:0]
	for _, msg := range s.Errors {
		if msg != ErrMsgRecommendationMissing {
			kept = append(kept, msg)
		}
	}
	s.Errors = kept
}

// IsTouched reports whether the user has interacted with a field.
func (s *State) IsTouched(section, field string) bool {
	if flags, ok := s.Touched[section]; ok {
		return flags[field]
	}
	return false
}

// TouchAll marks every field touched. Used after a failed submit so every
// inline error becomes visible.
func (s *State) TouchAll() {
	for _, flags := range s.Touched {
		for name := range flags {
			flags[name] = true
		}
	}
}
