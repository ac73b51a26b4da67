// Package formview flattens report form state into renderable rows for the
// HTML templates, and parses submitted form encodings back into values.
package formview

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"courtside/internal/domain/form"
	"courtside/internal/domain/template"
)

// fieldPrefix namespaces report field inputs so they cannot collide with the
// form's own controls (recommended group, CSRF token, action).
const fieldPrefix = "f|"

// Choice is one selectable option of a select, rating or progress field.
type Choice struct {
	Value string
	Label string
}

// Field is one input row of the rendered form.
type Field struct {
	InputName   string // encoded name attribute for the HTML input
	Name        string
	Description string
	Kind        template.Kind
	Required    bool
	Value       string
	Choices     []Choice // select, rating and progress kinds
	Min, Max    string   // number bounds for browser hinting, empty when unset
	Error       string   // inline message, empty for untouched or valid fields
}

// Section groups fields under the template section heading.
type Section struct {
	Name   string
	Fields []Field
}

// Build lays out form state in template order. Inline errors appear only on
// touched fields, matching the state's own display rules.
// PRE: state was produced by form.NewState
// POST: one Section per template section, fields in declaration order
func Build(state *form.State) []Section {
	sections := make([]Section, 0, len(state.Template.Sections))
	for _, sec := range state.Template.Sections {
		fields := make([]Field, 0, len(sec.Fields))
		for _, f := range sec.Fields {
			min, max := numberBounds(f)
			fields = append(fields, Field{
				InputName:   InputName(sec.Name, f.Name),
				Name:        f.Name,
				Description: f.Description,
				Kind:        f.Kind,
				Required:    f.Required,
				Value:       state.Values.Get(sec.Name, f.Name),
				Choices:     choicesFor(f),
				Min:         min,
				Max:         max,
				Error:       state.FieldError(sec.Name, f.Name),
			})
		}
		sections = append(sections, Section{Name: sec.Name, Fields: fields})
	}
	return sections
}

func choicesFor(f template.Field) []Choice {
	switch f.Kind {
	case template.KindSelect:
		opts, ok := f.Options.(template.SelectOptions)
		if !ok {
			return nil
		}
		choices := make([]Choice, 0, len(opts.Choices))
		for _, c := range opts.Choices {
			choices = append(choices, Choice{Value: c, Label: c})
		}
		return choices
	case template.KindRating:
		min, max := 1, 5
		if opts, ok := f.Options.(template.RatingOptions); ok && opts.Max > 0 {
			min, max = opts.Min, opts.Max
		}
		choices := make([]Choice, 0, max-min+1)
		for v := min; v <= max; v++ {
			label := fmt.Sprintf("%d", v)
			if name := template.RatingLabel(v); name != "" {
				label = fmt.Sprintf("%d - %s", v, name)
			}
			choices = append(choices, Choice{Value: fmt.Sprintf("%d", v), Label: label})
		}
		return choices
	case template.KindProgress:
		var choices []Choice
		for _, c := range template.ProgressChoices() {
			choices = append(choices, Choice{Value: c, Label: c})
		}
		return choices
	}
	return nil
}

// numberBounds formats a number field's min/max for the input's own
// attributes, so the browser hints at the range before submission.
func numberBounds(f template.Field) (string, string) {
	opts, ok := f.Options.(template.NumberOptions)
	if f.Kind != template.KindNumber || !ok {
		return "", ""
	}
	var min, max string
	if opts.Min != nil {
		min = strconv.FormatFloat(*opts.Min, 'f', -1, 64)
	}
	if opts.Max != nil {
		max = strconv.FormatFloat(*opts.Max, 'f', -1, 64)
	}
	return min, max
}

// InputName encodes a section/field pair as an HTML input name.
func InputName(section, field string) string {
	return fieldPrefix + section + "|" + field
}

// ParseValues extracts report field values from a submitted form. Inputs
// outside the field namespace are ignored, as are malformed names. Values for
// fields the template does not declare are dropped later by the form state.
func ParseValues(posted url.Values) form.Values {
	values := form.Values{}
	for key, vals := range posted {
		if !strings.HasPrefix(key, fieldPrefix) {
			continue
		}
		parts := strings.SplitN(key[len(fieldPrefix):], "|", 2)
		if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
			continue
		}
		section, field := parts[0], parts[1]
		if values[section] == nil {
			values[section] = make(map[string]string)
		}
		if len(vals) > 0 {
			values[section][field] = vals[0]
		}
	}
	return values
}
