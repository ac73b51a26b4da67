package form

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"courtside/internal/domain/template"
)

// ErrMsgRecommendationMissing is shown when the post-assessment form variant
// is submitted without a selected next group.
const ErrMsgRecommendationMissing = "Please select a recommended group"

// ValidateField checks one field's current value and returns a human-readable
// message, or "" when the value is acceptable. Pure function; rule precedence:
// required-ness first, then kind-specific constraints.
func ValidateField(field template.Field, value string) string {
	trimmed := strings.TrimSpace(value)
	if field.Required && trimmed == "" {
		return fmt.Sprintf("%s is required", field.Name)
	}
	if trimmed == "" {
		return ""
	}

	switch field.Kind {
	case template.KindNumber:
		n, err := strconv.ParseFloat(trimmed, 64)
		// ParseFloat accepts "NaN" and "Inf", which would slip past the
		// bounds below.
		if err != nil || math.IsNaN(n) || math.IsInf(n, 0) {
			return fmt.Sprintf("%s must be a valid number", field.Name)
		}
		if opts, ok := field.Options.(template.NumberOptions); ok {
			if opts.Min != nil && n < *opts.Min {
				return fmt.Sprintf("%s must be at least %s", field.Name, formatBound(*opts.Min))
			}
			if opts.Max != nil && n > *opts.Max {
				return fmt.Sprintf("%s must be no more than %s", field.Name, formatBound(*opts.Max))
			}
		}
	case template.KindRating:
		min, max := ratingBounds(field)
		n, err := strconv.ParseFloat(trimmed, 64)
		if err != nil || n != math.Trunc(n) || n < float64(min) || n > float64(max) {
			return fmt.Sprintf("%s must be between %d and %d", field.Name, min, max)
		}
	case template.KindProgress:
		for _, choice := range template.ProgressChoices() {
			if trimmed == choice {
				return ""
			}
		}
		return fmt.Sprintf("%s must be one of %s", field.Name, strings.Join(template.ProgressChoices(), ", "))
	case template.KindText, template.KindTextarea, template.KindSelect:
		// Required-ness only.
	}
	return ""
}

func ratingBounds(field template.Field) (int, int) {
	if opts, ok := field.Options.(template.RatingOptions); ok && opts.Max > 0 {
		return opts.Min, opts.Max
	}
	def := template.DefaultRatingOptions()
	return def.Min, def.Max
}

func formatBound(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// Validate runs ValidateField over every declared field (no short-circuit)
// and rebuilds the state's error list in declaration order. The
// recommendation rule contributes last. Returns the rebuilt list; submission
// may proceed only when it is empty.
// PRE: NewState has seeded Values for every declared field
// POST: s.Errors holds all current messages
func (s *State) Validate() []string {
	var errs []string
	for _, section := range s.Template.Sections {
		for _, field := range section.Fields {
			if msg := ValidateField(field, s.Values.Get(section.Name, field.Name)); msg != "" {
				errs = append(errs, msg)
			}
		}
	}
	if s.RequireRecommendation && s.RecommendedGroupID == "" {
		errs = append(errs, ErrMsgRecommendationMissing)
	}
	s.Errors = errs
	return errs
}

// FieldError returns the inline message for one field, or "" when the field
// is untouched or valid. Recomputed from the same validator that builds the
// flat error list.
func (s *State) FieldError(section, fieldName string) string {
	if !s.IsTouched(section, fieldName) {
		return ""
	}
	for _, sec := range s.Template.Sections {
		if sec.Name != section {
			continue
		}
		for _, field := range sec.Fields {
			if field.Name == fieldName {
				return ValidateField(field, s.Values.Get(section, fieldName))
			}
		}
	}
	return ""
}
