package template

import (
	"encoding/json"
	"fmt"
)

// Kind enumerates the closed set of field kinds a template may declare.
// Validator and renderer switch exhaustively on this type, so adding a kind
// is a compile-visible change rather than a stray string comparison.
type Kind string

const (
	KindText     Kind = "text"
	KindTextarea Kind = "textarea"
	KindNumber   Kind = "number"
	KindSelect   Kind = "select"
	KindRating   Kind = "rating"
	KindProgress Kind = "progress"
)

// Valid reports whether k is one of the declared kinds.
func (k Kind) Valid() bool {
	switch k {
	case KindText, KindTextarea, KindNumber, KindSelect, KindRating, KindProgress:
		return true
	}
	return false
}

// Label returns the authoring-time display label for a kind.
func (k Kind) Label() string {
	switch k {
	case KindText:
		return "Short Text"
	case KindTextarea:
		return "Long Text"
	case KindNumber:
		return "Number"
	case KindSelect:
		return "Multiple Choice"
	case KindRating:
		return "Rating (1-5)"
	case KindProgress:
		return "Progress Scale (Yes/Nearly/Not Yet)"
	}
	return string(k)
}

// Kinds lists every field kind in authoring display order.
func Kinds() []Kind {
	return []Kind{KindText, KindTextarea, KindNumber, KindSelect, KindRating, KindProgress}
}

// Options carries the kind-specific constraints of a field. The variant is
// keyed by kind so a select field cannot accidentally carry numeric bounds.
type Options interface {
	optionsKind() Kind
}

// NumberOptions bounds a number field. Nil Min/Max means unbounded on that side.
type NumberOptions struct {
	Min *float64
	Max *float64
}

func (NumberOptions) optionsKind() Kind { return KindNumber }

// RatingOptions bounds a rating field. Ratings are ordinal 1..5.
type RatingOptions struct {
	Min int
	Max int
}

func (RatingOptions) optionsKind() Kind { return KindRating }

// DefaultRatingOptions is the 1..5 scale every rating field uses.
func DefaultRatingOptions() RatingOptions { return RatingOptions{Min: 1, Max: 5} }

// SelectOptions enumerates the closed choices of a select field.
type SelectOptions struct {
	Choices []string
}

func (SelectOptions) optionsKind() Kind { return KindSelect }

// RatingLabels are the ordinal display labels for rating values 1..5.
var RatingLabels = [5]string{"Poor", "Below Average", "Average", "Good", "Excellent"}

// RatingLabel returns the display label for a rating value, or "" when the
// value falls outside the 1..5 scale.
func RatingLabel(v int) string {
	if v < 1 || v > len(RatingLabels) {
		return ""
	}
	return RatingLabels[v-1]
}

// ProgressChoices are the only values a progress field accepts.
func ProgressChoices() []string { return []string{"Yes", "Nearly", "Not Yet"} }

// fieldJSON mirrors the wire shape the client and API use for a field.
type fieldJSON struct {
	ID          string          `json:"id,omitempty"`
	Name        string          `json:"name"`
	Description string          `json:"description,omitempty"`
	FieldType   string          `json:"fieldType"`
	IsRequired  bool            `json:"isRequired"`
	Order       int             `json:"order"`
	Options     json.RawMessage `json:"options,omitempty"`
}

type numberOptionsJSON struct {
	Min *float64 `json:"min,omitempty"`
	Max *float64 `json:"max,omitempty"`
}

type ratingOptionsJSON struct {
	Min int `json:"min"`
	Max int `json:"max"`
}

type choiceOptionsJSON struct {
	Options []string `json:"options"`
}

// MarshalJSON serializes the field with its options keyed by kind.
func (f Field) MarshalJSON() ([]byte, error) {
	out := fieldJSON{
		ID:          f.ID,
		Name:        f.Name,
		Description: f.Description,
		FieldType:   string(f.Kind),
		IsRequired:  f.Required,
		Order:       f.Order,
	}
	var opts any
	switch o := f.Options.(type) {
	case NumberOptions:
		opts = numberOptionsJSON{Min: o.Min, Max: o.Max}
	case RatingOptions:
		opts = ratingOptionsJSON{Min: o.Min, Max: o.Max}
	case SelectOptions:
		opts = choiceOptionsJSON{Options: o.Choices}
	case nil:
		if f.Kind == KindProgress {
			opts = choiceOptionsJSON{Options: ProgressChoices()}
		}
	}
	if opts != nil {
		raw, err := json.Marshal(opts)
		if err != nil {
			return nil, err
		}
		out.Options = raw
	}
	return json.Marshal(out)
}

// UnmarshalJSON parses the field and binds its options bag to the variant
// matching the declared kind, discarding constraints that do not apply.
func (f *Field) UnmarshalJSON(data []byte) error {
	var in fieldJSON
	if err := json.Unmarshal(data, &in); err != nil {
		return err
	}
	kind := Kind(in.FieldType)
	if !kind.Valid() {
		return fmt.Errorf("%w: %q", ErrUnknownKind, in.FieldType)
	}
	f.ID = in.ID
	f.Name = in.Name
	f.Description = in.Description
	f.Kind = kind
	f.Required = in.IsRequired
	f.Order = in.Order
	f.Options = nil

	if len(in.Options) == 0 || string(in.Options) == "null" {
		if kind == KindRating {
			f.Options = DefaultRatingOptions()
		}
		return nil
	}
	switch kind {
	case KindNumber:
		var o numberOptionsJSON
		if err := json.Unmarshal(in.Options, &o); err != nil {
			return fmt.Errorf("number options: %w", err)
		}
		f.Options = NumberOptions{Min: o.Min, Max: o.Max}
	case KindRating:
		// The authoring client may send label sets alongside min/max; only
		// the bounds matter here.
		var o ratingOptionsJSON
		if err := json.Unmarshal(in.Options, &o); err != nil {
			return fmt.Errorf("rating options: %w", err)
		}
		if o.Min == 0 && o.Max == 0 {
			f.Options = DefaultRatingOptions()
		} else {
			f.Options = RatingOptions{Min: o.Min, Max: o.Max}
		}
	case KindSelect:
		var o choiceOptionsJSON
		if err := json.Unmarshal(in.Options, &o); err != nil {
			return fmt.Errorf("select options: %w", err)
		}
		f.Options = SelectOptions{Choices: o.Options}
	case KindText, KindTextarea, KindProgress:
		// No stored constraints; progress choices are fixed.
	}
	return nil
}
