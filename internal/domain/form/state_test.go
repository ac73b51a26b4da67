package form_test

import (
	"reflect"
	"testing"

	"courtside/internal/domain/form"
	"courtside/internal/domain/template"
)

// TestNewState_SeedsEveryField tests that every declared field gets a value
// entry before any validation can run.
func TestNewState_SeedsEveryField(t *testing.T) {
	tpl := &template.Template{
		Name: "Assessment",
		Sections: []template.Section{
			{Name: "Skills", Fields: []template.Field{
				{Name: "Serve", Kind: template.KindText},
				{Name: "Volley", Kind: template.KindText},
			}},
			{Name: "Attitude", Fields: []template.Field{
				{Name: "Focus", Kind: template.KindRating},
			}},
		},
	}

	state := form.NewState(tpl, nil)
	for _, section := range tpl.Sections {
		for _, field := range section.Fields {
			vals, ok := state.Values[section.Name]
			if !ok {
				t.Fatalf("section %q missing from Values", section.Name)
			}
			if _, ok := vals[field.Name]; !ok {
				t.Errorf("field %q/%q missing from Values", section.Name, field.Name)
			}
			if state.IsTouched(section.Name, field.Name) {
				t.Errorf("field %q/%q touched on fresh form", section.Name, field.Name)
			}
		}
	}
}

// TestNewState_EditMode tests that initial data seeds values and marks
// everything touched so pre-filled data validates immediately.
func TestNewState_EditMode(t *testing.T) {
	tpl := &template.Template{
		Name: "Assessment",
		Sections: []template.Section{
			{Name: "Skills", Fields: []template.Field{
				{Name: "Serve", Kind: template.KindText},
				{Name: "Volley", Kind: template.KindText},
			}},
		},
	}
	initial := form.Values{"Skills": {"Serve": "Consistent", "Stale Field": "dropped"}}

	state := form.NewState(tpl, initial)
	if got := state.Values.Get("Skills", "Serve"); got != "Consistent" {
		t.Errorf("Serve = %q, want %q", got, "Consistent")
	}
	if got := state.Values.Get("Skills", "Volley"); got != "" {
		t.Errorf("Volley = %q, want empty", got)
	}
	// Fields the template no longer declares are not carried over.
	if _, ok := state.Values["Skills"]["Stale Field"]; ok {
		t.Error("undeclared field carried into Values")
	}
	if !state.IsTouched("Skills", "Serve") || !state.IsTouched("Skills", "Volley") {
		t.Error("edit mode should mark all fields touched")
	}
}

// TestState_SetValueIdempotent tests that repeating an edit leaves state unchanged.
func TestState_SetValueIdempotent(t *testing.T) {
	tpl := &template.Template{
		Name: "Assessment",
		Sections: []template.Section{
			{Name: "Skills", Fields: []template.Field{{Name: "Serve", Kind: template.KindText}}},
		},
	}

	a := form.NewState(tpl, nil)
	a.SetValue("Skills", "Serve", "Improving")

	b := form.NewState(tpl, nil)
	b.SetValue("Skills", "Serve", "Improving")
	b.SetValue("Skills", "Serve", "Improving")

	if !reflect.DeepEqual(a.Values, b.Values) {
		t.Errorf("SetValue not idempotent: %v vs %v", a.Values, b.Values)
	}
	if !reflect.DeepEqual(a.Touched, b.Touched) {
		t.Errorf("Touched differs: %v vs %v", a.Touched, b.Touched)
	}
}

// TestState_SetValueClearsMatchingErrors tests that editing a field removes
// its message from the displayed error list without a new validation pass.
func TestState_SetValueClearsMatchingErrors(t *testing.T) {
	tpl := &template.Template{
		Name: "Assessment",
		Sections: []template.Section{
			{Name: "Skills", Fields: []template.Field{
				{Name: "Serve", Kind: template.KindText, Required: true},
				{Name: "Volley", Kind: template.KindText, Required: true},
			}},
		},
	}

	state := form.NewState(tpl, nil)
	state.Validate()
	if len(state.Errors) != 2 {
		t.Fatalf("Errors = %v, want two entries", state.Errors)
	}

	state.SetValue("Skills", "Serve", "Good toss")
	if len(state.Errors) != 1 || state.Errors[0] != "Volley is required" {
		t.Errorf("Errors after edit = %v, want [%q]", state.Errors, "Volley is required")
	}
}

// TestState_SetValueUnknownField tests that edits outside the template are ignored.
func TestState_SetValueUnknownField(t *testing.T) {
	tpl := &template.Template{
		Name: "Assessment",
		Sections: []template.Section{
			{Name: "Skills", Fields: []template.Field{{Name: "Serve", Kind: template.KindText}}},
		},
	}

	state := form.NewState(tpl, nil)
	state.SetValue("Skills", "Smash", "x")
	state.SetValue("Nowhere", "Serve", "x")
	if _, ok := state.Values["Skills"]["Smash"]; ok {
		t.Error("unknown field accepted into Values")
	}
	if _, ok := state.Values["Nowhere"]; ok {
		t.Error("unknown section accepted into Values")
	}
}
