package template_test

import (
	"testing"
	"time"

	"courtside/internal/domain/template"
)

func validTemplate() template.Template {
	return template.Template{
		ID:        "t1",
		Name:      "Junior Assessment",
		CreatedBy: "admin-1",
		IsActive:  true,
		CreatedAt: time.Now(),
		Sections: []template.Section{
			{ID: "s1", Name: "Skills", Order: 0, Fields: []template.Field{
				{ID: "f1", Name: "Serve", Kind: template.KindText, Required: true, Order: 0},
			}},
		},
	}
}

// TestTemplate_Validate tests the authoring rules.
func TestTemplate_Validate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*template.Template)
		wantErr bool
	}{
		{"valid template", func(*template.Template) {}, false},
		{"empty name", func(tpl *template.Template) { tpl.Name = "  " }, true},
		{"no creator", func(tpl *template.Template) { tpl.CreatedBy = "" }, true},
		{"no sections", func(tpl *template.Template) { tpl.Sections = nil }, true},
		{"unnamed section", func(tpl *template.Template) { tpl.Sections[0].Name = "" }, true},
		{"section without fields", func(tpl *template.Template) { tpl.Sections[0].Fields = nil }, true},
		{"unnamed field", func(tpl *template.Template) { tpl.Sections[0].Fields[0].Name = " " }, true},
		{"pipe in section name", func(tpl *template.Template) { tpl.Sections[0].Name = "Skills|Extra" }, true},
		{"pipe in field name", func(tpl *template.Template) { tpl.Sections[0].Fields[0].Name = "Serve|Return" }, true},
		{"unknown field kind", func(tpl *template.Template) { tpl.Sections[0].Fields[0].Kind = "checkbox" }, true},
		{"select without choices", func(tpl *template.Template) {
			tpl.Sections[0].Fields[0].Kind = template.KindSelect
			tpl.Sections[0].Fields[0].Options = template.SelectOptions{}
		}, true},
		{"options on wrong kind", func(tpl *template.Template) {
			tpl.Sections[0].Fields[0].Options = template.SelectOptions{Choices: []string{"A"}}
		}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tpl := validTemplate()
			tt.mutate(&tpl)
			err := tpl.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

// TestTemplate_Normalize tests that sections and fields sort by Order.
func TestTemplate_Normalize(t *testing.T) {
	tpl := template.Template{
		Name:      "Assessment",
		CreatedBy: "admin-1",
		Sections: []template.Section{
			{Name: "Attitude", Order: 1, Fields: []template.Field{
				{Name: "Focus", Kind: template.KindRating, Order: 0},
			}},
			{Name: "Skills", Order: 0, Fields: []template.Field{
				{Name: "Volley", Kind: template.KindText, Order: 1},
				{Name: "Serve", Kind: template.KindText, Order: 0},
			}},
		},
	}

	tpl.Normalize()

	if tpl.Sections[0].Name != "Skills" || tpl.Sections[1].Name != "Attitude" {
		t.Errorf("section order = %q, %q", tpl.Sections[0].Name, tpl.Sections[1].Name)
	}
	if tpl.Sections[0].Fields[0].Name != "Serve" || tpl.Sections[0].Fields[1].Name != "Volley" {
		t.Errorf("field order = %q, %q", tpl.Sections[0].Fields[0].Name, tpl.Sections[0].Fields[1].Name)
	}
}

// TestAssignment_Validate tests assignment validation.
func TestAssignment_Validate(t *testing.T) {
	a := template.Assignment{GroupID: "g1", TemplateID: "t1"}
	if err := a.Validate(); err != nil {
		t.Errorf("Validate() error = %v", err)
	}
	a.GroupID = ""
	if err := a.Validate(); err == nil {
		t.Error("Validate() accepted empty group ID")
	}
}
