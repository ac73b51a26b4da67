package reportgen

import (
	"archive/zip"
	"bytes"
	"strings"
	"testing"

	"courtside/internal/domain/form"
	"courtside/internal/domain/report"
	"courtside/internal/domain/template"
)

func sampleDocument(studentName string) Document {
	return Document{
		Report: report.Report{
			ID:         "r1",
			PlayerID:   "p1",
			TemplateID: "t1",
			CoachID:    "c1",
			Content: form.Values{
				"Skills":   {"Forehand": "4", "Serve": "Consistent toss, good contact"},
				"Attitude": {"Focus": "Yes"},
			},
		},
		Template: template.Template{
			ID:   "t1",
			Name: "Junior Assessment",
			Sections: []template.Section{
				{Name: "Skills", Fields: []template.Field{
					{Name: "Forehand", Kind: template.KindRating, Options: template.DefaultRatingOptions()},
					{Name: "Serve", Kind: template.KindTextarea},
				}},
				{Name: "Attitude", Fields: []template.Field{
					{Name: "Focus", Kind: template.KindProgress},
				}},
			},
		},
		StudentName: studentName,
		GroupName:   "Red 1",
		PeriodName:  "Spring 2026",
		CoachName:   "Sam Reed",
		Recommended: "Orange 1",
	}
}

// TestPDF tests that a report renders to a well-formed PDF.
func TestPDF(t *testing.T) {
	out, err := PDF(sampleDocument("Ella Ford"))
	if err != nil {
		t.Fatalf("PDF() error = %v", err)
	}
	if !bytes.HasPrefix(out, []byte("%PDF")) {
		t.Errorf("output does not start with a PDF header: %q", out[:min(8, len(out))])
	}
	if len(out) < 1000 {
		t.Errorf("PDF suspiciously small: %d bytes", len(out))
	}
}

// TestDocument_Filename tests the attachment naming scheme.
func TestDocument_Filename(t *testing.T) {
	doc := sampleDocument("Ella Ford")
	if got := doc.Filename(); got != "Ella Ford - Spring 2026.pdf" {
		t.Errorf("Filename() = %q", got)
	}
}

// TestDisplayValue tests print rendering of stored values.
func TestDisplayValue(t *testing.T) {
	rating := template.Field{Name: "Forehand", Kind: template.KindRating, Options: template.DefaultRatingOptions()}
	if got := displayValue(rating, "4"); got != "4 (Good)" {
		t.Errorf("displayValue(rating, 4) = %q", got)
	}
	if got := displayValue(rating, ""); got != "-" {
		t.Errorf("displayValue(rating, empty) = %q", got)
	}
	text := template.Field{Name: "Serve", Kind: template.KindText}
	if got := displayValue(text, "Improving"); got != "Improving" {
		t.Errorf("displayValue(text) = %q", got)
	}
}

// TestArchive tests that the zip contains one uniquely-named PDF per document.
func TestArchive(t *testing.T) {
	docs := []Document{
		sampleDocument("Ella Ford"),
		sampleDocument("Noah Price"),
		sampleDocument("Ella Ford"), // duplicate name gets a suffix
	}

	out, err := Archive(docs)
	if err != nil {
		t.Fatalf("Archive() error = %v", err)
	}

	r, err := zip.NewReader(bytes.NewReader(out), int64(len(out)))
	if err != nil {
		t.Fatalf("failed to open archive: %v", err)
	}
	if len(r.File) != 3 {
		t.Fatalf("archive has %d entries, want 3", len(r.File))
	}

	names := make(map[string]bool)
	for _, f := range r.File {
		if names[f.Name] {
			t.Errorf("duplicate entry name %q", f.Name)
		}
		names[f.Name] = true
		if !strings.HasSuffix(f.Name, ".pdf") {
			t.Errorf("entry %q is not a pdf", f.Name)
		}
	}
	if !names["Ella Ford - Spring 2026.pdf"] || !names["Ella Ford - Spring 2026 (2).pdf"] {
		t.Errorf("expected suffixed duplicate, got %v", names)
	}
}
