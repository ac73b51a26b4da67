package reportgen

import (
	"bytes"
	"fmt"
	"strconv"

	"codeberg.org/go-pdf/fpdf"

	"courtside/internal/domain/report"
	"courtside/internal/domain/template"
)

// Document carries everything needed to render one report as a PDF.
type Document struct {
	Report      report.Report
	Template    template.Template
	StudentName string
	GroupName   string
	PeriodName  string
	CoachName   string
	Recommended string // display name of the recommended group, empty when none
}

// Filename returns the attachment name for the rendered PDF.
func (d Document) Filename() string {
	return fmt.Sprintf("%s - %s.pdf", d.StudentName, d.PeriodName)
}

// PDF renders a report as an A4 PDF: a header block, one heading per
// template section, and a label/value line per field in declaration order.
// PRE: doc.Template has been normalized
// POST: Returns the PDF bytes
func PDF(doc Document) ([]byte, error) {
	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetAutoPageBreak(true, 20)
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 18)
	pdf.CellFormat(0, 10, "Player Progress Report", "", 1, "C", false, 0, "")
	pdf.Ln(2)

	pdf.SetFont("Helvetica", "", 11)
	header := [][2]string{
		{"Player", doc.StudentName},
		{"Group", doc.GroupName},
		{"Term", doc.PeriodName},
		{"Coach", doc.CoachName},
	}
	for _, row := range header {
		pdf.SetFont("Helvetica", "B", 11)
		pdf.CellFormat(30, 7, row[0], "", 0, "L", false, 0, "")
		pdf.SetFont("Helvetica", "", 11)
		pdf.CellFormat(0, 7, row[1], "", 1, "L", false, 0, "")
	}
	pdf.Ln(4)

	for _, section := range doc.Template.Sections {
		pdf.SetFont("Helvetica", "B", 14)
		pdf.SetFillColor(235, 240, 235)
		pdf.CellFormat(0, 9, section.Name, "", 1, "L", true, 0, "")
		pdf.Ln(1)

		for _, field := range section.Fields {
			value := doc.Report.Content.Get(section.Name, field.Name)
			pdf.SetFont("Helvetica", "B", 11)
			pdf.CellFormat(0, 6, field.Name, "", 1, "L", false, 0, "")
			pdf.SetFont("Helvetica", "", 11)
			pdf.MultiCell(0, 6, displayValue(field, value), "", "L", false)
			pdf.Ln(1)
		}
		pdf.Ln(2)
	}

	if doc.Recommended != "" {
		pdf.SetFont("Helvetica", "B", 12)
		pdf.CellFormat(0, 8, "Recommended group for next term: "+doc.Recommended, "", 1, "L", false, 0, "")
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("failed to render report pdf: %w", err)
	}
	return buf.Bytes(), nil
}

// displayValue renders a stored value for print: ratings show their scale
// label, everything else prints verbatim.
func displayValue(field template.Field, value string) string {
	if value == "" {
		return "-"
	}
	if field.Kind == template.KindRating {
		if n, err := strconv.Atoi(value); err == nil {
			if label := template.RatingLabel(n); label != "" {
				return fmt.Sprintf("%s (%s)", value, label)
			}
		}
	}
	return value
}
