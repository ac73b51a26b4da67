package reportgen

import (
	"archive/zip"
	"bytes"
	"fmt"
)

// Archive renders every document to PDF and bundles them into a single zip.
// Duplicate filenames get a numeric suffix so no entry overwrites another.
// PRE: docs is non-empty
// POST: Returns the zip bytes containing one PDF per document
func Archive(docs []Document) ([]byte, error) {
	var buf bytes.Buffer
	w := zip.NewWriter(&buf)

	seen := make(map[string]int)
	for _, doc := range docs {
		pdfBytes, err := PDF(doc)
		if err != nil {
			return nil, fmt.Errorf("report for %s: %w", doc.StudentName, err)
		}

		name := doc.Filename()
		seen[name]++
		if n := seen[name]; n > 1 {
			name = fmt.Sprintf("%s (%d).pdf", name[:len(name)-len(".pdf")], n)
		}

		entry, err := w.Create(name)
		if err != nil {
			return nil, err
		}
		if _, err := entry.Write(pdfBytes); err != nil {
			return nil, err
		}
	}

	if err := w.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
