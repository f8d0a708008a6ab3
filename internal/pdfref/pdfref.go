// Package pdfref pulls bibliographic identifiers out of PDF files.
package pdfref

import (
	"fmt"
	"strings"

	"github.com/ledongthuc/pdf"

	"github.com/lspress/bibnorm/internal/grammar"
)

// maxPages bounds the text scan; a published article's DOI sits on the
// first page, occasionally the second.
const maxPages = 3

// ExtractDOI scans the first pages of the PDF at path for a DOI. An
// absent DOI is reported as an empty string, not an error.
func ExtractDOI(path string) (string, error) {
	f, r, err := pdf.Open(path)
	if err != nil {
		return "", fmt.Errorf("opening %s: %w", path, err)
	}
	defer f.Close()

	pages := r.NumPage()
	if pages > maxPages {
		pages = maxPages
	}
	for i := 1; i <= pages; i++ {
		page := r.Page(i)
		if page.V.IsNull() {
			continue
		}
		text, err := page.GetPlainText(nil)
		if err != nil {
			// Extraction can fail on exotic encodings; later pages may
			// still work.
			continue
		}
		if doi := FindDOI(text); doi != "" {
			return doi, nil
		}
	}
	return "", nil
}

// FindDOI returns the first plausible DOI in text, with trailing
// punctuation that text extraction tends to glue on removed.
func FindDOI(text string) string {
	for _, m := range grammar.DOI.FindAllString(text, -1) {
		m = strings.TrimRight(m, ".,;:)]")
		if strings.Contains(m, "/") && len(m) >= 10 {
			return m
		}
	}
	return ""
}
