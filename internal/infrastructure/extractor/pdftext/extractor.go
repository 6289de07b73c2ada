package pdftext

import (
	"context"
	"fmt"
	"strings"

	"github.com/ledongthuc/pdf"
)

// Extractor pulls plain text from the first and last pages of a PDF.
// Regulatory documents front-load their summary and close with
// signatures and distribution lists, so the two boundary pages carry
// most of the summarizable content.
type Extractor struct{}

func New() *Extractor {
	return &Extractor{}
}

func (e *Extractor) Extract(_ context.Context, path string) (string, int, error) {
	f, reader, err := pdf.Open(path)
	if err != nil {
		return "", 0, fmt.Errorf("open pdf: %w", err)
	}
	defer f.Close()

	total := reader.NumPage()
	if total == 0 {
		return "", 0, fmt.Errorf("pdf contains no pages")
	}

	pages := []int{1}
	if total > 1 {
		pages = append(pages, total)
	}

	var parts []string
	for _, n := range pages {
		page := reader.Page(n)
		if page.V.IsNull() {
			continue
		}
		text, err := page.GetPlainText(nil)
		if err != nil {
			// An unreadable page is skipped, not fatal; the
			// other boundary page may still extract.
			continue
		}
		parts = append(parts, text)
	}

	text := strings.Join(strings.Fields(strings.Join(parts, " ")), " ")
	return text, total, nil
}
