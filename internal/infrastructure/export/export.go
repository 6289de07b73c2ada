package export

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/tamu-aesl/adams/internal/core/domain"
	"github.com/tamu-aesl/adams/internal/core/ports"
)

// JSONExporter writes a result set as an indented JSON array.
type JSONExporter struct{}

func (JSONExporter) Export(results []domain.ScoredResult, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create export file: %w", err)
	}
	defer f.Close()

	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	if err := enc.Encode(results); err != nil {
		return fmt.Errorf("encode results: %w", err)
	}
	return nil
}

// XLSXExporter writes a result set as a single-sheet workbook, one row
// per document.
type XLSXExporter struct{}

var xlsxColumns = []string{
	"Accession Number",
	"Title",
	"Document Date",
	"Added Date",
	"Document Type",
	"Docket Number",
	"Author",
	"Source",
	"Score",
	"Rationale",
}

func (XLSXExporter) Export(results []domain.ScoredResult, path string) error {
	wb := excelize.NewFile()
	defer wb.Close()

	sheet := wb.GetSheetName(0)
	for col, name := range xlsxColumns {
		cell, err := excelize.CoordinatesToCellName(col+1, 1)
		if err != nil {
			return fmt.Errorf("header cell: %w", err)
		}
		if err := wb.SetCellValue(sheet, cell, name); err != nil {
			return fmt.Errorf("write header: %w", err)
		}
	}

	for row, r := range results {
		values := []any{
			r.Document.AccessionNumber,
			r.Document.Title,
			r.Document.DocumentDate,
			r.Document.AddedDate,
			r.Document.DocumentType,
			r.Document.DocketNumber,
			r.Document.AuthorName,
			r.Document.Source,
			r.Score,
			r.Rationale,
		}
		for col, v := range values {
			cell, err := excelize.CoordinatesToCellName(col+1, row+2)
			if err != nil {
				return fmt.Errorf("data cell: %w", err)
			}
			if err := wb.SetCellValue(sheet, cell, v); err != nil {
				return fmt.Errorf("write row %d: %w", row+1, err)
			}
		}
	}

	if err := wb.SaveAs(path); err != nil {
		return fmt.Errorf("save workbook: %w", err)
	}
	return nil
}

// ForPath picks the exporter matching the file extension. JSON is the
// default for unrecognized extensions.
func ForPath(path string) ports.ResultExporter {
	if strings.EqualFold(filepath.Ext(path), ".xlsx") {
		return XLSXExporter{}
	}
	return JSONExporter{}
}
