package output

import (
	"fmt"

	"github.com/xuri/excelize/v2"

	"github.com/dgallion1/docrank/internal/analysis"
)

const (
	sectionsSheet    = "Sections"
	subsectionsSheet = "Subsections"
)

// XLSX renders res as a workbook with a Sections sheet (rank, document,
// page, title, score) and a Subsections sheet.
func XLSX(res *analysis.Result) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", sectionsSheet); err != nil {
		return nil, fmt.Errorf("rename sheet: %w", err)
	}
	if _, err := f.NewSheet(subsectionsSheet); err != nil {
		return nil, fmt.Errorf("add sheet: %w", err)
	}

	writeRow(f, sectionsSheet, 1, "Rank", "Document", "Page", "Section Title", "Score")
	for i, s := range res.Ranked {
		writeRow(f, sectionsSheet, i+2, s.Rank, s.Document, s.Page, s.Title, s.Score)
	}

	writeRow(f, subsectionsSheet, 1, "Document", "Page", "Refined Text")
	for i, s := range res.SubsectionAnalysis {
		writeRow(f, subsectionsSheet, i+2, s.Document, s.PageNumber, s.RefinedText)
	}

	_ = f.SetColWidth(sectionsSheet, "B", "B", 40)
	_ = f.SetColWidth(sectionsSheet, "D", "D", 48)
	_ = f.SetColWidth(subsectionsSheet, "A", "A", 40)
	_ = f.SetColWidth(subsectionsSheet, "C", "C", 100)

	idx, _ := f.GetSheetIndex(sectionsSheet)
	f.SetActiveSheet(idx)

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("xlsx write: %w", err)
	}
	return buf.Bytes(), nil
}

// WriteXLSX writes the workbook for res into dir and returns the file path.
func WriteXLSX(dir string, res *analysis.Result) (string, error) {
	b, err := XLSX(res)
	if err != nil {
		return "", err
	}
	return writeFile(dir, BaseName(res)+".xlsx", b)
}

func writeRow(f *excelize.File, sheet string, row int, values ...any) {
	for col, v := range values {
		cell, _ := excelize.CoordinatesToCellName(col+1, row)
		_ = f.SetCellValue(sheet, cell, v)
	}
}
