package parser

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"

	"github.com/dgallion1/docrank/internal/corpus"
)

// csvBatchSize is the number of data rows rendered per page.
const csvBatchSize = 20

// CSVParser handles CSV files. Each batch of rows becomes one page that
// starts with the header row.
type CSVParser struct{}

func (p *CSVParser) Parse(r io.Reader, filename string) ([]corpus.Page, error) {
	reader := csv.NewReader(r)
	reader.LazyQuotes = true
	reader.TrimLeadingSpace = true
	reader.FieldsPerRecord = -1

	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("parse csv: %w", err)
	}
	if len(records) == 0 {
		return nil, nil
	}

	// First row is headers.
	headers := records[0]
	dataRows := records[1:]

	var pages []corpus.Page
	for i := 0; i < len(dataRows); i += csvBatchSize {
		end := min(i+csvBatchSize, len(dataRows))

		var text strings.Builder
		text.WriteString("Headers: " + strings.Join(headers, ", ") + "\n")
		for _, row := range dataRows[i:end] {
			cells := make([]string, len(row))
			for j, cell := range row {
				if j < len(headers) {
					cells[j] = headers[j] + ": " + cell
				} else {
					cells[j] = cell
				}
			}
			text.WriteString(strings.Join(cells, ", "))
			text.WriteString("\n")
		}
		pages = append(pages, corpus.Page{Number: len(pages) + 1, Text: text.String()})
	}
	return pages, nil
}
