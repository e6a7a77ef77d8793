package parser

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"

	"github.com/dcortezh/propgen/internal/document"
)

// CSVParser handles CSV files. Rows are rendered as "header: value"
// lines and grouped into batches so each section chunks reasonably.
type CSVParser struct{}

const csvBatchSize = 20

func (p *CSVParser) Parse(r io.Reader, filename string) (*document.Doc, error) {
	reader := csv.NewReader(r)
	reader.LazyQuotes = true
	reader.TrimLeadingSpace = true

	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("parse csv: %w", err)
	}

	doc := &document.Doc{
		Title: strings.TrimSuffix(filename, ".csv"),
	}
	if len(records) == 0 {
		return doc, nil
	}

	headers := records[0]
	rows := records[1:]

	for i := 0; i < len(rows); i += csvBatchSize {
		end := min(i+csvBatchSize, len(rows))

		var text strings.Builder
		text.WriteString("Headers: " + strings.Join(headers, ", ") + "\n\n")
		for _, row := range rows[i:end] {
			for j, cell := range row {
				if j < len(headers) {
					text.WriteString(headers[j] + ": " + cell)
				} else {
					text.WriteString(cell)
				}
				if j < len(row)-1 {
					text.WriteString(", ")
				}
			}
			text.WriteString("\n")
		}

		doc.Sections = append(doc.Sections, &document.Section{
			Title: fmt.Sprintf("Rows %d-%d", i+2, end+1), // 1-indexed, skip header
			Text:  text.String(),
		})
	}

	return doc, nil
}
