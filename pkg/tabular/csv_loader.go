package tabular

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"
)

// Row is one parsed CSV record rendered for retrieval: the document text plus
// its provenance (source file and zero-based row number).
type Row struct {
	Content string
	Source  string
	RowNum  int
}

// LoadCSV parses a CSV stream into one Row per record. Each row is rendered
// as "header: value" lines in column order, so a record stays readable after
// it is embedded and retrieved as plain text.
//
// The first record is treated as the header. A stream with only a header (or
// nothing at all) yields zero rows, which is not an error.
func LoadCSV(r io.Reader, source string) ([]Row, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err == io.EOF {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read csv header: %w", err)
	}

	var rows []Row
	for i := 0; ; i++ {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read csv row %d: %w", i, err)
		}

		var sb strings.Builder
		for col, value := range record {
			if col > 0 {
				sb.WriteString("\n")
			}
			name := fmt.Sprintf("column_%d", col)
			if col < len(header) {
				name = header[col]
			}
			sb.WriteString(name)
			sb.WriteString(": ")
			sb.WriteString(value)
		}

		rows = append(rows, Row{
			Content: sb.String(),
			Source:  source,
			RowNum:  i,
		})
	}

	return rows, nil
}
