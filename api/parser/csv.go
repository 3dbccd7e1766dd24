package parser

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"
)

// ParseCSV reads a comma-separated file with a header row. Ragged rows are
// tolerated; short records pad with empty strings.
func ParseCSV(r io.Reader) ([]string, []map[string]string, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	rawHeaders, err := reader.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, nil, fmt.Errorf("empty file")
		}
		return nil, nil, fmt.Errorf("read header: %w", err)
	}

	// Strip a UTF-8 BOM left by spreadsheet exports.
	if len(rawHeaders) > 0 {
		rawHeaders[0] = strings.TrimPrefix(rawHeaders[0], "\uFEFF")
	}

	headers := normalizeHeaders(rawHeaders)

	var rows []map[string]string
	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, nil, fmt.Errorf("read row: %w", err)
		}

		if row := rowToMap(headers, record); row != nil {
			rows = append(rows, row)
		}
	}

	return headers, rows, nil
}
