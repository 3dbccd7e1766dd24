package parser

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"
)

// ParseExcel reads the first sheet of an xlsx workbook. The first row is the
// header.
func ParseExcel(r io.Reader) ([]string, []map[string]string, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, nil, fmt.Errorf("open workbook: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, nil, fmt.Errorf("workbook has no sheets")
	}

	records, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, nil, fmt.Errorf("read sheet: %w", err)
	}
	if len(records) == 0 {
		return nil, nil, fmt.Errorf("empty sheet")
	}

	headers := normalizeHeaders(records[0])

	var rows []map[string]string
	for _, record := range records[1:] {
		if row := rowToMap(headers, record); row != nil {
			rows = append(rows, row)
		}
	}

	return headers, rows, nil
}
