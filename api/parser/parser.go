// Package parser reads product data files into header-keyed rows. Map keys
// are lowercased, trimmed column names; the original header order is
// returned alongside for export and error reporting.
package parser

import (
	"errors"
	"io"
	"path/filepath"
	"strings"
)

var ErrUnsupportedExtension = errors.New("unsupported file extension")

// ParseFile dispatches on the file extension. Supported: .csv, .xlsx, .xls.
func ParseFile(filename string, r io.Reader) ([]string, []map[string]string, error) {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".csv":
		return ParseCSV(r)
	case ".xlsx", ".xls":
		return ParseExcel(r)
	default:
		return nil, nil, ErrUnsupportedExtension
	}
}

func normalizeHeaders(raw []string) []string {
	headers := make([]string, len(raw))
	for i, h := range raw {
		headers[i] = strings.TrimSpace(h)
	}
	return headers
}

func rowToMap(headers []string, record []string) map[string]string {
	row := make(map[string]string, len(headers))
	empty := true
	for i, h := range headers {
		if h == "" {
			continue
		}
		var val string
		if i < len(record) {
			val = strings.TrimSpace(record[i])
		}
		if val != "" {
			empty = false
		}
		row[strings.ToLower(h)] = val
	}
	if empty {
		return nil
	}
	return row
}
