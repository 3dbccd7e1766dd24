package validation

import (
	"fmt"
	"net/url"
	"regexp"
	"strings"
)

// Spreadsheet rows are reported 1-based with the header as row 1, so the
// first data row is row 2.
const headerRowOffset = 2

var requiredColumns = []string{"title", "price"}

var priceRe = regexp.MustCompile(`^\d+(\.\d{1,2})?$`)

type RowError struct {
	Row     int
	Message string
}

func (e RowError) String() string {
	return fmt.Sprintf("Row %d: %s", e.Row, e.Message)
}

// ValidateHeaders checks that every required column is present
// (case-insensitive).
func ValidateHeaders(headers []string) error {
	present := make(map[string]bool, len(headers))
	for _, h := range headers {
		present[strings.ToLower(strings.TrimSpace(h))] = true
	}

	var missing []string
	for _, col := range requiredColumns {
		if !present[col] {
			missing = append(missing, col)
		}
	}
	if len(missing) > 0 {
		return fmt.Errorf("%w: %s", ErrMissingColumns, strings.Join(missing, ", "))
	}
	return nil
}

// ValidateRows checks each data row and returns every problem found. Rows
// are header-keyed maps with lowercased keys.
func ValidateRows(rows []map[string]string) []RowError {
	var errs []RowError

	for i, row := range rows {
		rowNum := i + headerRowOffset

		if strings.TrimSpace(row["title"]) == "" {
			errs = append(errs, RowError{Row: rowNum, Message: "Title is required"})
		}

		price := strings.TrimSpace(row["price"])
		if price == "" {
			errs = append(errs, RowError{Row: rowNum, Message: "Price is required"})
		} else if !priceRe.MatchString(price) {
			errs = append(errs, RowError{Row: rowNum, Message: fmt.Sprintf("Invalid price format: %s", price)})
		}

		for col, val := range row {
			if !strings.Contains(col, "url") || strings.TrimSpace(val) == "" {
				continue
			}
			if !isValidURL(val) {
				errs = append(errs, RowError{Row: rowNum, Message: fmt.Sprintf("Invalid URL in %s: %s", col, val)})
			}
		}
	}

	return errs
}

func isValidURL(raw string) bool {
	u, err := url.Parse(strings.TrimSpace(raw))
	if err != nil {
		return false
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return false
	}
	return u.Host != ""
}
