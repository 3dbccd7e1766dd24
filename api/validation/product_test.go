package validation

import (
	"strings"
	"testing"
)

func TestValidateHeaders_AllPresent(t *testing.T) {
	headers := []string{"Title", "Price", "Description", "image_url1"}

	if err := ValidateHeaders(headers); err != nil {
		t.Errorf("Expected no error, got %v", err)
	}
}

func TestValidateHeaders_MissingPrice(t *testing.T) {
	headers := []string{"title", "description"}

	err := ValidateHeaders(headers)
	if err == nil {
		t.Fatal("Expected error for missing price column")
	}
	if !strings.Contains(err.Error(), "price") {
		t.Errorf("Expected error to name the missing column, got %v", err)
	}
}

func TestValidateRows_Valid(t *testing.T) {
	rows := []map[string]string{
		{"title": "Blue Mug", "price": "12.99", "image_url1": "https://cdn.example.com/mug.jpg"},
		{"title": "Red Mug", "price": "9"},
	}

	if errs := ValidateRows(rows); len(errs) != 0 {
		t.Errorf("Expected no errors, got %v", errs)
	}
}

func TestValidateRows_MissingTitle(t *testing.T) {
	rows := []map[string]string{
		{"title": "", "price": "12.99"},
	}

	errs := ValidateRows(rows)
	if len(errs) != 1 {
		t.Fatalf("Expected 1 error, got %d", len(errs))
	}
	if errs[0].Row != 2 {
		t.Errorf("Expected row 2 (first data row), got %d", errs[0].Row)
	}
}

func TestValidateRows_PriceFormat(t *testing.T) {
	cases := []struct {
		price string
		valid bool
	}{
		{"12.99", true},
		{"12", true},
		{"0.5", true},
		{"12.999", false},
		{"$12.99", false},
		{"twelve", false},
		{"-5", false},
	}

	for _, c := range cases {
		rows := []map[string]string{{"title": "Item", "price": c.price}}
		errs := ValidateRows(rows)
		if c.valid && len(errs) != 0 {
			t.Errorf("Price %q: expected valid, got %v", c.price, errs)
		}
		if !c.valid && len(errs) == 0 {
			t.Errorf("Price %q: expected error, got none", c.price)
		}
	}
}

func TestValidateRows_BadURL(t *testing.T) {
	rows := []map[string]string{
		{"title": "Item", "price": "5.00", "image_url1": "not-a-url"},
		{"title": "Item2", "price": "5.00", "image_url1": "ftp://example.com/file.jpg"},
	}

	errs := ValidateRows(rows)
	if len(errs) != 2 {
		t.Fatalf("Expected 2 errors, got %d: %v", len(errs), errs)
	}
	if errs[0].Row != 2 || errs[1].Row != 3 {
		t.Errorf("Expected rows 2 and 3, got %d and %d", errs[0].Row, errs[1].Row)
	}
}

func TestValidateRows_RowNumbering(t *testing.T) {
	rows := []map[string]string{
		{"title": "ok", "price": "1.00"},
		{"title": "ok", "price": "1.00"},
		{"title": "", "price": "1.00"},
	}

	errs := ValidateRows(rows)
	if len(errs) != 1 {
		t.Fatalf("Expected 1 error, got %d", len(errs))
	}
	if errs[0].Row != 4 {
		t.Errorf("Expected third data row to report as row 4, got %d", errs[0].Row)
	}
}
