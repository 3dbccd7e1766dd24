package parser

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/xuri/excelize/v2"
)

func TestParseCSV_Basic(t *testing.T) {
	data := "Title,Price,Description\nBlue Mug,12.99,A nice mug\nRed Mug,9.50,\n"

	headers, rows, err := ParseCSV(strings.NewReader(data))
	if err != nil {
		t.Fatalf("ParseCSV failed: %v", err)
	}

	if len(headers) != 3 {
		t.Fatalf("Expected 3 headers, got %d", len(headers))
	}
	if headers[0] != "Title" {
		t.Errorf("Expected first header Title, got %q", headers[0])
	}
	if len(rows) != 2 {
		t.Fatalf("Expected 2 rows, got %d", len(rows))
	}
	if rows[0]["title"] != "Blue Mug" {
		t.Errorf("Expected lowercased key access, got %q", rows[0]["title"])
	}
	if rows[1]["description"] != "" {
		t.Errorf("Expected empty description, got %q", rows[1]["description"])
	}
}

func TestParseCSV_BOMAndRaggedRows(t *testing.T) {
	data := "\uFEFFTitle,Price\nMug,5.00,extra\nShort\n"

	headers, rows, err := ParseCSV(strings.NewReader(data))
	if err != nil {
		t.Fatalf("ParseCSV failed: %v", err)
	}
	if headers[0] != "Title" {
		t.Errorf("BOM not stripped: %q", headers[0])
	}
	if len(rows) != 2 {
		t.Fatalf("Expected 2 rows, got %d", len(rows))
	}
	if rows[1]["title"] != "Short" || rows[1]["price"] != "" {
		t.Errorf("Short row not padded: %v", rows[1])
	}
}

func TestParseCSV_SkipsEmptyRows(t *testing.T) {
	data := "Title,Price\nMug,5.00\n,\n"

	_, rows, err := ParseCSV(strings.NewReader(data))
	if err != nil {
		t.Fatalf("ParseCSV failed: %v", err)
	}
	if len(rows) != 1 {
		t.Errorf("Expected empty row to be skipped, got %d rows", len(rows))
	}
}

func TestParseCSV_EmptyFile(t *testing.T) {
	if _, _, err := ParseCSV(strings.NewReader("")); err == nil {
		t.Error("Expected error for empty file")
	}
}

func TestParseExcel_Basic(t *testing.T) {
	f := excelize.NewFile()
	sheet := f.GetSheetName(0)
	if err := f.SetSheetRow(sheet, "A1", &[]string{"Title", "Price"}); err != nil {
		t.Fatalf("SetSheetRow failed: %v", err)
	}
	if err := f.SetSheetRow(sheet, "A2", &[]string{"Blue Mug", "12.99"}); err != nil {
		t.Fatalf("SetSheetRow failed: %v", err)
	}

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		t.Fatalf("Write workbook failed: %v", err)
	}

	headers, rows, err := ParseExcel(&buf)
	if err != nil {
		t.Fatalf("ParseExcel failed: %v", err)
	}
	if len(headers) != 2 || headers[0] != "Title" {
		t.Errorf("Unexpected headers: %v", headers)
	}
	if len(rows) != 1 || rows[0]["title"] != "Blue Mug" {
		t.Errorf("Unexpected rows: %v", rows)
	}
}

func TestParseFile_Dispatch(t *testing.T) {
	_, rows, err := ParseFile("products.csv", strings.NewReader("Title,Price\nMug,1.00\n"))
	if err != nil {
		t.Fatalf("ParseFile csv failed: %v", err)
	}
	if len(rows) != 1 {
		t.Errorf("Expected 1 row, got %d", len(rows))
	}

	_, _, err = ParseFile("products.txt", strings.NewReader(""))
	if !errors.Is(err, ErrUnsupportedExtension) {
		t.Errorf("Expected ErrUnsupportedExtension, got %v", err)
	}
}
