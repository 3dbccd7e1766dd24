package ai

import (
	"testing"

	"storeforge/api/dto"
)

func draftFixture() *dto.ProductDraft {
	return &dto.ProductDraft{
		Title:       "Blue Mug",
		ProductType: "Drinkware",
		Price:       "12.00",
	}
}

func TestNormalizeJSONText(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{`{"a":1}`, `{"a":1}`},
		{"```json\n{\"a\":1}\n```", `{"a":1}`},
		{"```\n{\"a\":1}\n```", `{"a":1}`},
		{"  {\"a\":1}  ", `{"a":1}`},
	}

	for _, c := range cases {
		if got := normalizeJSONText(c.in); got != c.want {
			t.Errorf("normalizeJSONText(%q) = %q, want %q", c.in, got, c.want)
		}
	}
}

func TestExtractJSONObject(t *testing.T) {
	in := `Here is the product: {"title": "Mug {special}", "nested": {"a": 1}} hope that helps`

	got, err := extractJSONObject(in)
	if err != nil {
		t.Fatalf("extractJSONObject failed: %v", err)
	}
	want := `{"title": "Mug {special}", "nested": {"a": 1}}`
	if got != want {
		t.Errorf("Got %q, want %q", got, want)
	}
}

func TestExtractJSONObject_BracesInStrings(t *testing.T) {
	in := `{"text": "a } b { c", "ok": true}`

	got, err := extractJSONObject(in)
	if err != nil {
		t.Fatalf("extractJSONObject failed: %v", err)
	}
	if got != in {
		t.Errorf("Got %q, want full object", got)
	}
}

func TestExtractJSONObject_NoObject(t *testing.T) {
	if _, err := extractJSONObject("no json here"); err == nil {
		t.Error("Expected error when no object present")
	}
}
