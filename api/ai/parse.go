package ai

import (
	"errors"
	"strings"
)

var errNoJSON = errors.New("no JSON object in response")

// normalizeJSONText strips markdown code fences models wrap around JSON
// despite instructions.
func normalizeJSONText(s string) string {
	t := strings.TrimSpace(s)
	if strings.HasPrefix(t, "```") {
		t = strings.TrimPrefix(t, "```json")
		t = strings.TrimPrefix(t, "```JSON")
		t = strings.TrimPrefix(t, "```")
		if i := strings.LastIndex(t, "```"); i >= 0 {
			t = t[:i]
		}
		t = strings.TrimSpace(t)
	}
	return t
}

// extractJSONObject returns the first balanced {...} in the text, tracking
// string literals so braces inside values do not break the count.
func extractJSONObject(s string) (string, error) {
	start := strings.Index(s, "{")
	if start < 0 {
		return "", errNoJSON
	}

	depth := 0
	inString := false
	escaped := false
	for i := start; i < len(s); i++ {
		ch := s[i]
		if inString {
			if escaped {
				escaped = false
			} else if ch == '\\' {
				escaped = true
			} else if ch == '"' {
				inString = false
			}
			continue
		}
		switch ch {
		case '"':
			inString = true
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return s[start : i+1], nil
			}
		}
	}
	return "", errNoJSON
}

// decodeJSONPayload runs both normalization steps over raw model output.
func decodeJSONPayload(raw string) (string, error) {
	return extractJSONObject(normalizeJSONText(raw))
}
