package analysis

import (
	"strings"
	"time"
	"unicode/utf8"
)

// Helpers for walking the loosely-typed record maps produced by the reader.
// Numbers arrive as float64 from the JSON decoder; anything else that can
// appear for a count field is tolerated and coerced.

func asMap(v any) (map[string]any, bool) {
	m, ok := v.(map[string]any)
	return m, ok
}

func asSlice(v any) ([]any, bool) {
	s, ok := v.([]any)
	return s, ok
}

func getMap(m map[string]any, key string) (map[string]any, bool) {
	if m == nil {
		return nil, false
	}
	return asMap(m[key])
}

func getSlice(m map[string]any, key string) ([]any, bool) {
	if m == nil {
		return nil, false
	}
	return asSlice(m[key])
}

func getString(m map[string]any, key string) string {
	if m == nil {
		return ""
	}
	s, _ := m[key].(string)
	return s
}

func getInt64(m map[string]any, key string) int64 {
	if m == nil {
		return 0
	}
	return toInt64(m[key])
}

func toInt64(v any) int64 {
	switch n := v.(type) {
	case float64:
		return int64(n)
	case int64:
		return n
	case int:
		return int64(n)
	case int32:
		return int64(n)
	case uint64:
		return int64(n)
	default:
		return 0
	}
}

// countLines counts the lines of a text block: newlines plus one when the
// text does not end in a newline, zero for empty text.
func countLines(text string) int {
	if text == "" {
		return 0
	}
	n := strings.Count(text, "\n")
	if strings.HasSuffix(text, "\n") {
		return n
	}
	return n + 1
}

// runeCount counts Unicode code points, not bytes.
func runeCount(text string) int {
	return utf8.RuneCountInString(text)
}

// parseISOTimestamp converts an ISO 8601 timestamp (with optional fractional
// seconds and Z suffix) to Unix milliseconds. Unparseable input yields 0.
func parseISOTimestamp(s string) int64 {
	if s == "" {
		return 0
	}
	for _, layout := range []string{time.RFC3339Nano, time.RFC3339, "2006-01-02T15:04:05"} {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UnixMilli()
		}
	}
	return 0
}
