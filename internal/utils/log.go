package utils

import (
	"strings"
	"unicode/utf8"
)

// TruncateForLog shortens s to limit runes and appends an ellipsis when it
// was cut. A non-positive limit drops the value entirely.
func TruncateForLog(s string, limit int) string {
	s = strings.TrimSpace(s)
	if limit <= 0 {
		return ""
	}
	if utf8.RuneCountInString(s) <= limit {
		return s
	}
	runes := []rune(s)
	return string(runes[:limit]) + "..."
}

// MaskSecret keeps the last four characters of a token for log correlation.
func MaskSecret(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return ""
	}
	if utf8.RuneCountInString(s) <= 8 {
		return "****"
	}
	runes := []rune(s)
	return "****" + string(runes[len(runes)-4:])
}

// SplitList splits a comma separated value, trimming items and dropping
// empty ones.
func SplitList(s string) []string {
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
