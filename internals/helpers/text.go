package helper

import (
	"strings"

	"golang.org/x/text/unicode/norm"
)

// CleanText trims and NFC-normalises user text so "é" typed two ways compares equal.
func CleanText(s string) string {
	return norm.NFC.String(strings.TrimSpace(s))
}

// CleanTextPtr returns nil for nil or blank input.
func CleanTextPtr(s *string) *string {
	if s == nil {
		return nil
	}
	v := CleanText(*s)
	if v == "" {
		return nil
	}
	return &v
}
