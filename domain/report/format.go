package report

import (
	"strings"

	"golang.org/x/text/unicode/norm"
)

// DateOnly drops the time part of a spreadsheet timestamp. It cuts at the
// first 'T' when there is one, otherwise at the first space.
func DateOnly(value string) string {
	s := strings.TrimSpace(value)
	if s == "" {
		return ""
	}
	if i := strings.IndexByte(s, 'T'); i >= 0 {
		return s[:i]
	}
	if i := strings.IndexByte(s, ' '); i >= 0 {
		return s[:i]
	}
	return s
}

// LeftOfDoubleDash returns the trimmed text before the first "--".
func LeftOfDoubleDash(value string) string {
	s := strings.TrimSpace(value)
	if i := strings.Index(s, "--"); i >= 0 {
		s = s[:i]
	}
	return strings.TrimSpace(s)
}

var yesTokens = map[string]bool{
	"si":   true,
	"sí":   true,
	"yes":  true,
	"true": true,
	"1":    true,
}

// IsYes reports whether a cell holds an affirmative token.
func IsYes(value string) bool {
	return yesTokens[norm.NFC.String(strings.ToLower(strings.TrimSpace(value)))]
}
