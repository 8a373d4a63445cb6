package auth

import (
	"strings"
	"unicode"
)

// CleanText trims s, drops control characters other than newline and tab,
// and truncates to max runes when max > 0. Output is stored as-is and
// escaped by whoever renders it.
func CleanText(s string, max int) string {
	s = strings.TrimSpace(removeControlChars(s))
	if max > 0 {
		if r := []rune(s); len(r) > max {
			s = strings.TrimSpace(string(r[:max]))
		}
	}
	return s
}

// removeControlChars removes control characters except newline and tab.
func removeControlChars(s string) string {
	return strings.Map(func(r rune) rune {
		if r == '\n' || r == '\t' {
			return r
		}
		if unicode.IsControl(r) {
			return -1
		}
		return r
	}, s)
}
