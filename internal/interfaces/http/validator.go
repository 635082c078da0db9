package http

import (
	"regexp"
	"strings"
	"unicode/utf8"
)

// Input validation limits for the admin content editor
const (
	MaxItemIDLength = 64
	MaxTextLength   = 256
	MaxDataLength   = 10000
)

var itemIDPattern = regexp.MustCompile(`^[a-zA-Z0-9_-]+$`)

// ValidItemID checks an item id: ids double as callback data so they
// must stay short and plain ASCII.
func ValidItemID(s string) bool {
	if s == "" || len(s) > MaxItemIDLength {
		return false
	}
	return itemIDPattern.MatchString(s)
}

// SanitizeString removes null bytes and invalid UTF-8
func SanitizeString(s string) string {
	s = strings.ReplaceAll(s, "\x00", "")

	if !utf8.ValidString(s) {
		v := make([]rune, 0, len(s))
		for _, r := range s {
			if r != utf8.RuneError {
				v = append(v, r)
			}
		}
		s = string(v)
	}
	return s
}

// ValidateLength checks if string is within bounds
func ValidateLength(s string, min, max int) bool {
	l := len(s)
	return l >= min && l <= max
}
