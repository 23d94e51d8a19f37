package utils

import (
	"regexp"
	"strings"

	"golang.org/x/text/unicode/norm"
)

var slugSanitizer = regexp.MustCompile(`[^a-zA-Z0-9_-]+`)

// Slugify derives a URL-safe slug suggestion from free text. Validation of
// user-supplied slugs lives in the project package; this is only used to
// prefill forms and seed data.
func Slugify(s string) string {
	s = norm.NFKC.String(s)
	s = strings.ToLower(s)
	s = slugSanitizer.ReplaceAllString(s, "-")
	s = strings.Trim(s, "-_")
	return s
}

// NormalizeUsername lowercases and NFKC-normalizes a username so lookups and
// uniqueness checks are insensitive to case and Unicode representation.
func NormalizeUsername(s string) string {
	return strings.ToLower(norm.NFKC.String(strings.TrimSpace(s)))
}
