// Package slug turns free text into URL-safe identifiers.
package slug

import (
	"regexp"
	"strings"
)

var nonAlphanumeric = regexp.MustCompile(`[^a-z0-9]+`)

// Slugify lowercases text and joins every run of letters and digits with a
// single hyphen. Leading and trailing separators are dropped.
func Slugify(text string) string {
	s := nonAlphanumeric.ReplaceAllString(strings.ToLower(text), "-")
	return strings.Trim(s, "-")
}
