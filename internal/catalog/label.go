package catalog

import (
	"regexp"
	"strings"
)

var (
	keyPrefix = regexp.MustCompile(`(?i)^location_ *`)
	wordStart = regexp.MustCompile(`\b\w`)
)

// Label derives the display text for a raw backend key: the location_ prefix
// is dropped, whitespace runs collapse to one space and each word starts
// upper case. The raw key itself is never modified.
func Label(raw string) string {
	stripped := keyPrefix.ReplaceAllString(raw, "")
	normalized := strings.Join(strings.Fields(stripped), " ")
	return wordStart.ReplaceAllStringFunc(normalized, strings.ToUpper)
}
