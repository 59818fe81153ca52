// Package normalize canonicalizes raw form and query input before
// validation and storage.
package normalize

import "strings"

// Text trims surrounding whitespace and normalizes line endings.
func Text(s string) string {
	return strings.TrimSpace(strings.ReplaceAll(s, "\r\n", "\n"))
}

// Name trims surrounding whitespace and collapses inner runs of spaces.
func Name(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// Username trims surrounding whitespace; case is preserved.
func Username(s string) string {
	return strings.TrimSpace(s)
}

// Slug trims and lowercases.
func Slug(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// QueryParam trims a query-string value.
func QueryParam(s string) string {
	return strings.TrimSpace(s)
}
