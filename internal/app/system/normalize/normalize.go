// Package normalize provides helper functions for consistent string
// normalization across the application. Use these helpers instead of
// scattered strings.ToLower and strings.TrimSpace calls.
package normalize

import "strings"

// Email normalizes an email address by trimming whitespace and lowercasing.
func Email(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// Role normalizes a role value by trimming whitespace and lowercasing.
func Role(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// Category normalizes a blog category value.
func Category(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// Folder normalizes an icon folder value.
func Folder(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// Tag normalizes a single tag. Tags are stored trimmed but case-preserving.
func Tag(s string) string {
	return strings.TrimSpace(s)
}

// Tags splits a comma-separated tag field into a slice of normalized,
// non-empty tags.
func Tags(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if tag := Tag(part); tag != "" {
			out = append(out, tag)
		}
	}
	return out
}

// QueryParam normalizes a query parameter by trimming whitespace.
func QueryParam(s string) string {
	return strings.TrimSpace(s)
}
