// Package slug generates and validates URL-safe content slugs.
//
// A slug is the public identity of a content record, distinct from its
// database id. Generated slugs are a convenience default; operators may
// override them as long as the override still matches Pattern.
package slug

import (
	"regexp"
	"strings"
)

// Pattern is the canonical slug shape: lowercase alphanumeric runs joined
// by single hyphens, no leading or trailing hyphen.
var Pattern = regexp.MustCompile(`^[a-z0-9]+(-[a-z0-9]+)*$`)

var (
	reStrip    = regexp.MustCompile(`[^\w\s-]`)
	reSpace    = regexp.MustCompile(`\s+`)
	reHyphens  = regexp.MustCompile(`-+`)
	reNonASCII = regexp.MustCompile(`[^a-z0-9\s-]`)
)

// Generate derives a slug from a title: lowercase, strip characters that are
// not word/space/hyphen, collapse whitespace to single hyphens, collapse
// repeated hyphens, and trim hyphens from both ends.
func Generate(title string) string {
	s := strings.ToLower(strings.TrimSpace(title))
	s = reStrip.ReplaceAllString(s, "")
	// \w matches underscores and unicode letters; the slug alphabet is
	// strictly ASCII, so drop anything else before hyphenation.
	s = strings.ReplaceAll(s, "_", "")
	s = reNonASCII.ReplaceAllString(s, "")
	s = reSpace.ReplaceAllString(s, "-")
	s = reHyphens.ReplaceAllString(s, "-")
	return strings.Trim(s, "-")
}

// IsValid reports whether s is a well-formed slug.
func IsValid(s string) bool {
	return Pattern.MatchString(s)
}
