// Package htmlsanitize provides HTML sanitization for operator-authored rich
// text content. It uses bluemonday to strip potentially dangerous HTML while
// preserving the formatting the rich content editor emits.
package htmlsanitize

import (
	"html/template"
	"strings"
	"sync"

	"github.com/microcosm-cc/bluemonday"
)

var (
	// policy is the shared bluemonday policy for sanitizing rich text.
	policy     *bluemonday.Policy
	policyOnce sync.Once
)

// getPolicy returns the shared sanitization policy, creating it on first use.
func getPolicy() *bluemonday.Policy {
	policyOnce.Do(func() {
		// UGC policy covers the editor's core marks: bold, italic, headings,
		// lists, links, images.
		policy = bluemonday.UGCPolicy()

		// The editor also emits underline/strikethrough and inline data URIs
		// for images inserted before upload completes.
		policy.AllowElements("u", "s", "sub", "sup", "mark", "figure", "figcaption")
		policy.AllowAttrs("class").OnElements("p", "figure", "img", "blockquote")
		policy.AllowDataURIImages()
	})
	return policy
}

// Sanitize cleans HTML input, removing potentially dangerous elements and
// attributes while preserving safe formatting.
func Sanitize(html string) string {
	if html == "" {
		return ""
	}
	return getPolicy().Sanitize(html)
}

// SanitizeToHTML sanitizes HTML input and returns it as template.HTML,
// safe to render directly in Go templates without escaping.
func SanitizeToHTML(html string) template.HTML {
	return template.HTML(Sanitize(html))
}

// IsEmpty reports whether serialized editor content is effectively empty.
// The editor reports an empty document as "" or as a single empty paragraph;
// both must fail "content required" validation.
func IsEmpty(content string) bool {
	s := strings.TrimSpace(content)
	if s == "" {
		return true
	}
	s = strings.ReplaceAll(s, "<p>", "")
	s = strings.ReplaceAll(s, "</p>", "")
	s = strings.ReplaceAll(s, "<br>", "")
	s = strings.ReplaceAll(s, "<br/>", "")
	s = strings.ReplaceAll(s, "&nbsp;", "")
	return strings.TrimSpace(s) == ""
}
