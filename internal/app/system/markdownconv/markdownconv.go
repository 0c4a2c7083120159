// Package markdownconv converts markdown to sanitized HTML.
//
// Document extraction returns article bodies as markdown. The rich content
// editor stores HTML, so imported markdown is converted here before it is
// loaded into the editor or persisted.
package markdownconv

import (
	"bytes"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/renderer/html"

	"github.com/JamesMorphed/immersive-agency-sub000/internal/app/system/htmlsanitize"
)

var md = goldmark.New(
	goldmark.WithExtensions(extension.GFM),
	goldmark.WithRendererOptions(html.WithHardWraps()),
)

// ToHTML converts markdown to HTML and sanitizes the result.
// Returns an empty string for empty input.
func ToHTML(markdown string) (string, error) {
	if strings.TrimSpace(markdown) == "" {
		return "", nil
	}

	var buf bytes.Buffer
	if err := md.Convert([]byte(markdown), &buf); err != nil {
		return "", err
	}

	return htmlsanitize.Sanitize(buf.String()), nil
}

// LooksLikeMarkdown reports whether content appears to be markdown rather
// than HTML. Extraction services are inconsistent about which one they
// return, so imported content is converted only when needed.
func LooksLikeMarkdown(content string) bool {
	s := strings.TrimSpace(content)
	if s == "" {
		return false
	}
	if strings.HasPrefix(s, "<") {
		return false
	}
	for _, marker := range []string{"\n#", "\n-", "\n*", "**", "](", "\n>"} {
		if strings.Contains(s, marker) {
			return true
		}
	}
	return strings.HasPrefix(s, "#") || strings.HasPrefix(s, "-") || strings.HasPrefix(s, ">")
}
