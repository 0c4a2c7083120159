package htmlsanitize

import (
	"strings"
	"testing"
)

func TestSanitize_RemovesScript(t *testing.T) {
	in := `<p>hello</p><script>alert("x")</script>`
	got := Sanitize(in)
	if strings.Contains(got, "script") {
		t.Errorf("Sanitize() kept script tag: %q", got)
	}
	if !strings.Contains(got, "<p>hello</p>") {
		t.Errorf("Sanitize() dropped safe content: %q", got)
	}
}

func TestSanitize_KeepsFormatting(t *testing.T) {
	in := `<h2>Heading</h2><p><strong>bold</strong> and <em>italic</em> and <u>underline</u></p><ul><li>one</li></ul>`
	got := Sanitize(in)
	for _, tag := range []string{"<h2>", "<strong>", "<em>", "<u>", "<ul>", "<li>"} {
		if !strings.Contains(got, tag) {
			t.Errorf("Sanitize() dropped %s: %q", tag, got)
		}
	}
}

func TestSanitize_StripsEventHandlers(t *testing.T) {
	in := `<a href="https://example.com" onclick="steal()">link</a>`
	got := Sanitize(in)
	if strings.Contains(got, "onclick") {
		t.Errorf("Sanitize() kept onclick: %q", got)
	}
	if !strings.Contains(got, "link") {
		t.Errorf("Sanitize() dropped link text: %q", got)
	}
}

func TestSanitize_Empty(t *testing.T) {
	if got := Sanitize(""); got != "" {
		t.Errorf("Sanitize(\"\") = %q, want empty string", got)
	}
}

func TestIsEmpty(t *testing.T) {
	empty := []string{"", "   ", "<p></p>", "<p><br></p>", "<p>&nbsp;</p>"}
	for _, s := range empty {
		if !IsEmpty(s) {
			t.Errorf("IsEmpty(%q) = false, want true", s)
		}
	}

	nonEmpty := []string{"<p>hi</p>", "text", "<ul><li>x</li></ul>"}
	for _, s := range nonEmpty {
		if IsEmpty(s) {
			t.Errorf("IsEmpty(%q) = true, want false", s)
		}
	}
}
