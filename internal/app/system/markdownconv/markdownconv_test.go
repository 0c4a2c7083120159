package markdownconv

import (
	"strings"
	"testing"
)

func TestToHTML(t *testing.T) {
	got, err := ToHTML("# Heading\n\nSome **bold** text.")
	if err != nil {
		t.Fatalf("ToHTML() error: %v", err)
	}
	if !strings.Contains(got, "<h1") {
		t.Errorf("ToHTML() missing heading: %q", got)
	}
	if !strings.Contains(got, "<strong>bold</strong>") {
		t.Errorf("ToHTML() missing bold: %q", got)
	}
}

func TestToHTML_SanitizesOutput(t *testing.T) {
	got, err := ToHTML("hello <script>alert(1)</script> world")
	if err != nil {
		t.Fatalf("ToHTML() error: %v", err)
	}
	if strings.Contains(got, "<script>") {
		t.Errorf("ToHTML() kept script tag: %q", got)
	}
}

func TestToHTML_Empty(t *testing.T) {
	got, err := ToHTML("   ")
	if err != nil {
		t.Fatalf("ToHTML() error: %v", err)
	}
	if got != "" {
		t.Errorf("ToHTML(blank) = %q, want empty", got)
	}
}

func TestLooksLikeMarkdown(t *testing.T) {
	markdown := []string{
		"# Title\n\nBody",
		"Intro paragraph\n\n- item one\n- item two",
		"Some **emphasis** here",
		"A [link](https://example.com) in text",
	}
	for _, s := range markdown {
		if !LooksLikeMarkdown(s) {
			t.Errorf("LooksLikeMarkdown(%q) = false, want true", s)
		}
	}

	notMarkdown := []string{
		"",
		"<p>Already HTML</p>",
		"plain sentence with no markers",
	}
	for _, s := range notMarkdown {
		if LooksLikeMarkdown(s) {
			t.Errorf("LooksLikeMarkdown(%q) = true, want false", s)
		}
	}
}
