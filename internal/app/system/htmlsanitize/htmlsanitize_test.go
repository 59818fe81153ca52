package htmlsanitize_test

import (
	"html/template"
	"strings"
	"testing"

	"github.com/dalemusser/yatube/internal/app/system/htmlsanitize"
)

func TestSanitize_Empty(t *testing.T) {
	if result := htmlsanitize.Sanitize(""); result != "" {
		t.Errorf("expected empty string, got %q", result)
	}
}

func TestSanitize_SafeHTML(t *testing.T) {
	input := "<p><strong>Bold</strong> and <em>italic</em></p>"
	if result := htmlsanitize.Sanitize(input); result != input {
		t.Errorf("expected safe HTML preserved, got %q", result)
	}
}

func TestSanitize_RemovesScript(t *testing.T) {
	input := "<p>Hello</p><script>alert('xss')</script>"
	if result := htmlsanitize.Sanitize(input); result != "<p>Hello</p>" {
		t.Errorf("expected script removed, got %q", result)
	}
}

func TestSanitize_RemovesOnclick(t *testing.T) {
	result := htmlsanitize.Sanitize(`<a href="https://example.com" onclick="alert('xss')">x</a>`)
	if strings.Contains(result, "onclick") {
		t.Errorf("expected onclick removed, got %q", result)
	}
}

func TestSanitize_RemovesJavascriptHref(t *testing.T) {
	result := htmlsanitize.Sanitize(`<a href="javascript:alert('xss')">Click</a>`)
	if strings.Contains(result, "javascript:") {
		t.Errorf("expected javascript: href removed, got %q", result)
	}
}

func TestSanitize_AllowsTableClass(t *testing.T) {
	input := `<table class="grid"><tr><td colspan="2">x</td></tr></table>`
	result := htmlsanitize.Sanitize(input)
	if !strings.Contains(result, `class="grid"`) || !strings.Contains(result, `colspan="2"`) {
		t.Errorf("expected table attributes kept, got %q", result)
	}
}

func TestSanitizeToHTML_ReturnsTemplateHTML(t *testing.T) {
	if result := htmlsanitize.SanitizeToHTML("<p>Hello</p>"); result != template.HTML("<p>Hello</p>") {
		t.Errorf("unexpected %v", result)
	}
}

func TestIsPlainText(t *testing.T) {
	tests := []struct {
		in   string
		want bool
	}{
		{"", true},
		{"Hello, World!", true},
		{"5 < 10", true},
		{"5 > 3", true},
		{"<p>Hello</p>", false},
	}
	for _, tt := range tests {
		if got := htmlsanitize.IsPlainText(tt.in); got != tt.want {
			t.Errorf("IsPlainText(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestPlainTextToHTML(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"", ""},
		{"Hello, World!", "<p>Hello, World!</p>"},
		{"Line 1\nLine 2\r\nLine 3", "<p>Line 1<br>Line 2<br>Line 3</p>"},
		{"a & b", "<p>a &amp; b</p>"},
	}
	for _, tt := range tests {
		if got := htmlsanitize.PlainTextToHTML(tt.in); got != tt.want {
			t.Errorf("PlainTextToHTML(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestRender(t *testing.T) {
	if got := htmlsanitize.Render("Leo's group\nsecond line"); got != template.HTML("<p>Leo&#39;s group<br>second line</p>") {
		t.Errorf("plain text: got %q", got)
	}
	if got := htmlsanitize.Render("<p>ok</p><script>x</script>"); got != template.HTML("<p>ok</p>") {
		t.Errorf("markup: got %q", got)
	}
}
