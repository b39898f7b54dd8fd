package markdown

import (
	"strings"
	"testing"
)

func TestRenderDefaultsToGFM(t *testing.T) {
	html, err := Render([]byte("# Title\n\n~~gone~~ and https://azureviking.com\n"), Options{})
	if err != nil {
		t.Fatalf("Render returned error: %v", err)
	}
	out := string(html)
	if !strings.Contains(out, `<h1 id="title">Title</h1>`) {
		t.Fatalf("expected heading with id, got %s", out)
	}
	if !strings.Contains(out, "<del>gone</del>") {
		t.Fatalf("expected strikethrough, got %s", out)
	}
	if !strings.Contains(out, `<a href="https://azureviking.com">`) {
		t.Fatalf("expected linkified URL, got %s", out)
	}
}

func TestRenderSafeModeDropsRawHTML(t *testing.T) {
	source := []byte("<div class=\"note\">raw</div>\n\ntext\n")

	unsafe, err := Render(source, Options{})
	if err != nil {
		t.Fatalf("Render returned error: %v", err)
	}
	if !strings.Contains(string(unsafe), `<div class="note">`) {
		t.Fatalf("expected raw HTML to pass through, got %s", unsafe)
	}

	safe, err := Render(source, Options{SafeMode: true})
	if err != nil {
		t.Fatalf("Render returned error: %v", err)
	}
	if strings.Contains(string(safe), `<div class="note">`) {
		t.Fatalf("expected raw HTML to be omitted, got %s", safe)
	}
}

func TestRenderHardWrapsAndExplicitExtensions(t *testing.T) {
	source := []byte("first line\nsecond line\n\n~~kept~~\n")

	html, err := Render(source, Options{HardWraps: true, Extensions: []string{"table"}})
	if err != nil {
		t.Fatalf("Render returned error: %v", err)
	}
	out := string(html)
	if !strings.Contains(out, "first line<br>") {
		t.Fatalf("expected hard wrap, got %s", out)
	}
	if strings.Contains(out, "<del>") {
		t.Fatalf("expected strikethrough to be off without gfm, got %s", out)
	}
}

func TestCollectExtensionsBlankNamesSelectDefaults(t *testing.T) {
	if got := collectExtensions([]string{""}); len(got) != 3 {
		t.Fatalf("expected the three default extensions, got %d", len(got))
	}
}

func TestCollectExtensionsIgnoresUnknownAndDuplicates(t *testing.T) {
	exts := collectExtensions([]string{"table", "TABLE", "nope"})
	if len(exts) != 1 {
		t.Fatalf("expected a single extension, got %d", len(exts))
	}
}
