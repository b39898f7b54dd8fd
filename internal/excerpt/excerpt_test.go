package excerpt

import (
	"strings"
	"testing"
	"unicode/utf8"
)

func TestExtractSkipsStructuralParagraphsAndCleansMarkup(t *testing.T) {
	body := strings.Join([]string{
		"# Heading",
		"",
		"![diagram](/img/diagram.png)",
		"",
		"<div class=\"note\">html</div>",
		"",
		"| a | b |",
		"|---|---|",
		"",
		"- list item that is long enough to qualify otherwise",
		"",
		"_Disclaimer in italics that is long enough to qualify_",
		"",
		"Disclaimer: this post is sponsored by nobody at all really.",
		"",
		"This is **bold** text with a [link](https://example.com) and `code`",
		"spanning two lines.",
	}, "\n")

	got := Extract(body, Options{Budget: 200})
	want := "This is bold text with a link and code spanning two lines."
	if got != want {
		t.Fatalf("unexpected excerpt\n got: %q\nwant: %q", got, want)
	}
}

func TestExtractSkipsFencedCodeWithBlankLines(t *testing.T) {
	body := strings.Join([]string{
		"```hcl",
		"resource \"azurerm_resource_group\" \"example\" {",
		"",
		"  name = \"a long enough line inside the code block\"",
		"}",
		"```",
		"",
		"The real introduction paragraph comes after the code block.",
	}, "\n")

	got := Extract(body, Options{})
	if got != "The real introduction paragraph comes after the code block." {
		t.Fatalf("expected prose after fence, got %q", got)
	}
}

func TestExtractRequiresMinimumLength(t *testing.T) {
	body := "Too short.\n\nExactly thirty characters long\n\nThis paragraph is comfortably longer than thirty characters."

	got := Extract(body, Options{})
	if got != "This paragraph is comfortably longer than thirty characters." {
		t.Fatalf("unexpected excerpt %q", got)
	}
}

func TestExtractReturnsEmptyWhenNothingQualifies(t *testing.T) {
	if got := Extract("# Only a heading\n\n![img](x.png)", Options{}); got != "" {
		t.Fatalf("expected empty excerpt, got %q", got)
	}
}

func TestExtractTruncatesLongParagraphAtWordBoundary(t *testing.T) {
	words := make([]string, 0, 50)
	for len(strings.Join(words, " ")) < 250 {
		words = append(words, "lorem")
	}
	paragraph := strings.Join(words, " ")[:250]

	got := Extract(paragraph, Options{Budget: 200})

	if n := utf8.RuneCountInString(got); n > 200 {
		t.Fatalf("expected at most 200 characters, got %d", n)
	}
	if !strings.HasSuffix(got, Ellipsis) {
		t.Fatalf("expected truncation marker, got %q", got)
	}
	kept := strings.TrimSuffix(got, Ellipsis)
	if !strings.HasPrefix(paragraph, kept) {
		t.Fatalf("expected excerpt to be a prefix of the paragraph, got %q", kept)
	}
	if next := paragraph[len(kept)]; next != ' ' {
		t.Fatalf("expected cut at a word boundary, next char %q", next)
	}
}

func TestTruncate(t *testing.T) {
	cases := []struct {
		name   string
		input  string
		budget int
		want   string
	}{
		{name: "fits", input: "short text", budget: 20, want: "short text"},
		{name: "cuts partial word", input: "alpha beta gamma delta", budget: 15, want: "alpha beta..."},
		{name: "keeps word ending on limit", input: "alpha beta gamma", budget: 13, want: "alpha beta..."},
		{name: "single long word", input: "supercalifragilistic", budget: 10, want: "..."},
		{name: "unbroken run", input: strings.Repeat("a", 250), budget: 200, want: "..."},
		{name: "long first word", input: strings.Repeat("b", 30) + " tail", budget: 20, want: "..."},
		{name: "counts runes", input: "åäö åäö åäö åäö", budget: 10, want: "åäö åäö..."},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := Truncate(tc.input, tc.budget)
			if got != tc.want {
				t.Fatalf("Truncate(%q, %d) = %q, want %q", tc.input, tc.budget, got, tc.want)
			}
			if utf8.RuneCountInString(got) > tc.budget {
				t.Fatalf("result %q exceeds budget %d", got, tc.budget)
			}
		})
	}
}

func TestCleanCollapsesAutolinks(t *testing.T) {
	got := Clean("See <https://example.com> for *details*")
	if got != "See https://example.com for details" {
		t.Fatalf("unexpected clean output %q", got)
	}
}
