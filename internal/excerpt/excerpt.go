package excerpt

import (
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"
)

const (
	// DefaultBudget is the excerpt length used for newsletter fields.
	DefaultBudget = 200
	// SocialBudget is the teaser length used in social posts.
	SocialBudget = 180
	// DefaultMinLength is the cleaned length a paragraph must exceed to qualify.
	DefaultMinLength = 30
	// Ellipsis marks a truncated excerpt.
	Ellipsis = "..."
)

// Options tune excerpt extraction.
type Options struct {
	Budget    int
	MinLength int
}

var (
	paragraphBreak = regexp.MustCompile(`\n[ \t]*\n+`)
	whitespaceRun  = regexp.MustCompile(`\s+`)
	skipPrefixes   = []string{"#", "!", "<", "```", "~~~", "|", "-", "_"}
	inlineParser   = goldmark.New().Parser()
)

// Extract returns the first prose paragraph of body, stripped of inline
// markup and truncated to the budget. An empty string means no paragraph
// qualified.
func Extract(body string, opts Options) string {
	budget := opts.Budget
	if budget <= 0 {
		budget = DefaultBudget
	}
	minLength := opts.MinLength
	if minLength <= 0 {
		minLength = DefaultMinLength
	}

	body = strings.ReplaceAll(body, "\r\n", "\n")
	inFence := false
	for _, paragraph := range paragraphBreak.Split(body, -1) {
		trimmed := strings.TrimSpace(paragraph)
		if trimmed == "" {
			continue
		}
		if inFence {
			if closesFence(trimmed) {
				inFence = false
			}
			continue
		}
		if isFence(trimmed) {
			inFence = !closesFence(strings.TrimSpace(trimmed[3:]))
			continue
		}
		if isStructural(trimmed) {
			continue
		}
		clean := Clean(trimmed)
		if utf8.RuneCountInString(clean) <= minLength {
			continue
		}
		return Truncate(clean, budget)
	}
	return ""
}

// Clean removes inline markdown from a single paragraph. Emphasis and code
// markers are dropped, links collapse to their text and line breaks become
// spaces.
func Clean(paragraph string) string {
	source := []byte(strings.ReplaceAll(paragraph, "\n", " "))
	doc := inlineParser.Parse(text.NewReader(source))

	var b strings.Builder
	_ = ast.Walk(doc, func(node ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			if node.Kind() == ast.KindParagraph || node.Kind() == ast.KindHeading {
				b.WriteByte(' ')
			}
			return ast.WalkContinue, nil
		}
		switch n := node.(type) {
		case *ast.Text:
			b.Write(n.Segment.Value(source))
			if n.SoftLineBreak() || n.HardLineBreak() {
				b.WriteByte(' ')
			}
		case *ast.String:
			b.Write(n.Value)
		case *ast.AutoLink:
			b.Write(n.Label(source))
			return ast.WalkSkipChildren, nil
		case *ast.Image, *ast.RawHTML, *ast.HTMLBlock:
			return ast.WalkSkipChildren, nil
		}
		return ast.WalkContinue, nil
	})

	return strings.TrimSpace(whitespaceRun.ReplaceAllString(b.String(), " "))
}

// Truncate shortens text to at most budget runes including the ellipsis,
// cutting at the last whitespace so no word is split. When the first word
// alone overflows the budget only the ellipsis is returned.
func Truncate(value string, budget int) string {
	runes := []rune(value)
	if budget <= 0 || len(runes) <= budget {
		return value
	}
	limit := budget - utf8.RuneCountInString(Ellipsis)
	if limit <= 0 {
		return string(runes[:budget])
	}

	cut := runes[:limit]
	if !unicode.IsSpace(runes[limit]) {
		end := len(cut) - 1
		for end >= 0 && !unicode.IsSpace(cut[end]) {
			end--
		}
		cut = cut[:max(end, 0)]
	}
	return strings.TrimRightFunc(string(cut), unicode.IsSpace) + Ellipsis
}

func isStructural(paragraph string) bool {
	for _, prefix := range skipPrefixes {
		if strings.HasPrefix(paragraph, prefix) {
			return true
		}
	}
	return strings.HasPrefix(strings.ToLower(paragraph), "disclaimer")
}

func isFence(paragraph string) bool {
	return strings.HasPrefix(paragraph, "```") || strings.HasPrefix(paragraph, "~~~")
}

// closesFence reports whether a paragraph ends on a fence line.
func closesFence(paragraph string) bool {
	lines := strings.Split(paragraph, "\n")
	last := strings.TrimSpace(lines[len(lines)-1])
	return strings.HasPrefix(last, "```") || strings.HasPrefix(last, "~~~")
}
