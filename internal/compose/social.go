package compose

import (
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/goliatone/go-crosspost/internal/frontmatter"
)

const (
	// DefaultTitle is used when a post has no title.
	DefaultTitle = "New Blog Post"
	// MaxHashtags caps the hashtags appended to a social post.
	MaxHashtags = 5
	// MaxCustomText caps operator supplied post text.
	MaxCustomText = 3000

	titleMarker  = "📝"
	callToAction = "Read more 👉"
)

var hashtagStrip = regexp.MustCompile(`[\s-]+`)

// TextSource names where the final social text came from.
type TextSource string

const (
	SourceCustom      TextSource = "custom"
	SourceFrontMatter TextSource = "frontmatter"
	SourceGenerated   TextSource = "generated"
)

// SocialInput carries the post fields used to build a social post.
type SocialInput struct {
	Title       string
	Description string
	Tags        []string
	Excerpt     string
	URL         string
}

// SocialPost assembles the generated share text: opening line, title,
// teaser, hashtags and the call to action, separated by blank lines.
func SocialPost(in SocialInput) string {
	title := strings.TrimSpace(in.Title)
	if title == "" {
		title = DefaultTitle
	}
	category := DetectCategory(title, in.Tags)

	lines := []string{Intro(category, title), "", titleMarker + " " + title}

	teaser := strings.TrimSpace(in.Excerpt)
	if teaser == "" {
		teaser = strings.TrimSpace(in.Description)
	}
	if teaser != "" {
		lines = append(lines, "", teaser)
	}

	if tags := Hashtags(in.Tags); len(tags) > 0 {
		lines = append(lines, "", strings.Join(tags, " "))
	}

	lines = append(lines, "", callToAction+" "+in.URL)
	return strings.Join(lines, "\n")
}

// Hashtags converts up to MaxHashtags tags into hashtags with whitespace and
// hyphens removed.
func Hashtags(tags []string) []string {
	out := make([]string, 0, MaxHashtags)
	for i, tag := range tags {
		if i >= MaxHashtags {
			break
		}
		cleaned := hashtagStrip.ReplaceAllString(tag, "")
		if cleaned == "" {
			continue
		}
		out = append(out, "#"+cleaned)
	}
	return out
}

// SocialText resolves the final post text. Custom text wins over the
// header's social_text field, which wins over generated text.
func SocialText(custom string, record frontmatter.Record, generate func() string) (string, TextSource) {
	if trimmed := strings.TrimSpace(custom); trimmed != "" {
		return CapCustomText(trimmed), SourceCustom
	}
	if value := strings.TrimSpace(record.String("social_text")); value != "" {
		return value, SourceFrontMatter
	}
	return generate(), SourceGenerated
}

// CapCustomText trims operator text and cuts it to MaxCustomText runes.
func CapCustomText(value string) string {
	return truncateRunes(strings.TrimSpace(value), MaxCustomText)
}

func truncateRunes(value string, limit int) string {
	if utf8.RuneCountInString(value) <= limit {
		return value
	}
	return string([]rune(value)[:limit])
}
