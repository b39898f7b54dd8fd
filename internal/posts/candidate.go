package posts

import (
	"path"
	"strings"

	"github.com/goliatone/go-crosspost/internal/frontmatter"
	"github.com/goliatone/go-crosspost/pkg/interfaces"
)

const (
	fieldSlug           = "slug"
	fieldTitle          = "title"
	fieldDraft          = "draft"
	fieldSocialSkip     = "social_skip"
	fieldNewsletterSkip = "newsletter_skip"
)

// Candidate is a post considered for publication.
type Candidate struct {
	Path        string
	Source      []byte
	Body        []byte
	FrontMatter frontmatter.Record
	Slug        string
	Checksum    []byte
}

// Title returns the header title or an empty string.
func (c *Candidate) Title() string {
	if c == nil {
		return ""
	}
	return c.FrontMatter.String(fieldTitle)
}

// ResolveSlug prefers the header slug and falls back to the file name
// without its extension.
func ResolveSlug(filePath string, record frontmatter.Record) string {
	if value := strings.TrimSpace(record.String(fieldSlug)); value != "" {
		return value
	}
	base := path.Base(filePathToSlash(filePath))
	return strings.TrimSuffix(base, path.Ext(base))
}

// OptOut returns the header flag that excludes the candidate from the
// channel, or an empty string when it is eligible.
func OptOut(record frontmatter.Record, channel interfaces.Channel) string {
	if record.Bool(fieldDraft) {
		return fieldDraft
	}
	switch channel {
	case interfaces.ChannelSocial:
		if record.Bool(fieldSocialSkip) {
			return fieldSocialSkip
		}
	case interfaces.ChannelNewsletter:
		if record.Bool(fieldNewsletterSkip) {
			return fieldNewsletterSkip
		}
	}
	return ""
}

func filePathToSlash(p string) string {
	return strings.ReplaceAll(p, "\\", "/")
}
