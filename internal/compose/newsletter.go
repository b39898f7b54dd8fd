package compose

import (
	"strings"

	"github.com/PuerkitoBio/purell"
)

// NewsletterFields are the custom contact fields consumed by the newsletter
// automation.
type NewsletterFields struct {
	Title   string
	URL     string
	Excerpt string
}

// Map returns the fields keyed by their contact field names.
func (f NewsletterFields) Map() map[string]string {
	return map[string]string{
		"LatestPostTitle":   f.Title,
		"LatestPostUrl":     f.URL,
		"LatestPostExcerpt": f.Excerpt,
	}
}

// Newsletter builds the field set. The title falls back to the slug and the
// excerpt falls back to the description.
func Newsletter(title, slug, url, excerpt, description string) NewsletterFields {
	fields := NewsletterFields{
		Title:   strings.TrimSpace(title),
		URL:     url,
		Excerpt: strings.TrimSpace(excerpt),
	}
	if fields.Title == "" {
		fields.Title = slug
	}
	if fields.Excerpt == "" {
		fields.Excerpt = strings.TrimSpace(description)
	}
	return fields
}

// NormalizeSiteURL lowercases the scheme and host, drops default ports and
// removes the trailing slash.
func NormalizeSiteURL(raw string) (string, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return "", nil
	}
	normalized, err := purell.NormalizeURLString(trimmed, purell.FlagsSafe|purell.FlagRemoveTrailingSlash)
	if err != nil {
		return "", err
	}
	return strings.TrimRight(normalized, "/"), nil
}

// ArticleURL returns the canonical post URL `{site}/post/{slug}/`.
func ArticleURL(siteURL, slug string) string {
	return strings.TrimRight(siteURL, "/") + "/post/" + slug + "/"
}
