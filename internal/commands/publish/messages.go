package publishcmd

import (
	"regexp"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"github.com/goliatone/go-crosspost/internal/linkedin"
)

const (
	shareSocialMessageType    = "crosspost.social.share"
	sendNewsletterMessageType = "crosspost.newsletter.send"
	exportLinkedInMessageType = "crosspost.linkedin.export"
)

var slugPattern = regexp.MustCompile(`^[a-zA-Z0-9_-]+$`)

// ShareSocialCommand shares new posts, or the post named by Slug, on LinkedIn.
type ShareSocialCommand struct {
	Slug       string `json:"slug,omitempty"`
	CustomText string `json:"custom_text,omitempty"`
	DryRun     bool   `json:"dry_run,omitempty"`
}

// Type implements command.Message.
func (ShareSocialCommand) Type() string { return shareSocialMessageType }

// Validate ensures the slug is sanitised. Custom text of any length is
// accepted and cut to compose.MaxCustomText runes when the post is composed.
func (m ShareSocialCommand) Validate() error {
	return validation.ValidateStruct(&m,
		validation.Field(&m.Slug, validation.Match(slugPattern).Error("slug may only contain letters, digits, '-' and '_'")),
	)
}

// SendNewsletterCommand announces the newest post, or Slug, to subscribers.
type SendNewsletterCommand struct {
	Slug   string `json:"slug,omitempty"`
	DryRun bool   `json:"dry_run,omitempty"`
}

// Type implements command.Message.
func (SendNewsletterCommand) Type() string { return sendNewsletterMessageType }

// Validate ensures the slug is sanitised.
func (m SendNewsletterCommand) Validate() error {
	return validation.ValidateStruct(&m,
		validation.Field(&m.Slug, validation.Match(slugPattern).Error("slug may only contain letters, digits, '-' and '_'")),
	)
}

// ExportLinkedInCommand exports member snapshot domains. An empty Domains
// list exports the defaults.
type ExportLinkedInCommand struct {
	Domains []string `json:"domains,omitempty"`
}

// Type implements command.Message.
func (ExportLinkedInCommand) Type() string { return exportLinkedInMessageType }

// Validate rejects unknown snapshot domains.
func (m ExportLinkedInCommand) Validate() error {
	errs := validation.Errors{}
	for _, name := range m.Domains {
		if _, ok := lookupDomain(name); !ok {
			errs["domains"] = validation.NewError("crosspost.linkedin.export.domain_unknown", "unknown domain "+name)
			break
		}
	}
	if len(errs) > 0 {
		return errs
	}
	return nil
}

func lookupDomain(name string) (linkedin.Domain, bool) {
	name = strings.ToUpper(strings.TrimSpace(name))
	for _, domain := range linkedin.DefaultDomains {
		if domain.Name == name {
			return domain, true
		}
	}
	return linkedin.Domain{}, false
}
