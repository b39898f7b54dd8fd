package runtimeconfig

import (
	"errors"
	"fmt"
	"net/url"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	goerrors "github.com/goliatone/go-errors"
)

const configurationInvalidCode = "CONFIGURATION_INVALID"

// ErrConfiguration marks missing or invalid configuration. It is raised
// before any network call is made.
var ErrConfiguration = errors.New("crosspost config: invalid configuration")

var logFormats = []any{"", "console", "json", "pretty"}

// Validate checks settings shared by every command.
func (c Config) Validate() error {
	err := validation.Errors{
		"site": validation.ValidateStruct(&c.Site,
			validation.Field(&c.Site.URL, validation.Required, validation.By(absoluteURL)),
			validation.Field(&c.Site.PostsDir, validation.Required),
		),
		"excerpt": validation.ValidateStruct(&c.Excerpt,
			validation.Field(&c.Excerpt.SocialBudget, validation.Required, validation.Min(10)),
			validation.Field(&c.Excerpt.NewsletterBudget, validation.Required, validation.Min(10)),
			validation.Field(&c.Excerpt.MinLength, validation.Min(0)),
		),
		"newsletter": validation.ValidateStruct(&c.Newsletter,
			validation.Field(&c.Newsletter.PageSize, validation.Required, validation.Min(1), validation.Max(100)),
			validation.Field(&c.Newsletter.BatchSize, validation.Required, validation.Min(1)),
		),
		"logging": validation.ValidateStruct(&c.Logging,
			validation.Field(&c.Logging.Format, validation.In(logFormats...)),
		),
	}.Filter()
	if err != nil {
		return configurationError(err)
	}
	return nil
}

// ValidateSocial checks the LinkedIn share credentials. Dry runs need none.
func (c Config) ValidateSocial() error {
	if err := c.Validate(); err != nil {
		return err
	}
	if c.DryRun {
		return nil
	}
	err := validation.ValidateStruct(&c.LinkedIn,
		validation.Field(&c.LinkedIn.AccessToken, validation.Required.Error(EnvLinkedInAccessToken+" is required")),
		validation.Field(&c.LinkedIn.PersonURN, validation.Required.Error(EnvLinkedInPersonURN+" is required"), validation.By(urn)),
	)
	if err != nil {
		return configurationError(err)
	}
	return nil
}

// ValidateNewsletter checks the EmailOctopus credentials. Dry runs need none.
func (c Config) ValidateNewsletter() error {
	if err := c.Validate(); err != nil {
		return err
	}
	if c.DryRun {
		return nil
	}
	err := validation.ValidateStruct(&c.Newsletter,
		validation.Field(&c.Newsletter.APIKey, validation.Required.Error(EnvEmailOctopusAPIKey+" is required")),
		validation.Field(&c.Newsletter.ListID, validation.Required.Error(EnvEmailOctopusListID+" is required")),
		validation.Field(&c.Newsletter.AutomationID, validation.Required.Error(EnvEmailOctopusAutomation+" is required")),
	)
	if err != nil {
		return configurationError(err)
	}
	return nil
}

// ValidateExport checks the member data export token.
func (c Config) ValidateExport() error {
	err := validation.ValidateStruct(&c.LinkedIn,
		validation.Field(&c.LinkedIn.DPAToken, validation.Required.Error(EnvLinkedInDPAToken+" is required")),
		validation.Field(&c.LinkedIn.ExportDir, validation.Required),
	)
	if err != nil {
		return configurationError(err)
	}
	return nil
}

func absoluteURL(value any) error {
	raw, _ := value.(string)
	if raw == "" {
		return nil
	}
	parsed, err := url.Parse(raw)
	if err != nil || parsed.Host == "" || (parsed.Scheme != "http" && parsed.Scheme != "https") {
		return validation.NewError("crosspost.config.site_url_invalid", "must be an absolute http(s) URL")
	}
	return nil
}

func urn(value any) error {
	raw, _ := value.(string)
	if raw == "" || strings.HasPrefix(raw, "urn:li:") {
		return nil
	}
	return validation.NewError("crosspost.config.urn_invalid", "must be a LinkedIn URN (urn:li:...)")
}

func configurationError(err error) error {
	if err == nil {
		return nil
	}
	return goerrors.Wrap(fmt.Errorf("%w: %w", ErrConfiguration, err), goerrors.CategoryValidation, "configuration is invalid: "+err.Error()).
		WithTextCode(configurationInvalidCode)
}
