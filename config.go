package crosspost

import "github.com/goliatone/go-crosspost/internal/runtimeconfig"

var ErrConfiguration = runtimeconfig.ErrConfiguration

type (
	Config           = runtimeconfig.Config
	SiteConfig       = runtimeconfig.SiteConfig
	SelectionConfig  = runtimeconfig.SelectionConfig
	LinkedInConfig   = runtimeconfig.LinkedInConfig
	NewsletterConfig = runtimeconfig.NewsletterConfig
	ExcerptConfig    = runtimeconfig.ExcerptConfig
	TransportConfig  = runtimeconfig.TransportConfig
	LedgerConfig     = runtimeconfig.LedgerConfig
	LoggingConfig    = runtimeconfig.LoggingConfig
)

func DefaultConfig() Config {
	return runtimeconfig.DefaultConfig()
}

// LoadConfig resolves defaults, CROSSPOST_CONFIG and the environment.
func LoadConfig() (Config, error) {
	return runtimeconfig.Load()
}
