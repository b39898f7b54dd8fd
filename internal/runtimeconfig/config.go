package runtimeconfig

import (
	"time"

	"github.com/goliatone/go-crosspost/internal/emailoctopus"
	"github.com/goliatone/go-crosspost/internal/excerpt"
	"github.com/goliatone/go-crosspost/internal/gitdiff"
	"github.com/goliatone/go-crosspost/internal/linkedin"
)

const (
	// DefaultSiteURL is the blog the posts are published on.
	DefaultSiteURL = "https://azureviking.com"
	// DefaultPostsDir is the posts directory relative to the repository root.
	DefaultPostsDir = "site/content/posts"
	// DefaultProgressEvery controls how often newsletter progress is logged.
	DefaultProgressEvery = 50
)

// Config aggregates everything the publishing commands need. Values are
// resolved from defaults, then an optional config file, then environment
// variables, then command flags.
type Config struct {
	Site       SiteConfig
	Selection  SelectionConfig
	LinkedIn   LinkedInConfig
	Newsletter NewsletterConfig
	Excerpt    ExcerptConfig
	Transport  TransportConfig
	Ledger     LedgerConfig
	Logging    LoggingConfig
	DryRun     bool
}

// SiteConfig locates the blog and its content repository.
type SiteConfig struct {
	URL      string
	RepoDir  string
	PostsDir string
}

// SelectionConfig picks which posts a run considers.
type SelectionConfig struct {
	// Slug switches to explicit slug mode when set.
	Slug string
	// CustomText overrides generated social text.
	CustomText string
	BaseRef    string
	HeadRef    string
}

// LinkedInConfig holds share and export credentials.
type LinkedInConfig struct {
	BaseURL     string
	AccessToken string
	PersonURN   string
	DPAToken    string
	APIVersion  string
	ExportDir   string
}

// NewsletterConfig holds EmailOctopus settings.
type NewsletterConfig struct {
	BaseURL       string
	APIKey        string
	ListID        string
	AutomationID  string
	PageSize      int
	BatchSize     int
	Throttle      time.Duration
	ProgressEvery int
}

// ExcerptConfig sets excerpt budgets per channel.
type ExcerptConfig struct {
	SocialBudget     int
	NewsletterBudget int
	MinLength        int
}

// TransportConfig tunes outbound HTTP behaviour.
type TransportConfig struct {
	Timeout time.Duration
	// MaxRateLimitRetries caps 429 retries; zero follows Retry-After without a cap.
	MaxRateLimitRetries int
}

// LedgerConfig selects the publication ledger backend.
type LedgerConfig struct {
	DSN string
}

// LoggingConfig selects go-logger level and format. Focus limits output to
// the named modules, e.g. crosspost.newsletter.
type LoggingConfig struct {
	Level     string
	Format    string
	Focus     []string
	AddSource bool
}

// DefaultConfig returns the configuration used when nothing is overridden.
func DefaultConfig() Config {
	return Config{
		Site: SiteConfig{
			URL:      DefaultSiteURL,
			RepoDir:  ".",
			PostsDir: DefaultPostsDir,
		},
		Selection: SelectionConfig{
			BaseRef: gitdiff.DefaultBase,
			HeadRef: gitdiff.DefaultHead,
		},
		LinkedIn: LinkedInConfig{
			BaseURL:    linkedin.DefaultBaseURL,
			APIVersion: linkedin.DefaultAPIVersion,
			ExportDir:  linkedin.DefaultExportDir,
		},
		Newsletter: NewsletterConfig{
			BaseURL:       emailoctopus.DefaultBaseURL,
			PageSize:      emailoctopus.DefaultPageSize,
			BatchSize:     emailoctopus.DefaultBatchSize,
			Throttle:      emailoctopus.DefaultThrottle,
			ProgressEvery: DefaultProgressEvery,
		},
		Excerpt: ExcerptConfig{
			SocialBudget:     excerpt.SocialBudget,
			NewsletterBudget: excerpt.DefaultBudget,
			MinLength:        excerpt.DefaultMinLength,
		},
		Transport: TransportConfig{
			Timeout: 30 * time.Second,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "console",
		},
	}
}
