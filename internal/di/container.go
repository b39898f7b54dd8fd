package di

import (
	"context"
	"io"
	"io/fs"
	"net/http"
	"os"
	"strings"
	"sync"

	"github.com/goliatone/go-crosspost/internal/emailoctopus"
	"github.com/goliatone/go-crosspost/internal/excerpt"
	"github.com/goliatone/go-crosspost/internal/gitdiff"
	"github.com/goliatone/go-crosspost/internal/ledger"
	"github.com/goliatone/go-crosspost/internal/linkedin"
	"github.com/goliatone/go-crosspost/internal/logging"
	"github.com/goliatone/go-crosspost/internal/logging/gologger"
	"github.com/goliatone/go-crosspost/internal/newsletter"
	"github.com/goliatone/go-crosspost/internal/posts"
	"github.com/goliatone/go-crosspost/internal/runtimeconfig"
	"github.com/goliatone/go-crosspost/internal/social"
	"github.com/goliatone/go-crosspost/internal/transport"
	"github.com/goliatone/go-crosspost/pkg/interfaces"
)

// Container wires the publishing pipeline from a resolved configuration.
type Container struct {
	Config runtimeconfig.Config

	loggerProvider interfaces.LoggerProvider
	runID          string
	httpClient     *http.Client
	sleeper        transport.Sleeper
	filesystem     fs.FS
	diff           posts.DiffSource
	out            io.Writer

	ledger      interfaces.Ledger
	closeLedger func() error

	selectorOnce sync.Once
	selector     *posts.Selector
}

// Option mutates the container before it is finalised.
type Option func(*Container)

// WithLoggerProvider overrides the go-logger provider built from Config.Logging.
func WithLoggerProvider(provider interfaces.LoggerProvider) Option {
	return func(c *Container) {
		c.loggerProvider = provider
	}
}

// WithRunID tags every module logger with run_id.
func WithRunID(id string) Option {
	return func(c *Container) {
		c.runID = strings.TrimSpace(id)
	}
}

// WithHTTPClient overrides the HTTP client shared by the API clients.
func WithHTTPClient(client *http.Client) Option {
	return func(c *Container) {
		c.httpClient = client
	}
}

// WithSleeper overrides how Retry-After waits sleep. Throttle pacing still
// waits on the rate limiter.
func WithSleeper(sleep transport.Sleeper) Option {
	return func(c *Container) {
		c.sleeper = sleep
	}
}

// WithFS overrides the content repository filesystem.
func WithFS(filesystem fs.FS) Option {
	return func(c *Container) {
		c.filesystem = filesystem
	}
}

// WithDiffSource overrides git based new-post detection.
func WithDiffSource(diff posts.DiffSource) Option {
	return func(c *Container) {
		c.diff = diff
	}
}

// WithLedger overrides the ledger opened from Config.Ledger.DSN.
func WithLedger(l interfaces.Ledger) Option {
	return func(c *Container) {
		c.ledger = l
	}
}

// WithOutput sets where previews and totals are printed.
func WithOutput(w io.Writer) Option {
	return func(c *Container) {
		c.out = w
	}
}

// NewContainer builds a container. Only settings shared by every command are
// validated here; credentials are checked by the command that needs them.
func NewContainer(cfg runtimeconfig.Config, opts ...Option) (*Container, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	c := &Container{Config: cfg}
	for _, opt := range opts {
		opt(c)
	}

	if c.loggerProvider == nil {
		provider, err := gologger.NewProvider(gologger.Config{
			Level:     cfg.Logging.Level,
			Format:    cfg.Logging.Format,
			Focus:     cfg.Logging.Focus,
			AddSource: cfg.Logging.AddSource,
		})
		if err != nil {
			return nil, err
		}
		c.loggerProvider = provider
	}
	if c.runID != "" {
		c.loggerProvider = logging.ProviderWithFields(c.loggerProvider, map[string]any{"run_id": c.runID})
	}
	if c.httpClient == nil {
		c.httpClient = &http.Client{Timeout: cfg.Transport.Timeout}
	}
	if c.out == nil {
		c.out = os.Stdout
	}
	if c.filesystem == nil {
		c.filesystem = os.DirFS(cfg.Site.RepoDir)
	}
	if c.diff == nil {
		c.diff = gitdiff.New(cfg.Site.RepoDir, gitdiff.WithRevisions(cfg.Selection.BaseRef, cfg.Selection.HeadRef))
	}
	if c.ledger == nil {
		l, closer, err := ledger.Open(context.Background(), cfg.Ledger.DSN)
		if err != nil {
			return nil, err
		}
		c.ledger = l
		c.closeLedger = closer
		logging.LedgerLogger(c.loggerProvider).Debug("ledger.ready", "persistent", strings.TrimSpace(cfg.Ledger.DSN) != "")
	}

	return c, nil
}

// LoggerProvider returns the provider used for module loggers.
func (c *Container) LoggerProvider() interfaces.LoggerProvider {
	return c.loggerProvider
}

// Ledger returns the publication ledger.
func (c *Container) Ledger() interfaces.Ledger {
	return c.ledger
}

// Output returns the preview writer.
func (c *Container) Output() io.Writer {
	return c.out
}

// Selector returns the shared post selector.
func (c *Container) Selector() *posts.Selector {
	c.selectorOnce.Do(func() {
		loader := posts.NewLoader(c.filesystem, posts.LoaderConfig{Dir: c.Config.Site.PostsDir})
		c.selector = posts.NewSelector(loader, c.diff, posts.WithLogger(logging.PostsLogger(c.loggerProvider)))
	})
	return c.selector
}

// SocialService builds the LinkedIn share service. The share client is only
// created when an access token is configured.
func (c *Container) SocialService() *social.Service {
	logger := logging.SocialLogger(c.loggerProvider)

	var sharer social.Sharer
	if c.Config.LinkedIn.AccessToken != "" {
		api := linkedin.NewTransport(c.Config.LinkedIn.BaseURL, c.Config.LinkedIn.AccessToken, c.transportOptions(logging.LinkedInLogger(c.loggerProvider))...)
		sharer = linkedin.NewClient(api, logging.LinkedInLogger(c.loggerProvider))
	}

	return social.NewService(c.Selector(), sharer, social.Config{
		SiteURL:   c.Config.Site.URL,
		AuthorURN: c.Config.LinkedIn.PersonURN,
		Excerpt: excerpt.Options{
			Budget:    c.Config.Excerpt.SocialBudget,
			MinLength: c.Config.Excerpt.MinLength,
		},
	},
		social.WithLedger(c.ledger),
		social.WithOutput(c.out),
		social.WithLogger(logger),
	)
}

// NewsletterService builds the EmailOctopus newsletter service. The API
// client is only created when an API key is configured.
func (c *Container) NewsletterService() *newsletter.Service {
	logger := logging.NewsletterLogger(c.loggerProvider)

	var mailer newsletter.Mailer
	if c.Config.Newsletter.APIKey != "" {
		mailer = emailoctopus.NewClient(emailoctopus.Config{
			BaseURL:   c.Config.Newsletter.BaseURL,
			APIKey:    c.Config.Newsletter.APIKey,
			ListID:    c.Config.Newsletter.ListID,
			PageSize:  c.Config.Newsletter.PageSize,
			BatchSize: c.Config.Newsletter.BatchSize,
			Throttle:  c.Config.Newsletter.Throttle,
		}, logger, c.transportOptions(nil)...)
	}

	return newsletter.NewService(c.Selector(), mailer, newsletter.Config{
		SiteURL:      c.Config.Site.URL,
		AutomationID: c.Config.Newsletter.AutomationID,
		Excerpt: excerpt.Options{
			Budget:    c.Config.Excerpt.NewsletterBudget,
			MinLength: c.Config.Excerpt.MinLength,
		},
		ProgressEvery: c.Config.Newsletter.ProgressEvery,
	},
		newsletter.WithLedger(c.ledger),
		newsletter.WithOutput(c.out),
		newsletter.WithLogger(logger),
	)
}

// Exporter builds the member snapshot exporter.
func (c *Container) Exporter() *linkedin.Exporter {
	logger := logging.ExportLogger(c.loggerProvider)
	api := linkedin.NewSnapshotTransport(c.Config.LinkedIn.BaseURL, c.Config.LinkedIn.DPAToken, c.Config.LinkedIn.APIVersion, c.transportOptions(logger)...)
	return linkedin.NewExporter(linkedin.NewSnapshotClient(api, logger), c.Config.LinkedIn.ExportDir, logger)
}

// Close releases the ledger connection.
func (c *Container) Close() error {
	if c.closeLedger == nil {
		return nil
	}
	return c.closeLedger()
}

func (c *Container) transportOptions(logger interfaces.Logger) []transport.Option {
	opts := []transport.Option{
		transport.WithHTTPClient(c.httpClient),
		transport.WithMaxRateLimitRetries(c.Config.Transport.MaxRateLimitRetries),
	}
	if logger != nil {
		opts = append(opts, transport.WithLogger(logger))
	}
	if c.sleeper != nil {
		opts = append(opts, transport.WithSleeper(c.sleeper))
	}
	return opts
}
