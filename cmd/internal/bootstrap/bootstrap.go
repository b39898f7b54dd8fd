package bootstrap

import (
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/goliatone/go-crosspost"
	"github.com/goliatone/go-crosspost/internal/di"
	"github.com/goliatone/go-crosspost/internal/identity"
	"github.com/goliatone/go-crosspost/internal/logging"
	"github.com/goliatone/go-crosspost/internal/runtimeconfig"
	"github.com/goliatone/go-crosspost/pkg/interfaces"
)

// Options captures configuration for the publishing CLI bootstraps.
type Options struct {
	// ConfigFile overrides CROSSPOST_CONFIG.
	ConfigFile string
	// Lookup reads the environment; defaults to os.LookupEnv.
	Lookup runtimeconfig.LookupFunc
	// Configure applies command line overrides after the environment.
	Configure      func(*runtimeconfig.Config)
	LoggerProvider interfaces.LoggerProvider
	DIOptions      []di.Option
}

// Module wraps the publishing module and its root logger. Every module
// logger handed out by the container carries RunID.
type Module struct {
	Module *crosspost.Module
	Logger interfaces.Logger
	RunID  string
}

// BuildModule resolves configuration and constructs the publishing module.
func BuildModule(opts Options) (*Module, error) {
	cfg, err := LoadConfig(opts)
	if err != nil {
		return nil, err
	}

	runID := identity.RunID()
	diOpts := []di.Option{di.WithRunID(runID)}
	if opts.LoggerProvider != nil {
		diOpts = append(diOpts, di.WithLoggerProvider(opts.LoggerProvider))
	}
	diOpts = append(diOpts, opts.DIOptions...)

	module, err := crosspost.New(cfg, diOpts...)
	if err != nil {
		return nil, fmt.Errorf("initialise crosspost module: %w", err)
	}

	return &Module{
		Module: module,
		Logger: logging.ModuleLogger(module.Container().LoggerProvider(), "crosspost"),
		RunID:  runID,
	}, nil
}

// LoadConfig applies defaults, the config file, the environment and then
// the Configure overrides, in that order.
func LoadConfig(opts Options) (runtimeconfig.Config, error) {
	lookup := opts.Lookup
	if lookup == nil {
		lookup = os.LookupEnv
	}

	cfg := runtimeconfig.DefaultConfig()
	path := strings.TrimSpace(opts.ConfigFile)
	if path == "" {
		if value, ok := lookup(runtimeconfig.EnvConfigFile); ok {
			path = strings.TrimSpace(value)
		}
	}
	if path != "" {
		if err := runtimeconfig.LoadFile(&cfg, path); err != nil {
			return cfg, err
		}
	}
	if err := runtimeconfig.ApplyEnv(&cfg, lookup); err != nil {
		return cfg, err
	}
	if opts.Configure != nil {
		opts.Configure(&cfg)
	}
	if err := cfg.Normalize(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// CommonFlags are the flags every publishing command accepts.
type CommonFlags struct {
	ConfigFile *string
	SiteURL    *string
	RepoDir    *string
	PostsDir   *string
	LedgerDSN  *string
	LogLevel   *string
	LogFormat  *string
	DryRun     *bool
}

// RegisterCommon declares the shared flags on fs.
func RegisterCommon(fs *flag.FlagSet) *CommonFlags {
	return &CommonFlags{
		ConfigFile: fs.String("config", "", "Path to a gcfg config file (overrides CROSSPOST_CONFIG)"),
		SiteURL:    fs.String("site-url", "", "Blog base URL (overrides SITE_URL)"),
		RepoDir:    fs.String("repo-dir", "", "Content repository root (overrides REPO_DIR)"),
		PostsDir:   fs.String("posts-dir", "", "Posts directory relative to the repository root (overrides POSTS_DIR)"),
		LedgerDSN:  fs.String("ledger-dsn", "", "Publication ledger DSN (overrides CROSSPOST_LEDGER_DSN)"),
		LogLevel:   fs.String("log-level", "", "Log level: trace, debug, info, warn, error"),
		LogFormat:  fs.String("log-format", "", "Log format: console, json or pretty"),
		DryRun:     fs.Bool("dry-run", false, "Print previews without calling any API (overrides DRY_RUN)"),
	}
}

// Apply copies every flag that was set on the command line into cfg.
func (f *CommonFlags) Apply(fs *flag.FlagSet, cfg *runtimeconfig.Config) {
	fs.Visit(func(fl *flag.Flag) {
		switch fl.Name {
		case "site-url":
			cfg.Site.URL = *f.SiteURL
		case "repo-dir":
			cfg.Site.RepoDir = *f.RepoDir
		case "posts-dir":
			cfg.Site.PostsDir = *f.PostsDir
		case "ledger-dsn":
			cfg.Ledger.DSN = *f.LedgerDSN
		case "log-level":
			cfg.Logging.Level = *f.LogLevel
		case "log-format":
			cfg.Logging.Format = *f.LogFormat
		case "dry-run":
			cfg.DryRun = *f.DryRun
		}
	})
}

// IsSet reports whether the named flag was passed.
func IsSet(fs *flag.FlagSet, name string) bool {
	set := false
	fs.Visit(func(fl *flag.Flag) {
		if fl.Name == name {
			set = true
		}
	})
	return set
}
