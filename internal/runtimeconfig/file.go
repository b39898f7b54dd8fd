package runtimeconfig

import (
	"fmt"
	"strings"

	"gopkg.in/gcfg.v1"
)

// fileConfig mirrors the sections of a gcfg config file, e.g.
//
//	[site]
//	url = https://azureviking.com
//	postsdir = site/content/posts
//
//	[newsletter]
//	listid = abc
//	throttle = 120ms
//
//	[logging]
//	focus = crosspost.newsletter
//	focus = crosspost.ledger
type fileConfig struct {
	Site struct {
		URL      string
		RepoDir  string
		PostsDir string
	}
	Git struct {
		Base string
		Head string
	}
	LinkedIn struct {
		BaseURL    string
		PersonURN  string
		APIVersion string
		ExportDir  string
	}
	Newsletter struct {
		BaseURL       string
		ListID        string
		AutomationID  string
		PageSize      int
		BatchSize     int
		Throttle      string
		ProgressEvery int
	}
	Excerpt struct {
		SocialBudget     int
		NewsletterBudget int
		MinLength        int
	}
	Transport struct {
		Timeout             string
		MaxRateLimitRetries int
	}
	Ledger struct {
		DSN string
	}
	Logging struct {
		Level     string
		Format    string
		Focus     []string
		AddSource bool
	}
}

// LoadFile merges a gcfg file into cfg. Credentials are intentionally not
// read from files; they only come from the environment.
func LoadFile(cfg *Config, path string) error {
	var file fileConfig
	if err := gcfg.ReadFileInto(&file, path); err != nil {
		return configurationError(fmt.Errorf("read %s: %w", path, err))
	}

	setString(&cfg.Site.URL, file.Site.URL)
	setString(&cfg.Site.RepoDir, file.Site.RepoDir)
	setString(&cfg.Site.PostsDir, file.Site.PostsDir)
	setString(&cfg.Selection.BaseRef, file.Git.Base)
	setString(&cfg.Selection.HeadRef, file.Git.Head)
	setString(&cfg.LinkedIn.BaseURL, file.LinkedIn.BaseURL)
	setString(&cfg.LinkedIn.PersonURN, file.LinkedIn.PersonURN)
	setString(&cfg.LinkedIn.APIVersion, file.LinkedIn.APIVersion)
	setString(&cfg.LinkedIn.ExportDir, file.LinkedIn.ExportDir)
	setString(&cfg.Newsletter.BaseURL, file.Newsletter.BaseURL)
	setString(&cfg.Newsletter.ListID, file.Newsletter.ListID)
	setString(&cfg.Newsletter.AutomationID, file.Newsletter.AutomationID)
	setInt(&cfg.Newsletter.PageSize, file.Newsletter.PageSize)
	setInt(&cfg.Newsletter.BatchSize, file.Newsletter.BatchSize)
	setInt(&cfg.Newsletter.ProgressEvery, file.Newsletter.ProgressEvery)
	setInt(&cfg.Excerpt.SocialBudget, file.Excerpt.SocialBudget)
	setInt(&cfg.Excerpt.NewsletterBudget, file.Excerpt.NewsletterBudget)
	setInt(&cfg.Excerpt.MinLength, file.Excerpt.MinLength)
	setInt(&cfg.Transport.MaxRateLimitRetries, file.Transport.MaxRateLimitRetries)
	setString(&cfg.Ledger.DSN, file.Ledger.DSN)
	setString(&cfg.Logging.Level, file.Logging.Level)
	setString(&cfg.Logging.Format, file.Logging.Format)
	if len(file.Logging.Focus) > 0 {
		cfg.Logging.Focus = splitList(file.Logging.Focus...)
	}
	if file.Logging.AddSource {
		cfg.Logging.AddSource = true
	}

	if value := strings.TrimSpace(file.Newsletter.Throttle); value != "" {
		throttle, err := parseDuration(value)
		if err != nil {
			return configurationError(fmt.Errorf("newsletter throttle: %w", err))
		}
		cfg.Newsletter.Throttle = throttle
	}
	if value := strings.TrimSpace(file.Transport.Timeout); value != "" {
		timeout, err := parseDuration(value)
		if err != nil {
			return configurationError(fmt.Errorf("transport timeout: %w", err))
		}
		cfg.Transport.Timeout = timeout
	}
	return nil
}

func setString(target *string, value string) {
	if trimmed := strings.TrimSpace(value); trimmed != "" {
		*target = trimmed
	}
}

func setInt(target *int, value int) {
	if value != 0 {
		*target = value
	}
}
