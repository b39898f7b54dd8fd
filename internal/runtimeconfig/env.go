package runtimeconfig

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/goliatone/go-crosspost/internal/compose"
	"github.com/goliatone/go-crosspost/internal/posts"
)

// Environment variable names recognised by ApplyEnv.
const (
	EnvConfigFile             = "CROSSPOST_CONFIG"
	EnvSiteURL                = "SITE_URL"
	EnvRepoDir                = "REPO_DIR"
	EnvPostsDir               = "POSTS_DIR"
	EnvPostSlug               = "POST_SLUG"
	EnvCustomText             = "CUSTOM_TEXT"
	EnvDryRun                 = "DRY_RUN"
	EnvGitBaseRef             = "GIT_BASE_REF"
	EnvGitHeadRef             = "GIT_HEAD_REF"
	EnvLinkedInAccessToken    = "LINKEDIN_ACCESS_TOKEN"
	EnvLinkedInPersonURN      = "LINKEDIN_PERSON_URN"
	EnvLinkedInDPAToken       = "LINKEDIN_DPA_TOKEN"
	EnvLinkedInAPIVersion     = "LINKEDIN_API_VERSION"
	EnvLinkedInExportDir      = "LINKEDIN_EXPORT_DIR"
	EnvEmailOctopusAPIKey     = "EMAILOCTOPUS_API_KEY"
	EnvEmailOctopusListID     = "EMAILOCTOPUS_LIST_ID"
	EnvEmailOctopusAutomation = "EMAILOCTOPUS_AUTOMATION_ID"
	EnvEmailOctopusThrottle   = "EMAILOCTOPUS_THROTTLE"
	EnvLedgerDSN              = "CROSSPOST_LEDGER_DSN"
	EnvLogLevel               = "LOG_LEVEL"
	EnvLogFormat              = "LOG_FORMAT"
	EnvLogFocus               = "LOG_FOCUS"
)

// LookupFunc matches os.LookupEnv.
type LookupFunc func(key string) (string, bool)

// Load builds the configuration from defaults, the file named by
// CROSSPOST_CONFIG (when set) and the process environment.
func Load() (Config, error) {
	return LoadWith(os.LookupEnv)
}

// LoadWith is Load with an injectable environment.
func LoadWith(lookup LookupFunc) (Config, error) {
	cfg := DefaultConfig()
	if path, ok := lookup(EnvConfigFile); ok && strings.TrimSpace(path) != "" {
		if err := LoadFile(&cfg, strings.TrimSpace(path)); err != nil {
			return cfg, err
		}
	}
	if err := ApplyEnv(&cfg, lookup); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// ApplyEnv overrides cfg with any set environment variables and then runs
// Normalize, so POST_SLUG is reduced to [a-zA-Z0-9_-], CUSTOM_TEXT is cut to
// compose.MaxCustomText runes and SITE_URL is normalised.
func ApplyEnv(cfg *Config, lookup LookupFunc) error {
	if cfg == nil || lookup == nil {
		return nil
	}
	str := func(key string, target *string) {
		if value, ok := lookup(key); ok && strings.TrimSpace(value) != "" {
			*target = strings.TrimSpace(value)
		}
	}

	str(EnvSiteURL, &cfg.Site.URL)
	str(EnvRepoDir, &cfg.Site.RepoDir)
	str(EnvPostsDir, &cfg.Site.PostsDir)
	str(EnvPostSlug, &cfg.Selection.Slug)
	str(EnvGitBaseRef, &cfg.Selection.BaseRef)
	str(EnvGitHeadRef, &cfg.Selection.HeadRef)
	str(EnvLinkedInAccessToken, &cfg.LinkedIn.AccessToken)
	str(EnvLinkedInPersonURN, &cfg.LinkedIn.PersonURN)
	str(EnvLinkedInDPAToken, &cfg.LinkedIn.DPAToken)
	str(EnvLinkedInAPIVersion, &cfg.LinkedIn.APIVersion)
	str(EnvLinkedInExportDir, &cfg.LinkedIn.ExportDir)
	str(EnvEmailOctopusAPIKey, &cfg.Newsletter.APIKey)
	str(EnvEmailOctopusListID, &cfg.Newsletter.ListID)
	str(EnvEmailOctopusAutomation, &cfg.Newsletter.AutomationID)
	str(EnvLedgerDSN, &cfg.Ledger.DSN)
	str(EnvLogLevel, &cfg.Logging.Level)
	str(EnvLogFormat, &cfg.Logging.Format)

	if value, ok := lookup(EnvCustomText); ok && strings.TrimSpace(value) != "" {
		cfg.Selection.CustomText = value
	}
	if value, ok := lookup(EnvLogFocus); ok && strings.TrimSpace(value) != "" {
		cfg.Logging.Focus = splitList(value)
	}
	if value, ok := lookup(EnvDryRun); ok {
		cfg.DryRun = strings.EqualFold(strings.TrimSpace(value), "true")
	}
	if value, ok := lookup(EnvEmailOctopusThrottle); ok && strings.TrimSpace(value) != "" {
		throttle, err := parseDuration(value)
		if err != nil {
			return configurationError(fmt.Errorf("%s: %w", EnvEmailOctopusThrottle, err))
		}
		cfg.Newsletter.Throttle = throttle
	}

	return cfg.Normalize()
}

// Normalize canonicalises derived values such as the site URL and slug.
func (c *Config) Normalize() error {
	site, err := compose.NormalizeSiteURL(c.Site.URL)
	if err != nil {
		return configurationError(fmt.Errorf("site url: %w", err))
	}
	c.Site.URL = site
	c.Selection.Slug = posts.SanitizeSlug(c.Selection.Slug)
	c.Selection.CustomText = compose.CapCustomText(c.Selection.CustomText)
	return nil
}

// splitList flattens comma separated values and drops blanks.
func splitList(values ...string) []string {
	var out []string
	for _, value := range values {
		for _, part := range strings.Split(value, ",") {
			if part = strings.TrimSpace(part); part != "" {
				out = append(out, part)
			}
		}
	}
	return out
}

// parseDuration accepts Go durations ("120ms") or bare milliseconds ("120").
func parseDuration(value string) (time.Duration, error) {
	value = strings.TrimSpace(value)
	if ms, err := strconv.Atoi(value); err == nil {
		return time.Duration(ms) * time.Millisecond, nil
	}
	return time.ParseDuration(value)
}
