package posts

import (
	"context"
	"regexp"
	"strings"

	"github.com/goliatone/go-slug"

	"github.com/goliatone/go-crosspost/internal/logging"
	"github.com/goliatone/go-crosspost/pkg/interfaces"
)

var unsafeSlugChars = regexp.MustCompile(`[^a-zA-Z0-9_-]`)

// DiffSource lists files added between two revisions of the content repository.
type DiffSource interface {
	AddedFiles(ctx context.Context, dir string) ([]string, error)
}

// Selection is the outcome of a selector run.
type Selection struct {
	Candidates []*Candidate
	Skipped    []Skip
}

// Skip records a candidate excluded by an opt-out flag.
type Skip struct {
	Candidate *Candidate
	Reason    string
}

// SelectorOption configures a Selector.
type SelectorOption func(*Selector)

// WithLogger sets the selector logger.
func WithLogger(logger interfaces.Logger) SelectorOption {
	return func(s *Selector) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// Selector decides which posts are eligible for a channel.
type Selector struct {
	loader *Loader
	diff   DiffSource
	logger interfaces.Logger
}

// NewSelector constructs a selector. diff may be nil when only explicit slug
// mode is used.
func NewSelector(loader *Loader, diff DiffSource, opts ...SelectorOption) *Selector {
	s := &Selector{
		loader: loader,
		diff:   diff,
		logger: logging.NoOp(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// SanitizeSlug drops every character outside [a-zA-Z0-9_-].
func SanitizeSlug(value string) string {
	return unsafeSlugChars.ReplaceAllString(strings.TrimSpace(value), "")
}

// BySlug scans every post and returns the first whose resolved slug equals
// the requested one. Opt-out flags still apply to the returned selection.
func (s *Selector) BySlug(ctx context.Context, requested string, channel interfaces.Channel) (*Selection, error) {
	wanted := SanitizeSlug(requested)
	if wanted == "" {
		return nil, notFound(requested)
	}
	if normalized, err := slug.Normalize(wanted); err == nil && normalized != "" && normalized != wanted {
		s.logger.Warn("posts.slug.non_canonical", "slug", wanted, "suggested", normalized)
	}

	candidates, err := s.loader.LoadDirectory(ctx)
	if err != nil {
		return nil, err
	}
	for _, candidate := range candidates {
		if candidate.Slug != wanted {
			continue
		}
		s.logger.Info("posts.select.slug_matched", "slug", wanted, "path", candidate.Path)
		return s.filter(channel, []*Candidate{candidate}), nil
	}
	return nil, notFound(wanted)
}

// New returns posts added in the latest revision that are eligible for the
// channel. A failing diff is treated as no new posts. The newsletter channel
// selects at most one post.
func (s *Selector) New(ctx context.Context, channel interfaces.Channel) (*Selection, error) {
	if s.diff == nil {
		s.logger.Warn("posts.diff.unavailable")
		return &Selection{}, nil
	}

	files, err := s.diff.AddedFiles(ctx, s.loader.Dir())
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}
		s.logger.Warn("posts.diff.failed", "error", err)
		return &Selection{}, nil
	}

	var loaded []*Candidate
	for _, file := range files {
		if !s.loader.Contains(file) {
			continue
		}
		if !s.loader.Exists(file) {
			s.logger.Debug("posts.diff.missing_file", "path", file)
			continue
		}
		candidate, err := s.loader.LoadFile(ctx, file)
		if err != nil {
			return nil, err
		}
		loaded = append(loaded, candidate)
	}

	selection := s.filter(channel, loaded)
	if channel == interfaces.ChannelNewsletter && len(selection.Candidates) > 1 {
		selection.Candidates = selection.Candidates[:1]
	}
	return selection, nil
}

func (s *Selector) filter(channel interfaces.Channel, candidates []*Candidate) *Selection {
	selection := &Selection{}
	for _, candidate := range candidates {
		if reason := OptOut(candidate.FrontMatter, channel); reason != "" {
			s.logger.Info("posts.select.skipped", "title", candidate.Title(), "path", candidate.Path, "reason", reason)
			selection.Skipped = append(selection.Skipped, Skip{Candidate: candidate, Reason: reason})
			continue
		}
		selection.Candidates = append(selection.Candidates, candidate)
	}
	return selection
}
