package social

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	goerrors "github.com/goliatone/go-errors"

	"github.com/goliatone/go-crosspost/internal/compose"
	"github.com/goliatone/go-crosspost/internal/excerpt"
	"github.com/goliatone/go-crosspost/internal/linkedin"
	"github.com/goliatone/go-crosspost/internal/logging"
	"github.com/goliatone/go-crosspost/internal/posts"
	"github.com/goliatone/go-crosspost/internal/transport"
	"github.com/goliatone/go-crosspost/pkg/interfaces"
)

const partialFailureCode = "PARTIAL_FAILURE"

// ErrPartialFailure is returned when at least one post could not be shared.
var ErrPartialFailure = errors.New("social: one or more posts failed to share")

// Sharer publishes a composed share and returns the created post id.
type Sharer interface {
	Share(ctx context.Context, share linkedin.Share) (string, error)
}

// Selector picks the posts to consider.
type Selector interface {
	BySlug(ctx context.Context, slug string, channel interfaces.Channel) (*posts.Selection, error)
	New(ctx context.Context, channel interfaces.Channel) (*posts.Selection, error)
}

// Config holds the values used to compose shares.
type Config struct {
	SiteURL   string
	AuthorURN string
	Excerpt   excerpt.Options
}

// Request describes one run.
type Request struct {
	// Slug selects a single post. Empty means auto-detect new posts.
	Slug       string
	CustomText string
	DryRun     bool
}

// Outcome is the per-post result of a run.
type Outcome struct {
	Slug   string
	Title  string
	URL    string
	Text   string
	Source compose.TextSource
	PostID string
	Err    error
}

// Summary counts what happened during a run.
type Summary struct {
	Selected int
	Shared   int
	Skipped  int
	Failed   int
	Outcomes []Outcome
}

// Option configures the Service.
type Option func(*Service)

// WithLedger enables idempotent auto-detect runs.
func WithLedger(ledger interfaces.Ledger) Option {
	return func(s *Service) {
		s.ledger = ledger
	}
}

// WithOutput sets where previews are printed. Defaults to io.Discard.
func WithOutput(w io.Writer) Option {
	return func(s *Service) {
		if w != nil {
			s.out = w
		}
	}
}

// WithLogger sets the service logger.
func WithLogger(logger interfaces.Logger) Option {
	return func(s *Service) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// Service cross-posts blog posts to LinkedIn.
type Service struct {
	selector Selector
	sharer   Sharer
	cfg      Config
	ledger   interfaces.Ledger
	out      io.Writer
	logger   interfaces.Logger
}

// NewService wires a social service. sharer may be nil for dry runs.
func NewService(selector Selector, sharer Sharer, cfg Config, opts ...Option) *Service {
	s := &Service{
		selector: selector,
		sharer:   sharer,
		cfg:      cfg,
		out:      io.Discard,
		logger:   logging.NoOp(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Run selects, composes and shares posts. Individual share failures do not
// stop the run; they are counted and reported through ErrPartialFailure.
func (s *Service) Run(ctx context.Context, req Request) (*Summary, error) {
	explicit := strings.TrimSpace(req.Slug) != ""

	var (
		selection *posts.Selection
		err       error
	)
	if explicit {
		s.logger.Info("social.select.manual", "slug", req.Slug)
		selection, err = s.selector.BySlug(ctx, req.Slug, interfaces.ChannelSocial)
	} else {
		selection, err = s.selector.New(ctx, interfaces.ChannelSocial)
	}
	if err != nil {
		return nil, err
	}

	summary := &Summary{Skipped: len(selection.Skipped)}
	candidates, err := s.unpublished(ctx, selection.Candidates, explicit, summary)
	if err != nil {
		return nil, err
	}
	summary.Selected = len(candidates)

	if len(candidates) == 0 {
		s.logger.Info("social.select.none")
		fmt.Fprintln(s.out, "No new posts detected. Nothing to share.")
		return summary, nil
	}
	s.logger.Info("social.select.found", "count", len(candidates))

	if !req.DryRun && s.sharer == nil {
		return nil, errors.New("social: sharer is required outside dry run")
	}

	for _, candidate := range candidates {
		if err := ctx.Err(); err != nil {
			return summary, err
		}
		outcome := s.compose(candidate, req.CustomText)
		logger := logging.WithPostContext(s.logger, candidate.Path, candidate.Slug, interfaces.ChannelSocial)

		if req.DryRun {
			s.preview(outcome)
			logger.Info("social.post.dry_run", "source", string(outcome.Source))
			summary.Outcomes = append(summary.Outcomes, outcome)
			continue
		}

		logger.Info("social.post.sharing", "title", outcome.Title, "url", outcome.URL)
		postID, err := s.sharer.Share(ctx, linkedin.Share{
			AuthorURN:   s.cfg.AuthorURN,
			Text:        outcome.Text,
			ArticleURL:  outcome.URL,
			Title:       outcome.Title,
			Description: candidate.FrontMatter.String("description"),
		})
		if err != nil {
			outcome.Err = err
			summary.Failed++
			summary.Outcomes = append(summary.Outcomes, outcome)
			logger.Error("social.post.failed", "title", outcome.Title, "status", transport.StatusCode(err), "error", err)
			continue
		}

		outcome.PostID = postID
		summary.Shared++
		summary.Outcomes = append(summary.Outcomes, outcome)
		logger.Info("social.post.shared", "post_id", postID)
		s.record(ctx, outcome)
	}

	if summary.Failed > 0 {
		return summary, partialFailure(summary.Failed, len(candidates))
	}
	return summary, nil
}

func (s *Service) unpublished(ctx context.Context, candidates []*posts.Candidate, explicit bool, summary *Summary) ([]*posts.Candidate, error) {
	if explicit || s.ledger == nil {
		return candidates, nil
	}
	out := make([]*posts.Candidate, 0, len(candidates))
	for _, candidate := range candidates {
		seen, err := s.ledger.Has(ctx, interfaces.ChannelSocial, candidate.Slug)
		if err != nil {
			return nil, err
		}
		if seen {
			s.logger.Info("social.post.already_shared", "slug", candidate.Slug)
			summary.Skipped++
			continue
		}
		out = append(out, candidate)
	}
	return out, nil
}

func (s *Service) compose(candidate *posts.Candidate, custom string) Outcome {
	record := candidate.FrontMatter
	title := strings.TrimSpace(record.String("title"))
	if title == "" {
		title = compose.DefaultTitle
	}
	url := compose.ArticleURL(s.cfg.SiteURL, candidate.Slug)

	text, source := compose.SocialText(custom, record, func() string {
		return compose.SocialPost(compose.SocialInput{
			Title:       title,
			Description: record.String("description"),
			Tags:        record.Strings("tags"),
			Excerpt:     excerpt.Extract(string(candidate.Body), s.cfg.Excerpt),
			URL:         url,
		})
	})

	return Outcome{
		Slug:   candidate.Slug,
		Title:  title,
		URL:    url,
		Text:   text,
		Source: source,
	}
}

func (s *Service) preview(outcome Outcome) {
	fmt.Fprintln(s.out, "--- LinkedIn Post Preview ---")
	fmt.Fprintln(s.out, outcome.Text)
	fmt.Fprintf(s.out, "--- Article URL: %s ---\n\n", outcome.URL)
}

func (s *Service) record(ctx context.Context, outcome Outcome) {
	if s.ledger == nil {
		return
	}
	if _, err := s.ledger.Record(ctx, interfaces.Publication{
		Channel:    interfaces.ChannelSocial,
		Slug:       outcome.Slug,
		Title:      outcome.Title,
		URL:        outcome.URL,
		ExternalID: outcome.PostID,
		Recipients: 1,
	}); err != nil {
		s.logger.Warn("social.ledger.record_failed", "slug", outcome.Slug, "error", err)
	}
}

func partialFailure(failed, total int) error {
	err := fmt.Errorf("%w: %d of %d", ErrPartialFailure, failed, total)
	return goerrors.Wrap(err, goerrors.CategoryExternal, err.Error()).WithTextCode(partialFailureCode)
}
