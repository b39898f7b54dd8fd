package newsletter

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	goerrors "github.com/goliatone/go-errors"

	"github.com/goliatone/go-crosspost/internal/compose"
	"github.com/goliatone/go-crosspost/internal/emailoctopus"
	"github.com/goliatone/go-crosspost/internal/excerpt"
	"github.com/goliatone/go-crosspost/internal/logging"
	"github.com/goliatone/go-crosspost/internal/posts"
	"github.com/goliatone/go-crosspost/internal/transport"
	"github.com/goliatone/go-crosspost/pkg/interfaces"
)

const (
	partialFailureCode = "PARTIAL_FAILURE"
	// DefaultProgressEvery is how many automation calls pass between progress logs.
	DefaultProgressEvery = 50
)

// ErrPartialFailure is returned when the automation could not be queued for
// every contact.
var ErrPartialFailure = errors.New("newsletter: automation failed for one or more contacts")

// Mailer is the subset of the EmailOctopus client the service drives.
type Mailer interface {
	ListSubscribedContacts(ctx context.Context) ([]emailoctopus.Contact, error)
	UpdateFields(ctx context.Context, contacts []emailoctopus.Contact, fields map[string]string, progress func(done int)) error
	QueueAutomation(ctx context.Context, automationID, contactID string) error
}

// Selector picks the post to announce.
type Selector interface {
	BySlug(ctx context.Context, slug string, channel interfaces.Channel) (*posts.Selection, error)
	New(ctx context.Context, channel interfaces.Channel) (*posts.Selection, error)
}

// Config holds the values used to build and send the newsletter.
type Config struct {
	SiteURL       string
	AutomationID  string
	Excerpt       excerpt.Options
	ProgressEvery int
}

// Request describes one run.
type Request struct {
	Slug   string
	DryRun bool
}

// Summary reports the outcome of a run. Post is nil when nothing was selected.
type Summary struct {
	Post     *compose.NewsletterFields
	Slug     string
	Skipped  int
	Contacts int
	Sent     int
	Errors   int
}

// Option configures the Service.
type Option func(*Service)

// WithLedger records completed sends.
func WithLedger(ledger interfaces.Ledger) Option {
	return func(s *Service) {
		s.ledger = ledger
	}
}

// WithOutput sets where the preview and totals are printed.
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

// Service announces the latest post through an EmailOctopus automation.
type Service struct {
	selector Selector
	mailer   Mailer
	cfg      Config
	ledger   interfaces.Ledger
	out      io.Writer
	logger   interfaces.Logger
}

// NewService wires a newsletter service. mailer may be nil for dry runs.
func NewService(selector Selector, mailer Mailer, cfg Config, opts ...Option) *Service {
	if cfg.ProgressEvery <= 0 {
		cfg.ProgressEvery = DefaultProgressEvery
	}
	s := &Service{
		selector: selector,
		mailer:   mailer,
		cfg:      cfg,
		out:      io.Discard,
		logger:   logging.NoOp(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Run selects one post, updates every subscribed contact's fields and queues
// the automation per contact. Field updates are not rolled back when a later
// phase fails.
func (s *Service) Run(ctx context.Context, req Request) (*Summary, error) {
	var (
		selection *posts.Selection
		err       error
	)
	if slug := strings.TrimSpace(req.Slug); slug != "" {
		s.logger.Info("newsletter.select.manual", "slug", slug)
		selection, err = s.selector.BySlug(ctx, slug, interfaces.ChannelNewsletter)
	} else {
		selection, err = s.selector.New(ctx, interfaces.ChannelNewsletter)
	}
	if err != nil {
		return nil, err
	}

	summary := &Summary{Skipped: len(selection.Skipped)}
	if len(selection.Candidates) == 0 {
		s.logger.Info("newsletter.select.none")
		fmt.Fprintln(s.out, "No eligible posts found for newsletter")
		return summary, nil
	}

	candidate := selection.Candidates[0]
	fields := s.fields(candidate)
	summary.Post = &fields
	summary.Slug = candidate.Slug
	logger := logging.WithPostContext(s.logger, candidate.Path, candidate.Slug, interfaces.ChannelNewsletter)

	fmt.Fprintln(s.out, "=== Newsletter Post ===")
	fmt.Fprintf(s.out, "Title:   %s\n", fields.Title)
	fmt.Fprintf(s.out, "URL:     %s\n", fields.URL)
	fmt.Fprintf(s.out, "Excerpt: %s\n\n", fields.Excerpt)

	if req.DryRun {
		fmt.Fprintln(s.out, "[DRY RUN] Would update contact fields:")
		for _, name := range []string{"LatestPostTitle", "LatestPostUrl", "LatestPostExcerpt"} {
			fmt.Fprintf(s.out, "  %-18s %s\n", name+":", fields.Map()[name])
		}
		fmt.Fprintln(s.out, "\n[DRY RUN] Would trigger automation for all subscribed contacts")
		fmt.Fprintln(s.out, "[DRY RUN] No API calls made")
		logger.Info("newsletter.dry_run")
		return summary, nil
	}
	if s.mailer == nil {
		return nil, errors.New("newsletter: mailer is required outside dry run")
	}

	logger.Info("newsletter.contacts.fetching")
	contacts, err := s.mailer.ListSubscribedContacts(ctx)
	if err != nil {
		logger.Error("newsletter.contacts.failed", "status", transport.StatusCode(err), "error", err)
		return summary, err
	}
	summary.Contacts = len(contacts)
	logger.Info("newsletter.contacts.found", "count", len(contacts))
	if len(contacts) == 0 {
		fmt.Fprintln(s.out, "No contacts to send to")
		return summary, nil
	}

	err = s.mailer.UpdateFields(ctx, contacts, fields.Map(), func(done int) {
		logger.Debug("newsletter.fields.progress", "done", done, "total", len(contacts))
	})
	if err != nil {
		logger.Error("newsletter.fields.failed", "status", transport.StatusCode(err), "error", err)
		return summary, err
	}
	logger.Info("newsletter.fields.updated", "count", len(contacts))

	for i, contact := range contacts {
		if err := ctx.Err(); err != nil {
			return summary, err
		}
		if err := s.mailer.QueueAutomation(ctx, s.cfg.AutomationID, contact.ID); err != nil {
			summary.Errors++
			logger.Warn("newsletter.automation.failed", "contact_id", contact.ID, "status", transport.StatusCode(err), "error", err)
		} else {
			summary.Sent++
		}
		if done := i + 1; done%s.cfg.ProgressEvery == 0 {
			logger.Info("newsletter.automation.progress", "done", done, "total", len(contacts), "sent", summary.Sent, "errors", summary.Errors)
		}
	}

	fmt.Fprintln(s.out, "=== Complete ===")
	fmt.Fprintf(s.out, "Sent: %d | Errors: %d | Total: %d\n", summary.Sent, summary.Errors, summary.Contacts)
	s.record(ctx, candidate.Slug, fields, summary)

	if summary.Errors > 0 {
		return summary, partialFailure(summary.Errors, summary.Contacts)
	}
	return summary, nil
}

func (s *Service) fields(candidate *posts.Candidate) compose.NewsletterFields {
	record := candidate.FrontMatter
	return compose.Newsletter(
		record.String("title"),
		candidate.Slug,
		compose.ArticleURL(s.cfg.SiteURL, candidate.Slug),
		excerpt.Extract(string(candidate.Body), s.cfg.Excerpt),
		record.String("description"),
	)
}

func (s *Service) record(ctx context.Context, slug string, fields compose.NewsletterFields, summary *Summary) {
	if s.ledger == nil {
		return
	}
	if _, err := s.ledger.Record(ctx, interfaces.Publication{
		Channel:    interfaces.ChannelNewsletter,
		Slug:       slug,
		Title:      fields.Title,
		URL:        fields.URL,
		ExternalID: s.cfg.AutomationID,
		Recipients: summary.Sent,
		Failures:   summary.Errors,
	}); err != nil {
		s.logger.Warn("newsletter.ledger.record_failed", "slug", slug, "error", err)
	}
}

func partialFailure(failed, total int) error {
	err := fmt.Errorf("%w: %d of %d contacts", ErrPartialFailure, failed, total)
	return goerrors.Wrap(err, goerrors.CategoryExternal, err.Error()).WithTextCode(partialFailureCode)
}
