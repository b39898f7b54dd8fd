package publishcmd

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	command "github.com/goliatone/go-command"
	goerrors "github.com/goliatone/go-errors"

	"github.com/goliatone/go-crosspost/internal/commands"
	"github.com/goliatone/go-crosspost/internal/linkedin"
	"github.com/goliatone/go-crosspost/internal/logging"
	"github.com/goliatone/go-crosspost/internal/newsletter"
	"github.com/goliatone/go-crosspost/internal/social"
	"github.com/goliatone/go-crosspost/pkg/interfaces"
)

const (
	shareOperation      = "social.share"
	newsletterOperation = "newsletter.send"
	exportOperation     = "linkedin.export"

	exportIncompleteCode = "PARTIAL_FAILURE"
)

// ErrExportIncomplete is returned when at least one snapshot domain failed.
var ErrExportIncomplete = errors.New("linkedin export: one or more domains failed")

var (
	_ command.Commander[ShareSocialCommand]    = (*ShareSocialHandler)(nil)
	_ command.Commander[SendNewsletterCommand] = (*SendNewsletterHandler)(nil)
	_ command.Commander[ExportLinkedInCommand] = (*ExportLinkedInHandler)(nil)
)

// SocialRunner runs a social share.
type SocialRunner interface {
	Run(ctx context.Context, req social.Request) (*social.Summary, error)
}

// NewsletterRunner runs a newsletter send.
type NewsletterRunner interface {
	Run(ctx context.Context, req newsletter.Request) (*newsletter.Summary, error)
}

// Exporter writes snapshot domains.
type Exporter interface {
	Export(ctx context.Context, domains []linkedin.Domain) (*linkedin.ExportResult, error)
}

// ShareSocialHandler executes ShareSocialCommand.
type ShareSocialHandler struct {
	inner *commands.Handler[ShareSocialCommand]
}

// NewShareSocialHandler binds the handler to a social service.
func NewShareSocialHandler(service SocialRunner, logger interfaces.Logger, opts ...commands.HandlerOption[ShareSocialCommand]) *ShareSocialHandler {
	baseLogger := ensureLogger(logger)

	exec := func(ctx context.Context, msg ShareSocialCommand) error {
		summary, err := service.Run(ctx, social.Request{
			Slug:       msg.Slug,
			CustomText: msg.CustomText,
			DryRun:     msg.DryRun,
		})
		if summary != nil {
			logging.WithFields(baseLogger, map[string]any{
				"selected": summary.Selected,
				"shared":   summary.Shared,
				"skipped":  summary.Skipped,
				"failed":   summary.Failed,
				"dry_run":  msg.DryRun,
			}).Info("social.command.share.completed")
		}
		return err
	}

	handlerOpts := []commands.HandlerOption[ShareSocialCommand]{
		commands.WithLogger[ShareSocialCommand](baseLogger),
		commands.WithOperation[ShareSocialCommand](shareOperation),
		commands.WithMessageFields(func(msg ShareSocialCommand) map[string]any {
			fields := map[string]any{"mode": "auto"}
			if msg.Slug != "" {
				fields["mode"] = "manual"
				fields["slug"] = msg.Slug
			}
			if msg.CustomText != "" {
				fields["custom_text"] = true
			}
			if msg.DryRun {
				fields["dry_run"] = true
			}
			return fields
		}),
	}
	handlerOpts = append(handlerOpts, opts...)

	return &ShareSocialHandler{inner: commands.NewHandler(exec, handlerOpts...)}
}

// Execute satisfies command.Commander[ShareSocialCommand].
func (h *ShareSocialHandler) Execute(ctx context.Context, msg ShareSocialCommand) error {
	return h.inner.Execute(ctx, msg)
}

// SendNewsletterHandler executes SendNewsletterCommand. It runs without a
// deadline by default because large lists take minutes at the API rate.
type SendNewsletterHandler struct {
	inner *commands.Handler[SendNewsletterCommand]
}

// NewSendNewsletterHandler binds the handler to a newsletter service.
func NewSendNewsletterHandler(service NewsletterRunner, logger interfaces.Logger, opts ...commands.HandlerOption[SendNewsletterCommand]) *SendNewsletterHandler {
	baseLogger := ensureLogger(logger)

	exec := func(ctx context.Context, msg SendNewsletterCommand) error {
		summary, err := service.Run(ctx, newsletter.Request{Slug: msg.Slug, DryRun: msg.DryRun})
		if summary != nil {
			logging.WithFields(baseLogger, map[string]any{
				"slug":     summary.Slug,
				"contacts": summary.Contacts,
				"sent":     summary.Sent,
				"errors":   summary.Errors,
				"dry_run":  msg.DryRun,
			}).Info("newsletter.command.send.completed")
		}
		return err
	}

	handlerOpts := []commands.HandlerOption[SendNewsletterCommand]{
		commands.WithLogger[SendNewsletterCommand](baseLogger),
		commands.WithOperation[SendNewsletterCommand](newsletterOperation),
		commands.WithTimeout[SendNewsletterCommand](0),
		commands.WithMessageFields(func(msg SendNewsletterCommand) map[string]any {
			fields := map[string]any{}
			if msg.Slug != "" {
				fields["slug"] = msg.Slug
			}
			if msg.DryRun {
				fields["dry_run"] = true
			}
			return fields
		}),
	}
	handlerOpts = append(handlerOpts, opts...)

	return &SendNewsletterHandler{inner: commands.NewHandler(exec, handlerOpts...)}
}

// Execute satisfies command.Commander[SendNewsletterCommand].
func (h *SendNewsletterHandler) Execute(ctx context.Context, msg SendNewsletterCommand) error {
	return h.inner.Execute(ctx, msg)
}

// ExportLinkedInHandler executes ExportLinkedInCommand.
type ExportLinkedInHandler struct {
	inner *commands.Handler[ExportLinkedInCommand]
}

// NewExportLinkedInHandler binds the handler to an exporter.
func NewExportLinkedInHandler(exporter Exporter, logger interfaces.Logger, opts ...commands.HandlerOption[ExportLinkedInCommand]) *ExportLinkedInHandler {
	baseLogger := ensureLogger(logger)

	exec := func(ctx context.Context, msg ExportLinkedInCommand) error {
		domains := make([]linkedin.Domain, 0, len(msg.Domains))
		for _, name := range msg.Domains {
			if domain, ok := lookupDomain(name); ok {
				domains = append(domains, domain)
			}
		}

		result, err := exporter.Export(ctx, domains)
		if err != nil {
			return err
		}
		if len(result.Failed) > 0 {
			return exportIncomplete(result.Failed)
		}
		return nil
	}

	handlerOpts := []commands.HandlerOption[ExportLinkedInCommand]{
		commands.WithLogger[ExportLinkedInCommand](baseLogger),
		commands.WithOperation[ExportLinkedInCommand](exportOperation),
		commands.WithTimeout[ExportLinkedInCommand](0),
		commands.WithMessageFields(func(msg ExportLinkedInCommand) map[string]any {
			if len(msg.Domains) == 0 {
				return nil
			}
			return map[string]any{"domains": strings.Join(msg.Domains, ",")}
		}),
	}
	handlerOpts = append(handlerOpts, opts...)

	return &ExportLinkedInHandler{inner: commands.NewHandler(exec, handlerOpts...)}
}

// Execute satisfies command.Commander[ExportLinkedInCommand].
func (h *ExportLinkedInHandler) Execute(ctx context.Context, msg ExportLinkedInCommand) error {
	return h.inner.Execute(ctx, msg)
}

func exportIncomplete(failed map[string]error) error {
	names := make([]string, 0, len(failed))
	for name := range failed {
		names = append(names, name)
	}
	sort.Strings(names)
	err := fmt.Errorf("%w: %s", ErrExportIncomplete, strings.Join(names, ", "))
	return goerrors.Wrap(err, goerrors.CategoryExternal, err.Error()).WithTextCode(exportIncompleteCode)
}

func ensureLogger(logger interfaces.Logger) interfaces.Logger {
	if logger == nil {
		return logging.NoOp()
	}
	return logger
}
