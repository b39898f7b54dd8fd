package crosspost

import (
	"context"

	"github.com/goliatone/go-crosspost/internal/commands/publish"
	"github.com/goliatone/go-crosspost/internal/di"
	"github.com/goliatone/go-crosspost/internal/linkedin"
	"github.com/goliatone/go-crosspost/internal/logging"
	"github.com/goliatone/go-crosspost/internal/newsletter"
	"github.com/goliatone/go-crosspost/internal/social"
	"github.com/goliatone/go-crosspost/pkg/interfaces"
)

// SocialService exports the LinkedIn share service.
type SocialService = *social.Service

// NewsletterService exports the newsletter service.
type NewsletterService = *newsletter.Service

// Exporter exports the member snapshot exporter.
type Exporter = *linkedin.Exporter

type (
	ShareSocialCommand    = publishcmd.ShareSocialCommand
	SendNewsletterCommand = publishcmd.SendNewsletterCommand
	ExportLinkedInCommand = publishcmd.ExportLinkedInCommand
)

// Module is the top level publishing facade.
type Module struct {
	container *di.Container
}

// New constructs a module from cfg with optional DI overrides.
func New(cfg Config, opts ...di.Option) (*Module, error) {
	container, err := di.NewContainer(cfg, opts...)
	if err != nil {
		return nil, err
	}
	return &Module{container: container}, nil
}

// Container exposes the underlying DI container for advanced integrations.
func (m *Module) Container() *di.Container {
	return m.container
}

// Config returns the resolved configuration.
func (m *Module) Config() Config {
	return m.container.Config
}

// Logger returns the root module logger.
func (m *Module) Logger() interfaces.Logger {
	return logging.ModuleLogger(m.container.LoggerProvider(), "crosspost")
}

// Social returns the LinkedIn share service.
func (m *Module) Social() SocialService {
	return m.container.SocialService()
}

// Newsletter returns the newsletter service.
func (m *Module) Newsletter() NewsletterService {
	return m.container.NewsletterService()
}

// Exporter returns the member snapshot exporter.
func (m *Module) Exporter() Exporter {
	return m.container.Exporter()
}

// ShareSocial validates the share credentials and runs the share command.
func (m *Module) ShareSocial(ctx context.Context, cmd ShareSocialCommand) error {
	cfg := m.container.Config
	cfg.DryRun = cfg.DryRun || cmd.DryRun
	if err := cfg.ValidateSocial(); err != nil {
		return err
	}
	cmd.DryRun = cfg.DryRun
	logger := logging.SocialLogger(m.container.LoggerProvider())
	return publishcmd.NewShareSocialHandler(m.Social(), logger).Execute(ctx, cmd)
}

// SendNewsletter validates the newsletter credentials and runs the send command.
func (m *Module) SendNewsletter(ctx context.Context, cmd SendNewsletterCommand) error {
	cfg := m.container.Config
	cfg.DryRun = cfg.DryRun || cmd.DryRun
	if err := cfg.ValidateNewsletter(); err != nil {
		return err
	}
	cmd.DryRun = cfg.DryRun
	logger := logging.NewsletterLogger(m.container.LoggerProvider())
	return publishcmd.NewSendNewsletterHandler(m.Newsletter(), logger).Execute(ctx, cmd)
}

// ExportLinkedIn validates the export token and runs the export command.
func (m *Module) ExportLinkedIn(ctx context.Context, cmd ExportLinkedInCommand) error {
	if err := m.container.Config.ValidateExport(); err != nil {
		return err
	}
	logger := logging.ExportLogger(m.container.LoggerProvider())
	return publishcmd.NewExportLinkedInHandler(m.Exporter(), logger).Execute(ctx, cmd)
}

// Close releases resources such as the ledger database.
func (m *Module) Close() error {
	if m == nil || m.container == nil {
		return nil
	}
	return m.container.Close()
}
