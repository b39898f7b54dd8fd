package logging

import (
	"context"
	"maps"
	"strings"

	"github.com/goliatone/go-crosspost/pkg/interfaces"
)

const rootModule = "crosspost"

// Stage loggers. Each requests "crosspost.<stage>" from the provider and
// tags entries with a module field.
var (
	PostsLogger      = stage("posts")
	SocialLogger     = stage("social")
	NewsletterLogger = stage("newsletter")
	LinkedInLogger   = stage("linkedin")
	ExportLogger     = stage("export")
	LedgerLogger     = stage("ledger")
)

func stage(name string) func(interfaces.LoggerProvider) interfaces.Logger {
	module := rootModule + "." + name
	return func(provider interfaces.LoggerProvider) interfaces.Logger {
		return ModuleLogger(provider, module)
	}
}

// ModuleLogger asks provider for the named logger and tags it with the
// module. A nil provider, or one returning nil, yields NoOp. An empty name
// means the root module.
func ModuleLogger(provider interfaces.LoggerProvider, module string) interfaces.Logger {
	if module = strings.TrimSpace(module); module == "" {
		module = rootModule
	}
	var logger interfaces.Logger
	if provider != nil {
		logger = provider.GetLogger(module)
	}
	if logger == nil {
		return NoOp()
	}
	return WithFields(logger, map[string]any{"module": module})
}

// WithFields returns logger with a copy of fields attached. Loggers without
// FieldsLogger support come back unchanged.
func WithFields(logger interfaces.Logger, fields map[string]any) interfaces.Logger {
	fl, ok := logger.(interfaces.FieldsLogger)
	if !ok || len(fields) == 0 {
		return logger
	}
	return fl.WithFields(maps.Clone(fields))
}

// ProviderWithFields wraps provider so every logger it hands out carries
// fields, for example the run_id shared by one CLI invocation.
func ProviderWithFields(provider interfaces.LoggerProvider, fields map[string]any) interfaces.LoggerProvider {
	if provider == nil || len(fields) == 0 {
		return provider
	}
	return fieldsProvider{inner: provider, fields: maps.Clone(fields)}
}

type fieldsProvider struct {
	inner  interfaces.LoggerProvider
	fields map[string]any
}

func (p fieldsProvider) GetLogger(name string) interfaces.Logger {
	logger := p.inner.GetLogger(name)
	if logger == nil {
		return nil
	}
	return WithFields(logger, p.fields)
}

// WithPostContext tags entries about a single post. Blank values are left out.
func WithPostContext(logger interfaces.Logger, path, slug string, channel interfaces.Channel) interfaces.Logger {
	fields := make(map[string]any, 3)
	for key, value := range map[string]string{
		"post_path": path,
		"slug":      slug,
		"channel":   string(channel),
	} {
		if value = strings.TrimSpace(value); value != "" {
			fields[key] = value
		}
	}
	return WithFields(logger, fields)
}

// NoOp returns a logger that drops every entry.
func NoOp() interfaces.Logger {
	return discard{}
}

type discard struct{}

func (discard) Trace(string, ...any)                            {}
func (discard) Debug(string, ...any)                            {}
func (discard) Info(string, ...any)                             {}
func (discard) Warn(string, ...any)                             {}
func (discard) Error(string, ...any)                            {}
func (discard) Fatal(string, ...any)                            {}
func (d discard) WithFields(map[string]any) interfaces.Logger   { return d }
func (d discard) WithContext(context.Context) interfaces.Logger { return d }
