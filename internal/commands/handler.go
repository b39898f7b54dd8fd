package commands

import (
	"context"
	"maps"
	"time"

	command "github.com/goliatone/go-command"

	"github.com/goliatone/go-crosspost/internal/logging"
	"github.com/goliatone/go-crosspost/pkg/interfaces"
)

// DefaultCommandTimeout bounds a command unless WithTimeout overrides it.
const DefaultCommandTimeout = 5 * time.Minute

// HandlerOption configures a Handler.
type HandlerOption[T command.Message] func(*Handler[T])

// Handler wraps a publishing command with validation, a deadline, structured
// logging and go-errors categorisation. It satisfies command.Commander[T].
type Handler[T command.Message] struct {
	run       command.CommandFunc[T]
	logger    interfaces.Logger
	timeout   time.Duration
	operation string
	fieldsOf  func(T) map[string]any
	reporter  Reporter[T]
}

// NewHandler wraps fn. It panics on a nil fn.
func NewHandler[T command.Message](fn command.CommandFunc[T], opts ...HandlerOption[T]) *Handler[T] {
	if fn == nil {
		panic("commands: handler function cannot be nil")
	}
	h := &Handler[T]{
		run:     fn,
		logger:  logging.NoOp(),
		timeout: DefaultCommandTimeout,
	}
	for _, opt := range opts {
		opt(h)
	}
	if h.reporter == nil {
		h.reporter = LogReporter[T](h.logger)
	}
	return h
}

// Execute validates msg, applies the timeout and runs the wrapped function.
// Returned errors always carry a go-errors category.
func (h *Handler[T]) Execute(ctx context.Context, msg T) error {
	fields := h.fields(msg)

	if err := command.ValidateMessage(msg); err != nil {
		wrapped, outcome := classify(stageValidate, err)
		h.reporter(ctx, msg, h.report(fields, 0, wrapped, outcome))
		return wrapped
	}

	if ctx == nil {
		ctx = context.Background()
	}
	if h.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, h.timeout)
		defer cancel()
	}

	started := time.Now()
	err := ctx.Err()
	if err == nil {
		logging.WithFields(h.logger, fields).Debug("command.started")
		if err = h.run(ctx, msg); err == nil {
			err = ctx.Err()
		}
	}

	wrapped, outcome := classify(stageRun, err)
	h.reporter(ctx, msg, h.report(fields, time.Since(started), wrapped, outcome))
	return wrapped
}

func (h *Handler[T]) fields(msg T) map[string]any {
	fields := map[string]any{"command": command.GetMessageType(msg)}
	if h.operation != "" {
		fields["operation"] = h.operation
	}
	if h.fieldsOf != nil {
		maps.Copy(fields, h.fieldsOf(msg))
	}
	return fields
}

func (h *Handler[T]) report(fields map[string]any, elapsed time.Duration, err error, outcome Outcome) Report {
	return Report{
		Command:   fields["command"].(string),
		Operation: h.operation,
		Fields:    fields,
		Elapsed:   elapsed,
		Err:       err,
		Outcome:   outcome,
	}
}

// WithTimeout overrides the default deadline. Zero or less disables it.
func WithTimeout[T command.Message](timeout time.Duration) HandlerOption[T] {
	return func(h *Handler[T]) {
		h.timeout = max(timeout, 0)
	}
}

// WithLogger sets the logger for execution entries.
func WithLogger[T command.Message](logger interfaces.Logger) HandlerOption[T] {
	return func(h *Handler[T]) {
		if logger != nil {
			h.logger = logger
		}
	}
}

// WithOperation names the operation in every entry.
func WithOperation[T command.Message](operation string) HandlerOption[T] {
	return func(h *Handler[T]) {
		h.operation = operation
	}
}

// WithMessageFields adds message derived fields to every entry.
func WithMessageFields[T command.Message](fn func(T) map[string]any) HandlerOption[T] {
	return func(h *Handler[T]) {
		h.fieldsOf = fn
	}
}

// WithReporter replaces the log reporter.
func WithReporter[T command.Message](reporter Reporter[T]) HandlerOption[T] {
	return func(h *Handler[T]) {
		h.reporter = reporter
	}
}
