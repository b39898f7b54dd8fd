package commands

import (
	"context"
	"time"

	command "github.com/goliatone/go-command"

	"github.com/goliatone/go-crosspost/internal/logging"
	"github.com/goliatone/go-crosspost/pkg/interfaces"
)

// Outcome classifies how a publishing command ended.
type Outcome string

const (
	OutcomeDone        Outcome = "done"
	OutcomeFailed      Outcome = "failed"
	OutcomeInterrupted Outcome = "interrupted"
)

// Report is handed to a Reporter once per execution.
type Report struct {
	Command   string
	Operation string
	Fields    map[string]any
	Elapsed   time.Duration
	Err       error
	Outcome   Outcome
}

// Reporter observes command outcomes. The default logs them.
type Reporter[T command.Message] func(ctx context.Context, msg T, report Report)

// LogReporter writes one entry per outcome, at error level for failures.
func LogReporter[T command.Message](logger interfaces.Logger) Reporter[T] {
	if logger == nil {
		logger = logging.NoOp()
	}
	return func(_ context.Context, _ T, report Report) {
		entry := logging.WithFields(logger, report.Fields)
		args := []any{"outcome", string(report.Outcome), "elapsed_ms", report.Elapsed.Milliseconds()}
		if report.Outcome == OutcomeDone {
			entry.Info("command.finished", args...)
			return
		}
		entry.Error("command.finished", append(args, "error", report.Err)...)
	}
}
