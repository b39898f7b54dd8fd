package commands

import (
	"context"
	"errors"
	"testing"
	"time"

	goerrors "github.com/goliatone/go-errors"
)

type testMessage struct {
	Slug string
}

func (testMessage) Type() string { return "crosspost.test.message" }

func (testMessage) Validate() error { return nil }

type invalidMessage struct{}

func (invalidMessage) Type() string { return "crosspost.test.invalid" }

func (invalidMessage) Validate() error {
	return errors.New("invalid")
}

func TestHandlerExecuteSuccess(t *testing.T) {
	called := false
	h := NewHandler[testMessage](func(ctx context.Context, msg testMessage) error {
		called = true
		return nil
	})

	if err := h.Execute(context.Background(), testMessage{}); err != nil {
		t.Fatalf("expected nil error, got %v", err)
	}
	if !called {
		t.Fatal("expected handler to be invoked")
	}
}

func TestHandlerValidationShortCircuitsExecution(t *testing.T) {
	called := false
	h := NewHandler[invalidMessage](func(ctx context.Context, msg invalidMessage) error {
		called = true
		return nil
	})

	err := h.Execute(context.Background(), invalidMessage{})
	if err == nil {
		t.Fatal("expected validation error")
	}
	if !goerrors.IsCategory(err, goerrors.CategoryValidation) {
		t.Fatalf("expected validation category, got %v", err)
	}
	if called {
		t.Fatal("expected handler not to run when validation fails")
	}
}

func TestHandlerContextCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	called := false
	h := NewHandler[testMessage](func(ctx context.Context, msg testMessage) error {
		called = true
		return nil
	})

	err := h.Execute(ctx, testMessage{})
	if !goerrors.IsCategory(err, goerrors.CategoryCommand) {
		t.Fatalf("expected command category, got %v", err)
	}
	if called {
		t.Fatal("expected handler not to run when context is cancelled")
	}
}

func TestHandlerWrapsExecutionError(t *testing.T) {
	h := NewHandler[testMessage](func(ctx context.Context, msg testMessage) error {
		return errors.New("boom")
	})

	err := h.Execute(context.Background(), testMessage{})
	if !goerrors.IsCategory(err, goerrors.CategoryCommand) {
		t.Fatalf("expected command category, got %v", err)
	}
}

func TestHandlerKeepsCategorisedErrors(t *testing.T) {
	notFound := goerrors.Wrap(errors.New("missing"), goerrors.CategoryNotFound, "post not found")
	h := NewHandler[testMessage](func(ctx context.Context, msg testMessage) error {
		return notFound
	})

	err := h.Execute(context.Background(), testMessage{})
	if !goerrors.IsCategory(err, goerrors.CategoryNotFound) {
		t.Fatalf("expected not found category to survive, got %v", err)
	}
}

func TestHandlerHonoursTimeoutOption(t *testing.T) {
	h := NewHandler[testMessage](func(ctx context.Context, msg testMessage) error {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(200 * time.Millisecond):
			return nil
		}
	}, WithTimeout[testMessage](10*time.Millisecond))

	err := h.Execute(context.Background(), testMessage{})
	if !goerrors.IsCategory(err, goerrors.CategoryCommand) {
		t.Fatalf("expected command category for timeout, got %v", err)
	}
}

func TestHandlerZeroTimeoutHasNoDeadline(t *testing.T) {
	h := NewHandler[testMessage](func(ctx context.Context, msg testMessage) error {
		if _, ok := ctx.Deadline(); ok {
			return errors.New("unexpected deadline")
		}
		return nil
	}, WithTimeout[testMessage](0))

	if err := h.Execute(context.Background(), testMessage{}); err != nil {
		t.Fatalf("expected no deadline, got %v", err)
	}
}

func TestHandlerReporterReceivesFields(t *testing.T) {
	var got Report
	h := NewHandler[testMessage](func(ctx context.Context, msg testMessage) error {
		return nil
	},
		WithOperation[testMessage]("social.share"),
		WithMessageFields(func(msg testMessage) map[string]any {
			return map[string]any{"slug": msg.Slug}
		}),
		WithReporter(func(_ context.Context, _ testMessage, report Report) {
			got = report
		}),
	)

	if err := h.Execute(context.Background(), testMessage{Slug: "azure-review"}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.Outcome != OutcomeDone {
		t.Fatalf("expected done outcome, got %s", got.Outcome)
	}
	if got.Command != "crosspost.test.message" || got.Operation != "social.share" {
		t.Fatalf("unexpected report %+v", got)
	}
	if got.Fields["slug"] != "azure-review" {
		t.Fatalf("expected message fields, got %v", got.Fields)
	}
}

func TestHandlerReporterOutcomes(t *testing.T) {
	cases := []struct {
		name string
		err  error
		want Outcome
	}{
		{name: "failure", err: errors.New("boom"), want: OutcomeFailed},
		{name: "cancelled", err: context.Canceled, want: OutcomeInterrupted},
		{name: "categorised", err: goerrors.Wrap(errors.New("x"), goerrors.CategoryNotFound, "post not found"), want: OutcomeFailed},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			var got Outcome
			h := NewHandler[testMessage](func(ctx context.Context, msg testMessage) error {
				return tc.err
			}, WithReporter(func(_ context.Context, _ testMessage, report Report) {
				got = report.Outcome
			}))

			_ = h.Execute(context.Background(), testMessage{})
			if got != tc.want {
				t.Fatalf("expected %s, got %s", tc.want, got)
			}
		})
	}
}

func TestHandlerReportsRejectedMessages(t *testing.T) {
	var got Report
	h := NewHandler[invalidMessage](func(ctx context.Context, msg invalidMessage) error {
		return nil
	}, WithReporter(func(_ context.Context, _ invalidMessage, report Report) {
		got = report
	}))

	_ = h.Execute(context.Background(), invalidMessage{})
	if got.Outcome != OutcomeFailed || got.Command != "crosspost.test.invalid" {
		t.Fatalf("unexpected report %+v", got)
	}
}
