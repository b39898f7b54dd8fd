package commands

import (
	"context"
	"errors"

	goerrors "github.com/goliatone/go-errors"
)

type stage int

const (
	stageValidate stage = iota
	stageRun
)

// classify attaches a go-errors category to err. Errors that are already
// categorised, such as configuration, not found or partial failures, keep
// their category.
func classify(s stage, err error) (error, Outcome) {
	if err == nil {
		return nil, OutcomeDone
	}
	interrupted := errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded)
	outcome := OutcomeFailed
	if interrupted {
		outcome = OutcomeInterrupted
	}
	if goerrors.IsWrapped(err) {
		return err, outcome
	}

	switch {
	case errors.Is(err, context.Canceled):
		return goerrors.Wrap(err, goerrors.CategoryCommand, "command cancelled").
			WithTextCode("COMMAND_CANCELLED"), outcome
	case errors.Is(err, context.DeadlineExceeded):
		return goerrors.Wrap(err, goerrors.CategoryCommand, "command timed out").
			WithTextCode("COMMAND_TIMEOUT"), outcome
	case s == stageValidate:
		return goerrors.Wrap(err, goerrors.CategoryValidation, "command rejected").
			WithTextCode("COMMAND_INVALID"), outcome
	default:
		return goerrors.Wrap(err, goerrors.CategoryCommand, "command failed").
			WithTextCode("COMMAND_FAILED"), outcome
	}
}
