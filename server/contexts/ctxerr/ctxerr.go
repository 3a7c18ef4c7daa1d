// Package ctxerr provides functions to wrap errors with annotations and
// stack traces, and to report those errors once they reach the top of the
// call stack.
//
// Typical uses of this package should be to call New or Wrap[f] as close as
// possible from where the error is encountered (or where it needs to be
// created for New), and then to call Handle with the error only once, after it
// bubbled back to the top of the call stack (e.g. in the CLI command). It is
// fine to wrap the error with more annotations along the way, by calling
// Wrap[f].
package ctxerr

import (
	"context"
	"time"

	kitlog "github.com/go-kit/log"
	"github.com/go-kit/log/level"
	"github.com/pkg/errors"
	"github.com/rotisserie/eris"
)

type key int

const errHandlerKey key = 0

// NewContext returns a context derived from ctx that reports handled errors
// to the provided logger.
func NewContext(ctx context.Context, logger kitlog.Logger) context.Context {
	return context.WithValue(ctx, errHandlerKey, logger)
}

func fromContext(ctx context.Context) kitlog.Logger {
	v, _ := ctx.Value(errHandlerKey).(kitlog.Logger)
	return v
}

// New creates a new error with the provided error message.
func New(ctx context.Context, errMsg string) error {
	return ensureCommonMetadata(ctx, errors.New(errMsg))
}

// Errorf creates a new error with the formatted message.
func Errorf(ctx context.Context, fmsg string, args ...interface{}) error {
	return ensureCommonMetadata(ctx, errors.Errorf(fmsg, args...))
}

// Wrap annotates err with the provided message.
func Wrap(ctx context.Context, err error, msg string) error {
	if err == nil {
		return nil
	}
	err = ensureCommonMetadata(ctx, err)
	// do not wrap with eris.Wrap, as we want only the root error closest to the
	// actual error condition to capture the stack trace, others just wrap using
	// pkg/errors.
	return errors.Wrap(err, msg)
}

// Wrapf annotates err with the provided formatted message.
func Wrapf(ctx context.Context, err error, fmsg string, args ...interface{}) error {
	if err == nil {
		return nil
	}
	err = ensureCommonMetadata(ctx, err)
	return errors.Wrapf(err, fmsg, args...)
}

// Cause returns the root error in err's chain.
func Cause(err error) error {
	for {
		next := errors.Unwrap(err)
		if next == nil {
			return err
		}
		err = next
	}
}

// Handle reports err to the logger registered in ctx, along with the stack
// trace captured when the error was first wrapped. It returns err unchanged.
func Handle(ctx context.Context, err error) error {
	if err == nil {
		return nil
	}
	if logger := fromContext(ctx); logger != nil {
		level.Error(logger).Log(
			"err", err,
			"cause", Cause(err),
			"stack", eris.ToString(err, true),
		)
	}
	return err
}

func ensureCommonMetadata(ctx context.Context, err error) error {
	var sf interface{ StackFrames() []uintptr }
	if err != nil && !errors.As(err, &sf) {
		// no eris error nowhere in the chain, add the common metadata with the stack trace
		err = eris.Wrapf(err, "timestamp: %s", time.Now().Format(time.RFC3339))
	}
	return err
}
