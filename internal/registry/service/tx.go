package service

import (
	"context"
	"errors"
	"time"

	dErrors "vaxcert/pkg/domain-errors"
)

// defaultTxTimeout bounds one registry call when the caller set no deadline.
const defaultTxTimeout = 5 * time.Second

type TxOption func(*storeTx)

// WithTxTimeout overrides the default per-call deadline. Non-positive values are ignored.
func WithTxTimeout(timeout time.Duration) TxOption {
	return func(t *storeTx) {
		if timeout > 0 {
			t.timeout = timeout
		}
	}
}

// NewStoreTx adapts a backend runner, typed to its own transaction view, to
// StoreTx. It applies the call deadline and translates errors that escape the
// backend into domain errors.
func NewStoreTx[S Store](run func(ctx context.Context, fn func(ctx context.Context, txn S) error) error, opts ...TxOption) StoreTx {
	t := &storeTx{timeout: defaultTxTimeout}
	t.run = func(ctx context.Context, fn func(ctx context.Context, store Store) error) error {
		return run(ctx, func(ctx context.Context, txn S) error {
			return fn(ctx, txn)
		})
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

type storeTx struct {
	run     func(ctx context.Context, fn func(ctx context.Context, store Store) error) error
	timeout time.Duration
}

func (t *storeTx) RunInTx(ctx context.Context, fn func(ctx context.Context, store Store) error) error {
	if err := ctx.Err(); err != nil {
		return dErrors.Wrap(err, dErrors.CodeTimeout, "transaction aborted: context cancelled")
	}

	if _, hasDeadline := ctx.Deadline(); !hasDeadline {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, t.timeout)
		defer cancel()
	}

	err := t.run(ctx, func(ctx context.Context, store Store) error {
		// Checked again once the backend lock is held.
		if err := ctx.Err(); err != nil {
			return dErrors.Wrap(err, dErrors.CodeTimeout, "transaction aborted: context cancelled")
		}
		return fn(ctx, store)
	})
	if err == nil {
		return nil
	}

	var de *dErrors.Error
	switch {
	case errors.As(err, &de):
		return err
	case errors.Is(err, context.DeadlineExceeded), errors.Is(err, context.Canceled):
		return dErrors.Wrap(err, dErrors.CodeTimeout, "registry transaction timed out")
	default:
		return dErrors.Wrap(err, dErrors.CodeInternal, "registry store failure")
	}
}
