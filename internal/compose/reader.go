package compose

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/JakeFAU/dealsite-ssr/internal/backend"
	"github.com/JakeFAU/dealsite-ssr/internal/metrics"
)

// errPanic marks a backend read that panicked.
var errPanic = errors.New("backend read panicked")

// reader issues single backend reads with a deadline and degrades every failure to an
// empty result. It never returns an error.
type reader struct {
	backend backend.Backend
	timeout time.Duration
	logger  *zap.Logger
}

func (r *reader) list(ctx context.Context, slice string, kind backend.Kind, q backend.Query) []backend.Record {
	start := time.Now()
	records, err := bounded(ctx, r.timeout, func(ctx context.Context) ([]backend.Record, error) {
		return r.backend.List(ctx, kind, q)
	})
	if r.observe(slice, kind, start, err) {
		return nil
	}
	return records
}

type lookup struct {
	record backend.Record
	found  bool
}

func (r *reader) get(ctx context.Context, slice string, kind backend.Kind, field string, value any) (backend.Record, bool) {
	start := time.Now()
	res, err := bounded(ctx, r.timeout, func(ctx context.Context) (lookup, error) {
		rec, found, err := r.backend.GetByKey(ctx, kind, field, value)
		return lookup{record: rec, found: found}, err
	})
	if r.observe(slice, kind, start, err) || !res.found {
		return nil, false
	}
	return res.record, true
}

// observe records the outcome of a read and reports whether it failed.
func (r *reader) observe(slice string, kind backend.Kind, start time.Time, err error) bool {
	metrics.ObserveSliceRead(slice, time.Since(start), err)
	if err == nil {
		return false
	}
	r.logger.Warn("slice read failed",
		zap.String("slice", slice),
		zap.String("kind", string(kind)),
		zap.Error(err),
	)
	return true
}

// bounded runs fn under a deadline. A read that ignores cancellation is abandoned once the
// deadline passes; its eventual result is discarded.
func bounded[T any](ctx context.Context, timeout time.Duration, fn func(context.Context) (T, error)) (T, error) {
	if timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	type result struct {
		value T
		err   error
	}
	done := make(chan result, 1)
	go func() {
		var res result
		defer func() {
			if p := recover(); p != nil {
				res.err = fmt.Errorf("%w: %v", errPanic, p)
			}
			done <- res
		}()
		res.value, res.err = fn(ctx)
	}()

	select {
	case res := <-done:
		return res.value, res.err
	case <-ctx.Done():
		var zero T
		return zero, fmt.Errorf("read abandoned: %w", ctx.Err())
	}
}
