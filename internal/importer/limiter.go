package importer

import (
	"context"
	"errors"
	"time"

	"golang.org/x/sync/semaphore"

	pkgerrors "github.com/giggleglory/backoffice/pkg/errors"
)

// Limiter bounds the number of imports running across requests.
type Limiter struct {
	sem  *semaphore.Weighted
	wait time.Duration
}

// NewLimiter allows max concurrent holders; callers queue for at most wait.
func NewLimiter(max int, wait time.Duration) *Limiter {
	if max <= 0 {
		max = 1
	}
	return &Limiter{sem: semaphore.NewWeighted(int64(max)), wait: wait}
}

// Acquire blocks until a slot frees up. The returned func releases it.
func (l *Limiter) Acquire(ctx context.Context) (func(), error) {
	if l == nil {
		return func() {}, nil
	}
	waitCtx := ctx
	if l.wait > 0 {
		var cancel context.CancelFunc
		waitCtx, cancel = context.WithTimeout(ctx, l.wait)
		defer cancel()
	}
	if err := l.sem.Acquire(waitCtx, 1); err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		if errors.Is(err, context.DeadlineExceeded) {
			return nil, pkgerrors.Wrap(pkgerrors.CodeRateLimit, err, "too many imports in progress")
		}
		return nil, err
	}
	return func() { l.sem.Release(1) }, nil
}
