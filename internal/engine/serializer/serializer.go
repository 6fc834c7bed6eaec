// Package serializer guarantees that at most one gren compiler invocation runs at a time.
package serializer

import (
	"context"
	"errors"
	"time"

	"go.trai.ch/vgren/internal/core/domain"
	"go.trai.ch/zerr"
	"golang.org/x/sync/semaphore"
)

// Serializer is a process-wide exclusive lock around compiler invocations.
// Waiters are granted the lock in the order they asked for it.
type Serializer struct {
	sem            *semaphore.Weighted
	lockTimeout    time.Duration
	compileTimeout time.Duration
}

// Option configures a Serializer.
type Option func(*Serializer)

// WithLockTimeout bounds how long a caller waits for the lock. Zero waits forever.
func WithLockTimeout(d time.Duration) Option {
	return func(s *Serializer) {
		s.lockTimeout = d
	}
}

// WithCompileTimeout bounds how long the body may run while holding the lock. Zero is unbounded.
func WithCompileTimeout(d time.Duration) Option {
	return func(s *Serializer) {
		s.compileTimeout = d
	}
}

// New creates a Serializer.
func New(opts ...Option) *Serializer {
	s := &Serializer{sem: semaphore.NewWeighted(1)}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// WithLock acquires the lock, runs body and releases the lock on every exit path
// before returning body's result.
//
// Waiting longer than the lock timeout yields domain.ErrLockTimeout. When a compile
// timeout is set, body receives a context with that deadline and a body failing after
// the deadline passed yields domain.ErrCompileTimeout.
func WithLock[T any](ctx context.Context, s *Serializer, body func(context.Context) (T, error)) (T, error) {
	var zero T

	if err := s.acquire(ctx); err != nil {
		return zero, err
	}
	defer s.sem.Release(1)

	bodyCtx := ctx
	if s.compileTimeout > 0 {
		var cancel context.CancelFunc
		bodyCtx, cancel = context.WithTimeout(ctx, s.compileTimeout)
		defer cancel()
	}

	result, err := body(bodyCtx)
	if err != nil && errors.Is(bodyCtx.Err(), context.DeadlineExceeded) && ctx.Err() == nil {
		return zero, errors.Join(
			domain.ErrCompileTimeout,
			zerr.With(zerr.Wrap(err, "compiler did not finish in time"), "timeout", s.compileTimeout.String()),
		)
	}
	return result, err
}

func (s *Serializer) acquire(ctx context.Context) error {
	waitCtx := ctx
	if s.lockTimeout > 0 {
		var cancel context.CancelFunc
		waitCtx, cancel = context.WithTimeout(ctx, s.lockTimeout)
		defer cancel()
	}

	if err := s.sem.Acquire(waitCtx, 1); err != nil {
		if ctx.Err() == nil && errors.Is(err, context.DeadlineExceeded) {
			return errors.Join(
				domain.ErrLockTimeout,
				zerr.With(zerr.Wrap(err, "another compilation holds the lock"), "timeout", s.lockTimeout.String()),
			)
		}
		return zerr.Wrap(err, "compile lock wait aborted")
	}
	return nil
}
