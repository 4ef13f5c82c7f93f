package viewstate

import (
	"context"
	"errors"
	"time"

	"github.com/cenkalti/backoff/v5"
)

// Policy bounds how often a remote call is attempted.
type Policy struct {
	Attempts uint
	// Base is multiplied by the attempt number between tries: 1x, 2x, 3x...
	Base time.Duration
	// Retryable decides whether an error is worth another attempt.
	// Nil retries everything except context errors.
	Retryable func(error) bool
	// OnRetry is told about every failed attempt that will be retried.
	OnRetry func(err error, wait time.Duration)
}

// ReadPolicy is used for idempotent list and detail fetches.
func ReadPolicy(base time.Duration, retryable func(error) bool) Policy {
	return Policy{Attempts: 3, Base: base, Retryable: retryable}
}

// WritePolicy is used for create, update and delete calls.
func WritePolicy(base time.Duration, retryable func(error) bool) Policy {
	return Policy{Attempts: 2, Base: base, Retryable: retryable}
}

// SubReadPolicy is used for each half of a selection load.
func SubReadPolicy(base time.Duration, retryable func(error) bool) Policy {
	return Policy{Attempts: 2, Base: base, Retryable: retryable}
}

type linearBackOff struct {
	base time.Duration
	n    int
}

func (b *linearBackOff) NextBackOff() time.Duration {
	b.n++
	return time.Duration(b.n) * b.base
}

func (b *linearBackOff) Reset() { b.n = 0 }

// Do runs op under the policy and returns the last result.
func Do[T any](ctx context.Context, p Policy, op func(ctx context.Context) (T, error)) (T, error) {
	attempts := p.Attempts
	if attempts == 0 {
		attempts = 1
	}
	opts := []backoff.RetryOption{
		backoff.WithBackOff(&linearBackOff{base: p.Base}),
		backoff.WithMaxTries(attempts),
	}
	if p.OnRetry != nil {
		opts = append(opts, backoff.WithNotify(p.OnRetry))
	}
	v, err := backoff.Retry(ctx, func() (T, error) {
		v, err := op(ctx)
		if err != nil && !p.retryable(err) {
			return v, backoff.Permanent(err)
		}
		return v, err
	}, opts...)
	// the last attempt hands back the permanent wrapper as is
	var perm *backoff.PermanentError
	if errors.As(err, &perm) {
		err = perm.Unwrap()
	}
	return v, err
}

func (p Policy) retryable(err error) bool {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}
	if p.Retryable == nil {
		return true
	}
	return p.Retryable(err)
}
