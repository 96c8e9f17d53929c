// Package retry provides a configurable retry mechanism for operations that may fail temporarily.
// It wraps the retry-go package from Avast and exposes a simple interface with functional
// options for customizing retry behavior.
//
// Delays follow an exponential backoff schedule described by a backoff.Policy, so the
// same schedule drives both bounded retries (store writes) and unbounded ones (stream
// reconnects, configured with WithAttempts(0)).
//
// Basic usage:
//
//	r := retry.New()
//	err := r.Execute(ctx, func() error {
//	    return someOperation()
//	})
//
// With custom options:
//
//	r := retry.New(
//	    retry.WithAttempts(5),
//	    retry.WithPolicy(backoff.Policy{Initial: time.Second, Multiplier: 2, Max: 10 * time.Second}),
//	    retry.WithOnRetry(func(attempt uint, err error) { ... }),
//	)
package retry

import (
	"context"
	"time"

	"github.com/gabapcia/txingest/internal/pkg/resilience/backoff"

	retry "github.com/avast/retry-go/v4"
)

// Retry defines the interface for retry operations.
type Retry interface {
	// Execute runs the given function with configured retry logic.
	//
	// The context allows for cancellation. If the context is canceled while
	// waiting between attempts, Execute stops and returns the context error.
	//
	// The operation should be idempotent and return nil on success. Wrapping an
	// error with Permanent stops retrying immediately.
	Execute(ctx context.Context, operation func() error) error
}

// config holds internal settings for the retry mechanism.
type config struct {
	attempts    uint                          // maximum number of attempts, 0 means unlimited
	policy      backoff.Policy                // delay schedule between attempts
	lastErrOnly bool                          // whether to return only the last error
	onRetry     func(attempt uint, err error) // invoked after each failed attempt
}

// Option defines a functional option for configuring the retry mechanism.
type Option func(*config)

// retrier implements the Retry interface using the retry-go package.
type retrier struct {
	cfg config
}

// Compile-time assertion that retrier implements Retry interface
var _ Retry = (*retrier)(nil)

// New creates and returns a Retry implementation configured with
// the provided options.
//
// Default configuration:
//   - attempts:    3 (1 initial attempt + 2 retries)
//   - policy:      backoff.Default()
//   - lastErrOnly: true
func New(opts ...Option) Retry {
	cfg := config{
		attempts:    3,
		policy:      backoff.Default(),
		lastErrOnly: true,
	}
	for _, opt := range opts {
		opt(&cfg)
	}

	return &retrier{
		cfg: cfg,
	}
}

// delay adapts the backoff policy to retry-go's DelayTypeFunc.
func (r *retrier) delay(n uint, _ error, _ *retry.Config) time.Duration {
	return r.cfg.policy.Next(n)
}

// Execute implements the Retry interface.
func (r *retrier) Execute(ctx context.Context, operation func() error) error {
	options := []retry.Option{
		retry.Attempts(r.cfg.attempts),
		retry.DelayType(r.delay),
		retry.LastErrorOnly(r.cfg.lastErrOnly),
		retry.Context(ctx),
	}

	if r.cfg.policy.Max > 0 {
		options = append(options, retry.MaxDelay(r.cfg.policy.Max))
	}

	if r.cfg.onRetry != nil {
		options = append(options, retry.OnRetry(retry.OnRetryFunc(r.cfg.onRetry)))
	}

	return retry.Do(operation, options...)
}

// Permanent marks err as non-retryable: Execute returns it without further attempts.
func Permanent(err error) error {
	return retry.Unrecoverable(err)
}

// WithAttempts sets the maximum number of attempts (including the initial attempt).
// Zero means retry until the operation succeeds or the context is done.
// Default: 3.
func WithAttempts(n uint) Option {
	return func(c *config) {
		c.attempts = n
	}
}

// WithPolicy sets the backoff schedule used between attempts.
// Default: backoff.Default().
func WithPolicy(p backoff.Policy) Option {
	return func(c *config) {
		c.policy = p
	}
}

// WithLastErrorOnly sets whether to return only the last error.
// When false, all errors from all attempts are combined.
// Default: true.
func WithLastErrorOnly(b bool) Option {
	return func(c *config) {
		c.lastErrOnly = b
	}
}

// WithOnRetry registers a callback invoked after every failed attempt with its
// zero-based index and error.
func WithOnRetry(f func(attempt uint, err error)) Option {
	return func(c *config) {
		c.onRetry = f
	}
}
