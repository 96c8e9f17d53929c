// Package http provides an HTTP client with retry logic for outbound calls
// such as webhooks. It wraps the retryablehttp.Client from HashiCorp; waits
// between retries follow a backoff.Policy.
package http

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/gabapcia/txingest/internal/pkg/resilience/backoff"

	"github.com/hashicorp/go-retryablehttp"
)

// ErrUnexpectedStatus is returned by PostJSON for non-2xx responses.
var ErrUnexpectedStatus = errors.New("unexpected response status")

// config holds internal settings for the HTTP client.
type config struct {
	timeout  time.Duration  // maximum duration for a single HTTP request
	policy   backoff.Policy // delay schedule between attempts
	retryMax int            // maximum number of retry attempts
}

// Option defines a functional option for configuring the HTTP client.
type Option func(*config)

// NewClient creates and returns a retryablehttp.Client configured with
// the provided options. If no options are given, default values are used:
//
//   - timeout:  5 seconds
//   - policy:   1s initial delay doubling up to 5s, 20% jitter
//   - retryMax: 2 retries
func NewClient(opts ...Option) *retryablehttp.Client {
	cfg := config{
		timeout:  5 * time.Second,
		policy:   backoff.Policy{Initial: time.Second, Multiplier: 2, Jitter: 0.2, Max: 5 * time.Second},
		retryMax: 2,
	}
	for _, opt := range opts {
		opt(&cfg)
	}

	client := retryablehttp.NewClient()
	client.Logger = nil
	client.HTTPClient.Timeout = cfg.timeout
	client.RetryWaitMin = cfg.policy.Initial
	client.RetryWaitMax = cfg.policy.Max
	client.RetryMax = cfg.retryMax
	client.Backoff = func(_, _ time.Duration, attempt int, resp *http.Response) time.Duration {
		if wait, ok := retryAfter(resp); ok {
			return wait
		}
		return cfg.policy.Next(uint(attempt))
	}
	return client
}

// retryAfter honours the Retry-After header of 429 and 503 responses.
func retryAfter(resp *http.Response) (time.Duration, bool) {
	if resp == nil || (resp.StatusCode != http.StatusTooManyRequests && resp.StatusCode != http.StatusServiceUnavailable) {
		return 0, false
	}

	wait := retryablehttp.DefaultBackoff(0, 0, 0, resp)
	return wait, wait > 0
}

// PostJSON sends v as a JSON body to url and expects a 2xx response.
func PostJSON(ctx context.Context, client *retryablehttp.Client, url string, v any) error {
	body, err := json.Marshal(v)
	if err != nil {
		return err
	}

	req, err := retryablehttp.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	res, err := client.Do(req)
	if err != nil {
		return err
	}
	defer res.Body.Close()
	_, _ = io.Copy(io.Discard, res.Body)

	if res.StatusCode < 200 || res.StatusCode > 299 {
		return fmt.Errorf("%w: %s", ErrUnexpectedStatus, res.Status)
	}

	return nil
}

// WithTimeout sets the maximum duration allowed for a single HTTP request.
// Default: 5 seconds.
func WithTimeout(d time.Duration) Option {
	return func(c *config) {
		c.timeout = d
	}
}

// WithBackoff sets the delay schedule between retry attempts.
func WithBackoff(p backoff.Policy) Option {
	return func(c *config) {
		c.policy = p
	}
}

// WithRetryMax sets the maximum number of retry attempts for failed requests.
// Default: 2 retries.
func WithRetryMax(n int) Option {
	return func(c *config) {
		c.retryMax = n
	}
}
