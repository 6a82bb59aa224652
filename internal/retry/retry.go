package retry

import (
	"context"
	"fmt"
	"math"
	"net/http"
	"strconv"
	"time"

	"github.com/hashicorp/go-retryablehttp"
)

// RetryConfig describes a bounded retry policy: how many retries follow the
// first attempt, the exponential backoff factor, and which response
// statuses are worth another try.
type RetryConfig struct {
	MaxRetries      int
	BackoffFactor   time.Duration
	MaxBackoff      time.Duration
	StatusForcelist []int
}

// Default mirrors the news API adapter: 5 retries, 0.1s factor,
// retry on gateway-ish 5xx statuses.
func Default() RetryConfig {
	return RetryConfig{
		MaxRetries:      5,
		BackoffFactor:   100 * time.Millisecond,
		MaxBackoff:      2 * time.Minute,
		StatusForcelist: []int{500, 502, 503, 504},
	}
}

// Delay returns the wait before retry number attempt (0-based):
// factor * 2^attempt, capped at MaxBackoff.
func (c RetryConfig) Delay(attempt int) time.Duration {
	d := time.Duration(float64(c.BackoffFactor) * math.Pow(2, float64(attempt)))
	if c.MaxBackoff > 0 && d > c.MaxBackoff {
		d = c.MaxBackoff
	}
	return d
}

func (c RetryConfig) retryableStatus(code int) bool {
	for _, s := range c.StatusForcelist {
		if s == code {
			return true
		}
	}
	return false
}

// CheckRetry retries transport errors and forcelisted statuses only.
// Other non-2xx responses are handed back to the caller untouched.
func (c RetryConfig) CheckRetry(ctx context.Context, resp *http.Response, err error) (bool, error) {
	if ctx.Err() != nil {
		return false, ctx.Err()
	}
	if err != nil {
		return retryablehttp.DefaultRetryPolicy(ctx, resp, err)
	}
	return c.retryableStatus(resp.StatusCode), nil
}

// Backoff honours Retry-After on 503, otherwise uses Delay.
func (c RetryConfig) Backoff(_, _ time.Duration, attemptNum int, resp *http.Response) time.Duration {
	if resp != nil && resp.StatusCode == http.StatusServiceUnavailable {
		if s := resp.Header.Get("Retry-After"); s != "" {
			if secs, err := strconv.Atoi(s); err == nil && secs >= 0 {
				d := time.Duration(secs) * time.Second
				if c.MaxBackoff > 0 && d > c.MaxBackoff {
					d = c.MaxBackoff
				}
				return d
			}
		}
	}
	return c.Delay(attemptNum)
}

// NewClient builds a retrying HTTP client bound to this policy. When
// retries run out on a forcelisted status the last response is returned
// as-is, so callers can report its status and body.
func (c RetryConfig) NewClient(timeout time.Duration) *retryablehttp.Client {
	client := retryablehttp.NewClient()
	client.RetryMax = c.MaxRetries
	client.RetryWaitMin = c.BackoffFactor
	client.RetryWaitMax = c.MaxBackoff
	client.CheckRetry = c.CheckRetry
	client.Backoff = c.Backoff
	client.ErrorHandler = retryablehttp.PassthroughErrorHandler
	client.Logger = redactingLogger{}
	if timeout > 0 {
		client.HTTPClient.Timeout = timeout
	}
	return client
}

// WithRetry runs fn until it succeeds or MaxRetries retries are spent.
func WithRetry(ctx context.Context, config RetryConfig, fn func() error) error {
	var lastErr error

	for attempt := 0; attempt <= config.MaxRetries; attempt++ {
		if err := fn(); err != nil {
			lastErr = err

			if attempt == config.MaxRetries {
				return fmt.Errorf("failed after %d attempts: %w", config.MaxRetries+1, err)
			}

			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(config.Delay(attempt)):
				continue
			}
		}
		return nil
	}

	return lastErr
}
