package netutil

import (
	"context"
	"net/http"
	"strconv"
	"time"
)

const (
	defaultInitialBackoff = time.Second
	defaultMaxBackoff     = 30 * time.Second
)

// RetryTransport retries transient failures with exponential backoff and
// honours Retry-After. Waiting stops early when the request context ends.
type RetryTransport struct {
	// Base defaults to http.DefaultTransport.
	Base http.RoundTripper

	// OnRetry runs before each wait. attempt is 1-based; statusCode is 0
	// for transport errors.
	OnRetry func(attempt int, wait time.Duration, statusCode int)

	// MaxRetries is the number of extra attempts. Zero sends the request
	// once.
	MaxRetries     int
	InitialBackoff time.Duration
	MaxBackoff     time.Duration
}

// RoundTrip implements http.RoundTripper.
func (t *RetryTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	base, maxRetries, initial, ceiling := t.settings()
	ctx := req.Context()

	for attempt := 0; ; attempt++ {
		attemptReq := req.Clone(ctx)
		if req.GetBody != nil {
			body, err := req.GetBody()
			if err != nil {
				return nil, err
			}
			attemptReq.Body = body
		}

		resp, err := base.RoundTrip(attemptReq)
		if err == nil && !isRetryableStatus(resp.StatusCode) {
			return resp, nil
		}
		if attempt >= maxRetries {
			return resp, err
		}
		// Bodies without GetBody were consumed by the first attempt.
		if req.Body != nil && req.Body != http.NoBody && req.GetBody == nil {
			return resp, err
		}

		status := 0
		wait := backoff(attempt, initial, ceiling, nil)
		if resp != nil {
			status = resp.StatusCode
			wait = backoff(attempt, initial, ceiling, resp)
			_ = resp.Body.Close()
		}
		if t.OnRetry != nil {
			t.OnRetry(attempt+1, wait, status)
		}
		if err := sleep(ctx, wait); err != nil {
			return nil, err
		}
	}
}

func (t *RetryTransport) settings() (http.RoundTripper, int, time.Duration, time.Duration) {
	base := t.Base
	if base == nil {
		base = http.DefaultTransport
	}
	maxRetries := max(t.MaxRetries, 0)
	initial := t.InitialBackoff
	if initial == 0 {
		initial = defaultInitialBackoff
	}
	ceiling := t.MaxBackoff
	if ceiling == 0 {
		ceiling = defaultMaxBackoff
	}
	return base, maxRetries, initial, ceiling
}

func sleep(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

// backoff returns initial*2^attempt capped at ceiling, or the server's
// Retry-After when one is present.
func backoff(attempt int, initial, ceiling time.Duration, resp *http.Response) time.Duration {
	if resp != nil {
		if d, ok := retryAfter(resp.Header.Get("Retry-After"), initial); ok {
			return min(d, ceiling)
		}
	}
	return min(initial*(1<<attempt), ceiling)
}

func retryAfter(value string, fallback time.Duration) (time.Duration, bool) {
	if value == "" {
		return 0, false
	}
	if seconds, err := strconv.Atoi(value); err == nil {
		return time.Duration(seconds) * time.Second, true
	}
	if at, err := http.ParseTime(value); err == nil {
		if d := time.Until(at); d > 0 {
			return d, true
		}
		return fallback, true
	}
	return 0, false
}

func isRetryableStatus(statusCode int) bool {
	switch statusCode {
	case http.StatusTooManyRequests,
		http.StatusBadGateway,
		http.StatusServiceUnavailable,
		http.StatusGatewayTimeout:
		return true
	default:
		return false
	}
}
