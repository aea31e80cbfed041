package fetchx

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"time"
)

// browserUserAgent mirrors a desktop browser profile; several of the rate
// APIs reject or throttle obvious bot user agents.
const browserUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/116.0.0.0 Safari/537.36"

const defaultRetryDelay = 500 * time.Millisecond

// TimeoutError reports a call that exceeded its wall-clock budget. The
// in-flight request is aborted when the budget expires.
type TimeoutError struct {
	Timeout time.Duration
}

func (e *TimeoutError) Error() string {
	return fmt.Sprintf("request timed out after %s", e.Timeout)
}

// StatusError reports a non-2xx response.
type StatusError struct {
	Code   int
	Status string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("http error %d %s", e.Code, e.Status)
}

// Client performs JSON GETs with a per-call timeout and a bounded,
// fixed-delay retry loop. The delay is linear on purpose: the callers are
// request-scoped fallback chains with an overall latency budget, and
// jitter or backoff would make the worst case unpredictable.
type Client struct {
	HTTP       *http.Client
	RetryDelay time.Duration
}

// New returns a client with a tuned transport shared by every provider.
func New() *Client {
	transport := &http.Transport{
		Proxy: http.ProxyFromEnvironment,
		DialContext: (&net.Dialer{
			Timeout:   3 * time.Second,
			KeepAlive: 30 * time.Second,
		}).DialContext,
		MaxIdleConns:        100,
		MaxIdleConnsPerHost: 20,
		IdleConnTimeout:     90 * time.Second,
		ForceAttemptHTTP2:   true,
		TLSHandshakeTimeout: 3 * time.Second,
	}
	return &Client{
		HTTP:       &http.Client{Transport: transport},
		RetryDelay: defaultRetryDelay,
	}
}

// Get performs a single GET with the given wall-clock budget and returns
// the response body on a 2xx status. The request is cancelled mid-flight
// when the budget expires, surfacing a *TimeoutError.
func (c *Client) Get(ctx context.Context, url string, timeout time.Duration) ([]byte, error) {
	attemptCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(attemptCtx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", browserUserAgent)
	req.Header.Set("Cache-Control", "no-store")

	resp, err := c.HTTP.Do(req)
	if err != nil {
		return nil, c.classify(ctx, attemptCtx, err, timeout)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, c.classify(ctx, attemptCtx, err, timeout)
	}

	if resp.StatusCode < http.StatusOK || resp.StatusCode > 299 {
		return nil, &StatusError{Code: resp.StatusCode, Status: resp.Status}
	}
	return body, nil
}

// GetWithRetry wraps Get with a bounded attempt count and a fixed delay
// between attempts. The last recorded error wins after exhaustion.
func (c *Client) GetWithRetry(ctx context.Context, url string, timeout time.Duration, maxAttempts int) ([]byte, error) {
	if maxAttempts < 1 {
		maxAttempts = 1
	}

	var lastErr error
	for attempt := 1; attempt <= maxAttempts; attempt++ {
		body, err := c.Get(ctx, url, timeout)
		if err == nil {
			return body, nil
		}
		lastErr = err

		if attempt == maxAttempts {
			break
		}
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(c.RetryDelay):
		}
	}
	return nil, lastErr
}

// classify turns a transport-level failure into a TimeoutError when the
// per-attempt budget expired; parent cancellation and genuine network
// errors pass through.
func (c *Client) classify(parent, attempt context.Context, err error, timeout time.Duration) error {
	if parent.Err() != nil {
		return parent.Err()
	}
	if errors.Is(attempt.Err(), context.DeadlineExceeded) || errors.Is(err, context.DeadlineExceeded) {
		return &TimeoutError{Timeout: timeout}
	}
	return fmt.Errorf("network error: %w", err)
}
