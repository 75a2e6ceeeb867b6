// Package client provides the transport used to read repository metadata.
//
// A Client fetches the bytes at an http, https or file location. It makes one
// attempt per call by default; retries and per-host circuit breaking are
// opt-in.
package client

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/cenk/backoff"
)

const defaultUserAgent = "updatecheck"

// defaultMaxBodySize bounds metadata documents; maven-metadata.xml for the
// largest artifacts on Maven Central is well under this.
const defaultMaxBodySize = 32 << 20

// Client is an HTTP client for repository metadata.
type Client struct {
	HTTPClient  *http.Client
	UserAgent   string
	MaxRetries  int
	BaseDelay   time.Duration
	// MaxBodySize is the largest accepted response body in bytes.
	MaxBodySize int64
	breakers    *breakerSet
}

// Option configures a Client.
type Option func(*Client)

// WithTimeout sets the HTTP client timeout.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		c.HTTPClient.Timeout = d
	}
}

// WithMaxRetries sets the maximum number of retries after the first attempt.
func WithMaxRetries(n int) Option {
	return func(c *Client) {
		c.MaxRetries = n
	}
}

// WithBaseDelay sets the initial delay for exponential backoff between retries.
func WithBaseDelay(d time.Duration) Option {
	return func(c *Client) {
		c.BaseDelay = d
	}
}

// WithMaxBodySize sets the largest accepted response body.
func WithMaxBodySize(n int64) Option {
	return func(c *Client) {
		c.MaxBodySize = n
	}
}

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.HTTPClient = hc
	}
}

// WithCircuitBreaker enables per-host circuit breakers.
func WithCircuitBreaker() Option {
	return func(c *Client) {
		c.breakers = newBreakerSet()
	}
}

// DefaultClient returns a client with:
// - 30s timeout
// - no retries
// - DNS caching and file:// support
func DefaultClient() *Client {
	return NewClient()
}

// NewClient creates a client with the defaults above, then applies opts.
func NewClient(opts ...Option) *Client {
	c := &Client{
		HTTPClient: &http.Client{
			Timeout:   30 * time.Second,
			Transport: newTransport(),
		},
		UserAgent:   defaultUserAgent,
		BaseDelay:   500 * time.Millisecond,
		MaxBodySize: defaultMaxBodySize,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// WithUserAgent returns a copy of the client that sends ua.
func (c *Client) WithUserAgent(ua string) *Client {
	cp := *c
	cp.UserAgent = ua
	return &cp
}

// BreakerStates reports "open" or "closed" per host, or nil when circuit
// breaking is disabled.
func (c *Client) BreakerStates() map[string]string {
	if c.breakers == nil {
		return nil
	}
	return c.breakers.states()
}

// GetBody fetches url and returns the response body.
func (c *Client) GetBody(ctx context.Context, url string) ([]byte, error) {
	if c.breakers == nil {
		return c.getWithRetry(ctx, url)
	}
	return c.breakers.call(url, func() ([]byte, error) {
		return c.getWithRetry(ctx, url)
	})
}

func (c *Client) getWithRetry(ctx context.Context, url string) ([]byte, error) {
	b := backoff.NewExponentialBackOff()
	b.InitialInterval = c.BaseDelay
	b.MaxElapsedTime = 0
	b.Reset()

	for attempt := 0; ; attempt++ {
		body, err := c.get(ctx, url)
		if err == nil {
			return body, nil
		}
		if attempt >= c.MaxRetries || !retryable(err) {
			return nil, err
		}

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(b.NextBackOff()):
		}
	}
}

func (c *Client) get(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("User-Agent", c.UserAgent)

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetching %s: %w", url, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		httpErr := &HTTPError{StatusCode: resp.StatusCode, URL: url, Body: string(body)}
		if resp.StatusCode == http.StatusTooManyRequests {
			if secs, err := strconv.Atoi(resp.Header.Get("Retry-After")); err == nil {
				return nil, &RateLimitError{RetryAfter: secs, Err: httpErr}
			}
		}
		return nil, httpErr
	}

	limit := c.MaxBodySize
	if limit <= 0 {
		limit = defaultMaxBodySize
	}
	body, err := io.ReadAll(io.LimitReader(resp.Body, limit+1))
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", url, err)
	}
	if int64(len(body)) > limit {
		return nil, fmt.Errorf("%w: %s exceeds %d bytes", ErrBodyTooLarge, url, limit)
	}
	return body, nil
}

func retryable(err error) bool {
	var httpErr *HTTPError
	if !errors.As(err, &httpErr) {
		return false
	}
	return httpErr.StatusCode == http.StatusTooManyRequests || httpErr.StatusCode >= 500
}
