// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package companydns is the HTTP client for the company_dns lookup API.
// Every call goes through one path: an optional response cache, a
// per-operation circuit breaker with retries for transient failures,
// client-side pacing, 429 backoff, and JSON decoding. Failures surface as
// *APIError.
package companydns

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/google/uuid"
	"golang.org/x/time/rate"

	"github.com/pdiddy/company-dns/internal/httputil"
	"github.com/pdiddy/company-dns/internal/metrics"
	"github.com/pdiddy/company-dns/internal/resilience"
	"github.com/pdiddy/company-dns/pkg/types"
)

// maxBodyBytes bounds how much of a response body is read.
const maxBodyBytes = 32 << 20

// Cache stores successful response bodies keyed by request URL.
type Cache interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Put(ctx context.Context, key string, body []byte, ttl time.Duration) error
}

// Client calls one company_dns host.
type Client struct {
	cfg     types.ClientConfig
	host    string
	baseURL string

	http    *http.Client
	limiter *rate.Limiter
	exec    *resilience.Executor
	cache   Cache
	metrics *metrics.Metrics
	logger  *slog.Logger
	now     func() time.Time
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the default HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.http = hc }
}

// WithCache enables response caching for calls that request a TTL.
func WithCache(cache Cache) Option {
	return func(c *Client) { c.cache = cache }
}

// WithMetrics records request and cache metrics.
func WithMetrics(m *metrics.Metrics) Option {
	return func(c *Client) { c.metrics = m }
}

// WithLogger sets the logger; the default is slog.Default().
func WithLogger(l *slog.Logger) Option {
	return func(c *Client) {
		if l != nil {
			c.logger = l
		}
	}
}

// WithExecutor replaces the default retry and breaker executor.
func WithExecutor(exec *resilience.Executor) Option {
	return func(c *Client) { c.exec = exec }
}

// WithClock sets the time source used for filing recency.
func WithClock(now func() time.Time) Option {
	return func(c *Client) { c.now = now }
}

// NewClient returns a client for host, resolved through cfg. An empty host
// selects cfg.PrimaryHost.
func NewClient(cfg types.ClientConfig, host string, opts ...Option) (*Client, error) {
	baseURL, err := cfg.BaseURL(host)
	if err != nil {
		return nil, err
	}
	if host == "" {
		host = cfg.PrimaryHost
	}

	c := &Client{
		cfg:     cfg,
		host:    host,
		baseURL: baseURL,
		http:    &http.Client{},
		logger:  slog.Default(),
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}

	if cfg.RequestsPerSecond > 0 {
		c.limiter = rate.NewLimiter(rate.Limit(cfg.RequestsPerSecond), max(1, int(cfg.RequestsPerSecond)))
	}
	if c.exec == nil {
		c.exec = resilience.NewExecutor(clientPolicy(cfg), c.logger, resilience.Observer{
			Retry:         func(op string, _ int, _ time.Duration, _ error) { c.metrics.Retry(op) },
			CircuitChange: func(op, _, to string) { c.metrics.CircuitChange(op, to) },
		})
	}
	return c, nil
}

// clientPolicy retries transient failures MaxRetries times and honors a
// server's Retry-After up to httputil.MaxRetryAfter.
func clientPolicy(cfg types.ClientConfig) resilience.Policy {
	p := resilience.DefaultPolicy()
	if cfg.MaxRetries > 0 {
		p.Attempts = cfg.MaxRetries + 1
	}
	p.MaxServerDelay = httputil.MaxRetryAfter
	return p
}

// Host returns the host name the client was built for.
func (c *Client) Host() string { return c.host }

// BaseURL returns the resolved base URL.
func (c *Client) BaseURL() string { return c.baseURL }

// GetOptions tunes one call.
type GetOptions struct {
	// Operation names the call for metrics, logs and the circuit breaker.
	Operation string

	// Timeout bounds each attempt; zero uses the configured timeout.
	Timeout time.Duration

	// CacheTTL enables caching of a successful response; zero disables it.
	CacheTTL time.Duration
}

// Get issues GET path and decodes the JSON response into out.
func (c *Client) Get(ctx context.Context, path string, out any, opts GetOptions) error {
	body, err := c.GetRaw(ctx, path, opts)
	if err != nil {
		return err
	}
	if out == nil {
		return nil
	}
	if err := json.Unmarshal(body, out); err != nil {
		return &APIError{Path: path, Message: "invalid JSON response", Err: err}
	}
	return nil
}

// GetRaw issues GET path and returns the response body, which must be
// valid JSON.
func (c *Client) GetRaw(ctx context.Context, path string, opts GetOptions) ([]byte, error) {
	op := opts.Operation
	if op == "" {
		op = "get"
	}
	key := c.baseURL + path
	useCache := c.cache != nil && opts.CacheTTL > 0

	if useCache {
		body, ok, err := c.cache.Get(ctx, key)
		switch {
		case err != nil:
			c.logger.Warn("cache lookup failed", "key", key, "error", err)
		case ok:
			c.metrics.CacheHit()
			c.logger.Debug("cache hit", "operation", op, "path", path)
			return body, nil
		}
		c.metrics.CacheMiss()
	}

	start := time.Now()
	var body []byte
	err := c.exec.Run(ctx, op, func(ctx context.Context) error {
		b, err := c.do(ctx, path, opts.Timeout)
		if err != nil {
			return err
		}
		body = b
		return nil
	}, verdict)
	c.metrics.ObserveRequest(op, time.Since(start), err)

	if err != nil {
		if resilience.IsCircuitOpen(err) {
			return nil, &APIError{Path: path, Message: "service unavailable, too many recent failures", Err: err}
		}
		return nil, err
	}

	if !json.Valid(body) {
		return nil, &APIError{Path: path, Message: "invalid JSON response", Err: errors.New("response body is not JSON")}
	}

	if useCache {
		if err := c.cache.Put(ctx, key, body, opts.CacheTTL); err != nil {
			c.logger.Warn("cache store failed", "key", key, "error", err)
		}
	}
	return body, nil
}

// do performs one attempt.
func (c *Client) do(ctx context.Context, path string, timeout time.Duration) ([]byte, error) {
	if timeout <= 0 {
		timeout = c.cfg.Timeout
	}
	if timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, transportError(ctx, path, timeout, err)
		}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return nil, &APIError{Path: path, Message: "invalid request", Err: err}
	}
	requestID := uuid.NewString()
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", c.cfg.UserAgent)
	req.Header.Set("X-Request-ID", requestID)

	c.logger.Debug("api request", "path", path, "request_id", requestID)
	resp, err := httputil.DoWithRetry(ctx, c.http, req, c.cfg.MaxRetries)
	if err != nil {
		return nil, transportError(ctx, path, timeout, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return nil, transportError(ctx, path, timeout, err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		c.logger.Debug("api error response", "path", path, "status", resp.StatusCode, "request_id", requestID)
		apiErr := newStatusError(path, resp.StatusCode, body)
		apiErr.RetryAfter = httputil.RetryAfter(resp.Header.Get("Retry-After"))
		return nil, apiErr
	}
	return body, nil
}

// transportError maps a failure without a usable response to an APIError:
// 408 when the deadline passed, status 0 otherwise.
func transportError(ctx context.Context, path string, timeout time.Duration, err error) error {
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(ctx.Err(), context.DeadlineExceeded) {
		msg := "Request timeout"
		if timeout > 0 {
			msg = fmt.Sprintf("Request timeout: request exceeded %s", timeout)
		}
		return &APIError{
			Path:       path,
			StatusCode: http.StatusRequestTimeout,
			Message:    msg,
			Err:        fmt.Errorf("%w: %w", context.DeadlineExceeded, err),
		}
	}
	msg := "Network error"
	if errors.Is(err, context.Canceled) {
		msg = "Request cancelled"
	}
	return &APIError{Path: path, Message: msg, Err: err}
}

// verdict decides retry and circuit accounting for a failed attempt.
func verdict(err error) resilience.Verdict {
	switch {
	case err == nil, errors.Is(err, context.Canceled):
		return resilience.Verdict{}
	case errors.Is(err, ErrTimeout), errors.Is(err, context.DeadlineExceeded):
		return resilience.Verdict{Trip: true}
	}

	var apiErr *APIError
	if errors.As(err, &apiErr) && apiErr.StatusCode > 0 {
		switch apiErr.StatusCode {
		case http.StatusInternalServerError, http.StatusBadGateway, http.StatusGatewayTimeout:
			return resilience.Verdict{Retry: true, Trip: true}
		case http.StatusServiceUnavailable:
			return resilience.Verdict{Retry: true, Trip: true, After: apiErr.RetryAfter}
		case http.StatusTooManyRequests:
			// DoWithRetry has already waited out the rate limit, and a
			// limited service is not a failing one.
			return resilience.Verdict{}
		default:
			return resilience.Verdict{}
		}
	}

	var netErr net.Error
	if errors.As(err, &netErr) {
		return resilience.Verdict{Retry: true, Trip: true}
	}
	return resilience.Verdict{Trip: true}
}
