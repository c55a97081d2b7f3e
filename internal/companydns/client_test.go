// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package companydns

import (
	"bytes"
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/company-dns/internal/httputil"
	"github.com/pdiddy/company-dns/internal/metrics"
	"github.com/pdiddy/company-dns/internal/resilience"
	"github.com/pdiddy/company-dns/pkg/types"
)

func init() {
	httputil.RetryBaseDelay = time.Millisecond
}

// memCache is an in-memory Cache for tests.
type memCache struct {
	mu      sync.Mutex
	entries map[string][]byte
	ttls    map[string]time.Duration
}

func newMemCache() *memCache {
	return &memCache{entries: map[string][]byte{}, ttls: map[string]time.Duration{}}
}

func (m *memCache) Get(_ context.Context, key string) ([]byte, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	b, ok := m.entries[key]
	return b, ok, nil
}

func (m *memCache) Put(_ context.Context, key string, body []byte, ttl time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries[key] = body
	m.ttls[key] = ttl
	return nil
}

func testConfig() types.ClientConfig {
	cfg := types.DefaultConfig().Client
	cfg.RequestsPerSecond = 0
	cfg.MaxRetries = 2
	return cfg
}

func fastExecutor() *resilience.Executor {
	return resilience.NewExecutor(resilience.Policy{
		Attempts:       3,
		Backoff:        resilience.Backoff{Initial: time.Millisecond, Max: time.Millisecond},
		MaxServerDelay: time.Second,
	}, nil, resilience.Observer{})
}

// shortRetryAfter caps server delays at d for one test.
func shortRetryAfter(t *testing.T, d time.Duration) {
	t.Helper()
	old := httputil.MaxRetryAfter
	httputil.MaxRetryAfter = d
	t.Cleanup(func() { httputil.MaxRetryAfter = old })
}

func newTestClient(t *testing.T, handler http.HandlerFunc, opts ...Option) *Client {
	t.Helper()
	ts := httptest.NewServer(handler)
	t.Cleanup(ts.Close)

	opts = append([]Option{WithHTTPClient(ts.Client()), WithExecutor(fastExecutor())}, opts...)
	c, err := NewClient(testConfig(), ts.URL, opts...)
	require.NoError(t, err)
	return c
}

func TestNewClient_ResolvesHost(t *testing.T) {
	cfg := testConfig()

	c, err := NewClient(cfg, "")
	require.NoError(t, err)
	assert.Equal(t, "https://company-dns.mediumroast.io", c.BaseURL())
	assert.Equal(t, "company-dns.mediumroast.io", c.Host())

	c, err = NewClient(cfg, "localhost:8000")
	require.NoError(t, err)
	assert.Equal(t, "http://localhost:8000", c.BaseURL())

	_, err = NewClient(cfg, "example.com")
	assert.ErrorContains(t, err, "unknown host")
}

func TestGet_SendsHeaders(t *testing.T) {
	var got http.Header
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		got = r.Header.Clone()
		w.Write([]byte(`{"ok":true}`))
	})

	var out struct{ OK bool }
	require.NoError(t, c.Get(context.Background(), "/health", &out, GetOptions{}))
	assert.True(t, out.OK)
	assert.Equal(t, "application/json", got.Get("Accept"))
	assert.Equal(t, "company-dns/0.1", got.Get("User-Agent"))
	assert.Len(t, got.Get("X-Request-ID"), 36)
}

func TestGet_StatusErrorUsesDetail(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(`{"detail":"query too short","code":400}`))
	})

	err := c.Get(context.Background(), "/x", nil, GetOptions{})
	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusBadRequest, apiErr.StatusCode)
	assert.Equal(t, "query too short", apiErr.Message)
	assert.Contains(t, err.Error(), "HTTP 400: query too short")
}

func TestGet_StatusErrorWithoutJSON(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusForbidden)
		w.Write([]byte("<html>nope</html>"))
	})

	err := c.Get(context.Background(), "/x", nil, GetOptions{})
	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusForbidden, apiErr.StatusCode)
	assert.Equal(t, "Forbidden", apiErr.Message)
}

func TestGet_RetriesServerErrors(t *testing.T) {
	var calls int32
	c := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		if atomic.AddInt32(&calls, 1) < 3 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		w.Write([]byte(`{}`))
	})

	require.NoError(t, c.Get(context.Background(), "/x", nil, GetOptions{}))
	assert.Equal(t, int32(3), atomic.LoadInt32(&calls))
}

func TestGet_DoesNotRetryClientErrors(t *testing.T) {
	var calls int32
	c := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.WriteHeader(http.StatusNotFound)
	})

	err := c.Get(context.Background(), "/x", nil, GetOptions{})
	assert.True(t, IsNotFound(err))
	assert.Equal(t, int32(1), atomic.LoadInt32(&calls))
}

func TestGet_BacksOffOn429(t *testing.T) {
	var calls int32
	c := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		if atomic.AddInt32(&calls, 1) == 1 {
			w.WriteHeader(http.StatusTooManyRequests)
			return
		}
		w.Write([]byte(`{}`))
	})

	require.NoError(t, c.Get(context.Background(), "/x", nil, GetOptions{}))
	assert.Equal(t, int32(2), atomic.LoadInt32(&calls))
}

func TestGet_Timeout(t *testing.T) {
	release := make(chan struct{})
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	})
	defer close(release)

	err := c.Get(context.Background(), "/slow", nil, GetOptions{Timeout: 20 * time.Millisecond})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrTimeout)
	assert.ErrorIs(t, err, context.DeadlineExceeded)

	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusRequestTimeout, apiErr.StatusCode)
	assert.Contains(t, apiErr.Message, "Request timeout")
}

func TestGet_NetworkError(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
	url := ts.URL
	ts.Close()

	c, err := NewClient(testConfig(), url, WithExecutor(fastExecutor()))
	require.NoError(t, err)

	err = c.Get(context.Background(), "/x", nil, GetOptions{})
	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, 0, apiErr.StatusCode)
	assert.Equal(t, "Network error", apiErr.Message)
	assert.False(t, errors.Is(err, ErrTimeout))
}

func TestGet_InvalidJSON(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		w.Write([]byte(`{"results": [`))
	})

	err := c.Get(context.Background(), "/x", &struct{}{}, GetOptions{})
	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, 0, apiErr.StatusCode)
	assert.Equal(t, "invalid JSON response", apiErr.Message)
}

func TestGet_Cache(t *testing.T) {
	var calls int32
	cache := newMemCache()
	c := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.Write([]byte(`{"n":1}`))
	}, WithCache(cache))

	for range 3 {
		var out struct{ N int }
		require.NoError(t, c.Get(context.Background(), "/cached", &out, GetOptions{CacheTTL: time.Minute}))
		assert.Equal(t, 1, out.N)
	}
	assert.Equal(t, int32(1), atomic.LoadInt32(&calls))
	assert.Equal(t, time.Minute, cache.ttls[c.BaseURL()+"/cached"])

	// Without a TTL the cache is bypassed.
	require.NoError(t, c.Get(context.Background(), "/cached", nil, GetOptions{}))
	assert.Equal(t, int32(2), atomic.LoadInt32(&calls))
}

func TestGet_ErrorsAreNotCached(t *testing.T) {
	cache := newMemCache()
	c := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
	}, WithCache(cache))

	require.Error(t, c.Get(context.Background(), "/bad", nil, GetOptions{CacheTTL: time.Minute}))
	assert.Empty(t, cache.entries)
}

func TestGet_CircuitOpens(t *testing.T) {
	exec := resilience.NewExecutor(resilience.Policy{
		Attempts: 1,
		Breaker:  resilience.Breaker{MinRequests: 2, OpenFor: time.Minute},
	}, nil, resilience.Observer{})
	var calls int32
	c := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.WriteHeader(http.StatusBadGateway)
	}, WithExecutor(exec))

	for range 2 {
		require.Error(t, c.Get(context.Background(), "/x", nil, GetOptions{Operation: "search"}))
	}
	err := c.Get(context.Background(), "/x", nil, GetOptions{Operation: "search"})
	assert.True(t, resilience.IsCircuitOpen(err))
	assert.Equal(t, int32(2), atomic.LoadInt32(&calls))
}

func TestGet_RateLimitDoesNotOpenCircuit(t *testing.T) {
	shortRetryAfter(t, time.Millisecond)
	exec := resilience.NewExecutor(resilience.Policy{
		Attempts: 1,
		Breaker:  resilience.Breaker{MinRequests: 2, OpenFor: time.Minute},
	}, nil, resilience.Observer{})
	var calls int32
	c := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.Header().Set("Retry-After", "1")
		w.WriteHeader(http.StatusTooManyRequests)
	}, WithExecutor(exec))

	for range 3 {
		err := c.Get(context.Background(), "/x", nil, GetOptions{Operation: "search"})
		var apiErr *APIError
		require.ErrorAs(t, err, &apiErr)
		assert.Equal(t, http.StatusTooManyRequests, apiErr.StatusCode)
		assert.Equal(t, time.Millisecond, apiErr.RetryAfter)
		assert.Contains(t, err.Error(), "(retry after 1ms)")
		assert.False(t, resilience.IsCircuitOpen(err))
	}
	// Each call reaches the server: the first try plus two 429 retries.
	assert.Equal(t, int32(9), atomic.LoadInt32(&calls))
}

func TestGet_WaitsOutRetryAfterOn503(t *testing.T) {
	shortRetryAfter(t, 30*time.Millisecond)
	var calls int32
	c := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		if atomic.AddInt32(&calls, 1) == 1 {
			w.Header().Set("Retry-After", "120")
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		w.Write([]byte(`{}`))
	})

	start := time.Now()
	require.NoError(t, c.Get(context.Background(), "/x", nil, GetOptions{}))
	assert.Equal(t, int32(2), atomic.LoadInt32(&calls))
	assert.GreaterOrEqual(t, time.Since(start), 30*time.Millisecond)
}

func TestGet_RecordsRetriesInMetrics(t *testing.T) {
	var calls int32
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		if atomic.AddInt32(&calls, 1) == 1 {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		w.Write([]byte(`{}`))
	}))
	t.Cleanup(ts.Close)

	m := metrics.New()
	c, err := NewClient(testConfig(), ts.URL, WithHTTPClient(ts.Client()), WithMetrics(m))
	require.NoError(t, err)
	require.NoError(t, c.Get(context.Background(), "/x", nil, GetOptions{Operation: "edgar"}))

	var buf bytes.Buffer
	require.NoError(t, m.WriteText(&buf))
	assert.Contains(t, buf.String(), `company_dns_client_retries_total{operation="edgar"} 1`)
}

func TestClientPolicy(t *testing.T) {
	cfg := testConfig()
	cfg.MaxRetries = 4
	p := clientPolicy(cfg)
	assert.Equal(t, 5, p.Attempts)
	assert.Equal(t, httputil.MaxRetryAfter, p.MaxServerDelay)

	cfg.MaxRetries = 0
	assert.Equal(t, resilience.DefaultPolicy().Attempts, clientPolicy(cfg).Attempts)
}

func TestVerdict(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want resilience.Verdict
	}{
		{"cancelled", context.Canceled, resilience.Verdict{}},
		{"timeout", &APIError{StatusCode: 408, Err: context.DeadlineExceeded}, resilience.Verdict{Trip: true}},
		{"bad gateway", &APIError{StatusCode: 502}, resilience.Verdict{Retry: true, Trip: true}},
		{"unavailable", &APIError{StatusCode: 503}, resilience.Verdict{Retry: true, Trip: true}},
		{"unavailable with delay", &APIError{StatusCode: 503, RetryAfter: 5 * time.Second},
			resilience.Verdict{Retry: true, Trip: true, After: 5 * time.Second}},
		{"too many requests", &APIError{StatusCode: 429, RetryAfter: time.Second}, resilience.Verdict{}},
		{"not found", &APIError{StatusCode: 404}, resilience.Verdict{}},
		{"decode", &APIError{Message: "invalid JSON response", Err: errors.New("eof")}, resilience.Verdict{Trip: true}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, verdict(tt.err))
		})
	}
}
