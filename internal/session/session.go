// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package session binds one explorer to one fetch function. A Session
// tags every search with a sequence number so that only the most recently
// issued search may load its results; an older fetch that completes late
// is discarded.
package session

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/pdiddy/company-dns/internal/explorer"
	"github.com/pdiddy/company-dns/pkg/types"
)

var (
	// ErrEmptyQuery is returned for a blank query before any fetch
	// starts. It is types.ErrEmptyQuery, shared with the API client.
	ErrEmptyQuery = types.ErrEmptyQuery

	// ErrStale is returned when a newer search was issued while this one
	// was in flight. The explorer is left untouched.
	ErrStale = errors.New("search superseded by a newer search")

	// ErrTimeout is returned when a fetch exceeds the session timeout.
	ErrTimeout = errors.New("request timeout")
)

// FetchFunc resolves a query to a result list.
type FetchFunc[R any] func(ctx context.Context, query string) ([]R, error)

// Option configures a Session.
type Option func(*settings)

type settings struct {
	timeout time.Duration
	logger  *slog.Logger
	onStale func()
}

// WithTimeout bounds each fetch. Zero leaves the caller's context as is.
func WithTimeout(d time.Duration) Option {
	return func(s *settings) { s.timeout = d }
}

// WithLogger sets the logger; the default is slog.Default().
func WithLogger(l *slog.Logger) Option {
	return func(s *settings) {
		if l != nil {
			s.logger = l
		}
	}
}

// OnStale registers a callback run each time a completion is discarded.
func OnStale(fn func()) Option {
	return func(s *settings) { s.onStale = fn }
}

// Session owns an explorer for the lifetime of a browsing session. All
// explorer access goes through Search and Do, which serialize on one lock.
type Session[R any, D explorer.Discriminant] struct {
	mu    sync.Mutex
	exp   *explorer.Explorer[R, D]
	fetch FetchFunc[R]
	seq   uint64
	cfg   settings
}

// New returns a Session over exp that resolves queries with fetch.
func New[R any, D explorer.Discriminant](exp *explorer.Explorer[R, D], fetch FetchFunc[R], opts ...Option) *Session[R, D] {
	cfg := settings{logger: slog.Default()}
	for _, opt := range opts {
		opt(&cfg)
	}
	return &Session[R, D]{exp: exp, fetch: fetch, cfg: cfg}
}

// Search fetches results for query and loads them into the explorer. A
// blank query fails with ErrEmptyQuery without fetching. A failed fetch
// returns its error and leaves the explorer as it was. If another Search
// began after this one, the result is dropped and ErrStale is returned.
func (s *Session[R, D]) Search(ctx context.Context, query string) error {
	q := strings.TrimSpace(query)
	if q == "" {
		return ErrEmptyQuery
	}

	s.mu.Lock()
	s.seq++
	seq := s.seq
	s.mu.Unlock()

	if s.cfg.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.cfg.timeout)
		defer cancel()
	}

	start := time.Now()
	records, err := s.fetch(ctx, q)
	if err != nil && errors.Is(err, context.DeadlineExceeded) && !errors.Is(err, ErrTimeout) {
		err = fmt.Errorf("%w: %w", ErrTimeout, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if seq != s.seq {
		s.cfg.logger.Debug("discarding stale search", "query", q, "seq", seq, "latest", s.seq)
		if s.cfg.onStale != nil {
			s.cfg.onStale()
		}
		return ErrStale
	}
	if err != nil {
		s.cfg.logger.Debug("search failed", "query", q, "seq", seq, "error", err)
		return fmt.Errorf("searching %q: %w", q, err)
	}

	s.exp.Load(records, q)
	s.cfg.logger.Debug("search loaded", "query", q, "seq", seq,
		"results", len(records), "elapsed", time.Since(start))
	return nil
}

// Do runs fn with exclusive access to the explorer.
func (s *Session[R, D]) Do(fn func(e *explorer.Explorer[R, D])) {
	s.mu.Lock()
	defer s.mu.Unlock()
	fn(s.exp)
}

// Snapshot returns the explorer's current snapshot.
func (s *Session[R, D]) Snapshot() explorer.Snapshot[R, D] {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.exp.Snapshot()
}

// Sequence returns the number of the most recently issued search.
func (s *Session[R, D]) Sequence() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.seq
}
