// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package metrics records client-side Prometheus metrics for API calls,
// the response cache and discarded searches.
package metrics

import (
	"fmt"
	"io"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/common/expfmt"
)

const namespace = "company_dns"

// Metrics holds the collectors registered on a private registry.
type Metrics struct {
	registry *prometheus.Registry

	requestTotal    *prometheus.CounterVec
	requestDuration *prometheus.HistogramVec
	retryTotal      *prometheus.CounterVec
	circuitTotal    *prometheus.CounterVec
	cacheTotal      *prometheus.CounterVec
	staleTotal      prometheus.Counter
}

// New registers the client collectors on a new registry.
func New() *Metrics {
	registry := prometheus.NewRegistry()

	requestTotal := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "client",
			Name:      "requests_total",
			Help:      "API requests by operation and outcome.",
		},
		[]string{"operation", "status"},
	)
	requestDuration := prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "client",
			Name:      "request_duration_seconds",
			Help:      "API request duration in seconds by operation.",
			Buckets:   []float64{0.05, 0.1, 0.25, 0.5, 1, 2, 5, 10, 30},
		},
		[]string{"operation"},
	)
	retryTotal := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "client",
			Name:      "retries_total",
			Help:      "Retried API attempts by operation.",
		},
		[]string{"operation"},
	)
	circuitTotal := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "client",
			Name:      "circuit_transitions_total",
			Help:      "Circuit breaker transitions by operation and new state.",
		},
		[]string{"operation", "state"},
	)
	cacheTotal := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "cache",
			Name:      "lookups_total",
			Help:      "Response cache lookups by result.",
		},
		[]string{"result"},
	)
	staleTotal := prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "session",
			Name:      "stale_discards_total",
			Help:      "Search completions discarded because a newer search was issued.",
		},
	)

	registry.MustRegister(requestTotal, requestDuration, retryTotal, circuitTotal, cacheTotal, staleTotal)

	return &Metrics{
		registry:        registry,
		requestTotal:    requestTotal,
		requestDuration: requestDuration,
		retryTotal:      retryTotal,
		circuitTotal:    circuitTotal,
		cacheTotal:      cacheTotal,
		staleTotal:      staleTotal,
	}
}

// Registry exposes the underlying registry.
func (m *Metrics) Registry() *prometheus.Registry { return m.registry }

// ObserveRequest records one finished API request. A nil receiver is a no-op.
func (m *Metrics) ObserveRequest(operation string, duration time.Duration, err error) {
	if m == nil {
		return
	}
	status := "success"
	if err != nil {
		status = "error"
	}
	m.requestTotal.WithLabelValues(operation, status).Inc()
	m.requestDuration.WithLabelValues(operation).Observe(duration.Seconds())
}

// Retry records one retried attempt.
func (m *Metrics) Retry(operation string) {
	if m != nil {
		m.retryTotal.WithLabelValues(operation).Inc()
	}
}

// CircuitChange records an operation's circuit moving to state.
func (m *Metrics) CircuitChange(operation, state string) {
	if m != nil {
		m.circuitTotal.WithLabelValues(operation, state).Inc()
	}
}

// CacheHit records a served-from-cache response.
func (m *Metrics) CacheHit() {
	if m != nil {
		m.cacheTotal.WithLabelValues("hit").Inc()
	}
}

// CacheMiss records a cache lookup that fell through to the API.
func (m *Metrics) CacheMiss() {
	if m != nil {
		m.cacheTotal.WithLabelValues("miss").Inc()
	}
}

// StaleDiscard records a discarded search completion.
func (m *Metrics) StaleDiscard() {
	if m != nil {
		m.staleTotal.Inc()
	}
}

// WriteText writes every gathered metric family in the Prometheus text
// exposition format.
func (m *Metrics) WriteText(w io.Writer) error {
	families, err := m.registry.Gather()
	if err != nil {
		return fmt.Errorf("gathering metrics: %w", err)
	}
	for _, mf := range families {
		if _, err := expfmt.MetricFamilyToText(w, mf); err != nil {
			return fmt.Errorf("writing metric %s: %w", mf.GetName(), err)
		}
	}
	return nil
}
