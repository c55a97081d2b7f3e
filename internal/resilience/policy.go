// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package resilience

import (
	"math"
	"time"
)

// Policy bounds how an operation is retried and when its circuit opens.
type Policy struct {
	// Attempts is the number of tries, the first included.
	Attempts int

	Backoff Backoff

	// MaxServerDelay caps a wait the server asked for.
	MaxServerDelay time.Duration

	Breaker Breaker
}

// Backoff is a geometric pause between attempts.
type Backoff struct {
	Initial    time.Duration
	Max        time.Duration
	Multiplier float64
}

// Delay returns the pause after failed attempt n (1-based).
func (b Backoff) Delay(n int) time.Duration {
	d := float64(b.Initial) * math.Pow(b.Multiplier, float64(max(n, 1)-1))
	if d >= float64(b.Max) {
		return b.Max
	}
	return time.Duration(d)
}

// Breaker opens an operation's circuit once FailureRatio of at least
// MinRequests runs failed, and lets HalfOpenCalls runs through after
// OpenFor to test recovery.
type Breaker struct {
	Disabled      bool
	MinRequests   uint32
	FailureRatio  float64
	OpenFor       time.Duration
	HalfOpenCalls uint32
}

// DefaultPolicy tries three times, 200ms then 400ms apart, and opens the
// circuit for 30s when half of at least five runs fail.
func DefaultPolicy() Policy {
	return Policy{
		Attempts:       3,
		Backoff:        Backoff{Initial: 200 * time.Millisecond, Max: 2 * time.Second, Multiplier: 2},
		MaxServerDelay: 30 * time.Second,
		Breaker: Breaker{
			MinRequests:   5,
			FailureRatio:  0.5,
			OpenFor:       30 * time.Second,
			HalfOpenCalls: 1,
		},
	}
}

// withDefaults fills zero or invalid fields from DefaultPolicy.
func (p Policy) withDefaults() Policy {
	def := DefaultPolicy()
	if p.Attempts <= 0 {
		p.Attempts = def.Attempts
	}
	if p.Backoff.Initial <= 0 {
		p.Backoff.Initial = def.Backoff.Initial
	}
	if p.Backoff.Max <= 0 {
		p.Backoff.Max = def.Backoff.Max
	}
	p.Backoff.Max = max(p.Backoff.Max, p.Backoff.Initial)
	if p.Backoff.Multiplier < 1 {
		p.Backoff.Multiplier = def.Backoff.Multiplier
	}
	if p.MaxServerDelay <= 0 {
		p.MaxServerDelay = def.MaxServerDelay
	}
	b, db := &p.Breaker, def.Breaker
	if b.MinRequests == 0 {
		b.MinRequests = db.MinRequests
	}
	if b.FailureRatio <= 0 || b.FailureRatio > 1 {
		b.FailureRatio = db.FailureRatio
	}
	if b.OpenFor <= 0 {
		b.OpenFor = db.OpenFor
	}
	if b.HalfOpenCalls == 0 {
		b.HalfOpenCalls = db.HalfOpenCalls
	}
	return p
}
