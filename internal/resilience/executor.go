// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package resilience runs API calls under a retry policy and one circuit
// breaker per operation. The caller judges each failed attempt; a verdict
// may carry a delay the server asked for, which overrides a shorter
// backoff. A retry that could not finish before the context deadline is
// not attempted.
package resilience

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/sony/gobreaker/v2"
)

// Verdict is the caller's judgement of one failed attempt.
type Verdict struct {
	// Retry asks for another attempt.
	Retry bool

	// Trip counts the failure toward opening the circuit. Failures that
	// say nothing about the service's health, such as a 404, do not.
	Trip bool

	// After is a wait the server asked for, capped by
	// Policy.MaxServerDelay.
	After time.Duration
}

// Judge returns the verdict for an error returned by an attempt.
type Judge func(error) Verdict

// Observer is told about retries and circuit changes. Nil fields are
// skipped.
type Observer struct {
	Retry         func(operation string, attempt int, wait time.Duration, err error)
	CircuitChange func(operation string, from, to string)
}

// Executor runs operations under a Policy.
type Executor struct {
	policy Policy
	obs    Observer
	logger *slog.Logger

	mu       sync.Mutex
	breakers map[string]*gobreaker.CircuitBreaker[struct{}]
}

// NewExecutor returns an Executor; zero fields of p take defaults. A nil
// logger means slog.Default().
func NewExecutor(p Policy, logger *slog.Logger, obs Observer) *Executor {
	if logger == nil {
		logger = slog.Default()
	}
	return &Executor{
		policy:   p.withDefaults(),
		obs:      obs,
		logger:   logger,
		breakers: make(map[string]*gobreaker.CircuitBreaker[struct{}]),
	}
}

// Run calls fn until it succeeds or one of these holds: judge refuses a
// retry, the attempts are spent, or the next wait would pass the context
// deadline. The last error is returned. With the breaker enabled the
// whole run counts as one breaker request, and an open circuit fails fast
// with an error IsCircuitOpen recognizes. A nil judge never retries.
func (e *Executor) Run(ctx context.Context, operation string, fn func(context.Context) error, judge Judge) error {
	if fn == nil {
		return errors.New("resilience: nil operation")
	}
	op := strings.TrimSpace(operation)
	if op == "" {
		op = "unknown"
	}
	if judge == nil {
		judge = func(error) Verdict { return Verdict{Trip: true} }
	}

	if e.policy.Breaker.Disabled {
		return e.attempts(ctx, op, fn, judge)
	}
	_, err := e.breaker(op, judge).Execute(func() (struct{}, error) {
		return struct{}{}, e.attempts(ctx, op, fn, judge)
	})
	if IsCircuitOpen(err) {
		return fmt.Errorf("%s: %w", op, err)
	}
	return err
}

func (e *Executor) attempts(ctx context.Context, op string, fn func(context.Context) error, judge Judge) error {
	for n := 1; ; n++ {
		if err := ctx.Err(); err != nil {
			return err
		}
		err := fn(ctx)
		if err == nil {
			return nil
		}

		v := judge(err)
		if !v.Retry || n >= e.policy.Attempts {
			return err
		}
		wait := e.wait(n, v)
		if deadline, ok := ctx.Deadline(); ok && time.Until(deadline) <= wait {
			e.logger.Debug("not retrying past deadline", "operation", op, "attempt", n, "wait", wait)
			return err
		}

		e.logger.Warn("retrying", "operation", op, "attempt", n, "of", e.policy.Attempts, "wait", wait, "error", err)
		if e.obs.Retry != nil {
			e.obs.Retry(op, n, wait, err)
		}

		timer := time.NewTimer(wait)
		select {
		case <-ctx.Done():
			timer.Stop()
			return err
		case <-timer.C:
		}
	}
}

// wait is the backoff for attempt n, or the server's delay when longer.
func (e *Executor) wait(n int, v Verdict) time.Duration {
	w := e.policy.Backoff.Delay(n)
	if v.After > w {
		w = min(v.After, e.policy.MaxServerDelay)
	}
	return w
}

func (e *Executor) breaker(op string, judge Judge) *gobreaker.CircuitBreaker[struct{}] {
	e.mu.Lock()
	defer e.mu.Unlock()
	if b, ok := e.breakers[op]; ok {
		return b
	}

	bp := e.policy.Breaker
	b := gobreaker.NewCircuitBreaker[struct{}](gobreaker.Settings{
		Name:        op,
		MaxRequests: bp.HalfOpenCalls,
		Timeout:     bp.OpenFor,
		ReadyToTrip: func(c gobreaker.Counts) bool {
			return c.Requests >= bp.MinRequests &&
				float64(c.TotalFailures)/float64(c.Requests) >= bp.FailureRatio
		},
		IsSuccessful: func(err error) bool {
			return err == nil || !judge(err).Trip
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			e.logger.Warn("circuit state changed", "operation", name, "from", from.String(), "to", to.String())
			if e.obs.CircuitChange != nil {
				e.obs.CircuitChange(name, from.String(), to.String())
			}
		},
	})
	e.breakers[op] = b
	return b
}

// IsCircuitOpen reports whether err came from an open or saturated circuit.
func IsCircuitOpen(err error) bool {
	return errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests)
}
