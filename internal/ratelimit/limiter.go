// Package ratelimit implements the admission gate that bounds how many
// completion calls may proceed per time period.
//
// The gate is a fixed-window counting semaphore: at the start of each
// period the permit counter resets to PermitsPerPeriod, and each Acquire
// consumes one permit. Bursts are allowed up to the per-period cap, with a
// hard reset at the window boundary. This is intentionally not a token
// bucket; there is no smooth refill.
package ratelimit

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"converse/internal/domain"
)

// Config holds the externally configured gate parameters, read once at
// startup.
type Config struct {
	PermitsPerPeriod int
	Period           time.Duration
	AcquireTimeout   time.Duration
}

// FixedWindowLimiter is the shared admission gate. A single instance is
// injected into every service that calls the completion endpoint; its
// counter is the system's only explicit cross-request shared state.
type FixedWindowLimiter struct {
	cfg    Config
	logger *slog.Logger

	mu          sync.Mutex
	remaining   int
	windowStart time.Time
}

// NewFixedWindowLimiter creates a limiter with a full permit counter. The
// first window starts at the first Acquire.
func NewFixedWindowLimiter(cfg Config, logger *slog.Logger) *FixedWindowLimiter {
	return &FixedWindowLimiter{
		cfg:       cfg,
		logger:    logger,
		remaining: cfg.PermitsPerPeriod,
	}
}

// Acquire consumes one permit, blocking the calling goroutine (never the
// whole process) while the current window is exhausted. It returns nil when
// a permit was granted, *domain.RateLimitError when AcquireTimeout elapsed
// before the next window opened, or the context error on cancellation.
//
// All state transitions happen under the mutex, so concurrent Acquire calls
// are linearizable.
func (l *FixedWindowLimiter) Acquire(ctx context.Context) error {
	deadline := time.Now().Add(l.cfg.AcquireTimeout)

	for {
		l.mu.Lock()
		now := time.Now()
		l.roll(now)

		if l.remaining > 0 {
			l.remaining--
			l.mu.Unlock()
			return nil
		}

		next := l.windowStart.Add(l.cfg.Period)
		l.mu.Unlock()

		// Permits only appear at the window boundary, so a deadline that
		// falls before it cannot be met. Wait it out and deny, matching
		// blocking-acquire semantics.
		wakeAt := next
		denied := false
		if deadline.Before(next) {
			wakeAt = deadline
			denied = true
		}

		timer := time.NewTimer(time.Until(wakeAt))
		select {
		case <-ctx.Done():
			timer.Stop()
			return ctx.Err()
		case <-timer.C:
		}

		if denied {
			l.logger.Warn("admission denied",
				"permits_per_period", l.cfg.PermitsPerPeriod,
				"period", l.cfg.Period,
				"acquire_timeout", l.cfg.AcquireTimeout,
			)
			return &domain.RateLimitError{Message: "completion call rate limit exceeded, try again later"}
		}
	}
}

// roll resets the counter when the current window has elapsed. The new
// window start is aligned to the period grid so idle time does not shift
// window boundaries.
func (l *FixedWindowLimiter) roll(now time.Time) {
	if l.windowStart.IsZero() {
		l.windowStart = now
		return
	}

	elapsed := now.Sub(l.windowStart)
	if elapsed < l.cfg.Period {
		return
	}

	l.windowStart = l.windowStart.Add(elapsed - elapsed%l.cfg.Period)
	l.remaining = l.cfg.PermitsPerPeriod
}

// Remaining reports the permits left in the current window. Diagnostic
// only; the value may be stale by the time the caller uses it.
func (l *FixedWindowLimiter) Remaining() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.roll(time.Now())
	return l.remaining
}
