package ratelimit

import (
	"context"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// Limiter defines the interface for pacing page requests
type Limiter interface {
	// Wait blocks until the next request may proceed or ctx is done
	Wait(ctx context.Context) error
	// Reset resets the limiter state
	Reset()
}

// FixedDelay pauses for the same duration on every call
type FixedDelay struct {
	delay time.Duration
}

// NewFixedDelay creates a limiter that sleeps delay on each Wait
func NewFixedDelay(delay time.Duration) *FixedDelay {
	return &FixedDelay{delay: delay}
}

// Delay returns the configured pause
func (fd *FixedDelay) Delay() time.Duration {
	return fd.delay
}

// Wait sleeps the full delay. A non-positive delay returns at once.
func (fd *FixedDelay) Wait(ctx context.Context) error {
	if fd.delay <= 0 {
		return nil
	}

	timer := time.NewTimer(fd.delay)
	defer timer.Stop()

	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Reset is a no-op; a fixed delay keeps no state
func (fd *FixedDelay) Reset() {}

// TokenBucket caps the request rate at a number of requests per minute
type TokenBucket struct {
	requestsPerMinute int
	limiter           *rate.Limiter
	mu                sync.Mutex
}

// NewTokenBucket creates a token bucket limiter. A non-positive rate disables it.
func NewTokenBucket(requestsPerMinute int) *TokenBucket {
	tb := &TokenBucket{requestsPerMinute: requestsPerMinute}
	tb.Reset()
	return tb
}

// Enabled reports whether the bucket limits anything
func (tb *TokenBucket) Enabled() bool {
	return tb.requestsPerMinute > 0
}

// Allow reports whether a request may proceed now, consuming a token if so
func (tb *TokenBucket) Allow() bool {
	tb.mu.Lock()
	limiter := tb.limiter
	tb.mu.Unlock()

	if limiter == nil {
		return true
	}
	return limiter.Allow()
}

// Wait blocks until a token is available
func (tb *TokenBucket) Wait(ctx context.Context) error {
	tb.mu.Lock()
	limiter := tb.limiter
	tb.mu.Unlock()

	if limiter == nil {
		return nil
	}
	return limiter.Wait(ctx)
}

// Reset refills the bucket
func (tb *TokenBucket) Reset() {
	tb.mu.Lock()
	defer tb.mu.Unlock()

	if tb.requestsPerMinute <= 0 {
		tb.limiter = nil
		return
	}
	interval := time.Minute / time.Duration(tb.requestsPerMinute)
	tb.limiter = rate.NewLimiter(rate.Every(interval), 1)
}
