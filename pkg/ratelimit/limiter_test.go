package ratelimit

import (
	"context"
	"testing"
	"time"
)

func TestFixedDelay(t *testing.T) {
	fd := NewFixedDelay(50 * time.Millisecond)

	start := time.Now()
	if err := fd.Wait(context.Background()); err != nil {
		t.Fatalf("Wait() error = %v", err)
	}
	if elapsed := time.Since(start); elapsed < 50*time.Millisecond {
		t.Errorf("Wait() returned after %v, expected at least 50ms", elapsed)
	}
}

func TestFixedDelayZero(t *testing.T) {
	fd := NewFixedDelay(0)

	start := time.Now()
	if err := fd.Wait(context.Background()); err != nil {
		t.Fatalf("Wait() error = %v", err)
	}
	if elapsed := time.Since(start); elapsed > 10*time.Millisecond {
		t.Errorf("zero delay waited %v", elapsed)
	}
}

func TestFixedDelayCancelled(t *testing.T) {
	fd := NewFixedDelay(time.Hour)
	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	start := time.Now()
	err := fd.Wait(ctx)
	if err != context.DeadlineExceeded {
		t.Errorf("Wait() error = %v, want %v", err, context.DeadlineExceeded)
	}
	if elapsed := time.Since(start); elapsed > time.Second {
		t.Errorf("cancelled wait took %v", elapsed)
	}
}

func TestTokenBucket(t *testing.T) {
	tb := NewTokenBucket(60)

	if !tb.Enabled() {
		t.Fatal("expected bucket to be enabled")
	}

	// Test initial capacity
	if !tb.Allow() {
		t.Error("Expected first request to be allowed")
	}

	// Test exhaustion
	if tb.Allow() {
		t.Error("Expected second request to be denied within the same second")
	}

	// Test reset
	tb.Reset()
	if !tb.Allow() {
		t.Error("Expected request to be allowed after reset")
	}
}

func TestTokenBucketWait(t *testing.T) {
	tb := NewTokenBucket(1200) // one token every 50ms

	ctx := context.Background()
	start := time.Now()
	for i := 0; i < 3; i++ {
		if err := tb.Wait(ctx); err != nil {
			t.Fatalf("Wait() error = %v", err)
		}
	}
	if elapsed := time.Since(start); elapsed < 90*time.Millisecond {
		t.Errorf("three requests took %v, expected at least 100ms of pacing", elapsed)
	}
}

func TestTokenBucketWaitCancelled(t *testing.T) {
	tb := NewTokenBucket(1)
	tb.Allow()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if err := tb.Wait(ctx); err == nil {
		t.Error("expected an error from a cancelled context")
	}
}

func TestTokenBucketDisabled(t *testing.T) {
	for _, rpm := range []int{0, -5} {
		tb := NewTokenBucket(rpm)
		if tb.Enabled() {
			t.Errorf("NewTokenBucket(%d) should be disabled", rpm)
		}
		for i := 0; i < 100; i++ {
			if !tb.Allow() {
				t.Fatalf("disabled bucket denied request %d", i)
			}
		}
		if err := tb.Wait(context.Background()); err != nil {
			t.Errorf("Wait() error = %v", err)
		}
	}
}

func TestLimiterInterface(t *testing.T) {
	var _ Limiter = NewFixedDelay(time.Second)
	var _ Limiter = NewTokenBucket(10)
}
