package newsletter

import (
	"context"
	"sync"
	"testing"
	"time"
)

type fakeClock struct {
	mu sync.Mutex
	t  time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{t: time.Date(2025, 9, 9, 12, 0, 0, 0, time.UTC)}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.t
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	c.t = c.t.Add(d)
	c.mu.Unlock()
}

func allow(t *testing.T, l *FixedWindow, key string) bool {
	t.Helper()
	ok, err := l.Allow(context.Background(), key)
	if err != nil {
		t.Fatalf("Allow returned error: %v", err)
	}
	return ok
}

func TestFixedWindowBlocksAfterMax(t *testing.T) {
	clock := newFakeClock()
	limiter := NewFixedWindow(DefaultMaxRequests, DefaultWindow, WithClock(clock.Now))
	ip := "203.0.113.10"

	for i := 1; i <= 5; i++ {
		if !allow(t, limiter, ip) {
			t.Fatalf("expected attempt %d to be allowed", i)
		}
		clock.Advance(time.Second)
	}
	if allow(t, limiter, ip) {
		t.Fatalf("expected sixth attempt to be blocked")
	}
}

func TestFixedWindowResetsAfterWindow(t *testing.T) {
	clock := newFakeClock()
	limiter := NewFixedWindow(5, 60*time.Second, WithClock(clock.Now))
	ip := "203.0.113.20"

	for i := 0; i < 5; i++ {
		allow(t, limiter, ip)
	}
	clock.Advance(60 * time.Second)
	if allow(t, limiter, ip) {
		t.Fatalf("expected attempt at exactly the window length to be blocked")
	}

	clock.Advance(time.Millisecond)
	if !allow(t, limiter, ip) {
		t.Fatalf("expected attempt at windowStart+60001ms to be allowed")
	}
	for i := 0; i < 4; i++ {
		if !allow(t, limiter, ip) {
			t.Fatalf("expected attempt %d of the new window to be allowed", i+2)
		}
	}
	if allow(t, limiter, ip) {
		t.Fatalf("expected sixth attempt of the new window to be blocked")
	}
}

func TestFixedWindowDoesNotSlide(t *testing.T) {
	clock := newFakeClock()
	limiter := NewFixedWindow(2, time.Minute, WithClock(clock.Now))
	ip := "203.0.113.25"

	allow(t, limiter, ip)
	clock.Advance(50 * time.Second)
	allow(t, limiter, ip)
	clock.Advance(11 * time.Second)
	if !allow(t, limiter, ip) {
		t.Fatalf("window should be measured from its first request")
	}
}

func TestFixedWindowIsPerKey(t *testing.T) {
	limiter := NewFixedWindow(1, time.Minute)

	if !allow(t, limiter, "203.0.113.30") {
		t.Fatalf("expected first ip to be allowed")
	}
	if !allow(t, limiter, "203.0.113.31") {
		t.Fatalf("expected second ip to be allowed independently")
	}
	if allow(t, limiter, "203.0.113.30") {
		t.Fatalf("expected first ip to be blocked after max")
	}
}

func TestFixedWindowSweep(t *testing.T) {
	clock := newFakeClock()
	limiter := NewFixedWindow(1, time.Minute, WithClock(clock.Now))

	allow(t, limiter, "a")
	clock.Advance(30 * time.Second)
	allow(t, limiter, "b")
	clock.Advance(31 * time.Second)

	limiter.Sweep()
	if got := limiter.Len(); got != 1 {
		t.Fatalf("Len after sweep = %d, want 1", got)
	}
	if allow(t, limiter, "b") {
		t.Fatalf("sweep must not reset a live window")
	}
	if !allow(t, limiter, "a") {
		t.Fatalf("expected swept key to start a fresh window")
	}
}

func TestFixedWindowConcurrentIncrements(t *testing.T) {
	limiter := NewFixedWindow(50, time.Minute)

	var wg sync.WaitGroup
	var mu sync.Mutex
	allowed := 0
	for i := 0; i < 200; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			ok, _ := limiter.Allow(context.Background(), "shared")
			if ok {
				mu.Lock()
				allowed++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()
	if allowed != 50 {
		t.Fatalf("allowed = %d, want exactly 50", allowed)
	}
}

func TestFixedWindowRunStopsOnCancel(t *testing.T) {
	limiter := NewFixedWindow(1, 10*time.Millisecond)
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- limiter.Run(ctx) }()

	cancel()
	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("Run returned %v", err)
		}
	case <-time.After(time.Second):
		t.Fatal("Run did not return after cancel")
	}
}
