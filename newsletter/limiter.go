package newsletter

import (
	"context"
	"sync"
	"time"
)

// Default throttle for the subscribe endpoint.
const (
	DefaultMaxRequests = 5
	DefaultWindow      = time.Minute
)

// Limiter decides whether a request from key may proceed.
type Limiter interface {
	Allow(ctx context.Context, key string) (bool, error)
}

type rateRecord struct {
	count       int
	windowStart time.Time
}

// FixedWindow is an in-process fixed-window counter per client key.
// Bursts of up to 2*max are possible across a window boundary.
type FixedWindow struct {
	mu      sync.Mutex
	records map[string]*rateRecord
	max     int
	window  time.Duration
	now     func() time.Time
}

// FixedWindowOption configures a FixedWindow.
type FixedWindowOption func(*FixedWindow)

// WithClock replaces time.Now.
func WithClock(now func() time.Time) FixedWindowOption {
	return func(l *FixedWindow) {
		l.now = now
	}
}

// NewFixedWindow creates a limiter that allows max requests per key per window.
func NewFixedWindow(max int, window time.Duration, opts ...FixedWindowOption) *FixedWindow {
	l := &FixedWindow{
		records: make(map[string]*rateRecord),
		max:     max,
		window:  window,
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Allow records a request from key and reports whether it is within the limit.
func (l *FixedWindow) Allow(_ context.Context, key string) (bool, error) {
	now := l.now()

	l.mu.Lock()
	defer l.mu.Unlock()

	rec, ok := l.records[key]
	if !ok {
		l.records[key] = &rateRecord{count: 1, windowStart: now}
		return true, nil
	}
	if now.Sub(rec.windowStart) > l.window {
		rec.count = 1
		rec.windowStart = now
		return true, nil
	}
	if rec.count >= l.max {
		return false, nil
	}
	rec.count++
	return true, nil
}

// Sweep drops records whose window has expired. A dropped key starts a fresh
// window on its next request, exactly as an expired record would.
func (l *FixedWindow) Sweep() {
	now := l.now()
	l.mu.Lock()
	for key, rec := range l.records {
		if now.Sub(rec.windowStart) > l.window {
			delete(l.records, key)
		}
	}
	l.mu.Unlock()
}

// Run sweeps expired records once per window until ctx is done.
func (l *FixedWindow) Run(ctx context.Context) error {
	ticker := time.NewTicker(l.window)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			l.Sweep()
		}
	}
}

// Len returns the number of tracked keys.
func (l *FixedWindow) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.records)
}
