package contact

import (
	"context"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// Throttle is a per-client token bucket guarding the contact endpoints.
type Throttle struct {
	mu       sync.Mutex
	limiters map[string]*throttleEntry
	every    time.Duration
	burst    int
	ttl      time.Duration
	now      func() time.Time
}

type throttleEntry struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// NewThrottle allows burst submissions per client, refilled one every
// interval. Entries idle for longer than ttl are dropped by Sweep.
func NewThrottle(every time.Duration, burst int, ttl time.Duration) *Throttle {
	return &Throttle{
		limiters: make(map[string]*throttleEntry),
		every:    every,
		burst:    burst,
		ttl:      ttl,
		now:      time.Now,
	}
}

// Allow reports whether key may submit now.
func (t *Throttle) Allow(key string) bool {
	t.mu.Lock()
	defer t.mu.Unlock()

	now := t.now()
	entry, ok := t.limiters[key]
	if !ok {
		entry = &throttleEntry{limiter: rate.NewLimiter(rate.Every(t.every), t.burst)}
		t.limiters[key] = entry
	}
	entry.lastSeen = now
	return entry.limiter.AllowN(now, 1)
}

// Sweep removes entries not seen within ttl.
func (t *Throttle) Sweep() {
	t.mu.Lock()
	defer t.mu.Unlock()
	now := t.now()
	for key, entry := range t.limiters {
		if now.Sub(entry.lastSeen) > t.ttl {
			delete(t.limiters, key)
		}
	}
}

// Run sweeps every ttl until ctx is done.
func (t *Throttle) Run(ctx context.Context) error {
	ticker := time.NewTicker(t.ttl)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			t.Sweep()
		}
	}
}

// Len returns the number of tracked clients.
func (t *Throttle) Len() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.limiters)
}
