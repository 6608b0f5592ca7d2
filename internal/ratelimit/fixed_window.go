package ratelimit

import (
	"context"
	"sync"
	"time"

	"github.com/convodash/convodash/internal/clock"
)

// FixedWindow is an in-process fallback limiter used when redis is not
// configured. Counters reset at window boundaries per key.
type FixedWindow struct {
	mu      sync.Mutex
	counts  map[string]*windowCount
	limit   int
	window  time.Duration
	clock   clock.Clock
	sweepAt time.Time
}

type windowCount struct {
	windowStart time.Time
	count       int
}

func NewFixedWindow(limit int, window time.Duration, clk clock.Clock) *FixedWindow {
	if limit <= 0 || window <= 0 || clk == nil {
		return nil
	}
	return &FixedWindow{
		counts:  make(map[string]*windowCount),
		limit:   limit,
		window:  window,
		clock:   clk,
		sweepAt: clk.Now().Add(window),
	}
}

func (f *FixedWindow) Allow(ctx context.Context, key string) (bool, error) {
	_ = ctx
	if f == nil {
		return false, nil
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	now := f.clock.Now()
	f.sweepLocked(now)

	entry, ok := f.counts[key]
	if !ok || now.Sub(entry.windowStart) >= f.window {
		f.counts[key] = &windowCount{windowStart: now, count: 1}
		return true, nil
	}

	if entry.count >= f.limit {
		return false, nil
	}
	entry.count++
	return true, nil
}

// sweepLocked drops stale keys once per window so the map stays bounded.
func (f *FixedWindow) sweepLocked(now time.Time) {
	if now.Before(f.sweepAt) {
		return
	}
	for key, entry := range f.counts {
		if now.Sub(entry.windowStart) >= f.window {
			delete(f.counts, key)
		}
	}
	f.sweepAt = now.Add(f.window)
}
