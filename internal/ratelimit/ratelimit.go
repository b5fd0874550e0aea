package ratelimit

import (
	"context"
	"sync"
	"time"
)

// Result is the outcome of a single Check.
type Result struct {
	Allowed   bool
	Remaining int
	ResetIn   time.Duration
}

// Limiter gates submissions per client key using a fixed window.
type Limiter interface {
	Check(ctx context.Context, key string) Result
}

type window struct {
	count   int
	resetAt time.Time
}

// MemoryLimiter keeps windows in process memory. It is not shared across
// instances; use RedisLimiter when running more than one replica.
type MemoryLimiter struct {
	mu      sync.Mutex
	windows map[string]*window
	max     int
	window  time.Duration
	now     func() time.Time
}

// NewMemoryLimiter creates a limiter allowing max requests per window.
func NewMemoryLimiter(max int, size time.Duration) *MemoryLimiter {
	return &MemoryLimiter{
		windows: make(map[string]*window),
		max:     max,
		window:  size,
		now:     time.Now,
	}
}

// WithClock replaces the time source. Intended for tests.
func (l *MemoryLimiter) WithClock(now func() time.Time) *MemoryLimiter {
	l.now = now
	return l
}

// Check counts a request against key.
func (l *MemoryLimiter) Check(_ context.Context, key string) Result {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	entry, ok := l.windows[key]
	if !ok || !now.Before(entry.resetAt) {
		l.windows[key] = &window{count: 1, resetAt: now.Add(l.window)}
		return Result{Allowed: true, Remaining: l.max - 1, ResetIn: l.window}
	}

	entry.count++
	resetIn := entry.resetAt.Sub(now)
	if entry.count > l.max {
		return Result{Allowed: false, Remaining: 0, ResetIn: resetIn}
	}
	return Result{Allowed: true, Remaining: l.max - entry.count, ResetIn: resetIn}
}

// Sweep drops expired windows and returns how many were removed.
func (l *MemoryLimiter) Sweep() int {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	removed := 0
	for key, entry := range l.windows {
		if !now.Before(entry.resetAt) {
			delete(l.windows, key)
			removed++
		}
	}
	return removed
}

// Len returns the number of tracked keys.
func (l *MemoryLimiter) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.windows)
}

// Run sweeps expired windows every interval until ctx is cancelled.
func (l *MemoryLimiter) Run(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		return
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			l.Sweep()
		}
	}
}
