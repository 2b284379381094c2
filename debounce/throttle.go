package debounce

import (
	"sync"
	"time"
)

// Throttler lets at most one call through per interval. Calls made while
// the window is open are dropped.
type Throttler[T any] struct {
	mu       sync.Mutex
	interval time.Duration
	fn       func(T)
	until    time.Time
	now      func() time.Time
}

// NewThrottler creates a Throttler around fn.
func NewThrottler[T any](interval time.Duration, fn func(T)) *Throttler[T] {
	return &Throttler[T]{
		interval: interval,
		fn:       fn,
		now:      time.Now,
	}
}

// Call invokes fn unless a previous call is still inside its interval.
// It reports whether fn ran.
func (t *Throttler[T]) Call(arg T) bool {
	t.mu.Lock()
	now := t.now()
	if now.Before(t.until) {
		t.mu.Unlock()
		return false
	}
	t.until = now.Add(t.interval)
	t.mu.Unlock()

	t.fn(arg)
	return true
}

// Reset reopens the throttle immediately.
func (t *Throttler[T]) Reset() {
	t.mu.Lock()
	t.until = time.Time{}
	t.mu.Unlock()
}
