package pressfront

import (
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/labstack/echo/v4"
)

// RequestLimiter rate-limits requests per client key (usually the IP)
// over a sliding window.
type RequestLimiter struct {
	mu     sync.Mutex
	hits   map[string][]time.Time
	max    int
	window time.Duration
	now    func() time.Time
	done   chan struct{}
	once   sync.Once
}

// NewRequestLimiter creates a RequestLimiter that allows max requests per
// window. Call Stop to end its cleanup goroutine.
func NewRequestLimiter(max int, window time.Duration) *RequestLimiter {
	return newRequestLimiter(max, window, time.Now)
}

// newRequestLimiter sets the clock before the cleanup goroutine reads it.
func newRequestLimiter(max int, window time.Duration, now func() time.Time) *RequestLimiter {
	l := &RequestLimiter{
		hits:   make(map[string][]time.Time),
		max:    max,
		window: window,
		now:    now,
		done:   make(chan struct{}),
	}
	go l.cleanup()
	return l
}

func (l *RequestLimiter) cleanup() {
	ticker := time.NewTicker(l.window)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			l.mu.Lock()
			cutoff := l.now().Add(-l.window)
			for key, hits := range l.hits {
				if kept := prune(hits, cutoff); len(kept) == 0 {
					delete(l.hits, key)
				} else {
					l.hits[key] = kept
				}
			}
			l.mu.Unlock()
		case <-l.done:
			return
		}
	}
}

func prune(hits []time.Time, cutoff time.Time) []time.Time {
	kept := hits[:0]
	for _, t := range hits {
		if t.After(cutoff) {
			kept = append(kept, t)
		}
	}
	return kept
}

// Allow records a request for key and reports whether it is within the limit.
// Rejected requests are not recorded.
func (l *RequestLimiter) Allow(key string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	kept := prune(l.hits[key], now.Add(-l.window))
	if len(kept) >= l.max {
		l.hits[key] = kept
		return false
	}
	l.hits[key] = append(kept, now)
	return true
}

// RetryAfter is how long key must wait before its oldest request leaves
// the window.
func (l *RequestLimiter) RetryAfter(key string) time.Duration {
	l.mu.Lock()
	defer l.mu.Unlock()

	hits := l.hits[key]
	if len(hits) == 0 {
		return 0
	}
	return max(hits[0].Add(l.window).Sub(l.now()), 0)
}

// Stop ends the cleanup goroutine.
func (l *RequestLimiter) Stop() {
	l.once.Do(func() { close(l.done) })
}

// rateLimit rejects clients over the limiter's budget with 429.
func (a *App) rateLimit(l *RequestLimiter) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			ip := c.RealIP()
			if !l.Allow(ip) {
				secs := int(l.RetryAfter(ip).Round(time.Second) / time.Second)
				c.Response().Header().Set("Retry-After", strconv.Itoa(max(secs, 1)))
				a.Logger.Debug("rate limited", "ip", ip, "path", c.Path())
				return echo.NewHTTPError(http.StatusTooManyRequests, "too many requests")
			}
			return next(c)
		}
	}
}
