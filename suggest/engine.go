package suggest

import (
	"context"
	"log/slog"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/eringen/pressfront/debounce"
)

const (
	DefaultDelay = 300 * time.Millisecond
	DefaultLimit = 5
)

// Option configures an Engine.
type Option func(*Engine)

// WithDelay sets the debounce delay.
func WithDelay(d time.Duration) Option {
	return func(e *Engine) { e.delay = d }
}

// WithLimit sets the maximum number of suggestions.
func WithLimit(n int) Option {
	return func(e *Engine) {
		if n > 0 {
			e.limit = n
		}
	}
}

// WithFetchTimeout bounds each suggestion fetch.
func WithFetchTimeout(d time.Duration) Option {
	return func(e *Engine) { e.timeout = d }
}

// OnChange registers the observer called after every state change.
func OnChange(fn func(Snapshot)) Option {
	return func(e *Engine) { e.onChange = fn }
}

// OnNavigate registers the handler for choosing a suggestion.
func OnNavigate(fn func(slug string)) Option {
	return func(e *Engine) { e.onNavigate = fn }
}

// OnSubmit registers the handler for a full-text search submission.
func OnSubmit(fn func(query string)) Option {
	return func(e *Engine) { e.onSubmit = fn }
}

// WithLogger sets the logger used for swallowed fetch failures.
func WithLogger(l *slog.Logger) Option {
	return func(e *Engine) { e.logger = l }
}

type request struct {
	seq   uint64
	query string
}

// Engine drives one search box. It is safe for concurrent use; callbacks
// run outside the engine's lock.
type Engine struct {
	src     Suggester
	delay   time.Duration
	limit   int
	timeout time.Duration
	logger  *slog.Logger

	onChange   func(Snapshot)
	onNavigate func(string)
	onSubmit   func(string)

	ctx    context.Context
	cancel context.CancelFunc
	fetch  *debounce.Debouncer[request]
	wg     sync.WaitGroup

	mu          sync.Mutex
	seq         uint64
	query       string
	state       State
	open        bool
	suggestions []Suggestion
	highlight   int
	closed      bool
}

// New returns an idle engine fetching from src.
func New(src Suggester, opts ...Option) *Engine {
	e := &Engine{
		src:       src,
		delay:     DefaultDelay,
		limit:     DefaultLimit,
		timeout:   5 * time.Second,
		logger:    slog.Default(),
		highlight: -1,
	}
	for _, opt := range opts {
		opt(e)
	}
	e.ctx, e.cancel = context.WithCancel(context.Background())
	e.fetch = debounce.New(e.delay, e.start)
	return e
}

// Snapshot returns the current state.
func (e *Engine) Snapshot() Snapshot {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.snapshotLocked()
}

func (e *Engine) snapshotLocked() Snapshot {
	return Snapshot{
		Query:       e.query,
		State:       e.state,
		Open:        e.open,
		Suggestions: slices.Clone(e.suggestions),
		Highlight:   e.highlight,
	}
}

// commit publishes the current state to the observer. It must be called
// with e.mu held and releases it.
func (e *Engine) commit() {
	snap := e.snapshotLocked()
	e.mu.Unlock()
	if e.onChange != nil {
		e.onChange(snap)
	}
}

// Input replaces the query. A blank query returns the engine to Idle;
// anything else re-arms the debounce timer and opens the panel.
func (e *Engine) Input(q string) {
	e.mu.Lock()
	if e.closed {
		e.mu.Unlock()
		return
	}
	e.seq++
	e.query = q
	e.highlight = -1
	if strings.TrimSpace(q) == "" {
		e.fetch.Cancel()
		e.toIdleLocked()
		e.commit()
		return
	}
	e.state = Pending
	e.open = true
	e.suggestions = nil
	e.fetch.Call(request{seq: e.seq, query: q})
	e.commit()
}

func (e *Engine) toIdleLocked() {
	e.state = Idle
	e.open = false
	e.suggestions = nil
	e.highlight = -1
}

// start runs when the debounce timer fires.
func (e *Engine) start(req request) {
	e.mu.Lock()
	if e.closed || req.seq != e.seq {
		e.mu.Unlock()
		return
	}
	e.wg.Add(1)
	e.mu.Unlock()

	go func() {
		defer e.wg.Done()
		ctx, cancel := context.WithTimeout(e.ctx, e.timeout)
		defer cancel()
		items, err := e.src.Suggest(ctx, req.query, e.limit)
		e.resolve(req, items, err)
	}()
}

func (e *Engine) resolve(req request, items []Suggestion, err error) {
	e.mu.Lock()
	if e.closed || req.seq != e.seq || req.query != e.query {
		e.mu.Unlock()
		return
	}
	if err != nil {
		e.logger.Debug("suggestion fetch failed", "query", req.query, "error", err)
		items = nil
	}
	if len(items) > e.limit {
		items = items[:e.limit]
	}
	e.state = Resolved
	e.suggestions = slices.Clone(items)
	e.highlight = -1
	e.commit()
}

// Key applies a keyboard key and reports whether the engine handled it.
func (e *Engine) Key(k Key) bool {
	switch k {
	case KeyDown:
		return e.move(1)
	case KeyUp:
		return e.move(-1)
	case KeyEnter:
		return e.enter()
	case KeyEscape:
		return e.escape()
	}
	return false
}

func (e *Engine) move(delta int) bool {
	e.mu.Lock()
	if e.closed || !e.open || len(e.suggestions) == 0 {
		e.mu.Unlock()
		return false
	}
	next := min(max(e.highlight+delta, -1), len(e.suggestions)-1)
	if next == e.highlight {
		e.mu.Unlock()
		return false
	}
	e.highlight = next
	e.commit()
	return true
}

func (e *Engine) enter() bool {
	e.mu.Lock()
	if e.closed {
		e.mu.Unlock()
		return false
	}
	if e.open && e.highlight >= 0 && e.highlight < len(e.suggestions) {
		slug := e.suggestions[e.highlight].Slug
		e.closePanelLocked()
		e.commit()
		if e.onNavigate != nil {
			e.onNavigate(slug)
		}
		return true
	}
	q := e.query
	if strings.TrimSpace(q) == "" {
		e.mu.Unlock()
		return false
	}
	e.closePanelLocked()
	e.commit()
	if e.onSubmit != nil {
		e.onSubmit(q)
	}
	return true
}

// escape closes an open panel and keeps the query; with the panel closed
// it clears a non-empty query; otherwise it does nothing.
func (e *Engine) escape() bool {
	e.mu.Lock()
	switch {
	case e.closed:
		e.mu.Unlock()
		return false
	case e.open:
		e.closePanelLocked()
		e.commit()
		return true
	case e.query != "":
		e.clearLocked()
		e.commit()
		return true
	}
	e.mu.Unlock()
	return false
}

// closePanelLocked hides the panel and drops any in-flight result.
func (e *Engine) closePanelLocked() {
	e.fetch.Cancel()
	e.seq++
	e.open = false
	e.highlight = -1
	if e.state == Pending {
		e.state = Idle
	}
}

func (e *Engine) clearLocked() {
	e.fetch.Cancel()
	e.seq++
	e.query = ""
	e.toIdleLocked()
}

// Select navigates to the suggestion at index i, as a click would.
func (e *Engine) Select(i int) bool {
	e.mu.Lock()
	if e.closed || !e.open || i < 0 || i >= len(e.suggestions) {
		e.mu.Unlock()
		return false
	}
	slug := e.suggestions[i].Slug
	e.closePanelLocked()
	e.commit()
	if e.onNavigate != nil {
		e.onNavigate(slug)
	}
	return true
}

// ClickOutside closes the panel and keeps the query.
func (e *Engine) ClickOutside() {
	e.mu.Lock()
	if e.closed || !e.open {
		e.mu.Unlock()
		return
	}
	e.closePanelLocked()
	e.commit()
}

// Focus reopens the panel for a non-empty query.
func (e *Engine) Focus() {
	e.mu.Lock()
	if e.closed || e.open || strings.TrimSpace(e.query) == "" {
		e.mu.Unlock()
		return
	}
	q := e.query
	e.mu.Unlock()
	e.Input(q)
}

// Clear empties the query and closes the panel.
func (e *Engine) Clear() {
	e.mu.Lock()
	if e.closed {
		e.mu.Unlock()
		return
	}
	e.clearLocked()
	e.commit()
}

// Flush fires a pending debounce timer now.
func (e *Engine) Flush() bool {
	return e.fetch.Flush()
}

// Wait blocks until in-flight fetches have returned.
func (e *Engine) Wait() {
	e.wg.Wait()
}

// Close detaches the engine. Later responses and calls are ignored.
func (e *Engine) Close() {
	e.mu.Lock()
	if e.closed {
		e.mu.Unlock()
		return
	}
	e.closed = true
	e.mu.Unlock()
	e.fetch.Cancel()
	e.cancel()
}
