// Package debounce provides generic rate-limiting wrappers for event handlers.
package debounce

import (
	"sync"
	"time"
)

// Debouncer delays calls to fn until wait has elapsed without a new call.
// In trailing mode (the default) fn receives the argument of the last call
// made during the quiet period. In immediate mode fn fires on the leading
// edge and further calls inside the window only extend it.
type Debouncer[T any] struct {
	mu        sync.Mutex
	wait      time.Duration
	fn        func(T)
	immediate bool
	timer     *time.Timer
	gen       uint64 // bumped on every arm, cancel and flush
	last      T
	pending   bool
}

// Option configures a Debouncer.
type Option func(*options)

type options struct {
	immediate bool
}

// Immediate makes the debouncer fire on the leading edge instead of the trailing one.
func Immediate() Option {
	return func(o *options) {
		o.immediate = true
	}
}

// New creates a Debouncer that calls fn after wait of inactivity.
func New[T any](wait time.Duration, fn func(T), opts ...Option) *Debouncer[T] {
	var o options
	for _, opt := range opts {
		opt(&o)
	}
	return &Debouncer[T]{
		wait:      wait,
		fn:        fn,
		immediate: o.immediate,
	}
}

// Call records arg and re-arms the timer.
func (d *Debouncer[T]) Call(arg T) {
	d.mu.Lock()
	fireNow := d.immediate && d.timer == nil
	d.last = arg
	d.pending = !d.immediate
	if d.timer != nil {
		d.timer.Stop()
	}
	d.gen++
	gen := d.gen
	d.timer = time.AfterFunc(d.wait, func() { d.expire(gen) })
	d.mu.Unlock()

	if fireNow {
		d.fn(arg)
	}
}

// expire runs when the timer armed as generation gen fires. A timer that
// fired while Call was re-arming belongs to an older generation and is ignored.
func (d *Debouncer[T]) expire(gen uint64) {
	d.mu.Lock()
	if gen != d.gen {
		d.mu.Unlock()
		return
	}
	d.timer = nil
	if !d.pending {
		d.mu.Unlock()
		return
	}
	arg := d.last
	d.pending = false
	d.mu.Unlock()

	d.fn(arg)
}

// Cancel drops any pending call.
func (d *Debouncer[T]) Cancel() {
	d.mu.Lock()
	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
	d.gen++
	d.pending = false
	d.mu.Unlock()
}

// Flush runs a pending trailing call right away. It reports whether a call was made.
func (d *Debouncer[T]) Flush() bool {
	d.mu.Lock()
	if !d.pending {
		d.mu.Unlock()
		return false
	}
	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
	d.gen++
	arg := d.last
	d.pending = false
	d.mu.Unlock()

	d.fn(arg)
	return true
}

// Pending reports whether a trailing call is scheduled.
func (d *Debouncer[T]) Pending() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.pending
}

// Func wraps fn in a trailing-edge debouncer and returns the wrapped handler.
func Func[T any](wait time.Duration, fn func(T)) func(T) {
	return New(wait, fn).Call
}
