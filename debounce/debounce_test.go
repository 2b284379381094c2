package debounce

import (
	"sync"
	"testing"
	"time"
)

type recorder struct {
	mu    sync.Mutex
	calls []int
	done  chan struct{}
}

func newRecorder() *recorder {
	return &recorder{done: make(chan struct{}, 16)}
}

func (r *recorder) record(v int) {
	r.mu.Lock()
	r.calls = append(r.calls, v)
	r.mu.Unlock()
	r.done <- struct{}{}
}

func (r *recorder) snapshot() []int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]int(nil), r.calls...)
}

func TestDebouncerFiresOnceWithLastArgument(t *testing.T) {
	rec := newRecorder()
	d := New(30*time.Millisecond, rec.record)

	for i := 1; i <= 5; i++ {
		d.Call(i)
	}

	select {
	case <-rec.done:
	case <-time.After(time.Second):
		t.Fatal("debounced call never fired")
	}
	time.Sleep(60 * time.Millisecond)

	got := rec.snapshot()
	if len(got) != 1 {
		t.Fatalf("calls = %v, want exactly one", got)
	}
	if got[0] != 5 {
		t.Errorf("argument = %d, want 5", got[0])
	}
}

func TestDebouncerSeparateBursts(t *testing.T) {
	rec := newRecorder()
	d := New(20*time.Millisecond, rec.record)

	d.Call(1)
	<-rec.done
	d.Call(2)
	d.Call(3)
	<-rec.done

	got := rec.snapshot()
	if len(got) != 2 || got[0] != 1 || got[1] != 3 {
		t.Errorf("calls = %v, want [1 3]", got)
	}
}

func TestDebouncerImmediate(t *testing.T) {
	rec := newRecorder()
	d := New(40*time.Millisecond, rec.record, Immediate())

	d.Call(1)
	d.Call(2)
	d.Call(3)

	got := rec.snapshot()
	if len(got) != 1 || got[0] != 1 {
		t.Fatalf("calls = %v, want [1] on the leading edge", got)
	}

	time.Sleep(80 * time.Millisecond)
	if got := rec.snapshot(); len(got) != 1 {
		t.Errorf("calls = %v, immediate mode must not fire a trailing call", got)
	}

	d.Call(4)
	if got := rec.snapshot(); len(got) != 2 || got[1] != 4 {
		t.Errorf("calls = %v, want a new leading call after the window", got)
	}
}

func TestDebouncerCancel(t *testing.T) {
	rec := newRecorder()
	d := New(20*time.Millisecond, rec.record)

	d.Call(1)
	if !d.Pending() {
		t.Fatal("expected a pending call")
	}
	d.Cancel()
	time.Sleep(50 * time.Millisecond)

	if got := rec.snapshot(); len(got) != 0 {
		t.Errorf("calls = %v, want none after Cancel", got)
	}
}

func TestDebouncerFlush(t *testing.T) {
	rec := newRecorder()
	d := New(time.Hour, rec.record)

	if d.Flush() {
		t.Fatal("Flush with nothing pending should report false")
	}
	d.Call(7)
	if !d.Flush() {
		t.Fatal("Flush should run the pending call")
	}
	if got := rec.snapshot(); len(got) != 1 || got[0] != 7 {
		t.Errorf("calls = %v, want [7]", got)
	}
}

func TestDebouncerIgnoresTimerFromEarlierArm(t *testing.T) {
	rec := newRecorder()
	d := New(50*time.Millisecond, rec.record)

	d.Call(1)
	d.Call(2)
	// The first timer fired just as Call(2) re-armed and only now gets the lock.
	d.expire(1)
	if got := rec.snapshot(); len(got) != 0 {
		t.Fatalf("calls = %v, want none before the quiet period", got)
	}
	d.Call(3)

	select {
	case <-rec.done:
	case <-time.After(time.Second):
		t.Fatal("debounced call never fired")
	}
	time.Sleep(150 * time.Millisecond)

	if got := rec.snapshot(); len(got) != 1 || got[0] != 3 {
		t.Errorf("calls = %v, want [3]", got)
	}
}

func TestThrottlerDropsCallsInsideInterval(t *testing.T) {
	var calls []string
	th := NewThrottler(time.Minute, func(s string) { calls = append(calls, s) })
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	th.now = func() time.Time { return now }

	if !th.Call("a") {
		t.Fatal("first call should pass")
	}
	if th.Call("b") {
		t.Fatal("second call inside interval should be dropped")
	}
	now = now.Add(time.Minute)
	if !th.Call("c") {
		t.Fatal("call after interval should pass")
	}
	th.Reset()
	if !th.Call("d") {
		t.Fatal("call after Reset should pass")
	}

	if len(calls) != 3 || calls[0] != "a" || calls[1] != "c" || calls[2] != "d" {
		t.Errorf("calls = %v, want [a c d]", calls)
	}
}
