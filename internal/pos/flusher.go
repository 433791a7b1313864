package pos

import (
	"context"
	"sync"
	"sync/atomic"
	"time"
)

// Flusher schedules background persistence flushes. Schedule collapses a
// burst of calls into one flush after a quiet period; Now dispatches
// immediately. Flushes run in their own goroutine and never block the
// caller. The only ordering guarantee is last-write-wins at the backend.
type Flusher struct {
	debounce time.Duration
	flush    func(context.Context)

	mu      sync.Mutex
	timer   *time.Timer
	pending bool
	closed  bool

	wg     sync.WaitGroup
	active atomic.Int64
}

// NewFlusher creates a flusher invoking flush after each trigger.
// A zero debounce makes Schedule behave like Now.
func NewFlusher(debounce time.Duration, flush func(context.Context)) *Flusher {
	return &Flusher{
		debounce: debounce,
		flush:    flush,
	}
}

// Schedule arms (or re-arms) the debounce timer. A call within the quiet
// window cancels the pending flush and starts the window over, so only
// the trailing state of a burst is ever written.
func (f *Flusher) Schedule() {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.closed {
		return
	}

	if f.timer != nil {
		f.timer.Stop()
	}
	f.pending = true
	f.timer = time.AfterFunc(f.debounce, f.fire)
}

// Now dispatches a flush immediately, bypassing the debounce window
func (f *Flusher) Now() {
	f.dispatch()
}

// Saving reports whether a flush is currently in flight. UI feedback
// only; not a synchronization primitive.
func (f *Flusher) Saving() bool {
	return f.active.Load() > 0
}

// Close cancels the pending timer, runs any pending flush synchronously,
// and waits for in-flight flushes to finish
func (f *Flusher) Close() {
	f.mu.Lock()
	if f.closed {
		f.mu.Unlock()
		return
	}
	f.closed = true
	pending := f.pending
	f.pending = false
	if f.timer != nil {
		f.timer.Stop()
	}
	f.mu.Unlock()

	if pending {
		f.flush(context.Background())
	}
	f.wg.Wait()
}

func (f *Flusher) fire() {
	f.mu.Lock()
	if f.closed || !f.pending {
		f.mu.Unlock()
		return
	}
	f.pending = false
	f.mu.Unlock()

	f.dispatch()
}

func (f *Flusher) dispatch() {
	f.mu.Lock()
	if f.closed {
		f.mu.Unlock()
		return
	}
	f.wg.Add(1)
	f.active.Add(1)
	f.mu.Unlock()

	go func() {
		defer f.wg.Done()
		defer f.active.Add(-1)
		f.flush(context.Background())
	}()
}
