package pos

import (
	"context"
	"sync/atomic"
	"testing"
	"time"
)

func waitFor(t *testing.T, timeout time.Duration, cond func() bool) bool {
	t.Helper()

	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		if cond() {
			return true
		}
		time.Sleep(5 * time.Millisecond)
	}
	return cond()
}

func TestFlusher_DebounceCollapsesBurst(t *testing.T) {
	var count atomic.Int64
	f := NewFlusher(30*time.Millisecond, func(ctx context.Context) {
		count.Add(1)
	})
	defer f.Close()

	// A burst of edits within the quiet window must produce one write
	for i := 0; i < 10; i++ {
		f.Schedule()
	}

	if !waitFor(t, time.Second, func() bool { return count.Load() == 1 }) {
		t.Fatalf("flush count = %d, want 1", count.Load())
	}

	// Confirm no further flushes trail in
	time.Sleep(60 * time.Millisecond)
	if got := count.Load(); got != 1 {
		t.Errorf("flush count after settling = %d, want 1", got)
	}
}

func TestFlusher_RescheduleCancelsPendingTimer(t *testing.T) {
	var count atomic.Int64
	f := NewFlusher(40*time.Millisecond, func(ctx context.Context) {
		count.Add(1)
	})
	defer f.Close()

	f.Schedule()
	time.Sleep(20 * time.Millisecond)
	f.Schedule() // restarts the quiet window

	time.Sleep(25 * time.Millisecond)
	if got := count.Load(); got != 0 {
		t.Fatalf("flush fired before quiet window elapsed, count = %d", got)
	}

	if !waitFor(t, time.Second, func() bool { return count.Load() == 1 }) {
		t.Errorf("flush count = %d, want 1", count.Load())
	}
}

func TestFlusher_NowBypassesDebounce(t *testing.T) {
	var count atomic.Int64
	f := NewFlusher(time.Hour, func(ctx context.Context) {
		count.Add(1)
	})
	defer f.Close()

	f.Now()

	if !waitFor(t, time.Second, func() bool { return count.Load() == 1 }) {
		t.Errorf("flush count = %d, want 1", count.Load())
	}
}

func TestFlusher_CloseRunsPendingFlush(t *testing.T) {
	var count atomic.Int64
	f := NewFlusher(time.Hour, func(ctx context.Context) {
		count.Add(1)
	})

	f.Schedule()
	f.Close()

	if got := count.Load(); got != 1 {
		t.Errorf("flush count after Close = %d, want 1", got)
	}

	// Triggers after Close are dropped
	f.Schedule()
	f.Now()
	time.Sleep(20 * time.Millisecond)
	if got := count.Load(); got != 1 {
		t.Errorf("flush count after post-Close triggers = %d, want 1", got)
	}
}

func TestFlusher_SavingReflectsInFlightFlush(t *testing.T) {
	release := make(chan struct{})
	started := make(chan struct{})
	f := NewFlusher(0, func(ctx context.Context) {
		close(started)
		<-release
	})

	f.Now()
	<-started

	if !f.Saving() {
		t.Error("Saving = false during in-flight flush")
	}

	close(release)
	f.Close()

	if f.Saving() {
		t.Error("Saving = true after flushes drained")
	}
}
