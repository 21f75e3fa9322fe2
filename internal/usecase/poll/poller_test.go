package poll

import (
	"context"
	"sync/atomic"
	"testing"
	"time"
)

func TestLoopRunsEagerlyAndPeriodically(t *testing.T) {
	var runs atomic.Int32
	l := NewLoop(10*time.Millisecond, func(context.Context) {
		runs.Add(1)
	})

	ctx, cancel := context.WithCancel(context.Background())
	go l.Run(ctx)

	deadline := time.Now().Add(2 * time.Second)
	for runs.Load() < 3 && time.Now().Before(deadline) {
		time.Sleep(5 * time.Millisecond)
	}
	cancel()
	if runs.Load() < 3 {
		t.Fatalf("want at least 3 iterations, got %d", runs.Load())
	}
}

func TestLoopSkipsTicksWhileTaskOutstanding(t *testing.T) {
	var active, overlapped atomic.Int32
	l := NewLoop(5*time.Millisecond, func(context.Context) {
		if active.Add(1) > 1 {
			overlapped.Add(1)
		}
		time.Sleep(30 * time.Millisecond)
		active.Add(-1)
	})

	ctx, cancel := context.WithCancel(context.Background())
	go l.Run(ctx)
	time.Sleep(150 * time.Millisecond)
	cancel()

	if overlapped.Load() != 0 {
		t.Fatalf("iterations overlapped %d times", overlapped.Load())
	}
}

func TestLoopStopsOnCancel(t *testing.T) {
	var runs atomic.Int32
	l := NewLoop(5*time.Millisecond, func(context.Context) { runs.Add(1) })

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		l.Run(ctx)
		close(done)
	}()
	cancel()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("loop did not stop on cancellation")
	}
}
