// Package poll provides the single-flight periodic loops that drive
// reconciliation, queue refresh and synchronization.
package poll

import (
	"context"
	"sync/atomic"
	"time"
)

// Task is one loop iteration. It should honor ctx cancellation.
type Task func(ctx context.Context)

// Loop runs a task at a fixed interval, once eagerly on start. A tick is
// skipped while the previous iteration is still in flight, so slow remote
// calls cannot pile up re-entrant runs.
type Loop struct {
	interval time.Duration
	task     Task
	running  atomic.Bool
}

func NewLoop(interval time.Duration, task Task) *Loop {
	return &Loop{interval: interval, task: task}
}

// Run blocks until ctx is cancelled. Call it in its own goroutine.
func (l *Loop) Run(ctx context.Context) {
	l.tick(ctx)
	t := time.NewTicker(l.interval)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			l.tick(ctx)
		}
	}
}

func (l *Loop) tick(ctx context.Context) {
	if !l.running.CompareAndSwap(false, true) {
		return // previous iteration outstanding: skip, do not overlap
	}
	go func() {
		defer l.running.Store(false)
		l.task(ctx)
	}()
}
