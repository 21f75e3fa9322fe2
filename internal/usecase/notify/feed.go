// Package notify keeps a small in-process feed of operator-facing events
// (regression alerts, sync warnings). Read-only for clients.
package notify

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"nexus-intake/internal/clock"
)

type Type string

const (
	Info    Type = "info"
	Success Type = "success"
	Warning Type = "warning"
)

type Notification struct {
	ID        string    `json:"id"`
	Message   string    `json:"message"`
	Type      Type      `json:"type"`
	Timestamp time.Time `json:"timestamp"`
}

const maxEntries = 100

type Feed struct {
	clk clock.Clock

	mu    sync.Mutex
	items []Notification
}

func NewFeed(clk clock.Clock) *Feed {
	return &Feed{clk: clk}
}

func (f *Feed) Push(message string, typ Type) Notification {
	n := Notification{
		ID:        uuid.NewString(),
		Message:   message,
		Type:      typ,
		Timestamp: f.clk.Now(),
	}
	f.mu.Lock()
	f.items = append(f.items, n)
	if len(f.items) > maxEntries {
		f.items = f.items[len(f.items)-maxEntries:]
	}
	f.mu.Unlock()
	return n
}

// List returns a copy, newest first.
func (f *Feed) List() []Notification {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]Notification, 0, len(f.items))
	for i := len(f.items) - 1; i >= 0; i-- {
		out = append(out, f.items[i])
	}
	return out
}
