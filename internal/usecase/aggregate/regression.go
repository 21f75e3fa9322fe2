package aggregate

import "sync"

// AlertFunc receives the id of a sale entering the regressed set.
type AlertFunc func(saleID string)

// Tracker guarantees at-least-once, at-most-once-per-id regression alerts
// across repeated polls. It is an explicit session-scoped object, reset on
// logout or full reload — not a hidden singleton.
type Tracker struct {
	mu    sync.Mutex
	seen  map[string]struct{}
	alert AlertFunc
}

func NewTracker(alert AlertFunc) *Tracker {
	return &Tracker{seen: map[string]struct{}{}, alert: alert}
}

// Observe records the current regressed set and fires the alert once for
// each id never seen before. Re-observed ids stay silent, which keeps
// periodic re-polling from storming. The newly alerted ids are returned.
func (t *Tracker) Observe(regressed []string) []string {
	t.mu.Lock()
	var fresh []string
	for _, id := range regressed {
		if _, ok := t.seen[id]; ok {
			continue
		}
		t.seen[id] = struct{}{}
		fresh = append(fresh, id)
	}
	alert := t.alert
	t.mu.Unlock()

	if alert != nil {
		for _, id := range fresh {
			alert(id)
		}
	}
	return fresh
}

// Reset forgets every alerted id. The next Observe re-alerts anything still
// regressed.
func (t *Tracker) Reset() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.seen = map[string]struct{}{}
}
