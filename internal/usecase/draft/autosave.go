package draft

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"nexus-intake/internal/domain/identity"
	"nexus-intake/internal/domain/sale"
	"nexus-intake/pkg/id"
)

// DebounceWindow is the quiet period after the last edit before the draft is
// written. A newer edit inside the window supersedes the pending write.
const DebounceWindow = 2 * time.Second

// Autosaver coalesces one user's form edits into debounced cache writes.
// A draft is only materialized once one of the two primary identity fields
// (name or tax id) is non-empty, so untouched forms never hit the cache.
type Autosaver struct {
	store  *Store
	user   identity.User
	log    *zap.Logger
	window time.Duration

	mu      sync.Mutex
	timer   *time.Timer
	pending *sale.CustomerData
	draftID string

	// onSaved, when set, is invoked after each completed write.
	onSaved func(sale.Sale)
}

func NewAutosaver(store *Store, user identity.User, log *zap.Logger) *Autosaver {
	return &Autosaver{store: store, user: user, log: log, window: DebounceWindow}
}

// DraftID returns the id assigned to the draft being edited, or "" while the
// form has no identity fields yet.
func (a *Autosaver) DraftID() string {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.draftID
}

// Target points the autosaver at an existing draft id (reopening a cached
// draft for further edits).
func (a *Autosaver) Target(draftID string) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.draftID = draftID
}

// Edit records the latest form state and (re)starts the debounce timer.
func (a *Autosaver) Edit(data sale.CustomerData) {
	a.mu.Lock()
	defer a.mu.Unlock()

	a.pending = &data
	if data.Nome != "" || data.CPF != "" {
		if a.draftID == "" {
			a.draftID = id.NewDraftID()
		}
	}
	if a.timer != nil {
		a.timer.Stop()
	}
	a.timer = time.AfterFunc(a.window, a.fire)
}

func (a *Autosaver) fire() {
	if err := a.Flush(context.Background()); err != nil {
		a.log.Error("draft autosave failed",
			zap.String("user_id", a.user.ID), zap.Error(err))
	}
}

// Flush writes the pending edit immediately, if there is one worth saving.
func (a *Autosaver) Flush(ctx context.Context) error {
	a.mu.Lock()
	data := a.pending
	a.pending = nil
	draftID := a.draftID
	if a.timer != nil {
		a.timer.Stop()
		a.timer = nil
	}
	a.mu.Unlock()

	if data == nil || (data.Nome == "" && data.CPF == "") {
		return nil
	}

	now := a.store.clk.Now()
	d := sale.Sale{
		ID:           draftID,
		SellerID:     a.user.ID,
		SellerName:   a.user.Name,
		CustomerData: *data,
		Status:       sale.StatusDraft,
		StatusHistory: []sale.HistoryEntry{
			{Status: sale.StatusDraft, UpdatedBy: a.user.Name, UpdatedAt: now},
		},
		CreatedAt: now,
	}
	if err := a.store.Save(ctx, a.user.ID, d); err != nil {
		return err
	}
	if a.onSaved != nil {
		a.onSaved(d)
	}
	return nil
}

// Stop cancels any pending write without flushing it.
func (a *Autosaver) Stop() {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.timer != nil {
		a.timer.Stop()
		a.timer = nil
	}
	a.pending = nil
}

// Hub hands out one Autosaver per user session.
type Hub struct {
	store *Store
	log   *zap.Logger

	mu     sync.Mutex
	savers map[string]*Autosaver
}

func NewHub(store *Store, log *zap.Logger) *Hub {
	return &Hub{store: store, log: log, savers: map[string]*Autosaver{}}
}

func (h *Hub) saver(user identity.User) *Autosaver {
	h.mu.Lock()
	defer h.mu.Unlock()
	a, ok := h.savers[user.ID]
	if !ok {
		a = NewAutosaver(h.store, user, h.log)
		h.savers[user.ID] = a
	}
	return a
}

// Edit routes a form edit to the user's autosaver. A non-empty draftID
// targets an existing cached draft. The (possibly newly assigned) draft id
// is returned so the caller can keep addressing the same draft.
func (h *Hub) Edit(user identity.User, draftID string, data sale.CustomerData) string {
	a := h.saver(user)
	if draftID != "" {
		a.Target(draftID)
	}
	a.Edit(data)
	return a.DraftID()
}

// Discard drops the user's pending edit, if any. Called when a draft is
// deleted or promoted so a stale timer cannot resurrect it.
func (h *Hub) Discard(user identity.User) {
	h.mu.Lock()
	a := h.savers[user.ID]
	delete(h.savers, user.ID)
	h.mu.Unlock()
	if a != nil {
		a.Stop()
	}
}
