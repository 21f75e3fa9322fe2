// Package draft holds the per-user cache of in-progress enrollment records:
// time-boxed, obfuscated at rest, rewritten in full on every mutation.
package draft

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"nexus-intake/internal/clock"
	"nexus-intake/internal/domain/kv"
	"nexus-intake/internal/domain/sale"
	"nexus-intake/pkg/cryptocache"
)

const keyPrefix = "nexus_cache_"

// TTL is the fixed draft lifetime, counted from the last rewrite.
const TTL = 24 * time.Hour

func Key(userID string) string { return keyPrefix + userID }

type Store struct {
	kv  kv.Store
	clk clock.Clock
	log *zap.Logger
}

func NewStore(store kv.Store, clk clock.Clock, log *zap.Logger) *Store {
	return &Store{kv: store, clk: clk, log: log}
}

// load returns the decoded draft list. A missing or undecodable cache is
// treated as empty — logged, never surfaced. A backend read failure is
// returned: mutations must not rewrite the list from a false empty.
func (s *Store) load(ctx context.Context, userID string) ([]sale.Sale, error) {
	raw, err := s.kv.Get(ctx, Key(userID))
	if errors.Is(err, kv.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("draft: read cache for %s: %w", userID, err)
	}
	plain, err := cryptocache.Decode(string(raw), userID)
	if err != nil {
		s.log.Warn("draft cache undecodable, treating as empty",
			zap.String("user_id", userID), zap.Error(err))
		return nil, nil
	}
	var drafts []sale.Sale
	if err := json.Unmarshal(plain, &drafts); err != nil {
		s.log.Warn("draft cache payload rejected, treating as empty",
			zap.String("user_id", userID), zap.Error(err))
		return nil, nil
	}
	return drafts, nil
}

// live filters out expired entries. The filter is non-destructive: storage
// keeps expired entries until the next explicit mutation rewrites the list.
func (s *Store) live(drafts []sale.Sale) []sale.Sale {
	now := s.clk.Now()
	out := make([]sale.Sale, 0, len(drafts))
	for _, d := range drafts {
		if !d.Expired(now) {
			out = append(out, d)
		}
	}
	return out
}

// List returns the user's unexpired drafts. An unreachable backend degrades
// to an empty list: reads never fail the caller.
func (s *Store) List(ctx context.Context, userID string) ([]sale.Sale, error) {
	drafts, err := s.load(ctx, userID)
	if err != nil {
		s.log.Warn("draft cache read failed, treating as empty",
			zap.String("user_id", userID), zap.Error(err))
		return nil, nil
	}
	return s.live(drafts), nil
}

func (s *Store) write(ctx context.Context, userID string, drafts []sale.Sale) error {
	raw, err := json.Marshal(drafts)
	if err != nil {
		return fmt.Errorf("draft: encode cache for %s: %w", userID, err)
	}
	if err := s.kv.Set(ctx, Key(userID), []byte(cryptocache.Encode(raw, userID))); err != nil {
		return fmt.Errorf("draft: write cache for %s: %w", userID, err)
	}
	return nil
}

// Save rewrites the user's whole draft list with d applied: replaced when the
// id already exists, prepended otherwise. The draft's expiry is restamped.
// A failed backend read aborts the rewrite so sibling drafts survive.
func (s *Store) Save(ctx context.Context, userID string, d sale.Sale) error {
	exp := s.clk.Now().Add(TTL)
	d.ExpiresAt = &exp
	d.Status = sale.StatusDraft

	loaded, err := s.load(ctx, userID)
	if err != nil {
		return err
	}
	drafts := s.live(loaded)
	replaced := false
	for i := range drafts {
		if drafts[i].ID == d.ID {
			drafts[i] = d
			replaced = true
			break
		}
	}
	if !replaced {
		drafts = append([]sale.Sale{d}, drafts...)
	}
	return s.write(ctx, userID, drafts)
}

// Delete removes a draft immediately, independent of expiry. Deleting an
// absent id is not an error. An emptied partition drops its cache key
// entirely instead of storing an empty list.
func (s *Store) Delete(ctx context.Context, userID, draftID string) error {
	loaded, err := s.load(ctx, userID)
	if err != nil {
		return err
	}
	drafts := s.live(loaded)
	out := drafts[:0]
	for _, d := range drafts {
		if d.ID != draftID {
			out = append(out, d)
		}
	}
	if len(out) == 0 {
		if err := s.kv.Delete(ctx, Key(userID)); err != nil {
			return fmt.Errorf("draft: drop cache for %s: %w", userID, err)
		}
		return nil
	}
	return s.write(ctx, userID, out)
}
