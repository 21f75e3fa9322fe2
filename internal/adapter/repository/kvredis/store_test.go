package kvredis

import (
	"context"
	"errors"
	"sort"
	"testing"

	"github.com/alicebob/miniredis/v2"

	"nexus-intake/internal/domain/kv"
)

func newStore(t *testing.T) *Store {
	t.Helper()
	s := miniredis.RunT(t)
	c, err := Open(s.Addr(), 0)
	if err != nil {
		t.Fatalf("Open returned error: %v", err)
	}
	t.Cleanup(func() { _ = c.Close() })
	return New(c)
}

func TestOpenFailure(t *testing.T) {
	if _, err := Open("not-a-real-host:6379", 0); err == nil {
		t.Fatal("expected error, got nil")
	}
}

func TestRoundTrip(t *testing.T) {
	ctx := context.Background()
	st := newStore(t)

	if _, err := st.Get(ctx, "nexus_cache_u1"); !errors.Is(err, kv.ErrNotFound) {
		t.Fatalf("want ErrNotFound, got %v", err)
	}
	if err := st.Set(ctx, "nexus_cache_u1", []byte("payload")); err != nil {
		t.Fatalf("Set err: %v", err)
	}
	got, err := st.Get(ctx, "nexus_cache_u1")
	if err != nil || string(got) != "payload" {
		t.Fatalf("Get = %q, %v", got, err)
	}
	if err := st.Delete(ctx, "nexus_cache_u1"); err != nil {
		t.Fatalf("Delete err: %v", err)
	}
	if _, err := st.Get(ctx, "nexus_cache_u1"); !errors.Is(err, kv.ErrNotFound) {
		t.Fatalf("want ErrNotFound after delete, got %v", err)
	}
}

func TestKeysPrefix(t *testing.T) {
	ctx := context.Background()
	st := newStore(t)
	_ = st.Set(ctx, "nexus_sales_u1", nil)
	_ = st.Set(ctx, "nexus_sales_u2", nil)
	_ = st.Set(ctx, "nexus_cache_u1", nil)

	keys, err := st.Keys(ctx, "nexus_sales_")
	if err != nil {
		t.Fatal(err)
	}
	sort.Strings(keys)
	if len(keys) != 2 || keys[0] != "nexus_sales_u1" || keys[1] != "nexus_sales_u2" {
		t.Fatalf("Keys = %v", keys)
	}
}
