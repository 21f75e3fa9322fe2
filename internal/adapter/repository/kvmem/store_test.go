package kvmem

import (
	"context"
	"errors"
	"testing"

	"nexus-intake/internal/domain/kv"
)

func TestGetSetDelete(t *testing.T) {
	ctx := context.Background()
	s := New()

	if _, err := s.Get(ctx, "nexus_sales_u1"); !errors.Is(err, kv.ErrNotFound) {
		t.Fatalf("want ErrNotFound, got %v", err)
	}

	if err := s.Set(ctx, "nexus_sales_u1", []byte("a")); err != nil {
		t.Fatal(err)
	}
	got, err := s.Get(ctx, "nexus_sales_u1")
	if err != nil || string(got) != "a" {
		t.Fatalf("Get = %q, %v", got, err)
	}

	// returned slice must not alias the stored one
	got[0] = 'z'
	again, _ := s.Get(ctx, "nexus_sales_u1")
	if string(again) != "a" {
		t.Fatal("Get aliases internal storage")
	}

	if err := s.Delete(ctx, "nexus_sales_u1"); err != nil {
		t.Fatal(err)
	}
	if _, err := s.Get(ctx, "nexus_sales_u1"); !errors.Is(err, kv.ErrNotFound) {
		t.Fatalf("want ErrNotFound after delete, got %v", err)
	}
}

func TestKeysPrefix(t *testing.T) {
	ctx := context.Background()
	s := New()
	_ = s.Set(ctx, "nexus_sales_u2", nil)
	_ = s.Set(ctx, "nexus_sales_u1", nil)
	_ = s.Set(ctx, "nexus_cache_u1", nil)

	keys, err := s.Keys(ctx, "nexus_sales_")
	if err != nil {
		t.Fatal(err)
	}
	if len(keys) != 2 || keys[0] != "nexus_sales_u1" || keys[1] != "nexus_sales_u2" {
		t.Fatalf("Keys = %v", keys)
	}
}
