package kv

import (
	"context"
	"errors"
)

// ErrNotFound is returned by Get for an absent key.
var ErrNotFound = errors.New("kv: key not found")

// Store is the durable key-value persistence the local stores sit on.
// Keys are namespaced strings of the form "<namespace>_<userId>".
type Store interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
	// Keys returns every key with the given prefix.
	Keys(ctx context.Context, prefix string) ([]string, error)
}
