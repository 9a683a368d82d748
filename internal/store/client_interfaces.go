package store

import (
	"context"
)

// LocalCache is the client-side key-value store behind the offline cache.
// Values are opaque strings (JSON documents in practice).
type LocalCache interface {
	// Get returns ErrCacheKeyNotFound for missing keys.
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key, value string) error
	// Remove is a no-op for missing keys.
	Remove(ctx context.Context, key string) error
	Keys(ctx context.Context) ([]string, error)
	RemoveMany(ctx context.Context, keys []string) error
}
