package cache

import (
	"context"
	"time"
)

// IdempotencyStore records request keys so a retried mutation can be
// recognized and rejected instead of applied twice.
type IdempotencyStore interface {
	// MarkProcessed marks a key as processed with a TTL.
	// Returns true if the key was newly marked, false if it was already present.
	MarkProcessed(ctx context.Context, key string, ttl time.Duration) (bool, error)

	// IsProcessed checks if a key has already been processed
	IsProcessed(ctx context.Context, key string) (bool, error)

	// Close releases any resources held by the store
	Close() error
}
