package cache

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/orderdesk/backend/internal/infrastructure/config"
)

// NewIdempotencyStore creates an idempotency store for the configured
// backend. The redis backend falls back to in-memory when the connection
// fails, with a warning; the in-memory store does not share state across
// instances.
func NewIdempotencyStore(cfg *config.Config, logger *zap.Logger) (IdempotencyStore, error) {
	switch cfg.Cache.Backend {
	case "memory":
		return NewInMemoryIdempotencyStore(), nil
	case "redis":
		store, err := NewRedisIdempotencyStore(cfg.Redis)
		if err != nil {
			logger.Warn("Redis unavailable, falling back to in-memory idempotency store",
				zap.Error(err))
			return NewInMemoryIdempotencyStore(), nil
		}
		logger.Info("using Redis idempotency store")
		return store, nil
	default:
		return nil, fmt.Errorf("unknown cache backend %q", cfg.Cache.Backend)
	}
}
