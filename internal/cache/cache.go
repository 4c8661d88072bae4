// Package cache stores serialized success payloads keyed by the SHA-256 of
// the uploaded document.
package cache

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/joseph-ayodele/invoice-extractor/internal/common"
)

// Cache is a best-effort byte store. Lookups that fail for any reason are
// misses; Set failures are logged by the implementation and never surface.
type Cache interface {
	Get(ctx context.Context, key string) ([]byte, bool)
	Set(ctx context.Context, key string, value []byte)
}

// Nop caches nothing.
type Nop struct{}

func (Nop) Get(context.Context, string) ([]byte, bool) { return nil, false }
func (Nop) Set(context.Context, string, []byte) {}

// New builds the cache selected by cfg.Backend.
func New(cfg common.CacheConfig, logger *slog.Logger) (Cache, error) {
	switch cfg.Backend {
	case "", "none":
		return Nop{}, nil
	case "memory":
		return NewMemory(cfg.Capacity, cfg.TTL), nil
	case "redis":
		opts, err := redis.ParseURL(cfg.RedisURL)
		if err != nil {
			return nil, fmt.Errorf("parse REDIS_URL: %w", err)
		}
		return NewRedis(redis.NewClient(opts), logger, WithTTL(cfg.TTL)), nil
	default:
		return nil, fmt.Errorf("unknown cache backend %q", cfg.Backend)
	}
}

type clock func() time.Time
