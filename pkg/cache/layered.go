package cache

import (
	"context"
	"time"
)

// LayeredOption configures LayeredCache.
type LayeredOption func(*layeredConfig)

type layeredConfig struct {
	memorySize int
	memoryTTL  time.Duration
}

// WithLayeredMemorySize bounds the local copy.
func WithLayeredMemorySize(n int) LayeredOption {
	return func(c *layeredConfig) { c.memorySize = n }
}

// WithLayeredMemoryTTL caps how long a replica serves its local copy before
// going back to the shared layer.
func WithLayeredMemoryTTL(ttl time.Duration) LayeredOption {
	return func(c *layeredConfig) { c.memoryTTL = ttl }
}

// LayeredCache fronts a shared cache (usually Redis) with a short-lived local
// copy. Writes go through to the shared layer first.
type LayeredCache struct {
	local  *MemoryCache
	shared Service
	ttl    time.Duration
}

func NewLayeredCache(shared Service, opts ...LayeredOption) *LayeredCache {
	cfg := layeredConfig{memorySize: 1000, memoryTTL: time.Minute}
	for _, opt := range opts {
		opt(&cfg)
	}
	return &LayeredCache{
		local:  NewMemoryCache(WithMemoryMaxSize(cfg.memorySize)),
		shared: shared,
		ttl:    cfg.memoryTTL,
	}
}

func (lc *LayeredCache) Set(ctx context.Context, key string, value any, expiration time.Duration) error {
	if err := lc.shared.Set(ctx, key, value, expiration); err != nil {
		return err
	}
	return lc.local.Set(ctx, key, value, lc.localTTL(expiration))
}

func (lc *LayeredCache) Get(ctx context.Context, key string, dest any) error {
	if err := lc.local.Get(ctx, key, dest); err == nil {
		return nil
	}
	if err := lc.shared.Get(ctx, key, dest); err != nil {
		return err
	}
	_ = lc.local.Set(ctx, key, dest, lc.ttl)
	return nil
}

// Delete evicts locally even when the shared layer fails.
func (lc *LayeredCache) Delete(ctx context.Context, keys ...string) error {
	_ = lc.local.Delete(ctx, keys...)
	return lc.shared.Delete(ctx, keys...)
}

func (lc *LayeredCache) DeleteByPattern(ctx context.Context, pattern string) error {
	_ = lc.local.DeleteByPattern(ctx, pattern)
	return lc.shared.DeleteByPattern(ctx, pattern)
}

func (lc *LayeredCache) localTTL(expiration time.Duration) time.Duration {
	if expiration > 0 && expiration < lc.ttl {
		return expiration
	}
	return lc.ttl
}

func (lc *LayeredCache) Close() error {
	_ = lc.local.Close()
	return lc.shared.Close()
}

var _ Service = (*LayeredCache)(nil)
