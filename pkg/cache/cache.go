// Package cache stores derived reports keyed by ticker. Every backend encodes
// values as JSON so a value read back decodes the same way regardless of
// where it was stored.
package cache

import (
	"context"
	"errors"
	"strings"
	"time"
)

var ErrCacheMiss = errors.New("cache: key not found")

type Service interface {
	Set(ctx context.Context, key string, value any, expiration time.Duration) error
	Get(ctx context.Context, key string, dest any) error
	Delete(ctx context.Context, keys ...string) error
	// DeleteByPattern removes keys matching a glob such as "report:*".
	DeleteByPattern(ctx context.Context, pattern string) error
	Close() error
}

// GetOrLoad returns the cached value for key, or calls load and caches its result.
// Cache failures fall through to load; they never fail the call.
func GetOrLoad[T any](ctx context.Context, c Service, key string, expiration time.Duration, load func() (T, error)) (T, bool, error) {
	var cached T
	if err := c.Get(ctx, key, &cached); err == nil {
		return cached, true, nil
	}

	value, err := load()
	if err != nil {
		return value, false, err
	}
	_ = c.Set(ctx, key, value, expiration)
	return value, false, nil
}

// Key joins parts with ':'.
func Key(parts ...string) string {
	return strings.Join(parts, ":")
}

// Pattern matches every key that starts with prefix.
func Pattern(prefix string) string {
	return prefix + "*"
}
