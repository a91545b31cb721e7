package cache

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type report struct {
	Ticker  string  `json:"ticker"`
	Overall float64 `json:"overall"`
}

// newTestMemory returns a cache without a sweeper and with a settable clock.
func newTestMemory(t *testing.T, opts ...MemoryOption) (*MemoryCache, *time.Time) {
	t.Helper()
	now := time.Date(2025, 10, 1, 12, 0, 0, 0, time.UTC)
	mc := NewMemoryCache(append([]MemoryOption{WithMemoryCleanup(0)}, opts...)...)
	mc.now = func() time.Time { return now }
	t.Cleanup(func() { _ = mc.Close() })
	return mc, &now
}

func TestMemoryCacheRoundTrip(t *testing.T) {
	ctx := context.Background()
	mc, _ := newTestMemory(t)

	require.NoError(t, mc.Set(ctx, "report:PLPL3", report{Ticker: "PLPL3", Overall: 88}, time.Minute))

	var got report
	require.NoError(t, mc.Get(ctx, "report:PLPL3", &got))
	assert.Equal(t, report{Ticker: "PLPL3", Overall: 88}, got)

	assert.ErrorIs(t, mc.Get(ctx, "report:NOPE", &got), ErrCacheMiss)
}

func TestMemoryCacheExpiry(t *testing.T) {
	ctx := context.Background()
	mc, now := newTestMemory(t)

	require.NoError(t, mc.Set(ctx, "short", 1, time.Minute))
	require.NoError(t, mc.Set(ctx, "default", 2, 0))
	*now = now.Add(2 * time.Minute)

	var v int
	assert.ErrorIs(t, mc.Get(ctx, "short", &v), ErrCacheMiss)
	require.NoError(t, mc.Get(ctx, "default", &v))
	assert.Equal(t, 2, v)
	assert.Equal(t, 1, mc.Len())

	*now = now.Add(25 * time.Hour)
	mc.purgeExpired()
	assert.Equal(t, 0, mc.Len())
}

func TestMemoryCacheDeleteByPattern(t *testing.T) {
	ctx := context.Background()
	mc, _ := newTestMemory(t)

	for _, k := range []string{"insights:ONCO3", "report:confidence:ONCO3", "report:insights:CASH3"} {
		require.NoError(t, mc.Set(ctx, k, k, 0))
	}
	require.NoError(t, mc.DeleteByPattern(ctx, Pattern("report:")))

	var s string
	assert.ErrorIs(t, mc.Get(ctx, "report:confidence:ONCO3", &s), ErrCacheMiss)
	require.NoError(t, mc.Get(ctx, "insights:ONCO3", &s))
	assert.Equal(t, "insights:ONCO3", s)

	assert.Error(t, mc.DeleteByPattern(ctx, "report:["))
}

func TestMemoryCacheEvictsLeastRecentlyUsed(t *testing.T) {
	ctx := context.Background()
	mc, _ := newTestMemory(t, WithMemoryMaxSize(2))

	require.NoError(t, mc.Set(ctx, "a", 1, 0))
	require.NoError(t, mc.Set(ctx, "b", 2, 0))

	var v int
	require.NoError(t, mc.Get(ctx, "a", &v)) // a is now newer than b
	require.NoError(t, mc.Set(ctx, "c", 3, 0))

	assert.ErrorIs(t, mc.Get(ctx, "b", &v), ErrCacheMiss)
	require.NoError(t, mc.Get(ctx, "a", &v))
	assert.Equal(t, 1, v)
	assert.Equal(t, 2, mc.Len())

	// Overwriting an existing key never evicts.
	require.NoError(t, mc.Set(ctx, "c", 30, 0))
	assert.Equal(t, 2, mc.Len())
}

func TestGetOrLoad(t *testing.T) {
	ctx := context.Background()
	mc, _ := newTestMemory(t)

	calls := 0
	load := func() (report, error) {
		calls++
		return report{Ticker: "CASH3", Overall: 65}, nil
	}
	key := Key("report", "confidence", "CASH3")

	got, hit, err := GetOrLoad(ctx, mc, key, time.Minute, load)
	require.NoError(t, err)
	assert.False(t, hit)
	assert.Equal(t, 65.0, got.Overall)

	got, hit, err = GetOrLoad(ctx, mc, key, time.Minute, load)
	require.NoError(t, err)
	assert.True(t, hit)
	assert.Equal(t, "CASH3", got.Ticker)
	assert.Equal(t, 1, calls)

	_, _, err = GetOrLoad(ctx, mc, Key("report", "x"), time.Minute, func() (report, error) {
		return report{}, errors.New("unknown ticker")
	})
	assert.Error(t, err)
}

func TestKeys(t *testing.T) {
	assert.Equal(t, "report:insights:PLPL3", Key("report", "insights", "PLPL3"))
	assert.Equal(t, "report:*", Pattern("report:"))
}

func TestLayeredCache(t *testing.T) {
	ctx := context.Background()
	shared, _ := newTestMemory(t)
	lc := NewLayeredCache(shared, WithLayeredMemoryTTL(time.Minute))
	defer lc.local.Close()

	require.NoError(t, lc.Set(ctx, "report:confidence:SMFT3", report{Ticker: "SMFT3"}, time.Hour))

	var got report
	require.NoError(t, shared.Get(ctx, "report:confidence:SMFT3", &got))
	assert.Equal(t, "SMFT3", got.Ticker)

	// A value written by another replica is pulled into the local layer.
	require.NoError(t, shared.Set(ctx, "report:insights:SMFT3", report{Ticker: "SMFT3", Overall: 1}, time.Hour))
	require.NoError(t, lc.Get(ctx, "report:insights:SMFT3", &got))
	assert.Equal(t, 1.0, got.Overall)
	assert.Equal(t, 2, lc.local.Len())

	require.NoError(t, lc.Delete(ctx, "report:insights:SMFT3"))
	assert.ErrorIs(t, lc.Get(ctx, "report:insights:SMFT3", &got), ErrCacheMiss)

	require.NoError(t, lc.DeleteByPattern(ctx, Pattern("report:")))
	assert.Equal(t, 0, shared.Len())
	assert.Equal(t, 0, lc.local.Len())
}

func TestLayeredLocalTTL(t *testing.T) {
	lc := &LayeredCache{ttl: time.Minute}
	assert.Equal(t, 10*time.Second, lc.localTTL(10*time.Second))
	assert.Equal(t, time.Minute, lc.localTTL(time.Hour))
	assert.Equal(t, time.Minute, lc.localTTL(0))
}
