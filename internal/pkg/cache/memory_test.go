package cache

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yaqubtawab/siwes-backend/internal/app/models"
)

func TestMemoryStatsCacheSetGet(t *testing.T) {
	ctx := context.Background()
	c := NewMemoryStatsCache(time.Minute)

	_, err := c.Get(ctx, 1)
	assert.ErrorIs(t, err, ErrCacheMiss)

	stats := &models.LogbookStats{Total: 10, Approved: 7, Pending: 2, Draft: 1}
	require.NoError(t, c.Set(ctx, 1, stats))

	got, err := c.Get(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, *stats, *got)

	// Keys are per student
	_, err = c.Get(ctx, 2)
	assert.ErrorIs(t, err, ErrCacheMiss)
}

func TestMemoryStatsCacheReturnsCopy(t *testing.T) {
	ctx := context.Background()
	c := NewMemoryStatsCache(time.Minute)

	require.NoError(t, c.Set(ctx, 1, &models.LogbookStats{Total: 5}))

	first, err := c.Get(ctx, 1)
	require.NoError(t, err)
	first.Total = 99

	second, err := c.Get(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, 5, second.Total, "a caller's mutation must not leak into the cache")
}

func TestMemoryStatsCacheExpiry(t *testing.T) {
	ctx := context.Background()
	c := NewMemoryStatsCache(20 * time.Millisecond)

	require.NoError(t, c.Set(ctx, 1, &models.LogbookStats{Total: 3}))

	_, err := c.Get(ctx, 1)
	require.NoError(t, err)

	time.Sleep(30 * time.Millisecond)

	_, err = c.Get(ctx, 1)
	assert.ErrorIs(t, err, ErrCacheMiss)
}

func TestMemoryStatsCacheInvalidate(t *testing.T) {
	ctx := context.Background()
	c := NewMemoryStatsCache(time.Minute)

	require.NoError(t, c.Set(ctx, 1, &models.LogbookStats{Total: 3}))
	require.NoError(t, c.Invalidate(ctx, 1))

	_, err := c.Get(ctx, 1)
	assert.ErrorIs(t, err, ErrCacheMiss)

	// Invalidating an absent key is not an error
	assert.NoError(t, c.Invalidate(ctx, 42))
}

func TestMemoryStatsCacheNilSet(t *testing.T) {
	ctx := context.Background()
	c := NewMemoryStatsCache(time.Minute)

	require.NoError(t, c.Set(ctx, 1, nil))

	_, err := c.Get(ctx, 1)
	assert.ErrorIs(t, err, ErrCacheMiss)
}
