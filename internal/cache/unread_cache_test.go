package cache

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupUnreadCache(t *testing.T) *UnreadCache {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	return NewUnreadCache(rdb, time.Minute)
}

func TestUnreadCache_RoundTrip(t *testing.T) {
	c := setupUnreadCache(t)
	ctx := context.Background()

	_, ok := c.Get(ctx, "u1")
	assert.False(t, ok)

	c.Set(ctx, "u1", 7)
	n, ok := c.Get(ctx, "u1")
	require.True(t, ok)
	assert.EqualValues(t, 7, n)

	// 失效只影响目标用户
	c.Set(ctx, "u2", 3)
	c.Invalidate(ctx, "u1")
	_, ok = c.Get(ctx, "u1")
	assert.False(t, ok)
	n, ok = c.Get(ctx, "u2")
	require.True(t, ok)
	assert.EqualValues(t, 3, n)
}

func TestUnreadCache_NilSafe(t *testing.T) {
	var c *UnreadCache
	ctx := context.Background()

	_, ok := c.Get(ctx, "u1")
	assert.False(t, ok)
	c.Set(ctx, "u1", 1)
	c.Invalidate(ctx, "u1")
}
