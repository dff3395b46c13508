package cache

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/d60-Lab/murmur/internal/model"
)

func setupCache(t *testing.T) *FeedCache {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	return NewFeedCache(rdb, time.Minute)
}

func TestFeedCache_RoundTrip(t *testing.T) {
	c := setupCache(t)
	ctx := context.Background()

	_, ok := c.GetPage(ctx, "public", 1, 10)
	assert.False(t, ok)

	page := &CachedPage{
		Items: []*model.Murmur{{ID: "m1", UserID: "u1", Content: "hello"}},
		Total: 1,
	}
	c.SetPage(ctx, "public", 1, 10, page)

	got, ok := c.GetPage(ctx, "public", 1, 10)
	require.True(t, ok)
	assert.EqualValues(t, 1, got.Total)
	require.Len(t, got.Items, 1)
	assert.Equal(t, "m1", got.Items[0].ID)

	// 不同页是不同键
	_, ok = c.GetPage(ctx, "public", 2, 10)
	assert.False(t, ok)
}

func TestFeedCache_Invalidate(t *testing.T) {
	c := setupCache(t)
	ctx := context.Background()

	c.SetPage(ctx, "public", 1, 10, &CachedPage{Total: 1})
	c.SetPage(ctx, "public", 2, 10, &CachedPage{Total: 1})
	c.SetPage(ctx, "trending", 1, 10, &CachedPage{Total: 1})

	c.InvalidateFeed(ctx, "public")

	_, ok := c.GetPage(ctx, "public", 1, 10)
	assert.False(t, ok)
	_, ok = c.GetPage(ctx, "public", 2, 10)
	assert.False(t, ok)
	// 其他 feed 不受影响
	_, ok = c.GetPage(ctx, "trending", 1, 10)
	assert.True(t, ok)
}

func TestFeedCache_NilSafe(t *testing.T) {
	var c *FeedCache
	ctx := context.Background()

	// nil 缓存是合法的 no-op
	_, ok := c.GetPage(ctx, "public", 1, 10)
	assert.False(t, ok)
	c.SetPage(ctx, "public", 1, 10, &CachedPage{})
	c.InvalidateFeed(ctx, "public")
}
