package cache

import (
	"context"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
)

// UnreadCache caches per-user unread notification counts. Like FeedCache,
// a nil *UnreadCache is a valid no-op.
type UnreadCache struct {
	rdb *redis.Client
	ttl time.Duration
}

func NewUnreadCache(rdb *redis.Client, ttl time.Duration) *UnreadCache {
	if rdb == nil {
		return nil
	}
	if ttl <= 0 {
		ttl = 30 * time.Second
	}
	return &UnreadCache{rdb: rdb, ttl: ttl}
}

func unreadKey(userID string) string { return "unread:" + userID }

func (c *UnreadCache) Get(ctx context.Context, userID string) (int64, bool) {
	if c == nil {
		return 0, false
	}
	v, err := c.rdb.Get(ctx, unreadKey(userID)).Result()
	if err != nil {
		return 0, false
	}
	n, err := strconv.ParseInt(v, 10, 64)
	if err != nil {
		return 0, false
	}
	return n, true
}

func (c *UnreadCache) Set(ctx context.Context, userID string, count int64) {
	if c == nil {
		return
	}
	_ = c.rdb.Set(ctx, unreadKey(userID), strconv.FormatInt(count, 10), c.ttl).Err()
}

// Invalidate is called on every notification write path (new notification,
// mark read, delete).
func (c *UnreadCache) Invalidate(ctx context.Context, userID string) {
	if c == nil {
		return
	}
	_ = c.rdb.Del(ctx, unreadKey(userID)).Err()
}
