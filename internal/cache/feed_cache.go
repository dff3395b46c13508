// Package cache provides a short-TTL Redis page cache for the hot read
// paths (public feed, trending). Cache failures are treated as misses so
// reads always degrade to the database.
package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/d60-Lab/murmur/internal/model"
)

// CachedPage is the serialized form of one feed page.
type CachedPage struct {
	Items []*model.Murmur `json:"items"`
	Total int64           `json:"total"`
}

// FeedCache caches anonymous feed pages. A nil *FeedCache is a valid
// no-op cache, so callers never need to branch on whether Redis is up.
type FeedCache struct {
	rdb *redis.Client
	ttl time.Duration
}

func NewFeedCache(rdb *redis.Client, ttl time.Duration) *FeedCache {
	if rdb == nil {
		return nil
	}
	if ttl <= 0 {
		ttl = 30 * time.Second
	}
	return &FeedCache{rdb: rdb, ttl: ttl}
}

func pageKey(feed string, page, size int) string {
	return fmt.Sprintf("feed:%s:%d:%d", feed, page, size)
}

// GetPage returns (nil, false) on miss, decode failure or any Redis error.
func (c *FeedCache) GetPage(ctx context.Context, feed string, page, size int) (*CachedPage, bool) {
	if c == nil {
		return nil, false
	}
	data, err := c.rdb.Get(ctx, pageKey(feed, page, size)).Bytes()
	if err != nil {
		return nil, false
	}
	var out CachedPage
	if err := json.Unmarshal(data, &out); err != nil {
		return nil, false
	}
	return &out, true
}

func (c *FeedCache) SetPage(ctx context.Context, feed string, page, size int, p *CachedPage) {
	if c == nil {
		return
	}
	payload, err := json.Marshal(p)
	if err != nil {
		return
	}
	_ = c.rdb.Set(ctx, pageKey(feed, page, size), payload, c.ttl).Err()
}

// InvalidateFeed drops every cached page of one feed. Called on murmur
// create/delete; the key count is small because the TTL is short.
func (c *FeedCache) InvalidateFeed(ctx context.Context, feed string) {
	if c == nil {
		return
	}
	iter := c.rdb.Scan(ctx, 0, fmt.Sprintf("feed:%s:*", feed), 100).Iterator()
	for iter.Next(ctx) {
		_ = c.rdb.Del(ctx, iter.Val()).Err()
	}
}
