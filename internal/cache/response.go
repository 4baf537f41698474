// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// response.go provides a Valkey-backed JSON response cache. The heavy
// read-only aggregates (category counts, the calorie ranking, map
// markers) are stored as encoded JSON so repeated requests skip the
// DB queries entirely. Writes invalidate the affected keys.
package cache

import (
	"context"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	// responseKeyPrefix is the Valkey key prefix for cached responses.
	responseKeyPrefix = "resp:"

	// DefaultResponseTTL is how long a cached response stays valid when
	// nothing invalidates it first.
	DefaultResponseTTL = 5 * time.Minute
)

// Well-known cache keys for the aggregate endpoints.
const (
	KeyCategoryCounts = "menu:category-counts"
	KeyCalorieRanking = "menu:calorie-ranking"
	KeyBestSellers    = "menu:best-sellers"
	KeyMapMarkers     = "map:markers"
)

// ResponseCache manages encoded JSON response caching in Valkey.
type ResponseCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewResponseCache creates a response cache backed by the given Valkey
// client.
func NewResponseCache(client *redis.Client, ttl time.Duration) *ResponseCache {
	if ttl == 0 {
		ttl = DefaultResponseTTL
	}
	return &ResponseCache{client: client, ttl: ttl}
}

// Get retrieves a cached response body. Returns false on miss; cache
// errors degrade to misses so Valkey outages never fail a request.
func (rc *ResponseCache) Get(ctx context.Context, key string) ([]byte, bool) {
	val, err := rc.client.Get(ctx, responseKeyPrefix+key).Bytes()
	if err == redis.Nil {
		return nil, false
	}
	if err != nil {
		slog.Warn("response cache get error", "key", key, "error", err)
		return nil, false
	}
	slog.Debug("response cache hit", "key", key)
	return val, true
}

// Set stores an encoded response body with the configured TTL.
func (rc *ResponseCache) Set(ctx context.Context, key string, body []byte) {
	if err := rc.client.Set(ctx, responseKeyPrefix+key, body, rc.ttl).Err(); err != nil {
		slog.Warn("response cache set error", "key", key, "error", err)
	}
}

// Invalidate removes one cached response.
func (rc *ResponseCache) Invalidate(ctx context.Context, key string) {
	if err := rc.client.Del(ctx, responseKeyPrefix+key).Err(); err != nil {
		slog.Warn("response cache invalidate error", "key", key, "error", err)
	}
	slog.Debug("response cache invalidated", "key", key)
}

// InvalidateMenu removes every menu-derived aggregate. Called after any
// item or category write and after a best-seller recalculation.
func (rc *ResponseCache) InvalidateMenu(ctx context.Context) {
	rc.Invalidate(ctx, KeyCategoryCounts)
	rc.Invalidate(ctx, KeyCalorieRanking)
	rc.Invalidate(ctx, KeyBestSellers)
}

// InvalidateMap removes the cached marker set. Called after any branch
// or location write.
func (rc *ResponseCache) InvalidateMap(ctx context.Context) {
	rc.Invalidate(ctx, KeyMapMarkers)
}

// InvalidateAll removes all cached responses by scanning for the prefix.
func (rc *ResponseCache) InvalidateAll(ctx context.Context) {
	var cursor uint64
	var deleted int
	for {
		keys, nextCursor, err := rc.client.Scan(ctx, cursor, responseKeyPrefix+"*", 100).Result()
		if err != nil {
			slog.Warn("response cache scan error", "error", err)
			return
		}
		if len(keys) > 0 {
			if err := rc.client.Del(ctx, keys...).Err(); err != nil {
				slog.Warn("response cache bulk delete error", "error", err)
			}
			deleted += len(keys)
		}
		cursor = nextCursor
		if cursor == 0 {
			break
		}
	}
	if deleted > 0 {
		slog.Info("response cache fully cleared", "deleted", deleted)
	}
}
