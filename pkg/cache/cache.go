// Package cache caches rendered route payloads in Redis so the invoice
// list is not recomputed on every request. Mutations invalidate the
// cached route; a TTL bounds staleness if an invalidation is missed.
package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// TTL bounds how long a cached route survives without invalidation.
const TTL = 5 * time.Minute

// Connect initializes a Redis client and verifies the connection.
func Connect(addr string) (*redis.Client, error) {
	rdb := redis.NewClient(&redis.Options{Addr: addr})
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("connect redis: %w", err)
	}
	return rdb, nil
}

// RouteCache stores rendered route payloads keyed by route path.
type RouteCache struct {
	rdb *redis.Client
}

// NewRouteCache creates a RouteCache over the given client.
func NewRouteCache(rdb *redis.Client) *RouteCache {
	return &RouteCache{rdb: rdb}
}

func key(path string) string {
	return "route:" + path
}

// Get returns the cached payload for path, or redis.Nil if the route is
// not cached.
func (c *RouteCache) Get(ctx context.Context, path string) ([]byte, error) {
	return c.rdb.Get(ctx, key(path)).Bytes()
}

// Set stores the rendered payload for path.
func (c *RouteCache) Set(ctx context.Context, path string, payload []byte) error {
	return c.rdb.Set(ctx, key(path), payload, TTL).Err()
}

// Revalidate marks the cached route stale so the next request
// recomputes it from the store.
func (c *RouteCache) Revalidate(ctx context.Context, path string) error {
	return c.rdb.Del(ctx, key(path)).Err()
}
