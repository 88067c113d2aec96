package statistics

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
)

const dashboardCacheKey = "statistics:dashboard"

// Cache wraps Redis based caching for the dashboard aggregate.
type Cache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewCache instantiates the cache helper. client may be nil, in which case
// every lookup misses.
func NewCache(client *redis.Client, ttl time.Duration) *Cache {
	if ttl <= 0 {
		ttl = 30 * time.Second
	}
	return &Cache{client: client, ttl: ttl}
}

// Get returns the cached dashboard, or false on miss.
func (c *Cache) Get(ctx context.Context) (*Dashboard, bool) {
	if c == nil || c.client == nil {
		return nil, false
	}
	payload, err := c.client.Get(ctx, dashboardCacheKey).Bytes()
	if err != nil {
		return nil, false
	}
	var dashboard Dashboard
	if err := json.Unmarshal(payload, &dashboard); err != nil {
		return nil, false
	}
	return &dashboard, true
}

// Set stores the dashboard with the configured TTL.
func (c *Cache) Set(ctx context.Context, dashboard *Dashboard) error {
	if c == nil || c.client == nil {
		return nil
	}
	payload, err := json.Marshal(dashboard)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, dashboardCacheKey, payload, c.ttl).Err()
}

// Invalidate drops the cached dashboard.
func (c *Cache) Invalidate(ctx context.Context) error {
	if c == nil || c.client == nil {
		return nil
	}
	if err := c.client.Del(ctx, dashboardCacheKey).Err(); err != nil && !errors.Is(err, redis.Nil) {
		return err
	}
	return nil
}
