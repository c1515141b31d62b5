package facilities

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisGeocodeCache keeps geocode results in Redis with a TTL. Entries are
// derived from a public service and expire; nothing patient-related is stored.
type RedisGeocodeCache struct {
	redis *redis.Client
	ttl   time.Duration
}

// NewRedisGeocodeCache creates a cache. A non-positive ttl defaults to a day.
func NewRedisGeocodeCache(client *redis.Client, ttl time.Duration) *RedisGeocodeCache {
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &RedisGeocodeCache{redis: client, ttl: ttl}
}

func (c *RedisGeocodeCache) key(query string) string {
	return fmt.Sprintf("geocode:%s", query)
}

// Get returns the cached point for query.
func (c *RedisGeocodeCache) Get(ctx context.Context, query string) (Point, bool, error) {
	data, err := c.redis.Get(ctx, c.key(query)).Bytes()
	if err == redis.Nil {
		return Point{}, false, nil
	}
	if err != nil {
		return Point{}, false, fmt.Errorf("facilities: get geocode: %w", err)
	}

	var p Point
	if err := json.Unmarshal(data, &p); err != nil {
		return Point{}, false, fmt.Errorf("facilities: unmarshal geocode: %w", err)
	}
	return p, true, nil
}

// Set caches p for query.
func (c *RedisGeocodeCache) Set(ctx context.Context, query string, p Point) error {
	data, err := json.Marshal(p)
	if err != nil {
		return fmt.Errorf("facilities: marshal geocode: %w", err)
	}
	if err := c.redis.Set(ctx, c.key(query), data, c.ttl).Err(); err != nil {
		return fmt.Errorf("facilities: set geocode: %w", err)
	}
	return nil
}

var _ GeocodeCache = (*RedisGeocodeCache)(nil)
