package store

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/pressiona/radar-social/pkg/legislator"
)

// DefaultFreshness is how long a resolution is considered current.
const DefaultFreshness = 7 * 24 * time.Hour

// Cache marks recently resolved (legislator, platform) pairs so batch
// runs can skip them inside the freshness window. A nil *Cache is a
// no-op, which keeps it optional.
type Cache struct {
	rdb *redis.Client
	ttl time.Duration
}

// NewCache connects to redis. A zero ttl uses DefaultFreshness.
func NewCache(addr, password string, db int, ttl time.Duration) *Cache {
	if ttl <= 0 {
		ttl = DefaultFreshness
	}
	return &Cache{
		rdb: redis.NewClient(&redis.Options{Addr: addr, Password: password, DB: db}),
		ttl: ttl,
	}
}

func cacheKey(legislatorID int64, platform legislator.Platform) string {
	return fmt.Sprintf("radar:resolved:%d:%s", legislatorID, platform)
}

// Seen reports whether the pair was resolved inside the freshness window.
func (c *Cache) Seen(ctx context.Context, legislatorID int64, platform legislator.Platform) (bool, error) {
	if c == nil {
		return false, nil
	}
	n, err := c.rdb.Exists(ctx, cacheKey(legislatorID, platform)).Result()
	if err != nil {
		return false, fmt.Errorf("cache lookup: %w", err)
	}
	return n > 0, nil
}

// MarkResolved records that the pair was just resolved.
func (c *Cache) MarkResolved(ctx context.Context, legislatorID int64, platform legislator.Platform) error {
	if c == nil {
		return nil
	}
	if err := c.rdb.Set(ctx, cacheKey(legislatorID, platform), "1", c.ttl).Err(); err != nil {
		return fmt.Errorf("cache mark: %w", err)
	}
	return nil
}

// Close releases the redis connection.
func (c *Cache) Close() error {
	if c == nil {
		return nil
	}
	return c.rdb.Close()
}
