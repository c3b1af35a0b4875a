package idempotency

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
)

const redisKeyPrefix = "tally:fp:"

// RedisCache shares committed fingerprints between replicas.
// Only safe in front of a durable store: entries outlive the process.
type RedisCache struct {
	rdb *redis.Client
	ttl time.Duration
}

// NewRedisCache wraps an existing client. A zero ttl keeps keys forever.
func NewRedisCache(rdb *redis.Client, ttl time.Duration) *RedisCache {
	return &RedisCache{rdb: rdb, ttl: ttl}
}

// Contains checks for the fingerprint key.
func (c *RedisCache) Contains(ctx context.Context, fingerprint string) (bool, error) {
	_, err := c.rdb.Get(ctx, redisKeyPrefix+fingerprint).Result()
	if errors.Is(err, redis.Nil) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("redis get: %w", err)
	}
	return true, nil
}

// Add sets the fingerprint key.
func (c *RedisCache) Add(ctx context.Context, fingerprint string) error {
	if err := c.rdb.Set(ctx, redisKeyPrefix+fingerprint, "1", c.ttl).Err(); err != nil {
		return fmt.Errorf("redis set: %w", err)
	}
	return nil
}

var _ Cache = (*RedisCache)(nil)
