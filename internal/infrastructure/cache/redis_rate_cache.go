package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const rateSnapshotKey = "storefront:currency:rates"

// RedisRateCache is a Redis-backed rate cache shared across instances
type RedisRateCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisRateCache creates a Redis rate cache. The connection is
// verified before use.
func NewRedisRateCache(ctx context.Context, addr, password string, db int, ttl time.Duration) (*RedisRateCache, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}

	return &RedisRateCache{client: client, ttl: ttl}, nil
}

// Get returns the cached snapshot if present. Expiry is handled by the
// key TTL, so anything found is fresh.
func (c *RedisRateCache) Get(ctx context.Context) (*Snapshot, bool, error) {
	data, err := c.client.Get(ctx, rateSnapshotKey).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("failed to read rate snapshot: %w", err)
	}

	var snapshot Snapshot
	if err := json.Unmarshal(data, &snapshot); err != nil {
		// A corrupt entry is treated as a miss so the next fetch repairs it
		return nil, false, nil
	}
	return &snapshot, true, nil
}

// Set stores a snapshot under the shared key with the cache TTL
func (c *RedisRateCache) Set(ctx context.Context, snapshot *Snapshot) error {
	data, err := json.Marshal(snapshot)
	if err != nil {
		return fmt.Errorf("failed to encode rate snapshot: %w", err)
	}
	if err := c.client.Set(ctx, rateSnapshotKey, data, c.ttl).Err(); err != nil {
		return fmt.Errorf("failed to store rate snapshot: %w", err)
	}
	return nil
}

// Invalidate drops the cached snapshot
func (c *RedisRateCache) Invalidate(ctx context.Context) error {
	if err := c.client.Del(ctx, rateSnapshotKey).Err(); err != nil {
		return fmt.Errorf("failed to invalidate rate snapshot: %w", err)
	}
	return nil
}

// Close releases the Redis connection
func (c *RedisRateCache) Close() error {
	return c.client.Close()
}
