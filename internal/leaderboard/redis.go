package leaderboard

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/rickgao/stream-leaderboard/internal/model"
)

// Key prefix for cached snapshots
const snapshotKeyPrefix = "leaderboard:snapshot:"

// RedisCacheConfig holds configuration for the Redis snapshot cache
type RedisCacheConfig struct {
	// Redis client
	RedisClient *redis.Client

	// TTL bounds how stale a cached snapshot may be
	TTL time.Duration
}

// redisCache implements the Cache interface using Redis
type redisCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisCache creates a new Redis-backed snapshot cache
func NewRedisCache(cfg *RedisCacheConfig) (*redisCache, error) {
	if cfg == nil {
		return nil, errors.New("config cannot be nil")
	}
	if cfg.RedisClient == nil {
		return nil, errors.New("redis client cannot be nil")
	}
	if cfg.TTL <= 0 {
		return nil, errors.New("ttl must be positive")
	}

	if err := cfg.RedisClient.Ping(context.Background()).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	return &redisCache{
		client: cfg.RedisClient,
		ttl:    cfg.TTL,
	}, nil
}

// Get returns the cached snapshot or ErrCacheMiss
func (c *redisCache) Get(ctx context.Context, key string) (*model.Snapshot, error) {
	data, err := c.client.Get(ctx, snapshotKeyPrefix+key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, ErrCacheMiss
		}
		return nil, fmt.Errorf("failed to get snapshot: %w", err)
	}

	var snapshot model.Snapshot
	if err := json.Unmarshal(data, &snapshot); err != nil {
		return nil, fmt.Errorf("failed to unmarshal snapshot: %w", err)
	}

	return &snapshot, nil
}

// Set stores a snapshot with the configured TTL
func (c *redisCache) Set(ctx context.Context, key string, snapshot *model.Snapshot) error {
	if snapshot == nil {
		return errors.New("snapshot cannot be nil")
	}

	data, err := json.Marshal(snapshot)
	if err != nil {
		return fmt.Errorf("failed to marshal snapshot: %w", err)
	}

	if err := c.client.Set(ctx, snapshotKeyPrefix+key, data, c.ttl).Err(); err != nil {
		return fmt.Errorf("failed to save snapshot: %w", err)
	}

	return nil
}

// Ping checks the Redis connection
func (c *redisCache) Ping(ctx context.Context) error {
	return c.client.Ping(ctx).Err()
}
