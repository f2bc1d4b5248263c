package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/DRKxR4VEN/tiembanhngot/pkg/logging"
	"github.com/redis/go-redis/v9"
)

// RedisStore implements Store using Redis. Keys are stored without expiry.
type RedisStore struct {
	client redis.Cmdable
	prefix string
	logger *logging.Logger
}

// NewRedisStore creates a new Redis store
func NewRedisStore(client redis.Cmdable, prefix string) *RedisStore {
	return &RedisStore{
		client: client,
		prefix: prefix,
		logger: logging.GetDefault(),
	}
}

// NewRedisStoreFromURL parses redisURL, connects and pings the server.
func NewRedisStoreFromURL(ctx context.Context, redisURL, prefix string) (*RedisStore, error) {
	logger := logging.GetDefault()

	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		logger.Error(ctx, "Failed to parse Redis URL", err)
		return nil, fmt.Errorf("failed to parse Redis URL: %w", err)
	}

	client := redis.NewClient(opts)

	testCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := client.Ping(testCtx).Err(); err != nil {
		client.Close()
		logger.WithField("redis_addr", opts.Addr).Error(ctx, "Failed to connect to Redis", err)
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	logger.Debug(ctx, "Connected to Redis cache store")

	return NewRedisStore(client, prefix), nil
}

// Get implements Store
func (r *RedisStore) Get(ctx context.Context, key string) (string, bool, error) {
	value, err := r.client.Get(ctx, r.prefix+key).Result()
	if errors.Is(err, redis.Nil) {
		return "", false, nil
	}
	if err != nil {
		r.logger.WithField("key", r.prefix+key).Error(ctx, "Failed to read cache key from Redis", err)
		return "", false, fmt.Errorf("failed to get %s: %w", key, err)
	}
	return value, true, nil
}

// Set implements Store
func (r *RedisStore) Set(ctx context.Context, key, value string) error {
	if err := r.client.Set(ctx, r.prefix+key, value, 0).Err(); err != nil {
		r.logger.WithField("key", r.prefix+key).Error(ctx, "Failed to write cache key to Redis", err)
		return fmt.Errorf("failed to set %s: %w", key, err)
	}
	return nil
}

// Delete implements Store
func (r *RedisStore) Delete(ctx context.Context, key string) error {
	if err := r.client.Del(ctx, r.prefix+key).Err(); err != nil {
		return fmt.Errorf("failed to delete %s: %w", key, err)
	}
	return nil
}

// Stats implements Store
func (r *RedisStore) Stats(ctx context.Context) (map[string]interface{}, error) {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	pattern := r.prefix + "*"
	keys, err := r.client.Keys(ctx, pattern).Result()
	if err != nil {
		r.logger.WithField("pattern", pattern).Error(ctx, "Failed to get Redis cache statistics", err)
		return nil, fmt.Errorf("failed to get stats: %w", err)
	}

	return map[string]interface{}{
		"keys":         len(keys),
		"storage_type": "redis",
		"key_prefix":   r.prefix,
	}, nil
}

// Close closes the Redis connection
func (r *RedisStore) Close() error {
	if client, ok := r.client.(*redis.Client); ok {
		return client.Close()
	}
	// Cluster and other Cmdable implementations are closed by their owner.
	return nil
}

// Prefix returns the key prefix
func (r *RedisStore) Prefix() string {
	return r.prefix
}
