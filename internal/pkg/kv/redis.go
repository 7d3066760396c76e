package kv

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// Redis backs the KV interface with go-redis.
type Redis struct {
	rdb *redis.Client
}

// NewRedis creates a Redis client and verifies connectivity.
func NewRedis(url string) (*Redis, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("invalid redis url: %w", err)
	}

	rdb := redis.NewClient(opts)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := rdb.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("redis ping failed: %w", err)
	}
	return &Redis{rdb: rdb}, nil
}

func (r *Redis) Get(ctx context.Context, key string) (string, bool, error) {
	val, err := r.rdb.Get(ctx, key).Result()
	if err == redis.Nil {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return val, true, nil
}

func (r *Redis) Set(ctx context.Context, key, value string) error {
	return r.rdb.Set(ctx, key, value, 0).Err()
}

func (r *Redis) IncrBy(ctx context.Context, key string, delta int64) (int64, error) {
	return r.rdb.IncrBy(ctx, key, delta).Result()
}

func (r *Redis) Expire(ctx context.Context, key string, ttl time.Duration) (bool, error) {
	return r.rdb.Expire(ctx, key, ttl).Result()
}

func (r *Redis) MGet(ctx context.Context, keys ...string) ([]*string, error) {
	raw, err := r.rdb.MGet(ctx, keys...).Result()
	if err != nil {
		return nil, err
	}
	out := make([]*string, len(raw))
	for i, v := range raw {
		if s, ok := v.(string); ok {
			value := s
			out[i] = &value
		}
	}
	return out, nil
}
