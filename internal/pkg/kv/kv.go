// Package kv is the small counter/blob store shared by site features
// (visitor stats and friends). A Redis backend is used when an URL is
// configured; otherwise a process-local in-memory fallback with the same
// command semantics takes over.
package kv

import (
	"context"
	"time"

	"go.uber.org/zap"
)

// Client is the command surface the site relies on.
type Client interface {
	// Get returns the value and whether the key exists.
	Get(ctx context.Context, key string) (string, bool, error)
	// Set stores a value without expiry.
	Set(ctx context.Context, key, value string) error
	// IncrBy increments a counter, creating it at zero first.
	IncrBy(ctx context.Context, key string, delta int64) (int64, error)
	// Expire sets a TTL on an existing key; it reports whether the key existed.
	Expire(ctx context.Context, key string, ttl time.Duration) (bool, error)
	// MGet returns values in key order; missing keys yield nil entries.
	MGet(ctx context.Context, keys ...string) ([]*string, error)
}

// New picks a backend: Redis when url is set, in-memory otherwise.
func New(url string, logger *zap.Logger) (Client, error) {
	if url == "" {
		logger.Info("kv: no redis url configured, using in-memory store")
		return NewMemory(), nil
	}
	return NewRedis(url)
}
