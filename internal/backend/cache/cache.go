// Package cache wraps a backend.Backend with a Redis read-through cache.
package cache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/JakeFAU/dealsite-ssr/internal/backend"
	"github.com/JakeFAU/dealsite-ssr/internal/metrics"
)

const keyPrefix = "dealsite:v1:"

type redisClient interface {
	Get(ctx context.Context, key string) *redis.StringCmd
	Set(ctx context.Context, key string, value any, expiration time.Duration) *redis.StatusCmd
}

// Backend serves reads from Redis when present and fills it from the origin otherwise.
// Redis failures never fail a read; they fall through to the origin.
type Backend struct {
	origin backend.Backend
	client redisClient
	ttl    time.Duration
	logger *zap.Logger
}

// Dial parses redisURL and verifies connectivity.
func Dial(ctx context.Context, redisURL string) (*redis.Client, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("redis.ParseURL(%q): %w", redisURL, err)
	}
	client := redis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("redis ping failed: %w", err)
	}
	return client, nil
}

// New wraps origin with a cache held in client for ttl.
func New(origin backend.Backend, client redisClient, ttl time.Duration, logger *zap.Logger) *Backend {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Backend{origin: origin, client: client, ttl: ttl, logger: logger}
}

// List implements backend.Backend.
func (b *Backend) List(ctx context.Context, kind backend.Kind, q backend.Query) ([]backend.Record, error) {
	key := cacheKey("list", kind, q)
	if cached, ok := b.get(ctx, kind, key); ok {
		var records []backend.Record
		if err := json.Unmarshal(cached, &records); err == nil {
			return records, nil
		}
		b.logger.Warn("discarding undecodable cache entry", zap.String("key", key))
	}
	records, err := b.origin.List(ctx, kind, q)
	if err != nil {
		return nil, err //nolint:wrapcheck // origin errors are already wrapped
	}
	if payload, err := json.Marshal(records); err == nil {
		b.set(ctx, key, payload)
	}
	return records, nil
}

// GetByKey implements backend.Backend. Misses are not cached.
func (b *Backend) GetByKey(ctx context.Context, kind backend.Kind, field string, value any) (backend.Record, bool, error) {
	key := cacheKey("get", kind, []any{field, value})
	if cached, ok := b.get(ctx, kind, key); ok {
		return backend.Record(cached), true, nil
	}
	record, found, err := b.origin.GetByKey(ctx, kind, field, value)
	if err != nil || !found {
		return record, found, err //nolint:wrapcheck // origin errors are already wrapped
	}
	b.set(ctx, key, record)
	return record, true, nil
}

func (b *Backend) get(ctx context.Context, kind backend.Kind, key string) ([]byte, bool) {
	raw, err := b.client.Get(ctx, key).Bytes()
	switch {
	case err == nil:
		metrics.ObserveCacheLookup(string(kind), "hit")
		return raw, true
	case errors.Is(err, redis.Nil):
		metrics.ObserveCacheLookup(string(kind), "miss")
	default:
		metrics.ObserveCacheLookup(string(kind), "error")
		b.logger.Warn("redis get failed", zap.String("key", key), zap.Error(err))
	}
	return nil, false
}

func (b *Backend) set(ctx context.Context, key string, payload []byte) {
	if err := b.client.Set(ctx, key, payload, b.ttl).Err(); err != nil {
		b.logger.Warn("redis set failed", zap.String("key", key), zap.Error(err))
	}
}

func cacheKey(op string, kind backend.Kind, shape any) string {
	encoded, err := json.Marshal(shape)
	if err != nil {
		encoded = []byte(fmt.Sprintf("%#v", shape))
	}
	sum := sha256.Sum256(encoded)
	return keyPrefix + string(kind) + ":" + op + ":" + hex.EncodeToString(sum[:16])
}
