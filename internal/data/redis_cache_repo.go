package data

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// ErrCacheMiss is returned when a cache key is absent or expired.
var ErrCacheMiss = errors.New("cache miss")

// RedisCacheRepo is a JSON value cache backed by Redis. Stats endpoints use
// it as a read-through layer so hot dashboards do not hammer Postgres.
type RedisCacheRepo struct {
	client *redis.Client
	prefix string
}

// NewRedisCacheRepo creates a new RedisCacheRepo. The prefix namespaces keys
// so multiple deployments can share one Redis.
func NewRedisCacheRepo(client *redis.Client, prefix string) *RedisCacheRepo {
	if prefix == "" {
		prefix = "thesisflow"
	}
	return &RedisCacheRepo{client: client, prefix: prefix}
}

func (r *RedisCacheRepo) key(k string) string {
	return r.prefix + ":cache:" + k
}

// Get unmarshals the cached JSON value for key into dest.
func (r *RedisCacheRepo) Get(ctx context.Context, key string, dest any) error {
	raw, err := r.client.Get(ctx, r.key(key)).Bytes()
	if errors.Is(err, redis.Nil) {
		return ErrCacheMiss
	}
	if err != nil {
		return fmt.Errorf("reading cache key %s: %w", key, err)
	}
	if err := json.Unmarshal(raw, dest); err != nil {
		return fmt.Errorf("decoding cached value for %s: %w", key, err)
	}
	return nil
}

// Set stores value as JSON under key with the given TTL.
func (r *RedisCacheRepo) Set(ctx context.Context, key string, value any, ttl time.Duration) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("encoding value for cache key %s: %w", key, err)
	}
	if err := r.client.Set(ctx, r.key(key), raw, ttl).Err(); err != nil {
		return fmt.Errorf("writing cache key %s: %w", key, err)
	}
	return nil
}

// Delete removes cached keys. Missing keys are not an error.
func (r *RedisCacheRepo) Delete(ctx context.Context, keys ...string) error {
	if len(keys) == 0 {
		return nil
	}
	full := make([]string, len(keys))
	for i, k := range keys {
		full[i] = r.key(k)
	}
	if err := r.client.Del(ctx, full...).Err(); err != nil {
		return fmt.Errorf("deleting cache keys: %w", err)
	}
	return nil
}
