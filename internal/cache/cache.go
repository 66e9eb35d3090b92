// Package cache memoizes download lookups in a key-value store. Entries
// have no TTL unless one is configured, and a cached result is served
// without re-running the ownership or downloadable checks, so it stays
// visible until evicted even if the underlying record changes.
package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/spf13/viper"
)

// Store is the key-value capability the cache runs on.
type Store interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, value []byte) error
}

// Fetch is the read-through path: a hit deserializes and returns the
// stored value, a miss runs fill and stores its result before returning.
// Fill errors are never cached. There is no single-flight; concurrent
// misses both fill, which is harmless because fills are idempotent.
func Fetch[T any](ctx context.Context, store Store, key Key, fill func() (T, error)) (T, error) {
	var value T

	raw, hit, err := store.Get(ctx, key.String())
	if err != nil {
		return value, fmt.Errorf("cache get failed, %w", err)
	}

	if hit {
		if err := json.Unmarshal(raw, &value); err == nil {
			return value, nil
		}
		// Unreadable entry, fall through and refill it
	}

	value, err = fill()
	if err != nil {
		return value, err
	}

	raw, err = json.Marshal(value)
	if err != nil {
		return value, fmt.Errorf("failed to serialize cache value, %w", err)
	}

	if err := store.Set(ctx, key.String(), raw); err != nil {
		return value, fmt.Errorf("cache set failed, %w", err)
	}

	return value, nil
}

// RedisStore backs the cache with redis. A zero TTL keeps entries until
// they are explicitly evicted or the store is flushed.
type RedisStore struct {
	Client *redis.Client
	TTL    time.Duration
}

func NewRedisStore(client *redis.Client, ttl time.Duration) *RedisStore {
	return &RedisStore{Client: client, TTL: ttl}
}

func (r *RedisStore) Get(ctx context.Context, key string) ([]byte, bool, error) {
	raw, err := r.Client.Get(ctx, key).Bytes()
	if err == redis.Nil {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}

	return raw, true, nil
}

func (r *RedisStore) Set(ctx context.Context, key string, value []byte) error {
	return r.Client.Set(ctx, key, value, r.TTL).Err()
}

// NewClient builds the redis client from the process configuration.
func NewClient() *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr:     fmt.Sprintf("%s:%d", viper.GetString("redis.host"), viper.GetInt("redis.port")),
		DB:       viper.GetInt("redis.db"),
		Password: viper.GetString("redis.password"),
	})
}
