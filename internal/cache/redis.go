package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/rs/zerolog/log"

	"github.com/andrei-cloud/plugload/internal/errorcodes"
)

// DefaultRedisPrefix namespaces plugin snapshots inside a shared Redis.
const DefaultRedisPrefix = "plugload:plugins:"

// RedisStore keeps snapshots in Redis under a key prefix.
type RedisStore struct {
	client *redis.Client
	prefix string
	ttl    time.Duration
}

// NewRedisStore connects to the Redis server at url and verifies the
// connection.
func NewRedisStore(ctx context.Context, url, prefix string, ttl time.Duration) (*RedisStore, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, errorcodes.ErrCacheBackend.Wrap(fmt.Errorf("invalid redis URL: %w", err))
	}

	// Set connection timeouts
	opts.DialTimeout = 5 * time.Second
	opts.ReadTimeout = 3 * time.Second
	opts.WriteTimeout = 3 * time.Second

	client := redis.NewClient(opts)

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()

		return nil, errorcodes.ErrCacheBackend.Wrap(fmt.Errorf("failed to connect to redis: %w", err))
	}

	return NewRedisStoreFromClient(client, prefix, ttl), nil
}

// NewRedisStoreFromClient wraps an existing client.
func NewRedisStoreFromClient(client *redis.Client, prefix string, ttl time.Duration) *RedisStore {
	if prefix == "" {
		prefix = DefaultRedisPrefix
	}
	if ttl < 0 {
		ttl = 0
	}

	return &RedisStore{client: client, prefix: prefix, ttl: ttl}
}

// Contains implements Store.
func (s *RedisStore) Contains(ctx context.Context, key string) (bool, error) {
	if err := validateKey(key); err != nil {
		return false, err
	}

	n, err := s.client.Exists(ctx, s.prefix+key).Result()
	if err != nil {
		return false, errorcodes.ErrCacheBackend.Wrap(fmt.Errorf("redis exists failed: %w", err))
	}

	return n > 0, nil
}

// Fetch implements Store. A corrupt entry is deleted before the error is
// returned.
func (s *RedisStore) Fetch(ctx context.Context, key string) (Snapshot, error) {
	if err := validateKey(key); err != nil {
		return nil, err
	}

	data, err := s.client.Get(ctx, s.prefix+key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, errorcodes.ErrCacheBackend.Wrap(fmt.Errorf("redis get failed: %w", err))
	}

	snapshot, err := decode(key, data)
	if err != nil {
		if delErr := s.client.Del(ctx, s.prefix+key).Err(); delErr != nil {
			log.Warn().Err(delErr).Str("key", key).Msg("failed to drop corrupt cache entry")
		}

		return nil, err
	}

	return snapshot, nil
}

// Save implements Store.
func (s *RedisStore) Save(ctx context.Context, key string, value Snapshot) error {
	if err := validateKey(key); err != nil {
		return err
	}

	data, err := encode(value)
	if err != nil {
		return err
	}

	if err := s.client.Set(ctx, s.prefix+key, data, s.ttl).Err(); err != nil {
		return errorcodes.ErrCacheBackend.Wrap(fmt.Errorf("redis set failed: %w", err))
	}

	return nil
}

// Clear implements Store. Only keys under the store prefix are removed.
func (s *RedisStore) Clear(ctx context.Context) error {
	var keys []string
	iter := s.client.Scan(ctx, 0, s.prefix+"*", 100).Iterator()
	for iter.Next(ctx) {
		keys = append(keys, iter.Val())
	}
	if err := iter.Err(); err != nil {
		return errorcodes.ErrCacheBackend.Wrap(fmt.Errorf("redis scan failed: %w", err))
	}
	if len(keys) == 0 {
		return nil
	}

	if err := s.client.Del(ctx, keys...).Err(); err != nil {
		return errorcodes.ErrCacheBackend.Wrap(fmt.Errorf("redis del failed: %w", err))
	}

	return nil
}

// Close implements Store.
func (s *RedisStore) Close() error {
	return s.client.Close()
}
