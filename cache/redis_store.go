package cache

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisStore is a Store over a Redis client, for deployments where the
// session survives the process or is shared by several replicas of the
// same consumer. Keys are namespaced with a prefix. The ttl passed to Set
// is mirrored onto the Redis key so abandoned entries evict themselves;
// validity is still re-checked from the envelope timestamp on read.
type RedisStore struct {
	client *redis.Client
	prefix string
}

// NewRedisStore creates a store over client. An empty prefix defaults to
// "ak".
func NewRedisStore(client *redis.Client, prefix string) *RedisStore {
	if prefix == "" {
		prefix = "ak"
	}
	return &RedisStore{client: client, prefix: prefix}
}

// Get implements Store.
func (r *RedisStore) Get(ctx context.Context, key string) ([]byte, error) {
	data, err := r.client.Get(ctx, r.key(key)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return data, nil
}

// Set implements Store.
func (r *RedisStore) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	if ttl < 0 {
		ttl = 0
	}
	return r.client.Set(ctx, r.key(key), value, ttl).Err()
}

// Delete implements Store. Deleting an absent key is not an error.
func (r *RedisStore) Delete(ctx context.Context, key string) error {
	return r.client.Del(ctx, r.key(key)).Err()
}

func (r *RedisStore) key(key string) string {
	return r.prefix + ":" + key
}
