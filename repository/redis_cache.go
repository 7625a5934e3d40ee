package repository

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	redisCachePrefix  = "autoloan:cache:"
	redisCacheTimeout = 500 * time.Millisecond
)

type RedisCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisCache wraps an existing client. A zero ttl keeps entries forever.
func NewRedisCache(client *redis.Client, ttl time.Duration) *RedisCache {
	return &RedisCache{
		client: client,
		ttl:    ttl,
	}
}

// Get reports a miss on any error, including timeouts.
func (r *RedisCache) Get(key string) (string, bool) {
	ctx, cancel := context.WithTimeout(context.Background(), redisCacheTimeout)
	defer cancel()

	val, err := r.client.Get(ctx, redisCachePrefix+key).Result()
	if err != nil {
		return "", false
	}
	return val, true
}

func (r *RedisCache) Set(key string, value string) error {
	ctx, cancel := context.WithTimeout(context.Background(), redisCacheTimeout)
	defer cancel()

	return r.client.Set(ctx, redisCachePrefix+key, value, r.ttl).Err()
}
