package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	"autoloan-agent/domain"
)

const (
	redisSessionPrefix = "autoloan:session:"
	redisSessionIndex  = "autoloan:sessions"
)

// RedisSessionRepository stores sessions as JSON documents with a sorted-set
// index scored by creation time.
type RedisSessionRepository struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisSessionRepository creates the repository. ttl bounds how long a
// session key survives if cleanup never runs; zero disables key expiry.
func NewRedisSessionRepository(client *redis.Client, ttl time.Duration) *RedisSessionRepository {
	return &RedisSessionRepository{client: client, ttl: ttl}
}

// NewRedisClient builds a client and checks connectivity.
func NewRedisClient(ctx context.Context, addr, password string, db int) (*redis.Client, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("redis ping %s: %w", addr, err)
	}
	return rdb, nil
}

func (r *RedisSessionRepository) Save(ctx context.Context, session domain.QuoteSession) error {
	payload, err := json.Marshal(session)
	if err != nil {
		return fmt.Errorf("encode session %s: %w", session.SessionID, err)
	}
	_, err = r.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Set(ctx, redisSessionPrefix+session.SessionID, payload, r.ttl)
		pipe.ZAdd(ctx, redisSessionIndex, redis.Z{
			Score:  float64(session.CreatedAt.UnixNano()),
			Member: session.SessionID,
		})
		return nil
	})
	return err
}

func (r *RedisSessionRepository) Get(ctx context.Context, id string) (domain.QuoteSession, error) {
	raw, err := r.client.Get(ctx, redisSessionPrefix+id).Bytes()
	if errors.Is(err, redis.Nil) {
		return domain.QuoteSession{}, domain.ErrSessionNotFound
	}
	if err != nil {
		return domain.QuoteSession{}, err
	}
	var s domain.QuoteSession
	if err := json.Unmarshal(raw, &s); err != nil {
		return domain.QuoteSession{}, fmt.Errorf("decode session %s: %w", id, err)
	}
	return s, nil
}

func (r *RedisSessionRepository) List(ctx context.Context) ([]domain.QuoteSession, error) {
	ids, err := r.client.ZRange(ctx, redisSessionIndex, 0, -1).Result()
	if err != nil {
		return nil, err
	}
	if len(ids) == 0 {
		return []domain.QuoteSession{}, nil
	}

	keys := make([]string, len(ids))
	for i, id := range ids {
		keys[i] = redisSessionPrefix + id
	}
	values, err := r.client.MGet(ctx, keys...).Result()
	if err != nil {
		return nil, err
	}

	out := make([]domain.QuoteSession, 0, len(values))
	var stale []any
	for i, v := range values {
		str, ok := v.(string)
		if !ok {
			// expired key, drop it from the index
			stale = append(stale, ids[i])
			continue
		}
		var s domain.QuoteSession
		if err := json.Unmarshal([]byte(str), &s); err != nil {
			return nil, fmt.Errorf("decode session %s: %w", ids[i], err)
		}
		out = append(out, s)
	}
	if len(stale) > 0 {
		_ = r.client.ZRem(ctx, redisSessionIndex, stale...).Err()
	}
	return out, nil
}

func (r *RedisSessionRepository) DeleteCreatedBefore(ctx context.Context, cutoff time.Time) (int, error) {
	ids, err := r.client.ZRangeByScore(ctx, redisSessionIndex, &redis.ZRangeBy{
		Min: "-inf",
		Max: "(" + strconv.FormatInt(cutoff.UnixNano(), 10),
	}).Result()
	if err != nil {
		return 0, err
	}
	if len(ids) == 0 {
		return 0, nil
	}

	keys := make([]string, len(ids))
	members := make([]any, len(ids))
	for i, id := range ids {
		keys[i] = redisSessionPrefix + id
		members[i] = id
	}
	_, err = r.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Del(ctx, keys...)
		pipe.ZRem(ctx, redisSessionIndex, members...)
		return nil
	})
	if err != nil {
		return 0, err
	}
	return len(ids), nil
}
