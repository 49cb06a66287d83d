package ratelimit

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const redisKeyPrefix = "class-admin:ratelimit:"

// RedisStore shares counters between instances through Redis. Each key is an
// INCR counter that expires when its window ends.
type RedisStore struct {
	client redis.Cmdable
	limit  int
	window time.Duration
	now    func() time.Time
}

// NewRedisStore builds a Redis-backed store.
func NewRedisStore(client redis.Cmdable, limit int, window time.Duration) *RedisStore {
	limit, window = normalize(limit, window)
	return &RedisStore{client: client, limit: limit, window: window, now: time.Now}
}

// Admit implements Store.
func (s *RedisStore) Admit(ctx context.Context, key string) (Decision, error) {
	redisKey := redisKeyPrefix + key

	count, err := s.client.Incr(ctx, redisKey).Result()
	if err != nil {
		return Decision{}, fmt.Errorf("incr rate counter: %w", err)
	}
	if count == 1 {
		if err := s.client.PExpire(ctx, redisKey, s.window).Err(); err != nil {
			return Decision{}, fmt.Errorf("expire rate counter: %w", err)
		}
	}

	ttl, err := s.client.PTTL(ctx, redisKey).Result()
	if err != nil {
		return Decision{}, fmt.Errorf("ttl rate counter: %w", err)
	}
	if ttl < 0 {
		// Counter lost its expiry; restart the window.
		if err := s.client.PExpire(ctx, redisKey, s.window).Err(); err != nil {
			return Decision{}, fmt.Errorf("expire rate counter: %w", err)
		}
		ttl = s.window
	}

	return Decision{
		Allowed: int(count) <= s.limit,
		Count:   int(count),
		Limit:   s.limit,
		ResetAt: s.now().Add(ttl),
	}, nil
}
