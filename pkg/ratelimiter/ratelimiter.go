package ratelimiter

import (
	"context"
	"fmt"
	"time"

	"anoa.com/productcatalog/pkg/apperror"
	"github.com/redis/go-redis/v9"
)

// RateLimitError is returned when a key has used up its window.
type RateLimitError struct {
	Message    string
	RetryAfter time.Duration
}

func (e *RateLimitError) Error() string {
	return e.Message
}

func (e *RateLimitError) Is(target error) bool {
	return target == apperror.ErrRateLimitExceeded
}

type Limiter interface {
	Allow(ctx context.Context, key string) error
}

// RedisLimiter is a fixed window counter: at most Limit calls per Window for a
// key.
type RedisLimiter struct {
	rdb    *redis.Client
	prefix string
	limit  int64
	window time.Duration
}

func NewRedisLimiter(rdb *redis.Client, prefix string, limit int, window time.Duration) *RedisLimiter {
	return &RedisLimiter{rdb: rdb, prefix: prefix, limit: int64(limit), window: window}
}

func (l *RedisLimiter) key(k string) string {
	return fmt.Sprintf("rate_limit:%s:%s", l.prefix, k)
}

func (l *RedisLimiter) Allow(ctx context.Context, k string) error {
	if l == nil || l.rdb == nil || l.limit <= 0 {
		return nil
	}

	key := l.key(k)

	pipe := l.rdb.TxPipeline()
	incr := pipe.Incr(ctx, key)
	pipe.ExpireNX(ctx, key, l.window)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to check rate limit in redis: %w", err)
	}

	if incr.Val() <= l.limit {
		return nil
	}

	ttl, err := l.rdb.TTL(ctx, key).Result()
	if err != nil || ttl < 0 {
		ttl = l.window
	}

	return &RateLimitError{
		Message:    fmt.Sprintf("too many write requests, retry in %.0f seconds", ttl.Seconds()),
		RetryAfter: ttl,
	}
}
