package redis

import (
	"context"
	"fmt"
	"time"

	"vestiaire/internal/config"
	"vestiaire/internal/middleware"

	"github.com/redis/go-redis/v9"
)

// redisRateLimiter implements middleware.RateLimiter with a fixed window:
// INCR per (prefix, key) bucket, EXPIRE on the first hit of the window.
type redisRateLimiter struct {
	client *redis.Client
	prefix string
	limit  int
	window time.Duration
}

// NewRedisRateLimiter creates a fixed-window limiter. prefix namespaces the
// keys so independent limits (friend requests, proposals) do not collide.
func NewRedisRateLimiter(client *redis.Client, prefix string, cfg config.RateLimitConfig) middleware.RateLimiter {
	return &redisRateLimiter{
		client: client,
		prefix: prefix,
		limit:  cfg.Limit,
		window: cfg.Window,
	}
}

// Allow reports whether the caller identified by key may proceed.
func (r *redisRateLimiter) Allow(ctx context.Context, key string) (bool, error) {
	bucket := fmt.Sprintf("rl:%s:%s", r.prefix, key)

	count, err := r.client.Incr(ctx, bucket).Result()
	if err != nil {
		return false, fmt.Errorf("failed to increment rate limit bucket %s: %w", bucket, err)
	}
	if count == 1 {
		if err := r.client.Expire(ctx, bucket, r.window).Err(); err != nil {
			return false, fmt.Errorf("failed to set TTL on rate limit bucket %s: %w", bucket, err)
		}
	}
	return count <= int64(r.limit), nil
}
