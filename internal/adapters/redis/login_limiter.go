// Package redis provides Redis-based adapters for the studyhall API.
package redis

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
)

// LoginLimiter throttles signin attempts per email using a fixed
// window counter in Redis. State is shared across replicas, so the
// limit holds no matter which instance serves the request.
type LoginLimiter struct {
	client redis.UniversalClient
	prefix string
	limit  int
	window time.Duration
}

// LoginLimiterOptions configures a LoginLimiter.
type LoginLimiterOptions struct {
	// Limit is the maximum number of attempts per key per window.
	Limit int
	// Window is the counting window. Defaults to one minute.
	Window time.Duration
	// Prefix overrides the default key prefix.
	Prefix string
}

// NewLoginLimiter creates a Redis-backed login limiter.
func NewLoginLimiter(client redis.UniversalClient, opts LoginLimiterOptions) (*LoginLimiter, error) {
	if client == nil {
		return nil, fmt.Errorf("redis client is required")
	}
	if opts.Limit <= 0 {
		return nil, fmt.Errorf("limit must be positive, got %d", opts.Limit)
	}
	window := opts.Window
	if window <= 0 {
		window = time.Minute
	}
	prefix := opts.Prefix
	if prefix == "" {
		prefix = "login_attempt:"
	}
	return &LoginLimiter{
		client: client,
		prefix: prefix,
		limit:  opts.Limit,
		window: window,
	}, nil
}

// Allow records one attempt for key and reports whether it is within
// the limit. The counter expires with the window, so a quiet period
// resets the budget.
func (l *LoginLimiter) Allow(ctx context.Context, key string) (bool, error) {
	if key == "" {
		return true, nil
	}

	redisKey := l.prefix + strings.ToLower(key)

	pipe := l.client.TxPipeline()
	incr := pipe.Incr(ctx, redisKey)
	// NX keeps the original window deadline when the key already exists.
	pipe.ExpireNX(ctx, redisKey, l.window)
	if _, err := pipe.Exec(ctx); err != nil {
		return false, fmt.Errorf("redis login limiter: %w", err)
	}

	return incr.Val() <= int64(l.limit), nil
}
