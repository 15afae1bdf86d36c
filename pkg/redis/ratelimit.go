package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"golang.org/x/time/rate"
)

// RateLimiter implements sliding window rate limiting using Redis. When
// Redis is disabled it falls back to an in-process token bucket so a
// single-node run still respects the provider's limits.
type RateLimiter struct {
	client *Client
	prefix string
	local  *rate.Limiter
}

// RateLimitConfig defines rate limit parameters
type RateLimitConfig struct {
	Key    string        // Unique identifier (e.g., "yahoo", "nasdaq")
	Limit  int           // Maximum requests allowed
	Window time.Duration // Time window
}

// NewRateLimiter creates a new rate limiter
func NewRateLimiter(client *Client, prefix string, cfg RateLimitConfig) *RateLimiter {
	perSecond := float64(cfg.Limit) / cfg.Window.Seconds()
	return &RateLimiter{
		client: client,
		prefix: prefix,
		local:  rate.NewLimiter(rate.Limit(perSecond), cfg.Limit),
	}
}

// Allow checks if a request is allowed under the rate limit.
// Returns (allowed, remaining, error).
func (r *RateLimiter) Allow(ctx context.Context, cfg RateLimitConfig) (bool, int, error) {
	if !r.client.Enabled() {
		if r.local.Allow() {
			return true, cfg.Limit, nil
		}
		return false, 0, nil
	}

	key := fmt.Sprintf("%s:ratelimit:%s", r.prefix, cfg.Key)
	now := time.Now().UnixMilli()
	windowStart := now - cfg.Window.Milliseconds()

	rdb := r.client.Redis()

	// Lua script keeps remove-count-add atomic
	script := redis.NewScript(`
		local key = KEYS[1]
		local now = tonumber(ARGV[1])
		local window_start = tonumber(ARGV[2])
		local limit = tonumber(ARGV[3])
		local window_ms = tonumber(ARGV[4])

		redis.call('ZREMRANGEBYSCORE', key, '-inf', window_start)

		local count = redis.call('ZCARD', key)

		if count < limit then
			redis.call('ZADD', key, now, now)
			redis.call('PEXPIRE', key, window_ms)
			return {1, limit - count - 1}
		else
			return {0, 0}
		end
	`)

	result, err := script.Run(ctx, rdb, []string{key},
		now,
		windowStart,
		cfg.Limit,
		cfg.Window.Milliseconds(),
	).Slice()
	if err != nil {
		return false, 0, fmt.Errorf("rate limit script failed: %w", err)
	}

	allowed := result[0].(int64) == 1
	remaining := int(result[1].(int64))

	return allowed, remaining, nil
}

// Wait blocks until a request is allowed or context is cancelled
func (r *RateLimiter) Wait(ctx context.Context, cfg RateLimitConfig) error {
	if !r.client.Enabled() {
		return r.local.Wait(ctx)
	}

	for {
		allowed, _, err := r.Allow(ctx, cfg)
		if err != nil {
			return err
		}
		if allowed {
			return nil
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(100 * time.Millisecond):
			// Retry
		}
	}
}

// Predefined rate limit configs for external data providers
var (
	// Yahoo Finance: conservative compared to observed throttling
	YahooRateLimit = RateLimitConfig{
		Key:    "yahoo",
		Limit:  30,
		Window: time.Minute,
	}

	// Nasdaq Nordic listing API
	NasdaqRateLimit = RateLimitConfig{
		Key:    "nasdaq",
		Limit:  10,
		Window: time.Second,
	}

	// Euronext listing download
	EuronextRateLimit = RateLimitConfig{
		Key:    "euronext",
		Limit:  10,
		Window: time.Second,
	}
)
