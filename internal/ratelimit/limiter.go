package ratelimit

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// fixedWindow counts requests per key in a window that starts with the
// first request. It runs as one Lua script so concurrent requests from
// several server instances see the same counter.
var fixedWindow = redis.NewScript(`
	local key = KEYS[1]
	local max_requests = tonumber(ARGV[1])
	local window = tonumber(ARGV[2])
	local current_time = tonumber(ARGV[3])

	local current = redis.call('GET', key)

	if current == false then
		redis.call('SET', key, 1, 'EX', window)
		return {1, max_requests - 1, current_time + window}
	end

	current = tonumber(current)
	local ttl = redis.call('TTL', key)
	if current < max_requests then
		redis.call('INCR', key)
		return {1, max_requests - current - 1, current_time + ttl}
	end
	return {0, 0, current_time + ttl}
`)

// RateLimiter limits write requests (asset creation, code generation) per client.
type RateLimiter struct {
	client      *redis.Client
	scope       string
	maxRequests int
	window      time.Duration
}

// NewLimiter allows maxRequests per window for each key under scope,
// e.g. NewLimiter(client, "assets", 100, time.Minute).
func NewLimiter(client *redis.Client, scope string, maxRequests int, window time.Duration) *RateLimiter {
	return &RateLimiter{
		client:      client,
		scope:       scope,
		maxRequests: maxRequests,
		window:      window,
	}
}

// Allow checks if a request should be allowed
func (rl *RateLimiter) Allow(ctx context.Context, key string) (bool, int, time.Time, error) {
	redisKey := fmt.Sprintf("ratelimit:%s:%s", rl.scope, key)

	now := time.Now()
	result, err := fixedWindow.Run(
		ctx,
		rl.client,
		[]string{redisKey},
		rl.maxRequests,
		int(rl.window.Seconds()),
		now.Unix(),
	).Int64Slice()
	if err != nil {
		return false, 0, time.Time{}, fmt.Errorf("rate limit check failed: %w", err)
	}
	if len(result) != 3 {
		return false, 0, time.Time{}, fmt.Errorf("unexpected rate limit result: %v", result)
	}

	return result[0] == 1, int(result[1]), time.Unix(result[2], 0), nil
}

// MaxRequests returns the maximum number of requests allowed
func (rl *RateLimiter) MaxRequests() int {
	return rl.maxRequests
}
