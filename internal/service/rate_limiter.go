package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/prperemyshlev/user-service/pkg/database"
	"github.com/redis/go-redis/v9"
)

// RateLimitError is returned when a key has used up its window
type RateLimitError struct {
	RetryAfter time.Duration
}

func (e *RateLimitError) Error() string {
	return fmt.Sprintf("%s, try again in %v", ErrRateLimitExceeded, e.RetryAfter)
}

// Is makes errors.Is(err, ErrRateLimitExceeded) match
func (e *RateLimitError) Is(target error) bool {
	return target == ErrRateLimitExceeded
}

// allowScript trims the window, counts it and records the hit in one step.
// It returns {allowed, count, oldest score or -1}.
var allowScript = redis.NewScript(`
local key = KEYS[1]
local now = tonumber(ARGV[1])
local window = tonumber(ARGV[2])
local limit = tonumber(ARGV[3])

redis.call('ZREMRANGEBYSCORE', key, 0, now - window)
local count = redis.call('ZCARD', key)
if count >= limit then
	local oldest = redis.call('ZRANGE', key, 0, 0, 'WITHSCORES')
	local at = -1
	if oldest[2] then
		at = tonumber(oldest[2])
	end
	return {0, count, at}
end

redis.call('ZADD', key, now, ARGV[4])
redis.call('PEXPIRE', key, window + 60000)
return {1, count, -1}
`)

// RateLimiter handles sliding window rate limiting using Redis sorted sets
type RateLimiter struct {
	redis *database.Redis
	now   func() time.Time
}

// NewRateLimiter creates a new rate limiter
func NewRateLimiter(redis *database.Redis) *RateLimiter {
	return &RateLimiter{redis: redis, now: time.Now}
}

// Allow records a hit for key and returns how many requests remain in the
// window. When the window is full it returns a *RateLimitError.
func (r *RateLimiter) Allow(ctx context.Context, key string, limit int, window time.Duration) (int, error) {
	now := r.now()

	res, err := allowScript.Run(ctx, r.redis.Client, []string{"ratelimit:" + key},
		now.UnixMilli(), window.Milliseconds(), limit, uuid.NewString(),
	).Int64Slice()
	if err != nil {
		return 0, fmt.Errorf("failed to check rate limit window: %w", err)
	}
	if len(res) != 3 {
		return 0, fmt.Errorf("unexpected rate limit reply: %v", res)
	}

	count := int(res[1])
	if res[0] == 0 {
		retryAfter := window
		if res[2] >= 0 {
			retryAfter = window - now.Sub(time.UnixMilli(res[2]))
		}
		if retryAfter < time.Second {
			retryAfter = time.Second
		}
		return 0, &RateLimitError{RetryAfter: retryAfter.Round(time.Second)}
	}

	return limit - count - 1, nil
}
