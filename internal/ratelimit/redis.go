package ratelimit

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const redisKeyPrefix = "ratelimit:"

// incrWindow increments the counter and starts the window on first hit.
// Returns {count, pttl}.
var incrWindow = redis.NewScript(`
local count = redis.call('INCR', KEYS[1])
if count == 1 then
  redis.call('PEXPIRE', KEYS[1], ARGV[1])
end
local ttl = redis.call('PTTL', KEYS[1])
if ttl < 0 then
  redis.call('PEXPIRE', KEYS[1], ARGV[1])
  ttl = tonumber(ARGV[1])
end
return {count, ttl}
`)

// RedisLimiter shares windows across instances through Redis. Keys expire with
// their window, so no sweep is needed.
type RedisLimiter struct {
	client redis.Scripter
	max    int
	window time.Duration
	logger *zap.Logger
}

// NewRedisLimiter creates a limiter allowing max requests per window.
func NewRedisLimiter(client redis.Scripter, max int, window time.Duration, logger *zap.Logger) *RedisLimiter {
	return &RedisLimiter{client: client, max: max, window: window, logger: logger}
}

// Check counts a request against key. Redis failures allow the request.
func (l *RedisLimiter) Check(ctx context.Context, key string) Result {
	count, ttl, err := l.incr(ctx, key)
	if err != nil {
		l.logger.Warn("rate limit check failed; allowing request", zap.String("key", key), zap.Error(err))
		return Result{Allowed: true, Remaining: l.max - 1, ResetIn: l.window}
	}
	if count > l.max {
		return Result{Allowed: false, Remaining: 0, ResetIn: ttl}
	}
	return Result{Allowed: true, Remaining: l.max - count, ResetIn: ttl}
}

func (l *RedisLimiter) incr(ctx context.Context, key string) (int, time.Duration, error) {
	raw, err := incrWindow.Run(ctx, l.client, []string{redisKeyPrefix + key}, l.window.Milliseconds()).Slice()
	if err != nil {
		return 0, 0, err
	}
	if len(raw) != 2 {
		return 0, 0, fmt.Errorf("unexpected script reply: %v", raw)
	}
	count, ok := raw[0].(int64)
	if !ok {
		return 0, 0, fmt.Errorf("unexpected count type %T", raw[0])
	}
	ttl, ok := raw[1].(int64)
	if !ok {
		return 0, 0, fmt.Errorf("unexpected ttl type %T", raw[1])
	}
	return int(count), time.Duration(ttl) * time.Millisecond, nil
}
