package bucket

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/segmentio/ksuid"

	"lotolink/internal/ratelimit/models"
)

// allowScript trims the sorted set to the window, adds the request when
// there is room and returns {allowed, count, reset_ms}. Running it as one
// script keeps check-and-add atomic across instances.
var allowScript = redis.NewScript(`
local key = KEYS[1]
local now = tonumber(ARGV[1])
local window = tonumber(ARGV[2])
local limit = tonumber(ARGV[3])

redis.call('ZREMRANGEBYSCORE', key, '-inf', now - window)
local count = redis.call('ZCARD', key)
local allowed = 0
if count < limit then
	redis.call('ZADD', key, now, ARGV[4])
	count = count + 1
	allowed = 1
end
redis.call('PEXPIRE', key, window)

local reset = now + window
local oldest = redis.call('ZRANGE', key, 0, 0, 'WITHSCORES')
if oldest[2] then
	reset = tonumber(oldest[2]) + window
end
return {allowed, count, reset}
`)

// RedisStore shares sliding windows across instances with one sorted set
// per key. Keys expire with their window, so no sweep is needed.
type RedisStore struct {
	client *redis.Client
}

func NewRedis(client *redis.Client) *RedisStore {
	return &RedisStore{client: client}
}

func (s *RedisStore) Allow(ctx context.Context, key string, limit models.Limit, now time.Time) (*models.RateLimitResult, error) {
	res, err := allowScript.Run(ctx, s.client, []string{key},
		now.UnixMilli(),
		limit.Window.Milliseconds(),
		limit.Requests,
		ksuid.New().String(),
	).Int64Slice()
	if err != nil {
		return nil, fmt.Errorf("allow %s: %w", key, err)
	}
	if len(res) != 3 {
		return nil, fmt.Errorf("allow %s: unexpected reply %v", key, res)
	}
	return &models.RateLimitResult{
		Allowed:   res[0] == 1,
		Limit:     limit.Requests,
		Remaining: max(limit.Requests-int(res[1]), 0),
		ResetAt:   time.UnixMilli(res[2]),
	}, nil
}

func (s *RedisStore) Reset(ctx context.Context, key string) error {
	if err := s.client.Del(ctx, key).Err(); err != nil {
		return fmt.Errorf("reset %s: %w", key, err)
	}
	return nil
}
