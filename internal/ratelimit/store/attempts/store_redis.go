package attempts

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"lotolink/internal/ratelimit/models"
)

const (
	maxTxRetries = 10
	scanBatch    = 100
)

// RedisStore shares attempt records across instances. Updates run inside
// WATCH/MULTI so concurrent attempts on one user cannot lose increments.
type RedisStore struct {
	client *redis.Client
	ttl    time.Duration
}

type RedisOption func(*RedisStore)

// WithTTL bounds how long an idle record survives in Redis.
func WithTTL(ttl time.Duration) RedisOption {
	return func(s *RedisStore) {
		if ttl > 0 {
			s.ttl = ttl
		}
	}
}

func NewRedis(client *redis.Client, opts ...RedisOption) *RedisStore {
	s := &RedisStore{client: client, ttl: models.DefaultLockout}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func decode(raw []byte) (*models.AdminCodeAttempt, error) {
	var rec models.AdminCodeAttempt
	if err := json.Unmarshal(raw, &rec); err != nil {
		return nil, fmt.Errorf("decode attempt record: %w", err)
	}
	return &rec, nil
}

func (s *RedisStore) Get(ctx context.Context, userID string) (*models.AdminCodeAttempt, error) {
	raw, err := s.client.Get(ctx, models.AttemptKey(userID)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get attempt record: %w", err)
	}
	return decode(raw)
}

func (s *RedisStore) Update(ctx context.Context, userID string, fn UpdateFunc) error {
	key := models.AttemptKey(userID)
	txf := func(tx *redis.Tx) error {
		var current *models.AdminCodeAttempt
		raw, err := tx.Get(ctx, key).Bytes()
		switch {
		case errors.Is(err, redis.Nil):
		case err != nil:
			return err
		default:
			if current, err = decode(raw); err != nil {
				return err
			}
		}

		next := fn(current)
		if next == nil {
			return nil
		}
		payload, err := json.Marshal(next)
		if err != nil {
			return fmt.Errorf("encode attempt record: %w", err)
		}
		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, key, payload, s.ttl)
			return nil
		})
		return err
	}

	for range maxTxRetries {
		err := s.client.Watch(ctx, txf, key)
		if err == nil {
			return nil
		}
		if errors.Is(err, redis.TxFailedErr) {
			continue
		}
		return fmt.Errorf("update attempt record: %w", err)
	}
	return ErrContention
}

func (s *RedisStore) Delete(ctx context.Context, userID string) error {
	if err := s.client.Del(ctx, models.AttemptKey(userID)).Err(); err != nil {
		return fmt.Errorf("delete attempt record: %w", err)
	}
	return nil
}

// Sweep walks attempt keys with SCAN and removes stale records. Key TTLs
// normally expire them first, so this mostly catches records written with
// a longer TTL by an older configuration.
func (s *RedisStore) Sweep(ctx context.Context, now time.Time, lockout time.Duration) (int, error) {
	removed := 0
	iter := s.client.Scan(ctx, 0, models.AttemptKeyPattern(), scanBatch).Iterator()
	for iter.Next(ctx) {
		key := iter.Val()
		raw, err := s.client.Get(ctx, key).Bytes()
		if errors.Is(err, redis.Nil) {
			continue
		}
		if err != nil {
			return removed, fmt.Errorf("sweep read %s: %w", key, err)
		}
		rec, err := decode(raw)
		if err != nil || rec.IsStaleAt(now, lockout) {
			if err := s.client.Del(ctx, key).Err(); err != nil {
				return removed, fmt.Errorf("sweep delete %s: %w", key, err)
			}
			removed++
		}
	}
	if err := iter.Err(); err != nil {
		return removed, fmt.Errorf("sweep scan: %w", err)
	}
	return removed, nil
}
