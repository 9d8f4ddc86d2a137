package feedback

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisStore keeps pending toasts in redis lists so every console instance
// behind a load balancer sees them.
type RedisStore struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisStore wraps a redis client.
func NewRedisStore(client *redis.Client, ttl time.Duration) *RedisStore {
	return &RedisStore{client: client, ttl: ttl}
}

func toastsKey(sid string) string {
	return "cruisedesk:toasts:" + sid
}

func (s *RedisStore) Push(ctx context.Context, sid string, toasts ...Toast) error {
	if len(toasts) == 0 {
		return nil
	}
	values := make([]any, 0, len(toasts))
	for _, t := range toasts {
		payload, err := json.Marshal(t)
		if err != nil {
			return fmt.Errorf("encoding toast: %w", err)
		}
		values = append(values, payload)
	}

	key := toastsKey(sid)
	_, err := s.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.RPush(ctx, key, values...)
		pipe.Expire(ctx, key, s.ttl)
		return nil
	})
	if err != nil {
		return fmt.Errorf("pushing toasts: %w", err)
	}
	return nil
}

func (s *RedisStore) Drain(ctx context.Context, sid string) ([]Toast, error) {
	key := toastsKey(sid)
	var lrange *redis.StringSliceCmd
	_, err := s.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		lrange = pipe.LRange(ctx, key, 0, -1)
		pipe.Del(ctx, key)
		return nil
	})
	if err != nil && err != redis.Nil {
		return nil, fmt.Errorf("draining toasts: %w", err)
	}

	var toasts []Toast
	for _, raw := range lrange.Val() {
		var t Toast
		if err := json.Unmarshal([]byte(raw), &t); err != nil {
			return nil, fmt.Errorf("decoding toast: %w", err)
		}
		toasts = append(toasts, t)
	}
	return toasts, nil
}

// Ping checks that redis answers.
func (s *RedisStore) Ping(ctx context.Context) error {
	return s.client.Ping(ctx).Err()
}
