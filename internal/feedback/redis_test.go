package feedback

import (
	"context"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
)

func TestRedisStoreUnreachable(t *testing.T) {
	client := redis.NewClient(&redis.Options{
		Addr:        "127.0.0.1:1",
		DialTimeout: 100 * time.Millisecond,
		MaxRetries:  -1,
	})
	t.Cleanup(func() { client.Close() })
	s := NewRedisStore(client, time.Minute)
	ctx := context.Background()

	assert.Error(t, s.Ping(ctx))
	assert.ErrorContains(t, s.Push(ctx, "sid", Toast{Level: LevelInfo, Message: "x"}), "pushing toasts")
	_, err := s.Drain(ctx, "sid")
	assert.ErrorContains(t, err, "draining toasts")
}

func TestToastsKey(t *testing.T) {
	assert.Equal(t, "cruisedesk:toasts:abc", toastsKey("abc"))
}
