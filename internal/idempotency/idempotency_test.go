package idempotency

import (
	"context"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCallbackKey(t *testing.T) {
	assert.Equal(t, "payment:callback:AB12CD34EF:success", CallbackKey("AB12CD34EF", "success"))
}

func TestNop(t *testing.T) {
	var s Store = Nop{}
	require.NoError(t, s.Remember(context.Background(), "k", "v", time.Minute))
	v, ok, err := s.Lookup(context.Background(), "k")
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Empty(t, v)
}

func TestRedisStore_UnreachableServerReportsError(t *testing.T) {
	s := &RedisStore{Client: redis.NewClient(&redis.Options{
		Addr:        "127.0.0.1:1",
		DialTimeout: 100 * time.Millisecond,
		MaxRetries:  -1,
	})}
	t.Cleanup(func() { _ = s.Close() })

	_, ok, err := s.Lookup(context.Background(), "k")
	assert.Error(t, err)
	assert.False(t, ok)
}
