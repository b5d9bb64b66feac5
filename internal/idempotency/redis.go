package idempotency

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
)

type RedisStore struct {
	Client *redis.Client
}

func NewRedisStore(ctx context.Context, addr string) (*RedisStore, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:         addr,
		DialTimeout:  2 * time.Second,
		ReadTimeout:  time.Second,
		WriteTimeout: time.Second,
	})
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, err
	}
	return &RedisStore{Client: rdb}, nil
}

func (s *RedisStore) Lookup(ctx context.Context, key string) (string, bool, error) {
	v, err := s.Client.Get(ctx, key).Result()
	if errors.Is(err, redis.Nil) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return v, true, nil
}

// Remember keeps the first stored value; later writes for the same key are ignored.
func (s *RedisStore) Remember(ctx context.Context, key, value string, ttl time.Duration) error {
	return s.Client.SetNX(ctx, key, value, ttl).Err()
}

func (s *RedisStore) Close() error {
	return s.Client.Close()
}
