package idempotent

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
)

const keyPrefix = "notification_center:idempotent:"

type RedisIdempotencyService struct {
	client     redis.Cmdable
	expiration time.Duration
}

func NewRedisIdempotencyService(client redis.Cmdable, expiration time.Duration) *RedisIdempotencyService {
	return &RedisIdempotencyService{client: client, expiration: expiration}
}

func (s *RedisIdempotencyService) Exists(ctx context.Context, key string) (bool, error) {
	ok, err := s.client.SetNX(ctx, keyPrefix+key, 1, s.expiration).Result()
	if err != nil {
		return false, err
	}
	return !ok, nil
}

func (s *RedisIdempotencyService) Forget(ctx context.Context, key string) error {
	return s.client.Del(ctx, keyPrefix+key).Err()
}
