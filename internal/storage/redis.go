package storage

import (
	"context"
	"errors"

	"github.com/redis/go-redis/v9"
)

type RedisKV struct {
	Client *redis.Client
}

func NewRedisKV(client *redis.Client) *RedisKV {
	return &RedisKV{Client: client}
}

func (r *RedisKV) Get(ctx context.Context, key string) (string, error) {
	value, err := r.Client.Get(ctx, key).Result()
	if errors.Is(err, redis.Nil) {
		return "", ErrNotFound
	}
	if err != nil {
		return "", err
	}
	return value, nil
}

func (r *RedisKV) Set(ctx context.Context, key, value string) error {
	return r.Client.Set(ctx, key, value, 0).Err()
}

func (r *RedisKV) Delete(ctx context.Context, key string) error {
	return r.Client.Del(ctx, key).Err()
}

var _ KeyValue = (*RedisKV)(nil)
