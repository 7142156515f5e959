package cache

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	redis "github.com/redis/go-redis/v9"

	"restoledger/backend/internal/domain"
)

type RedisViewCache struct {
	client *redis.Client
}

func NewRedisViewCache(addr string, password string, db int) *RedisViewCache {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})

	return &RedisViewCache{client: client}
}

func (c *RedisViewCache) Ping(ctx context.Context) error {
	return c.client.Ping(ctx).Err()
}

func (c *RedisViewCache) Close() error {
	return c.client.Close()
}

func (c *RedisViewCache) Get(ctx context.Context, key string) (*domain.View, bool, error) {
	val, err := c.client.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}

	var view domain.View
	if err := json.Unmarshal(val, &view); err != nil {
		return nil, false, err
	}
	return &view, true, nil
}

func (c *RedisViewCache) Set(ctx context.Context, key string, value *domain.View, ttl time.Duration) error {
	if value == nil {
		return nil
	}
	payload, err := json.Marshal(value)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, key, payload, ttl).Err()
}
