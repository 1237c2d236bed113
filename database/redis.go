package database

import (
	"context"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
)

// RedisCache keeps gauge file ids in Redis, for deployments running more
// than one bot replica.
type RedisCache struct {
	client *redis.Client
}

// NewRedis connects to addr and checks the connection.
func NewRedis(addr string) (*RedisCache, error) {
	client := redis.NewClient(&redis.Options{Addr: addr})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to connect to redis at %s: %w", addr, err)
	}
	return &RedisCache{client: client}, nil
}

func (c *RedisCache) GetGaugeFileID(ctx context.Context, key string) (string, error) {
	id, err := c.client.Get(ctx, key).Result()
	if err == redis.Nil {
		return "", ErrCacheMiss
	}
	return id, err
}

func (c *RedisCache) PutGaugeFileID(ctx context.Context, key, fileID string) error {
	return c.client.Set(ctx, key, fileID, 0).Err()
}

func (c *RedisCache) Close() error {
	return c.client.Close()
}
