package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"trainhub/core/config"
	"trainhub/core/logger"
)

// Cache is the redis-backed cache used by the scheduling core and the auth middleware.
type Cache interface {
	// Busy-interval cache (scheduling)
	GetBusyJSON(ctx context.Context, key string, dest any) (bool, error)
	SetBusyJSON(ctx context.Context, key string, value any, ttl time.Duration) error

	// Suggestion-result cache (scheduling)
	GetSuggestion(ctx context.Context, key string, dest any) (bool, error)
	SetSuggestion(ctx context.Context, key string, value any, ttl time.Duration) error

	// Token blacklist (auth middleware)
	IsTokenBlacklisted(ctx context.Context, token string) (bool, error)

	Del(ctx context.Context, keys ...string) error
}

type redisCache struct {
	client *redis.Client
}

func NewCache(cfg config.RedisConfig) (Cache, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}

	logger.Info("Redis cache initialized", "addr", cfg.Addr, "db", cfg.DB)
	return &redisCache{client: client}, nil
}

func (c *redisCache) getJSON(ctx context.Context, key string, dest any) (bool, error) {
	raw, err := c.client.Get(ctx, key).Result()
	if err == redis.Nil {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	if err := json.Unmarshal([]byte(raw), dest); err != nil {
		logger.Warn("Cache:getJSON:UnmarshalError", "key", key, "error", err)
		return false, nil
	}
	return true, nil
}

func (c *redisCache) setJSON(ctx context.Context, key string, value any, ttl time.Duration) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, key, raw, ttl).Err()
}

func (c *redisCache) GetBusyJSON(ctx context.Context, key string, dest any) (bool, error) {
	return c.getJSON(ctx, "busy:"+key, dest)
}

func (c *redisCache) SetBusyJSON(ctx context.Context, key string, value any, ttl time.Duration) error {
	return c.setJSON(ctx, "busy:"+key, value, ttl)
}

func (c *redisCache) GetSuggestion(ctx context.Context, key string, dest any) (bool, error) {
	return c.getJSON(ctx, "suggestion:"+key, dest)
}

func (c *redisCache) SetSuggestion(ctx context.Context, key string, value any, ttl time.Duration) error {
	return c.setJSON(ctx, "suggestion:"+key, value, ttl)
}

func (c *redisCache) IsTokenBlacklisted(ctx context.Context, token string) (bool, error) {
	n, err := c.client.Exists(ctx, "token_blacklist:"+token).Result()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

func (c *redisCache) Del(ctx context.Context, keys ...string) error {
	return c.client.Del(ctx, keys...).Err()
}
