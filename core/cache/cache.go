package cache

import (
	"context"
	"fmt"
	"time"

	"studio-api/core/config"
	"studio-api/core/constants"
	"studio-api/core/logger"

	"github.com/redis/go-redis/v9"
)

const (
	tokenBlacklistTTL = 24 * time.Hour
	otpTTL            = 5 * time.Minute
)

type Cache interface {
	AddToTokenBlacklist(ctx context.Context, token string) error
	IsTokenBlacklisted(ctx context.Context, token string) (bool, error)
	SetOTP(ctx context.Context, key, code string) error
	GetOTP(ctx context.Context, key string) (string, error)
	Close() error
}

type redisCache struct {
	client *redis.Client
}

func NewRedisCache(cfg config.RedisConfig) (Cache, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		logger.Error("Cache:NewRedisCache:Ping", err)
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}

	logger.Info("Redis cache initialized", "host", cfg.Host, "port", cfg.Port, "db", cfg.DB)
	return &redisCache{client: client}, nil
}

func (c *redisCache) AddToTokenBlacklist(ctx context.Context, token string) error {
	return c.client.Set(ctx, constants.RedisKeyTokenBlacklist+token, "1", tokenBlacklistTTL).Err()
}

func (c *redisCache) IsTokenBlacklisted(ctx context.Context, token string) (bool, error) {
	res, err := c.client.Exists(ctx, constants.RedisKeyTokenBlacklist+token).Result()
	if err != nil {
		return false, err
	}
	return res > 0, nil
}

func (c *redisCache) SetOTP(ctx context.Context, key, code string) error {
	return c.client.Set(ctx, constants.RedisKeyOTP+key, code, otpTTL).Err()
}

func (c *redisCache) GetOTP(ctx context.Context, key string) (string, error) {
	res, err := c.client.Get(ctx, constants.RedisKeyOTP+key).Result()
	if err == redis.Nil {
		return "", nil
	}
	return res, err
}

func (c *redisCache) Close() error {
	return c.client.Close()
}
