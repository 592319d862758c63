package config

import (
	"context"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
)

// RedisClient process-wide Redis client
var RedisClient *redis.Client

// InitRedis connects to Redis and pings it.
func InitRedis(ctx context.Context, addr, password string, db int) {
	RedisClient = redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})

	s, err := RedisClient.Ping(ctx).Result()
	if err != nil {
		Logger.Fatal("Error connecting to Redis", zap.String("addr", addr), zap.Error(err))
	}
	Logger.Info("Connected to Redis", zap.String("ping", s))
}
