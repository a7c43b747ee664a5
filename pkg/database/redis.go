package database

import (
	"context"
	"fmt"
	"time"

	"lumo-api/pkg/utils"

	"github.com/redis/go-redis/v9"
)

// InitRedis connects to redis. Returns (nil, nil) when no address is
// configured; callers treat a nil client as "caching and rate limiting off".
func InitRedis(config utils.RedisConfig) (*redis.Client, error) {
	if config.Addr == "" {
		return nil, nil
	}

	client := redis.NewClient(&redis.Options{
		Addr:     config.Addr,
		Password: config.Password,
		DB:       config.DB,
	})

	pingCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	if err := client.Ping(pingCtx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("ping redis failed: %w", err)
	}

	return client, nil
}
