package config

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// RDB is nil when Redis is unreachable; callers treat the cache as a no-op.
var RDB *redis.Client

// InitRedis connects to Redis for menu caching. The cache is optional:
// a connection failure leaves RDB nil and the app serves from the database.
func InitRedis() error {
	config, err := LoadConfig()
	if err != nil {
		return err
	}

	rdb := redis.NewClient(&redis.Options{
		Addr:     fmt.Sprintf("%s:%s", config.RedisHost, config.RedisPort),
		Password: config.RedisPassword,
		DB:       0,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := rdb.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("failed to connect to Redis: %w", err)
	}

	RDB = rdb
	return nil
}
