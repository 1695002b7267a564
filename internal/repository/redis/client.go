package redis

import (
	"context"
	"fmt"

	"github.com/iamasit07/5-in-a-row/backend/internal/config"
	"github.com/redis/go-redis/v9"
)

// Connect opens a client and checks the server answers. Callers decide
// whether running without Redis is acceptable.
func Connect(ctx context.Context, cfg config.Redis) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       0,
	})

	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("could not connect to redis: %w", err)
	}
	return client, nil
}
