// Package redis provides the Redis-backed cache store and RediSearch vector store.
package redis

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/davidbz/lodestar/internal/observability"
)

const (
	// RediSearch replies are parsed in their RESP2 shape.
	redisProtocol = 2
)

// NewClient creates a client and verifies connectivity.
func NewClient(ctx context.Context, cfg *Config) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:         cfg.Addr,
		Password:     cfg.Password,
		DB:           cfg.DB,
		PoolSize:     cfg.PoolSize,
		DialTimeout:  cfg.DialTimeout,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
		Protocol:     redisProtocol,
	})

	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to connect to redis at %s: %w", cfg.Addr, err)
	}

	observability.FromContext(ctx).Info("connected to redis",
		observability.String("addr", cfg.Addr),
		observability.Int("db", cfg.DB))

	return client, nil
}
