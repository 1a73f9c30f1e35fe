// Package cache provides the Redis backend for gin sessions. It supports both
// an embedded server (miniredis) and an external Redis.
package cache

import (
	"context"
	"fmt"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/userdesk/userdesk/config"
	"github.com/userdesk/userdesk/logger"
)

// Redis owns a client and, when embedded, the in-process server behind it.
type Redis struct {
	client    *redis.Client
	miniRedis *miniredis.Miniredis
}

// NewRedis connects to cfg.Addr. An empty address starts an embedded server.
func NewRedis(ctx context.Context, cfg config.RedisConfig) (*Redis, error) {
	r := &Redis{}
	if cfg.Addr == "" {
		mr, err := miniredis.Run()
		if err != nil {
			return nil, fmt.Errorf("failed to start embedded Redis: %w", err)
		}
		r.miniRedis = mr
		r.client = redis.NewClient(&redis.Options{
			Addr: mr.Addr(),
		})
		logger.Info("Embedded Redis started on", mr.Addr())
		return r, nil
	}

	r.client = redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})
	if err := r.client.Ping(ctx).Err(); err != nil {
		_ = r.client.Close()
		return nil, fmt.Errorf("failed to connect to Redis at %s: %w", cfg.Addr, err)
	}
	logger.Info("Connected to external Redis at", cfg.Addr)
	return r, nil
}

func (r *Redis) Client() *redis.Client {
	return r.client
}

// IsEmbedded returns true if using embedded Redis.
func (r *Redis) IsEmbedded() bool {
	return r.miniRedis != nil
}

// Close closes the connection and stops the embedded server if running.
func (r *Redis) Close() error {
	if r == nil {
		return nil
	}
	var err error
	if r.client != nil {
		err = r.client.Close()
	}
	if r.miniRedis != nil {
		r.miniRedis.Close()
	}
	return err
}
