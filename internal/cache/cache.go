// Package cache keeps recent predictions in Redis keyed by the hash of the
// assembled request window.
package cache

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/airsense/pm10cast/internal/logging"
	"github.com/go-redis/redis/v8"
)

type Redis struct {
	client *redis.Client
	ttl    time.Duration
	prefix string
}

// New connects to Redis and checks the connection with PING. Keys are
// scoped by namespace, so predictions of other artifact sets are never read.
func New(ctx context.Context, cfg *Config, namespace string) (*Redis, error) {
	logger := logging.FromContext(ctx)
	logger.Infof("creating redis connection to %s", cfg.Addr)

	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("redis ping %s: %w", cfg.Addr, err)
	}
	return &Redis{client: client, ttl: cfg.TTL, prefix: keyPrefix(cfg.Prefix, namespace)}, nil
}

func keyPrefix(prefix, namespace string) string {
	if namespace == "" {
		return prefix
	}
	return prefix + namespace + ":"
}

func (r *Redis) key(k string) string {
	return r.prefix + k
}

func (r *Redis) Get(ctx context.Context, key string) (float64, bool, error) {
	s, err := r.client.Get(ctx, r.key(key)).Result()
	if errors.Is(err, redis.Nil) {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, fmt.Errorf("redis get: %w", err)
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, false, fmt.Errorf("redis value %q: %w", s, err)
	}
	return v, true, nil
}

func (r *Redis) Set(ctx context.Context, key string, value float64) error {
	s := strconv.FormatFloat(value, 'g', -1, 64)
	if err := r.client.Set(ctx, r.key(key), s, r.ttl).Err(); err != nil {
		return fmt.Errorf("redis set: %w", err)
	}
	return nil
}

func (r *Redis) Close(ctx context.Context) error {
	logging.FromContext(ctx).Infof("closing redis connection")
	if err := r.client.Close(); err != nil {
		return fmt.Errorf("error close redis connection: %w", err)
	}
	return nil
}
