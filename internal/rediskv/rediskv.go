// Package rediskv stores the state snapshot in Redis.
package rediskv

import (
	"context"
	"errors"
	"fmt"

	"github.com/go-redis/redis/v8"

	"github.com/Simplici0/pintorpro/internal/state"
)

// Config holds the Redis connection settings.
type Config struct {
	Addr     string
	Password string
	DB       int
}

// NewClient creates a Redis client and checks the connection.
func NewClient(ctx context.Context, cfg Config) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("ping redis %s: %w", cfg.Addr, err)
	}
	return client, nil
}

// KV stores one value under a fixed Redis key.
type KV struct {
	client *redis.Client
	key    string
}

// NewKV returns a KV bound to key.
func NewKV(client *redis.Client, key string) *KV {
	return &KV{client: client, key: key}
}

// Get returns the stored value or state.ErrNotFound.
func (k *KV) Get(ctx context.Context) ([]byte, error) {
	value, err := k.client.Get(ctx, k.key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, state.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("redis get %q: %w", k.key, err)
	}
	return value, nil
}

// Put writes value without expiry.
func (k *KV) Put(ctx context.Context, value []byte) error {
	if err := k.client.Set(ctx, k.key, value, 0).Err(); err != nil {
		return fmt.Errorf("redis set %q: %w", k.key, err)
	}
	return nil
}
