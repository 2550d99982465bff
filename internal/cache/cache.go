// Package cache stores short-lived JSON values, in redis when one is
// configured and in process otherwise.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	gocache "github.com/patrickmn/go-cache"

	"github.com/leozw/domainhub/internal/storage/redis"
)

// Cache reports a miss as (false, nil).
type Cache interface {
	Get(ctx context.Context, key string, dest interface{}) (bool, error)
	Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error
}

type redisCache struct {
	client *redis.Client
	prefix string
}

func NewRedis(client *redis.Client, prefix string) Cache {
	return &redisCache{client: client, prefix: prefix}
}

func (c *redisCache) Get(ctx context.Context, key string, dest interface{}) (bool, error) {
	err := c.client.GetJSON(ctx, c.prefix+key, dest)
	if errors.Is(err, redis.ErrCacheMiss) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

func (c *redisCache) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	return c.client.SetJSON(ctx, c.prefix+key, value, ttl)
}

// memoryCache keeps encoded values so callers never share state.
type memoryCache struct {
	store *gocache.Cache
}

func NewMemory(defaultTTL time.Duration) Cache {
	return &memoryCache{store: gocache.New(defaultTTL, 2*defaultTTL)}
}

func (c *memoryCache) Get(ctx context.Context, key string, dest interface{}) (bool, error) {
	v, ok := c.store.Get(key)
	if !ok {
		return false, nil
	}
	return true, json.Unmarshal(v.([]byte), dest)
}

func (c *memoryCache) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	data, err := json.Marshal(value)
	if err != nil {
		return err
	}
	c.store.Set(key, data, ttl)
	return nil
}

// Nop never stores anything.
type Nop struct{}

func (Nop) Get(context.Context, string, interface{}) (bool, error)        { return false, nil }
func (Nop) Set(context.Context, string, interface{}, time.Duration) error { return nil }
