package search

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"time"

	"github.com/ncobase/esdsl/compiler"
	"github.com/ncobase/esdsl/data/config"
	gocache "github.com/patrickmn/go-cache"
	"github.com/redis/go-redis/v9"
)

// Cache stores rendered engine responses. Get returns nil, nil on a miss.
type Cache interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
}

// CacheKey derives a cache key from the operation and its compiled params.
func CacheKey(op string, p compiler.Params) (string, error) {
	data, err := compiler.Render(p, false)
	if err != nil {
		return "", err
	}
	sum := sha256.Sum256(data)
	return op + ":" + hex.EncodeToString(sum[:]), nil
}

// RedisCache implements Cache over a redis client
type RedisCache struct {
	rc     *redis.Client
	prefix string
	ttl    time.Duration
}

// NewRedisCache creates a cache whose entries expire after ttl
func NewRedisCache(rc *redis.Client, prefix string, ttl time.Duration) *RedisCache {
	return &RedisCache{rc: rc, prefix: prefix, ttl: ttl}
}

// NewRedisClient opens a redis client from the cache configuration
func NewRedisClient(cfg *config.Cache) *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr:         cfg.Addr,
		Username:     cfg.Username,
		Password:     cfg.Password,
		DB:           cfg.Db,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
		DialTimeout:  cfg.DialTimeout,
	})
}

// Get retrieves a cached response
func (c *RedisCache) Get(ctx context.Context, key string) ([]byte, error) {
	if c.rc == nil {
		return nil, errors.New("redis client is nil, cannot get cache")
	}
	data, err := c.rc.Get(ctx, c.prefix+key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil // Cache miss
		}
		return nil, fmt.Errorf("failed to get cache: %w", err)
	}
	return data, nil
}

// Set saves a response with the configured ttl
func (c *RedisCache) Set(ctx context.Context, key string, value []byte) error {
	if c.rc == nil {
		return errors.New("redis client is nil, cannot set cache")
	}
	if err := c.rc.Set(ctx, c.prefix+key, value, c.ttl).Err(); err != nil {
		return fmt.Errorf("failed to set cache: %w", err)
	}
	return nil
}

// MemoryCache implements Cache in process
type MemoryCache struct {
	c *gocache.Cache
}

// NewMemoryCache creates an in-process cache whose entries expire after ttl
func NewMemoryCache(ttl time.Duration) *MemoryCache {
	return &MemoryCache{c: gocache.New(ttl, 2*ttl)}
}

// Get retrieves a cached response
func (m *MemoryCache) Get(_ context.Context, key string) ([]byte, error) {
	v, ok := m.c.Get(key)
	if !ok {
		return nil, nil
	}
	data, _ := v.([]byte)
	return data, nil
}

// Set saves a response with the default ttl
func (m *MemoryCache) Set(_ context.Context, key string, value []byte) error {
	m.c.SetDefault(key, value)
	return nil
}

// NewCache builds the cache named by cfg.Driver, or nil when disabled
func NewCache(cfg *config.Cache) Cache {
	if cfg == nil || !cfg.Enabled {
		return nil
	}
	if cfg.Driver == config.CacheMemory {
		return NewMemoryCache(cfg.TTL)
	}
	return NewRedisCache(NewRedisClient(cfg), cfg.Prefix, cfg.TTL)
}
