package search

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/DjordjeVuckovic/video-hunter/internal/vectordb"
	"github.com/bytedance/sonic"
	"github.com/redis/go-redis/v9"
)

// Cache stores ranked hits per normalized query and k.
type Cache interface {
	Get(ctx context.Context, key string) ([]vectordb.Hit, bool, error)
	Set(ctx context.Context, key string, hits []vectordb.Hit) error
}

// CacheKey lowercases the query and collapses whitespace so trivially
// different spellings share an entry.
func CacheKey(query string, k int) string {
	norm := strings.Join(strings.Fields(strings.ToLower(query)), " ")
	return strconv.Itoa(k) + ":" + norm
}

type NopCache struct{}

func (NopCache) Get(context.Context, string) ([]vectordb.Hit, bool, error) { return nil, false, nil }
func (NopCache) Set(context.Context, string, []vectordb.Hit) error         { return nil }

const (
	defaultCachePrefix = "video-hunter:search:"
	defaultCacheTTL    = 10 * time.Minute
)

type RedisCache struct {
	client *redis.Client
	prefix string
	ttl    time.Duration
}

func NewRedisCache(ctx context.Context, url string, ttl time.Duration) (*RedisCache, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("parsing redis URL: %w", err)
	}

	client := redis.NewClient(opts)

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("connecting to redis: %w", err)
	}

	return NewRedisCacheWithClient(client, ttl), nil
}

func NewRedisCacheWithClient(client *redis.Client, ttl time.Duration) *RedisCache {
	if ttl <= 0 {
		ttl = defaultCacheTTL
	}
	return &RedisCache{client: client, prefix: defaultCachePrefix, ttl: ttl}
}

func (c *RedisCache) Get(ctx context.Context, key string) ([]vectordb.Hit, bool, error) {
	data, err := c.client.Get(ctx, c.prefix+key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("redis get: %w", err)
	}

	var hits []vectordb.Hit
	if err := sonic.Unmarshal(data, &hits); err != nil {
		return nil, false, fmt.Errorf("decode cached hits: %w", err)
	}
	return hits, true, nil
}

func (c *RedisCache) Set(ctx context.Context, key string, hits []vectordb.Hit) error {
	data, err := sonic.Marshal(hits)
	if err != nil {
		return fmt.Errorf("encode hits: %w", err)
	}
	if err := c.client.Set(ctx, c.prefix+key, data, c.ttl).Err(); err != nil {
		return fmt.Errorf("redis set: %w", err)
	}
	return nil
}

func (c *RedisCache) Close() error {
	return c.client.Close()
}
