// Package cache stores finished scrape responses in Redis so the downstream
// pipeline can re-request a SKU without re-probing the vendor CDN.
package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/stylefeed/fashion-image-scraper/internal/models"
)

type Cache struct {
	rdb    *redis.Client
	ttl    time.Duration
	logger *slog.Logger
}

// New connects to Redis and verifies the connection. The cache is optional;
// callers hold a nil *Cache when no Redis is configured and every method
// no-ops on a nil receiver.
func New(ctx context.Context, addr, password string, db int, ttl time.Duration, logger *slog.Logger) (*Cache, error) {
	if logger == nil {
		logger = slog.Default()
	}
	rdb := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})
	if err := rdb.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}
	return &Cache{rdb: rdb, ttl: ttl, logger: logger.With("component", "cache")}, nil
}

func (c *Cache) Close() error {
	if c == nil {
		return nil
	}
	return c.rdb.Close()
}

// Key builds the cache key for one scrape invocation. max_images is part of
// the key because it changes the response shape, not just its length.
func Key(brand, formattedSKU string, maxImages int) string {
	return fmt.Sprintf("scrape:%s:%s:%d", brand, formattedSKU, maxImages)
}

func (c *Cache) Get(ctx context.Context, key string) (*models.ScrapeResult, bool) {
	if c == nil {
		return nil, false
	}
	data, err := c.rdb.Get(ctx, key).Bytes()
	if err != nil {
		return nil, false
	}
	var result models.ScrapeResult
	if err := json.Unmarshal(data, &result); err != nil {
		c.logger.Warn("dropping undecodable cache entry", "key", key, "error", err)
		c.rdb.Del(ctx, key)
		return nil, false
	}
	return &result, true
}

func (c *Cache) Set(ctx context.Context, key string, result *models.ScrapeResult) {
	if c == nil || result == nil {
		return
	}
	data, err := json.Marshal(result)
	if err != nil {
		c.logger.Warn("failed to encode cache entry", "key", key, "error", err)
		return
	}
	if err := c.rdb.Set(ctx, key, data, c.ttl).Err(); err != nil {
		c.logger.Warn("failed to write cache entry", "key", key, "error", err)
	}
}
