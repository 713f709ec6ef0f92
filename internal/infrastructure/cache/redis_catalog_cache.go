package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/billing/console/internal/domain/refdata"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// RedisCatalogCache implements CatalogCache using Redis. This is
// suitable for distributed deployments where multiple instances share
// the reference-data cache.
type RedisCatalogCache struct {
	client    *redis.Client
	keyPrefix string
	logger    *zap.Logger
}

// RedisConfig holds Redis connection configuration
type RedisConfig struct {
	Host     string
	Port     int
	Password string
	DB       int
}

// NewRedisCatalogCache creates a new Redis-backed catalog cache
func NewRedisCatalogCache(cfg RedisConfig, logger *zap.Logger) (*RedisCatalogCache, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	return &RedisCatalogCache{
		client:    client,
		keyPrefix: "refdata:catalog:",
		logger:    logger,
	}, nil
}

// NewRedisCatalogCacheWithClient creates a cache with an existing Redis client.
// Useful for testing or when sharing a client across components.
func NewRedisCatalogCacheWithClient(client *redis.Client, keyPrefix string, logger *zap.Logger) *RedisCatalogCache {
	if keyPrefix == "" {
		keyPrefix = "refdata:catalog:"
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &RedisCatalogCache{client: client, keyPrefix: keyPrefix, logger: logger}
}

// Get implements CatalogCache. Redis errors degrade to a cache miss.
func (c *RedisCatalogCache) Get(ctx context.Context, catalog string, parent *refdata.Identifier) ([]refdata.ReferenceRecord, bool) {
	payload, err := c.client.Get(ctx, c.keyPrefix+cacheKey(catalog, parent)).Bytes()
	if err != nil {
		if err != redis.Nil {
			c.logger.Warn("catalog cache read failed", zap.String("catalog", catalog), zap.Error(err))
		}
		return nil, false
	}

	var records []refdata.ReferenceRecord
	if err := json.Unmarshal(payload, &records); err != nil {
		c.logger.Warn("catalog cache entry corrupt", zap.String("catalog", catalog), zap.Error(err))
		return nil, false
	}
	return records, true
}

// Set implements CatalogCache. Write failures are logged, not raised.
func (c *RedisCatalogCache) Set(ctx context.Context, catalog string, parent *refdata.Identifier, records []refdata.ReferenceRecord, ttl time.Duration) {
	payload, err := json.Marshal(records)
	if err != nil {
		c.logger.Warn("catalog cache encode failed", zap.String("catalog", catalog), zap.Error(err))
		return
	}
	if err := c.client.Set(ctx, c.keyPrefix+cacheKey(catalog, parent), payload, ttl).Err(); err != nil {
		c.logger.Warn("catalog cache write failed", zap.String("catalog", catalog), zap.Error(err))
	}
}

// Invalidate implements CatalogCache
func (c *RedisCatalogCache) Invalidate(ctx context.Context, catalog string) {
	pattern := c.keyPrefix + catalog + "*"
	iter := c.client.Scan(ctx, 0, pattern, 0).Iterator()
	for iter.Next(ctx) {
		if err := c.client.Del(ctx, iter.Val()).Err(); err != nil {
			c.logger.Warn("catalog cache invalidation failed", zap.String("key", iter.Val()), zap.Error(err))
		}
	}
	if err := iter.Err(); err != nil {
		c.logger.Warn("catalog cache scan failed", zap.String("catalog", catalog), zap.Error(err))
	}
}

// Close closes the Redis client
func (c *RedisCatalogCache) Close() error {
	return c.client.Close()
}

var _ CatalogCache = (*RedisCatalogCache)(nil)
