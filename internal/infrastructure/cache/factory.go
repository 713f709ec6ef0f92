package cache

import (
	"fmt"

	"github.com/billing/console/internal/infrastructure/config"
	"go.uber.org/zap"
)

// CatalogCacheFactory creates catalog caches based on configuration
type CatalogCacheFactory struct {
	redisConfig           config.RedisConfig
	logger                *zap.Logger
	allowInMemoryFallback bool
}

// CatalogCacheFactoryOption is a functional option for configuring the factory
type CatalogCacheFactoryOption func(*CatalogCacheFactory)

// WithLogger sets the logger for the factory
func WithLogger(logger *zap.Logger) CatalogCacheFactoryOption {
	return func(f *CatalogCacheFactory) {
		f.logger = logger
	}
}

// WithInMemoryFallback controls whether to fall back to an in-memory
// cache when Redis is unavailable. Default is true.
func WithInMemoryFallback(allow bool) CatalogCacheFactoryOption {
	return func(f *CatalogCacheFactory) {
		f.allowInMemoryFallback = allow
	}
}

// NewCatalogCacheFactory creates a new factory
func NewCatalogCacheFactory(cfg config.RedisConfig, opts ...CatalogCacheFactoryOption) *CatalogCacheFactory {
	f := &CatalogCacheFactory{
		redisConfig:           cfg,
		logger:                zap.NewNop(),
		allowInMemoryFallback: true,
	}

	for _, opt := range opts {
		opt(f)
	}

	return f
}

// CreateRedisCache creates a Redis-backed catalog cache
func (f *CatalogCacheFactory) CreateRedisCache() (CatalogCache, error) {
	redisCfg := RedisConfig{
		Host:     f.redisConfig.Host,
		Port:     f.redisConfig.Port,
		Password: f.redisConfig.Password,
		DB:       f.redisConfig.DB,
	}

	c, err := NewRedisCatalogCache(redisCfg, f.logger)
	if err != nil {
		return nil, fmt.Errorf("failed to create Redis catalog cache: %w", err)
	}

	return c, nil
}

// CreateInMemoryCache creates an in-memory catalog cache. Suitable for
// single-instance deployments and testing.
func (f *CatalogCacheFactory) CreateInMemoryCache() CatalogCache {
	return NewInMemoryCatalogCache()
}

// CreateCache creates a catalog cache, preferring Redis and falling
// back to in-memory when Redis is unavailable and fallback is allowed.
func (f *CatalogCacheFactory) CreateCache() (CatalogCache, error) {
	c, err := f.CreateRedisCache()
	if err == nil {
		f.logger.Info("using Redis catalog cache")
		return c, nil
	}

	if !f.allowInMemoryFallback {
		return nil, fmt.Errorf("Redis required for catalog cache but unavailable: %w", err)
	}

	f.logger.Warn("Redis unavailable, falling back to in-memory catalog cache. "+
		"Instances will not share cached reference data.",
		zap.Error(err),
	)
	return f.CreateInMemoryCache(), nil
}
