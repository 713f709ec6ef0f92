package cache

import (
	"context"
	"time"

	"github.com/billing/console/internal/domain/refdata"
	"go.uber.org/zap"
)

// CachedCatalog decorates a refdata.Catalog with read-through caching.
// Reference data changes rarely, so a short TTL removes most database
// round trips without an explicit invalidation protocol.
type CachedCatalog struct {
	inner  refdata.Catalog
	cache  CatalogCache
	ttl    time.Duration
	logger *zap.Logger
}

// NewCachedCatalog wraps a catalog with the given cache and TTL
func NewCachedCatalog(inner refdata.Catalog, cache CatalogCache, ttl time.Duration, logger *zap.Logger) *CachedCatalog {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CachedCatalog{inner: inner, cache: cache, ttl: ttl, logger: logger}
}

// Name implements refdata.Catalog
func (c *CachedCatalog) Name() string {
	return c.inner.Name()
}

// Fetch implements refdata.Catalog. Failures of the inner catalog are
// never cached; the next fetch retries the source.
func (c *CachedCatalog) Fetch(ctx context.Context, parent *refdata.Identifier) ([]refdata.ReferenceRecord, error) {
	if records, ok := c.cache.Get(ctx, c.inner.Name(), parent); ok {
		return records, nil
	}

	records, err := c.inner.Fetch(ctx, parent)
	if err != nil {
		return nil, err
	}

	c.cache.Set(ctx, c.inner.Name(), parent, records, c.ttl)
	c.logger.Debug("catalog cached",
		zap.String("catalog", c.inner.Name()),
		zap.Int("records", len(records)))
	return records, nil
}

// WrapCatalogs decorates every catalog in the map with the same cache
func WrapCatalogs(catalogs map[string]refdata.Catalog, cache CatalogCache, ttl time.Duration, logger *zap.Logger) map[string]refdata.Catalog {
	wrapped := make(map[string]refdata.Catalog, len(catalogs))
	for name, cat := range catalogs {
		wrapped[name] = NewCachedCatalog(cat, cache, ttl, logger)
	}
	return wrapped
}

var _ refdata.Catalog = (*CachedCatalog)(nil)
