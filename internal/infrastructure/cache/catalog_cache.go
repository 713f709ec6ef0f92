package cache

import (
	"context"
	"time"

	"github.com/billing/console/internal/domain/refdata"
)

// CatalogCache stores fetched reference records per catalog and parent
// selection. Implementations must treat entries as expendable: a miss
// only costs a database round trip.
type CatalogCache interface {
	// Get returns the cached records for a catalog and parent key,
	// or ok=false on a miss.
	Get(ctx context.Context, catalog string, parent *refdata.Identifier) ([]refdata.ReferenceRecord, bool)

	// Set stores the records for a catalog and parent key with a TTL.
	Set(ctx context.Context, catalog string, parent *refdata.Identifier, records []refdata.ReferenceRecord, ttl time.Duration)

	// Invalidate drops every entry of one catalog, e.g. after the
	// backing table changed.
	Invalidate(ctx context.Context, catalog string)
}

// cacheKey builds the cache key for a catalog fetch. The parent
// selection is part of the key because dependent levels serve
// different option sets per parent.
func cacheKey(catalog string, parent *refdata.Identifier) string {
	if parent == nil {
		return catalog
	}
	return catalog + ":" + parent.String()
}
