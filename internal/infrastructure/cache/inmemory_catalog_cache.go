package cache

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/billing/console/internal/domain/refdata"
)

// catalogEntry represents cached records with expiration
type catalogEntry struct {
	records   []refdata.ReferenceRecord
	expiresAt time.Time
}

// InMemoryCatalogCache implements CatalogCache using an in-memory map.
// This is suitable for single-instance deployments and testing.
type InMemoryCatalogCache struct {
	mu        sync.RWMutex
	entries   map[string]catalogEntry
	stopChan  chan struct{}
	wg        sync.WaitGroup
	closeOnce sync.Once
}

// NewInMemoryCatalogCache creates a new in-memory catalog cache.
// It starts a background goroutine to clean up expired entries.
func NewInMemoryCatalogCache() *InMemoryCatalogCache {
	c := &InMemoryCatalogCache{
		entries:  make(map[string]catalogEntry),
		stopChan: make(chan struct{}),
	}

	c.wg.Add(1)
	go c.cleanupLoop()

	return c
}

// Get implements CatalogCache
func (c *InMemoryCatalogCache) Get(_ context.Context, catalog string, parent *refdata.Identifier) ([]refdata.ReferenceRecord, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	e, exists := c.entries[cacheKey(catalog, parent)]
	if !exists || time.Now().After(e.expiresAt) {
		return nil, false
	}
	return refdata.CloneRecords(e.records), true
}

// Set implements CatalogCache
func (c *InMemoryCatalogCache) Set(_ context.Context, catalog string, parent *refdata.Identifier, records []refdata.ReferenceRecord, ttl time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.entries[cacheKey(catalog, parent)] = catalogEntry{
		records:   refdata.CloneRecords(records),
		expiresAt: time.Now().Add(ttl),
	}
}

// Invalidate implements CatalogCache
func (c *InMemoryCatalogCache) Invalidate(_ context.Context, catalog string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	for key := range c.entries {
		if key == catalog || strings.HasPrefix(key, catalog+":") {
			delete(c.entries, key)
		}
	}
}

// Close stops the cleanup goroutine. Safe to call multiple times.
func (c *InMemoryCatalogCache) Close() error {
	c.closeOnce.Do(func() {
		close(c.stopChan)
		c.wg.Wait()
	})
	return nil
}

// Size returns the number of entries in the cache (for testing/monitoring)
func (c *InMemoryCatalogCache) Size() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}

func (c *InMemoryCatalogCache) cleanupLoop() {
	defer c.wg.Done()

	ticker := time.NewTicker(time.Minute)
	defer ticker.Stop()

	for {
		select {
		case <-c.stopChan:
			return
		case <-ticker.C:
			c.cleanup()
		}
	}
}

func (c *InMemoryCatalogCache) cleanup() {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := time.Now()
	for key, e := range c.entries {
		if now.After(e.expiresAt) {
			delete(c.entries, key)
		}
	}
}

var _ CatalogCache = (*InMemoryCatalogCache)(nil)
