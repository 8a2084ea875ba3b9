package pricing

import (
	"sync"
	"time"

	"github.com/opscart/es3-estimator/pkg/models"
)

// PriceCache caches fetched pricing tables with a TTL so repeated runs
// don't hammer the price endpoint.
type PriceCache struct {
	mu      sync.RWMutex
	entries map[string]*cacheEntry
	ttl     time.Duration
}

type cacheEntry struct {
	table     models.PricingTable
	expiresAt time.Time
}

func NewPriceCache(ttl time.Duration) *PriceCache {
	return &PriceCache{
		entries: make(map[string]*cacheEntry),
		ttl:     ttl,
	}
}

func (c *PriceCache) Get(key string) models.PricingTable {
	c.mu.RLock()
	defer c.mu.RUnlock()

	entry, ok := c.entries[key]
	if !ok || time.Now().After(entry.expiresAt) {
		return nil
	}
	return entry.table
}

func (c *PriceCache) Set(key string, table models.PricingTable) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.entries[key] = &cacheEntry{
		table:     table,
		expiresAt: time.Now().Add(c.ttl),
	}
}
