package domain

import (
	"sync"
	"time"
)

// PriceCache is an in-memory TTL cache for external quotes. Safe for
// concurrent use. Expired entries are treated as absent on read and
// overwritten on the next Put.
type PriceCache struct {
	mu      sync.RWMutex
	entries map[string]cacheEntry
	maxAge  time.Duration
	now     func() time.Time
}

type cacheEntry struct {
	price     ExternalPrice
	fetchedAt time.Time
}

// NewPriceCache creates a cache whose entries expire maxAge after insertion.
// A nil now defaults to time.Now.
func NewPriceCache(maxAge time.Duration, now func() time.Time) *PriceCache {
	if now == nil {
		now = time.Now
	}
	return &PriceCache{
		entries: make(map[string]cacheEntry),
		maxAge:  maxAge,
		now:     now,
	}
}

// Get returns the cached quote for symbol if present and fresh.
func (c *PriceCache) Get(symbol string) (ExternalPrice, bool) {
	c.mu.RLock()
	entry, ok := c.entries[symbol]
	c.mu.RUnlock()

	if !ok || c.now().Sub(entry.fetchedAt) > c.maxAge {
		return ExternalPrice{}, false
	}
	return entry.price, true
}

// Put stores a quote, replacing any previous entry for the symbol.
func (c *PriceCache) Put(price ExternalPrice) {
	c.mu.Lock()
	c.entries[price.Symbol] = cacheEntry{price: price, fetchedAt: c.now()}
	c.mu.Unlock()
}

// Snapshot returns all fresh entries as a PriceSet.
func (c *PriceCache) Snapshot() PriceSet {
	c.mu.RLock()
	defer c.mu.RUnlock()

	now := c.now()
	set := make(PriceSet, len(c.entries))
	for symbol, entry := range c.entries {
		if now.Sub(entry.fetchedAt) <= c.maxAge {
			set[symbol] = entry.price
		}
	}
	return set
}
