package resolver

import (
	"sync"
	"time"

	"github.com/benbjohnson/clock"

	"dashgate/internal/tenant/models"
)

// lookupCache is the resolver's small TTL cache, keyed by the strategy hint
// ("id:acme", "host:acme", ...). It is deliberately separate from - and much
// shorter lived than - the module resolution cache.
//
// The cache carries a purge generation. A lookup records it before reading
// the store and publishes only if it is unchanged, so a lookup that straddles
// a purge can never republish the pre-purge record.
type lookupCache struct {
	mu      sync.RWMutex
	entries map[string]lookupEntry
	gen     uint64
	ttl     time.Duration
	clock   clock.Clock
}

type lookupEntry struct {
	tenant    *models.Tenant
	expiresAt time.Time
}

func newLookupCache(ttl time.Duration, clk clock.Clock) *lookupCache {
	return &lookupCache{
		entries: make(map[string]lookupEntry),
		ttl:     ttl,
		clock:   clk,
	}
}

func (c *lookupCache) get(key string) (*models.Tenant, bool) {
	c.mu.RLock()
	entry, ok := c.entries[key]
	c.mu.RUnlock()
	if !ok {
		return nil, false
	}
	if c.clock.Now().After(entry.expiresAt) {
		c.mu.Lock()
		// Re-check under the write lock; a concurrent set may have refreshed it.
		if cur, ok := c.entries[key]; ok && c.clock.Now().After(cur.expiresAt) {
			delete(c.entries, key)
		}
		c.mu.Unlock()
		return nil, false
	}
	return entry.tenant, true
}

// generation returns the current purge generation.
func (c *lookupCache) generation() uint64 {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.gen
}

// set publishes a lookup result, unless the cache was purged after gen was
// observed. Returns false when the stale result was discarded.
func (c *lookupCache) set(key string, t *models.Tenant, gen uint64) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.gen != gen {
		return false
	}
	c.entries[key] = lookupEntry{tenant: t, expiresAt: c.clock.Now().Add(c.ttl)}
	return true
}

func (c *lookupCache) purge() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = make(map[string]lookupEntry)
	c.gen++
}
