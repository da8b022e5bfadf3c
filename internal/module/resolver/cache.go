package resolver

import (
	"sync"
	"time"

	"github.com/benbjohnson/clock"

	"dashgate/internal/module"
	id "dashgate/pkg/domain"
)

// setCache is the one shared, mutable resource of the resolution pipeline:
// tenant id -> published ResolvedSet. Entries are immutable once stored;
// invalidation and expiry replace entries, never mutate them.
//
// Each tenant carries an invalidation generation. A resolution flight records
// it before reading the backing store and publishes only if it is unchanged,
// so a flight that straddles an invalidation can never republish the
// pre-invalidation state.
type setCache struct {
	mu      sync.RWMutex
	entries map[id.TenantID]setEntry
	gens    map[id.TenantID]uint64
	ttl     time.Duration
	clock   clock.Clock
}

type setEntry struct {
	set       *module.ResolvedSet
	expiresAt time.Time
}

func newSetCache(ttl time.Duration, clk clock.Clock) *setCache {
	return &setCache{
		entries: make(map[id.TenantID]setEntry),
		gens:    make(map[id.TenantID]uint64),
		ttl:     ttl,
		clock:   clk,
	}
}

func (c *setCache) get(tenantID id.TenantID) (*module.ResolvedSet, bool) {
	c.mu.RLock()
	entry, ok := c.entries[tenantID]
	c.mu.RUnlock()
	if !ok {
		return nil, false
	}
	if c.clock.Now().After(entry.expiresAt) {
		c.mu.Lock()
		// Re-check under the write lock; a concurrent set may have refreshed it.
		if cur, ok := c.entries[tenantID]; ok && c.clock.Now().After(cur.expiresAt) {
			delete(c.entries, tenantID)
		}
		c.mu.Unlock()
		return nil, false
	}
	return entry.set, true
}

// generation returns the tenant's current invalidation generation.
func (c *setCache) generation(tenantID id.TenantID) uint64 {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.gens[tenantID]
}

// set publishes a resolved set, unless the tenant was invalidated after gen
// was observed. Returns false when the stale result was discarded.
func (c *setCache) set(tenantID id.TenantID, set *module.ResolvedSet, gen uint64) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.gens[tenantID] != gen {
		return false
	}
	c.entries[tenantID] = setEntry{set: set, expiresAt: c.clock.Now().Add(c.ttl)}
	return true
}

func (c *setCache) delete(tenantID id.TenantID) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.entries, tenantID)
	c.gens[tenantID]++
}

func (c *setCache) len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}
