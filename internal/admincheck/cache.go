package admincheck

import (
	"sync"
	"time"
)

// cacheEntry remembers one verdict and when it goes stale.
type cacheEntry struct {
	isAdmin   bool
	expiresAt time.Time
}

// verdictCache is a TTL cache over admin lookups. Time is injected so expiry
// is testable without sleeping.
type verdictCache struct {
	mu      sync.Mutex
	entries map[int64]cacheEntry
	ttl     time.Duration
	now     func() time.Time
}

func newVerdictCache(ttl time.Duration, now func() time.Time) *verdictCache {
	if now == nil {
		now = time.Now
	}
	return &verdictCache{
		entries: make(map[int64]cacheEntry),
		ttl:     ttl,
		now:     now,
	}
}

// get returns the cached verdict when it is still fresh.
func (c *verdictCache) get(userID int64) (bool, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	entry, ok := c.entries[userID]
	if !ok {
		return false, false
	}
	if c.now().After(entry.expiresAt) {
		delete(c.entries, userID)
		return false, false
	}
	return entry.isAdmin, true
}

// put stores a verdict with a fresh TTL.
func (c *verdictCache) put(userID int64, isAdmin bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[userID] = cacheEntry{isAdmin: isAdmin, expiresAt: c.now().Add(c.ttl)}
}

// invalidate drops the verdict for one user.
func (c *verdictCache) invalidate(userID int64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.entries, userID)
}
