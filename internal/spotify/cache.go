package spotify

import (
	"sync"
	"time"
)

// DefaultCacheTTL is how long a lookup result is reused, misses included.
const DefaultCacheTTL = 24 * time.Hour

type cacheEntry struct {
	url       string // "" records a search without hits
	fetchedAt time.Time
}

// previewCache remembers search results by query so repeated uploads of
// the same songs do not spend lookups. Stale entries are dropped lazily.
type previewCache struct {
	mu      sync.RWMutex
	entries map[string]cacheEntry
	ttl     time.Duration
	now     func() time.Time
}

func newPreviewCache(ttl time.Duration) *previewCache {
	return &previewCache{
		entries: make(map[string]cacheEntry),
		ttl:     ttl,
		now:     time.Now,
	}
}

func (c *previewCache) get(query string) (string, bool) {
	c.mu.RLock()
	entry, ok := c.entries[query]
	c.mu.RUnlock()

	if !ok {
		return "", false
	}
	if c.now().Sub(entry.fetchedAt) > c.ttl {
		c.mu.Lock()
		delete(c.entries, query)
		c.mu.Unlock()
		return "", false
	}
	return entry.url, true
}

func (c *previewCache) put(query, url string) {
	c.mu.Lock()
	c.entries[query] = cacheEntry{url: url, fetchedAt: c.now()}
	c.mu.Unlock()
}

func (c *previewCache) len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}
