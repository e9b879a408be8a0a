package portfolio

import (
	"strings"
	"sync"
	"time"
)

// memoCache is a time-boxed in-memory cache for batch results, keyed by the
// exact ticker set and order of the request. There is no invalidation beyond
// expiry; annual statements change rarely enough that a short TTL is plenty.
type memoCache struct {
	mu      sync.Mutex
	ttl     time.Duration
	entries map[string]cacheEntry
	now     func() time.Time
}

type cacheEntry struct {
	batch    *Batch
	storedAt time.Time
}

func newMemoCache(ttl time.Duration) *memoCache {
	return &memoCache{
		ttl:     ttl,
		entries: make(map[string]cacheEntry),
		now:     time.Now,
	}
}

func cacheKey(tickers []string) string {
	return strings.Join(tickers, ",")
}

func (c *memoCache) get(tickers []string) (*Batch, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.entries[cacheKey(tickers)]
	if !ok {
		return nil, false
	}
	if c.now().Sub(e.storedAt) > c.ttl {
		delete(c.entries, cacheKey(tickers))
		return nil, false
	}
	return e.batch, true
}

func (c *memoCache) put(tickers []string, b *Batch) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[cacheKey(tickers)] = cacheEntry{batch: b, storedAt: c.now()}
}
