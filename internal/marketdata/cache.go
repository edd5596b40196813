package marketdata

import (
	"sync"
	"time"
)

// memoCache is a simple staleness-window memo keyed by call kind and
// arguments. It replaces ambient global cache state: the Client owns one
// instance and every call kind carries its own TTL. Failed calls are never
// stored, so the next call simply retries.
type memoCache struct {
	mu      sync.Mutex
	entries map[string]memoEntry
	now     func() time.Time // injectable for tests
}

type memoEntry struct {
	value     any
	expiresAt time.Time
}

func newMemoCache() *memoCache {
	return &memoCache{
		entries: make(map[string]memoEntry),
		now:     time.Now,
	}
}

// get returns the memoized value for key if it has not expired.
func (c *memoCache) get(key string) (any, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.entries[key]
	if !ok {
		return nil, false
	}
	if c.now().After(e.expiresAt) {
		delete(c.entries, key)
		return nil, false
	}
	return e.value, true
}

// put stores value under key for the given staleness window.
func (c *memoCache) put(key string, value any, ttl time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[key] = memoEntry{value: value, expiresAt: c.now().Add(ttl)}
}

// clear drops all memoized results, forcing the next call of every kind
// to hit the network. Used by the dashboard's manual refresh.
func (c *memoCache) clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = make(map[string]memoEntry)
}
