package cache

import (
	"sync"
	"time"
)

type ttlEntry struct {
	data []byte
	exp  time.Time
}

func (e ttlEntry) expired(now time.Time) bool {
	return !e.exp.IsZero() && now.After(e.exp)
}

// TTLCache is an in-process BytesCache with lazy expiry. It backs the
// response cache when no Redis address is configured.
type TTLCache struct {
	mu      sync.RWMutex
	entries map[string]ttlEntry
}

func NewTTLCache() *TTLCache {
	return &TTLCache{entries: make(map[string]ttlEntry)}
}

func (c *TTLCache) GetBytes(key string) ([]byte, bool, error) {
	now := time.Now()

	c.mu.RLock()
	e, ok := c.entries[key]
	c.mu.RUnlock()
	if !ok {
		return nil, false, nil
	}
	if e.expired(now) {
		c.mu.Lock()
		if e2, ok2 := c.entries[key]; ok2 && e2.expired(now) {
			delete(c.entries, key)
		}
		c.mu.Unlock()
		return nil, false, nil
	}
	return e.data, true, nil
}

func (c *TTLCache) SetBytes(key string, value []byte, ttl time.Duration) error {
	e := ttlEntry{data: value}
	if ttl > 0 {
		e.exp = time.Now().Add(ttl)
	}
	c.mu.Lock()
	c.entries[key] = e
	c.mu.Unlock()
	return nil
}

var _ BytesCache = (*TTLCache)(nil)
