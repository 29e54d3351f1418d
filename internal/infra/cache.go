// Package infra provides shared infrastructure for the legislation MCP
// server: response caches, a circuit breaker, and request deduplication.
package infra

import (
	"sort"
	"sync"
	"time"
)

const (
	// DefaultMaxCacheEntries bounds the in-memory cache.
	DefaultMaxCacheEntries = 1000

	// DefaultCacheCleanup is how often expired entries are swept.
	DefaultCacheCleanup = 5 * time.Minute
)

type cacheEntry struct {
	data       any
	expiresAt  time.Time
	accessedAt time.Time
}

// Cache is an in-memory TTL cache with LRU eviction, used for search
// responses. Detail payloads use DiskCache instead.
type Cache struct {
	mu         sync.Mutex
	entries    map[string]*cacheEntry
	maxEntries int

	stopCh   chan struct{}
	stopOnce sync.Once
}

// NewCache creates a cache holding at most maxEntries items.
func NewCache(maxEntries int) *Cache {
	if maxEntries <= 0 {
		maxEntries = DefaultMaxCacheEntries
	}
	c := &Cache{
		entries:    make(map[string]*cacheEntry),
		maxEntries: maxEntries,
		stopCh:     make(chan struct{}),
	}
	go c.cleanupLoop()
	return c
}

// Get returns the cached value if present and unexpired.
func (c *Cache) Get(key string) (any, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	entry, ok := c.entries[key]
	if !ok {
		return nil, false
	}
	now := time.Now()
	if now.After(entry.expiresAt) {
		delete(c.entries, key)
		return nil, false
	}
	entry.accessedAt = now
	return entry.data, true
}

// Set stores a value with the given TTL, evicting LRU entries when full.
func (c *Cache) Set(key string, data any, ttl time.Duration) {
	now := time.Now()

	c.mu.Lock()
	defer c.mu.Unlock()

	c.entries[key] = &cacheEntry{
		data:       data,
		expiresAt:  now.Add(ttl),
		accessedAt: now,
	}
	if len(c.entries) > c.maxEntries {
		// Evict 10% extra so back-to-back inserts don't thrash.
		c.evictLocked(len(c.entries) - c.maxEntries + c.maxEntries/10)
	}
}

// Delete removes a key.
func (c *Cache) Delete(key string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.entries, key)
}

// Size returns the current entry count.
func (c *Cache) Size() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

// Close stops the background sweep goroutine.
func (c *Cache) Close() {
	c.stopOnce.Do(func() {
		close(c.stopCh)
	})
}

func (c *Cache) cleanupLoop() {
	ticker := time.NewTicker(DefaultCacheCleanup)
	defer ticker.Stop()

	for {
		select {
		case <-c.stopCh:
			return
		case <-ticker.C:
			c.sweep()
		}
	}
}

func (c *Cache) sweep() {
	now := time.Now()

	c.mu.Lock()
	defer c.mu.Unlock()

	for key, entry := range c.entries {
		if now.After(entry.expiresAt) {
			delete(c.entries, key)
		}
	}
	if len(c.entries) > c.maxEntries {
		c.evictLocked(len(c.entries) - c.maxEntries + c.maxEntries/10)
	}
}

// evictLocked removes the count least recently used entries. Caller holds mu.
func (c *Cache) evictLocked(count int) {
	type keyAge struct {
		key        string
		accessedAt time.Time
	}
	ages := make([]keyAge, 0, len(c.entries))
	for key, entry := range c.entries {
		ages = append(ages, keyAge{key, entry.accessedAt})
	}
	sort.Slice(ages, func(i, j int) bool {
		return ages[i].accessedAt.Before(ages[j].accessedAt)
	})
	for i := 0; i < count && i < len(ages); i++ {
		delete(c.entries, ages[i].key)
	}
}
