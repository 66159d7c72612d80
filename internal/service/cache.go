package service

import (
	"sync"
	"sync/atomic"

	"github.com/guttosm/truckload/internal/domain/model"
	"github.com/guttosm/truckload/internal/metrics"
	"github.com/guttosm/truckload/internal/service/cache"
)

// lruCache provides thread-safe LRU caching of candidate lists.
// It implements the cache.CacheWithMetrics interface.
type lruCache struct {
	mu        sync.Mutex
	capacity  int
	items     map[string]*cacheEntry
	head      *cacheEntry
	tail      *cacheEntry
	hits      int64
	misses    int64
	evictions int64
}

type cacheEntry struct {
	key   string
	value []model.Candidate
	prev  *cacheEntry
	next  *cacheEntry
}

// NewQueueCache creates an LRU memo holding at most capacity candidate lists.
func NewQueueCache(capacity int) cache.CacheWithMetrics {
	return newLRUCache(capacity)
}

func newLRUCache(capacity int) *lruCache {
	if capacity < 1 {
		capacity = 1
	}
	return &lruCache{
		capacity: capacity,
		items:    make(map[string]*cacheEntry, capacity),
	}
}

// Metrics returns current cache performance metrics.
func (c *lruCache) Metrics() cache.Metrics {
	c.mu.Lock()
	defer c.mu.Unlock()

	return cache.Metrics{
		Hits:      atomic.LoadInt64(&c.hits),
		Misses:    atomic.LoadInt64(&c.misses),
		Evictions: atomic.LoadInt64(&c.evictions),
		Size:      len(c.items),
		Capacity:  c.capacity,
	}
}

// Get retrieves a list and marks it most recently used.
func (c *lruCache) Get(key string) ([]model.Candidate, bool) {
	c.mu.Lock()
	entry, ok := c.items[key]
	if ok {
		c.moveToFront(entry)
	}
	c.mu.Unlock()

	if !ok {
		atomic.AddInt64(&c.misses, 1)
		metrics.RecordCacheOperation("get", "miss")
		return nil, false
	}
	atomic.AddInt64(&c.hits, 1)
	metrics.RecordCacheOperation("get", "hit")
	return entry.value, true
}

// Set adds or replaces a list. If the cache is at capacity the least recently used list is evicted.
func (c *lruCache) Set(key string, value []model.Candidate) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if entry, ok := c.items[key]; ok {
		entry.value = value
		c.moveToFront(entry)
		return
	}

	entry := &cacheEntry{key: key, value: value}
	c.items[key] = entry
	c.addToFront(entry)

	if len(c.items) > c.capacity {
		c.removeTail()
		atomic.AddInt64(&c.evictions, 1)
		metrics.RecordCacheOperation("evict", "capacity")
	}
	metrics.RecordCacheOperation("set", "success")
}

// Invalidate removes a specific key from the cache.
func (c *lruCache) Invalidate(key string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if entry, ok := c.items[key]; ok {
		delete(c.items, entry.key)
		c.remove(entry)
		metrics.RecordCacheOperation("invalidate", "success")
	}
}

// Clear removes all entries and resets the counters.
func (c *lruCache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.items = make(map[string]*cacheEntry, c.capacity)
	c.head = nil
	c.tail = nil

	atomic.StoreInt64(&c.hits, 0)
	atomic.StoreInt64(&c.misses, 0)
	atomic.StoreInt64(&c.evictions, 0)

	metrics.RecordCacheOperation("clear", "success")
}

func (c *lruCache) moveToFront(entry *cacheEntry) {
	if entry == c.head {
		return
	}
	c.remove(entry)
	c.addToFront(entry)
}

func (c *lruCache) addToFront(entry *cacheEntry) {
	entry.prev = nil
	entry.next = c.head
	if c.head != nil {
		c.head.prev = entry
	}
	c.head = entry
	if c.tail == nil {
		c.tail = entry
	}
}

// remove unlinks an entry without touching the map.
func (c *lruCache) remove(entry *cacheEntry) {
	if entry.prev != nil {
		entry.prev.next = entry.next
	} else {
		c.head = entry.next
	}
	if entry.next != nil {
		entry.next.prev = entry.prev
	} else {
		c.tail = entry.prev
	}
}

func (c *lruCache) removeTail() {
	if c.tail == nil {
		return
	}
	delete(c.items, c.tail.key)
	c.remove(c.tail)
}
