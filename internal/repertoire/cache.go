package repertoire

import (
	"container/list"
	"sync"
)

// Cache is a bounded, mutex-guarded LRU for computed repertoires. It is
// built per measurement call and discarded with it; there is no
// process-wide cache state.
type Cache struct {
	mu       sync.Mutex
	capacity int
	order    *list.List
	entries  map[string]*list.Element

	hits   int
	misses int
}

type cacheEntry struct {
	key  string
	dist []float64
}

// NewCache returns a cache holding at most capacity repertoires. A
// capacity below 1 disables it.
func NewCache(capacity int) *Cache {
	if capacity < 1 {
		return nil
	}
	return &Cache{
		capacity: capacity,
		order:    list.New(),
		entries:  make(map[string]*list.Element, capacity),
	}
}

// Get returns a copy of the cached repertoire for key, if present.
func (c *Cache) Get(key string) ([]float64, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	el, ok := c.entries[key]
	if !ok {
		c.misses++
		return nil, false
	}
	c.hits++
	c.order.MoveToFront(el)
	stored := el.Value.(*cacheEntry).dist
	out := make([]float64, len(stored))
	copy(out, stored)
	return out, true
}

// Put stores a copy of dist under key, evicting the least recently used
// entry when full.
func (c *Cache) Put(key string, dist []float64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if el, ok := c.entries[key]; ok {
		c.order.MoveToFront(el)
		return
	}
	stored := make([]float64, len(dist))
	copy(stored, dist)
	c.entries[key] = c.order.PushFront(&cacheEntry{key: key, dist: stored})
	if c.order.Len() > c.capacity {
		oldest := c.order.Back()
		c.order.Remove(oldest)
		delete(c.entries, oldest.Value.(*cacheEntry).key)
	}
}

// Len returns the number of cached repertoires.
func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.order.Len()
}

// Stats returns cumulative hit and miss counts.
func (c *Cache) Stats() (hits, misses int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.hits, c.misses
}
