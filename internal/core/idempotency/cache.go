package idempotency

import (
	"container/list"
	"context"
	"sync"
)

// Cache remembers fingerprints known to be committed.
// A cache may forget entries at any time; it must never report a fingerprint
// that was not added.
type Cache interface {
	Contains(ctx context.Context, fingerprint string) (bool, error)
	Add(ctx context.Context, fingerprint string) error
}

// LRUCache is a thread-safe, bounded, in-process fingerprint cache.
type LRUCache struct {
	mu       sync.Mutex
	capacity int
	entries  map[string]*list.Element
	order    *list.List
}

// NewLRUCache creates a cache holding at most capacity fingerprints.
func NewLRUCache(capacity int) *LRUCache {
	if capacity <= 0 {
		capacity = 1
	}
	return &LRUCache{
		capacity: capacity,
		entries:  make(map[string]*list.Element),
		order:    list.New(),
	}
}

// Contains reports whether fingerprint is cached and marks it recently used.
func (c *LRUCache) Contains(_ context.Context, fingerprint string) (bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	elem, exists := c.entries[fingerprint]
	if !exists {
		return false, nil
	}

	c.order.MoveToFront(elem)
	return true, nil
}

// Add caches fingerprint, evicting the least recently used entry if full.
func (c *LRUCache) Add(_ context.Context, fingerprint string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if elem, exists := c.entries[fingerprint]; exists {
		c.order.MoveToFront(elem)
		return nil
	}

	if c.order.Len() >= c.capacity {
		oldest := c.order.Back()
		if oldest != nil {
			delete(c.entries, oldest.Value.(string))
			c.order.Remove(oldest)
		}
	}

	c.entries[fingerprint] = c.order.PushFront(fingerprint)
	return nil
}

// Len returns the number of cached fingerprints.
func (c *LRUCache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.order.Len()
}

var _ Cache = (*LRUCache)(nil)
