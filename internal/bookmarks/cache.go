package bookmarks

import (
	"sync"
	"time"

	"showshelf/internal/domain"
)

// Cache is the in-memory materialized view of one owner's saved items.
// It keeps two structures in lockstep: an ordered slice (insertion order,
// for display) and a key index (O(1) membership tests). The coordinator is
// its only writer; consumers get copied snapshots.
type Cache struct {
	mu       sync.RWMutex
	ordered  []domain.Bookmark
	index    map[domain.BookmarkKey]int
	lastLoad time.Time
}

// NewCache creates an empty cache.
func NewCache() *Cache {
	return &Cache{
		index: make(map[domain.BookmarkKey]int),
	}
}

// ReplaceAll swaps in a freshly loaded view, preserving the given order.
func (c *Cache) ReplaceAll(records []domain.Bookmark) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.ordered = make([]domain.Bookmark, len(records))
	copy(c.ordered, records)
	c.index = make(map[domain.BookmarkKey]int, len(records))
	for i, b := range c.ordered {
		c.index[b.Key()] = i
	}
	c.lastLoad = time.Now()
}

// Append adds a bookmark at the end. Returns false if its key is already
// present, leaving the cache untouched.
func (c *Cache) Append(b domain.Bookmark) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	key := b.Key()
	if _, ok := c.index[key]; ok {
		return false
	}
	c.ordered = append(c.ordered, b)
	c.index[key] = len(c.ordered) - 1
	return true
}

// Remove deletes the entry matching the key, keeping the remaining order.
// Returns false if no such entry exists.
func (c *Cache) Remove(key domain.BookmarkKey) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	i, ok := c.index[key]
	if !ok {
		return false
	}
	c.ordered = append(c.ordered[:i], c.ordered[i+1:]...)
	delete(c.index, key)
	for j := i; j < len(c.ordered); j++ {
		c.index[c.ordered[j].Key()] = j
	}
	return true
}

// Contains reports membership of the key.
func (c *Cache) Contains(key domain.BookmarkKey) bool {
	c.mu.RLock()
	defer c.mu.RUnlock()

	_, ok := c.index[key]
	return ok
}

// All returns a snapshot copy in insertion order.
func (c *Cache) All() []domain.Bookmark {
	c.mu.RLock()
	defer c.mu.RUnlock()

	out := make([]domain.Bookmark, len(c.ordered))
	copy(out, c.ordered)
	return out
}

// Len returns the number of cached bookmarks.
func (c *Cache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()

	return len(c.ordered)
}

// Clear empties the cache.
func (c *Cache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.ordered = nil
	c.index = make(map[domain.BookmarkKey]int)
}

// LastLoad returns the time of the last ReplaceAll.
func (c *Cache) LastLoad() time.Time {
	c.mu.RLock()
	defer c.mu.RUnlock()

	return c.lastLoad
}
