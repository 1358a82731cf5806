package factory

import "sync"

// Cache maps registration keys to cached instances. Scopes decide what is
// stored; the cache itself has no lifetime policy.
type Cache struct {
	mu      sync.RWMutex
	entries map[Key]any
}

// NewCache creates an empty cache.
func NewCache() *Cache {
	return &Cache{entries: make(map[Key]any)}
}

// Get returns the entry stored for key.
func (c *Cache) Get(key Key) (any, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	v, ok := c.entries[key]

	return v, ok
}

// Set stores value for key, replacing any previous entry.
func (c *Cache) Set(key Key, value any) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.entries[key] = value
}

// Remove deletes the entry for key.
func (c *Cache) Remove(key Key) {
	c.mu.Lock()
	defer c.mu.Unlock()

	delete(c.entries, key)
}

// Reset deletes every entry.
func (c *Cache) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.entries = make(map[Key]any)
}

// Len returns the number of entries.
func (c *Cache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()

	return len(c.entries)
}

// Keys returns the cached keys in no particular order.
func (c *Cache) Keys() []Key {
	c.mu.RLock()
	defer c.mu.RUnlock()

	keys := make([]Key, 0, len(c.entries))
	for k := range c.entries {
		keys = append(keys, k)
	}

	return keys
}

// removeWhere deletes and returns the entries whose key matches.
func (c *Cache) removeWhere(match func(Key) bool) map[Key]any {
	c.mu.Lock()
	defer c.mu.Unlock()

	removed := make(map[Key]any)

	for k, v := range c.entries {
		if match(k) {
			removed[k] = v
			delete(c.entries, k)
		}
	}

	return removed
}

// snapshot returns a copy of the entries.
func (c *Cache) snapshot() map[Key]any {
	c.mu.RLock()
	defer c.mu.RUnlock()

	cp := make(map[Key]any, len(c.entries))
	for k, v := range c.entries {
		if ref, ok := v.(*sharedRef); ok {
			v = &sharedRef{value: ref.value, refs: ref.refs}
		}

		cp[k] = v
	}

	return cp
}

// restore replaces the entries with a snapshot.
func (c *Cache) restore(entries map[Key]any) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.entries = entries
}
