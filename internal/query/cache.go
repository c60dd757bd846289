package query

import (
	"sync"
	"time"
)

// Entry is a snapshot of one cached value.
type Entry struct {
	Key         Key
	Value       any
	UpdatedAt   time.Time
	Invalidated bool
}

// Age is the time elapsed since the value was stored.
func (e Entry) Age(now time.Time) time.Duration {
	return now.Sub(e.UpdatedAt)
}

type cacheEntry struct {
	Entry
	lastAccess time.Time
}

// flight tracks loads in progress for one key. gen is bumped by every
// invalidation that matches key while at least one load is running.
type flight struct {
	key  Key
	gen  uint64
	refs int
}

// Cache stores query results by key. The zero value is not usable; call NewCache.
type Cache struct {
	mu      sync.RWMutex
	entries map[string]*cacheEntry
	flights map[string]*flight
	now     func() time.Time
}

func NewCache() *Cache {
	return &Cache{
		entries: make(map[string]*cacheEntry),
		flights: make(map[string]*flight),
		now:     time.Now,
	}
}

// Get returns the entry for key and marks it as used.
func (c *Cache) Get(key Key) (Entry, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.entries[key.String()]
	if !ok {
		return Entry{}, false
	}
	e.lastAccess = c.now()
	return e.Entry, true
}

// Set stores value as a fresh entry.
func (c *Cache) Set(key Key, value any) {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.now()
	c.entries[key.String()] = &cacheEntry{
		Entry:      Entry{Key: key, Value: value, UpdatedAt: now},
		lastAccess: now,
	}
}

// Invalidate marks every entry under prefix so the next read refetches it.
// Loads already running for a matching key will not store their result.
// It returns the number of entries marked.
func (c *Cache) Invalidate(prefix ...string) int {
	n, _ := c.invalidate(prefix)
	return n
}

// invalidate also reports the keys that had a load in progress.
func (c *Cache) invalidate(prefix []string) (int, []string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	n := 0
	for _, e := range c.entries {
		if e.Key.HasPrefix(prefix...) && !e.Invalidated {
			e.Invalidated = true
			n++
		}
	}
	var inflight []string
	for k, f := range c.flights {
		if f.key.HasPrefix(prefix...) {
			f.gen++
			inflight = append(inflight, k)
		}
	}
	return n, inflight
}

// begin registers a load for key and returns the generation it started in.
func (c *Cache) begin(key Key) uint64 {
	c.mu.Lock()
	defer c.mu.Unlock()

	k := key.String()
	f, ok := c.flights[k]
	if !ok {
		f = &flight{key: key}
		c.flights[k] = f
	}
	f.refs++
	return f.gen
}

// finish ends a load started at gen. A successful value is stored only when
// no invalidation touched key in the meantime; it reports whether it was.
func (c *Cache) finish(key Key, gen uint64, value any, ok bool) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	k := key.String()
	f := c.flights[k]
	current := f != nil && f.gen == gen
	if f != nil {
		f.refs--
		if f.refs <= 0 {
			delete(c.flights, k)
		}
	}
	if !ok || !current {
		return false
	}

	now := c.now()
	c.entries[k] = &cacheEntry{
		Entry:      Entry{Key: key, Value: value, UpdatedAt: now},
		lastAccess: now,
	}
	return true
}

// Remove deletes every entry under prefix.
func (c *Cache) Remove(prefix ...string) int {
	c.mu.Lock()
	defer c.mu.Unlock()

	n := 0
	for k, e := range c.entries {
		if e.Key.HasPrefix(prefix...) {
			delete(c.entries, k)
			n++
		}
	}
	return n
}

// Sweep evicts entries that have not been read or written for idle.
func (c *Cache) Sweep(idle time.Duration) int {
	c.mu.Lock()
	defer c.mu.Unlock()

	cutoff := c.now().Add(-idle)
	n := 0
	for k, e := range c.entries {
		if e.lastAccess.Before(cutoff) {
			delete(c.entries, k)
			n++
		}
	}
	return n
}

func (c *Cache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}
