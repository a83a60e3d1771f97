// Package menucache holds the serialized public menu between requests.
//
// The cache is a single slot with a wall-clock expiry. Writers to the menu
// call Invalidate after a successful mutation; readers that miss rebuild the
// payload and store it with SetIfCurrent so that a rebuild which started
// before an invalidation can never put pre-write data back into the slot.
package menucache

import (
	"sync"
	"time"
)

// DefaultTTL is how long a populated payload stays fresh.
const DefaultTTL = 5 * time.Second

// Cache is safe for concurrent use.
type Cache struct {
	mu         sync.RWMutex
	payload    []byte
	expiresAt  time.Time
	generation uint64
	now        func() time.Time
}

// Option configures a Cache.
type Option func(*Cache)

// WithClock replaces time.Now, mainly for tests.
func WithClock(now func() time.Time) Option {
	return func(c *Cache) {
		c.now = now
	}
}

// New creates an empty cache.
func New(opts ...Option) *Cache {
	c := &Cache{now: time.Now}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Get returns the payload if one is present and not yet expired.
// A miss is not an error.
func (c *Cache) Get() ([]byte, bool) {
	payload, _, ok := c.Lookup()
	return payload, ok
}

// Lookup is Get plus the generation observed under the same lock. Pass the
// generation to SetIfCurrent when storing a payload rebuilt after a miss.
func (c *Cache) Lookup() ([]byte, uint64, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.payload == nil || !c.now().Before(c.expiresAt) {
		return nil, c.generation, false
	}
	return c.payload, c.generation, true
}

// Set stores payload unconditionally with expiry now+ttl.
func (c *Cache) Set(payload []byte, ttl time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.store(payload, ttl)
}

// SetIfCurrent stores payload only if no Invalidate happened since generation
// was observed. It reports whether the payload was stored.
func (c *Cache) SetIfCurrent(generation uint64, payload []byte, ttl time.Duration) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.generation != generation {
		return false
	}
	c.store(payload, ttl)
	return true
}

// Invalidate clears the slot. Calling it on an empty cache is a no-op apart
// from advancing the generation.
func (c *Cache) Invalidate() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.payload = nil
	c.expiresAt = time.Time{}
	c.generation++
}

// Generation returns the number of invalidations so far.
func (c *Cache) Generation() uint64 {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.generation
}

func (c *Cache) store(payload []byte, ttl time.Duration) {
	// private copy so callers cannot mutate what later readers get
	c.payload = append([]byte(nil), payload...)
	c.expiresAt = c.now().Add(ttl)
}
