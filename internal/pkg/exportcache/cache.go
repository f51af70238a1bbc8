package exportcache

import (
	"container/list"
	"sync"
	"time"
)

// Cache is a bounded TTL cache for rendered export documents. Eviction is
// insertion-ordered: when capacity is exceeded the oldest-inserted entry goes
// first, regardless of how recently it was read. Expired entries are dropped
// lazily on lookup; there is no background reaper.
//
// A capacity or TTL of zero or less disables the cache entirely: Get always
// misses and Set is a no-op.
type Cache struct {
	mu       sync.Mutex
	capacity int
	ttl      time.Duration
	now      func() time.Time

	order   *list.List // front = oldest insertion
	entries map[string]*list.Element
}

type entry struct {
	key       string
	body      []byte
	expiresAt time.Time
}

// New builds a cache. The clock is injectable for tests; pass nil for
// time.Now.
func New(capacity int, ttl time.Duration, clock func() time.Time) *Cache {
	if clock == nil {
		clock = time.Now
	}
	return &Cache{
		capacity: capacity,
		ttl:      ttl,
		now:      clock,
		order:    list.New(),
		entries:  make(map[string]*list.Element),
	}
}

// Enabled reports whether the cache stores anything at all.
func (c *Cache) Enabled() bool {
	return c.capacity > 0 && c.ttl > 0
}

// TTL returns the configured entry lifetime.
func (c *Cache) TTL() time.Duration {
	return c.ttl
}

// Get returns the cached body for key. An expired entry counts as a miss and
// is evicted on the spot.
func (c *Cache) Get(key string) ([]byte, bool) {
	if !c.Enabled() {
		return nil, false
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	el, ok := c.entries[key]
	if !ok {
		return nil, false
	}
	e := el.Value.(*entry)
	if c.now().After(e.expiresAt) {
		c.order.Remove(el)
		delete(c.entries, key)
		return nil, false
	}
	return e.body, true
}

// Set stores body under key. Overwriting an existing key refreshes its expiry
// but keeps its insertion position; inserting beyond capacity evicts the
// oldest-inserted entry.
func (c *Cache) Set(key string, body []byte) {
	if !c.Enabled() {
		return
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	expires := c.now().Add(c.ttl)
	if el, ok := c.entries[key]; ok {
		e := el.Value.(*entry)
		e.body = body
		e.expiresAt = expires
		return
	}

	for len(c.entries) >= c.capacity {
		oldest := c.order.Front()
		if oldest == nil {
			break
		}
		c.order.Remove(oldest)
		delete(c.entries, oldest.Value.(*entry).key)
	}

	el := c.order.PushBack(&entry{key: key, body: body, expiresAt: expires})
	c.entries[key] = el
}

// Len returns the number of stored entries, including not-yet-collected
// expired ones.
func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}
