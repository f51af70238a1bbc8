package exportcache

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

// fakeClock is a manually advanced clock for deterministic expiry tests.
type fakeClock struct {
	current time.Time
}

func (f *fakeClock) Now() time.Time {
	return f.current
}

func (f *fakeClock) Advance(d time.Duration) {
	f.current = f.current.Add(d)
}

func newFakeClock() *fakeClock {
	return &fakeClock{current: time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)}
}

func TestCache_HitAndMiss(t *testing.T) {
	t.Parallel()

	clock := newFakeClock()
	c := New(4, time.Minute, clock.Now)

	_, ok := c.Get("plan:1:tok:9")
	assert.False(t, ok)

	c.Set("plan:1:tok:9", []byte("#EXTM3U"))
	body, ok := c.Get("plan:1:tok:9")
	assert.True(t, ok)
	assert.Equal(t, []byte("#EXTM3U"), body)
}

func TestCache_ExpiryIsLazy(t *testing.T) {
	t.Parallel()

	clock := newFakeClock()
	c := New(4, time.Minute, clock.Now)

	c.Set("admin", []byte("doc"))
	clock.Advance(59 * time.Second)
	_, ok := c.Get("admin")
	assert.True(t, ok)

	clock.Advance(2 * time.Second)
	_, ok = c.Get("admin")
	assert.False(t, ok)
	// expired entry was evicted by the read
	assert.Equal(t, 0, c.Len())
}

func TestCache_FIFOEviction(t *testing.T) {
	t.Parallel()

	clock := newFakeClock()
	c := New(2, time.Minute, clock.Now)

	c.Set("a", []byte("1"))
	c.Set("b", []byte("2"))

	// Reading "a" must not protect it: eviction is insertion-ordered, not LRU.
	_, ok := c.Get("a")
	assert.True(t, ok)

	c.Set("c", []byte("3"))

	_, ok = c.Get("a")
	assert.False(t, ok)
	_, ok = c.Get("b")
	assert.True(t, ok)
	_, ok = c.Get("c")
	assert.True(t, ok)
}

func TestCache_OverwriteRefreshesExpiry(t *testing.T) {
	t.Parallel()

	clock := newFakeClock()
	c := New(2, time.Minute, clock.Now)

	c.Set("k", []byte("v1"))
	clock.Advance(45 * time.Second)
	c.Set("k", []byte("v2"))
	clock.Advance(30 * time.Second)

	body, ok := c.Get("k")
	assert.True(t, ok)
	assert.Equal(t, []byte("v2"), body)
	assert.Equal(t, 1, c.Len())
}

func TestCache_Disabled(t *testing.T) {
	t.Parallel()

	for _, c := range []*Cache{
		New(0, time.Minute, nil),
		New(10, 0, nil),
		New(-1, -time.Second, nil),
	} {
		assert.False(t, c.Enabled())
		c.Set("k", []byte("v"))
		_, ok := c.Get("k")
		assert.False(t, ok)
		assert.Equal(t, 0, c.Len())
	}
}

func TestCache_CapacityHoldsDistinctKeys(t *testing.T) {
	t.Parallel()

	clock := newFakeClock()
	c := New(8, time.Minute, clock.Now)
	for i := 0; i < 8; i++ {
		c.Set(fmt.Sprintf("plan:%d", i), []byte{byte(i)})
	}
	assert.Equal(t, 8, c.Len())
	for i := 0; i < 8; i++ {
		_, ok := c.Get(fmt.Sprintf("plan:%d", i))
		assert.True(t, ok)
	}
}
