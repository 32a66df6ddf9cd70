package geometry

import (
	"time"

	"github.com/GriffinCanCode/AgentOS/spatialnav/internal/shared/types"
	"gonum.org/v1/gonum/spatial/r2"
)

// Source measures a region's current bounds
type Source interface {
	Bounds() (types.Rect, error)
}

// SourceFunc adapts a function to Source
type SourceFunc func() (types.Rect, error)

// Bounds calls f
func (f SourceFunc) Bounds() (types.Rect, error) { return f() }

// Entry is one cached measurement
type Entry struct {
	Rect       types.Rect
	Center     r2.Vec
	MeasuredAt time.Time
}

// Cache maps focusable IDs to their last measured bounds.
// Not safe for concurrent use; the engine owns it.
type Cache struct {
	entries map[string]Entry
	ttl     time.Duration
	now     func() time.Time
}

// NewCache creates a cache. A ttl of zero keeps entries until evicted.
func NewCache(ttl time.Duration, now func() time.Time) *Cache {
	if now == nil {
		now = time.Now
	}
	return &Cache{
		entries: make(map[string]Entry),
		ttl:     ttl,
		now:     now,
	}
}

// Refresh measures src and stores the result under id.
// On error the previous entry is dropped.
func (c *Cache) Refresh(id string, src Source) (Entry, error) {
	rect, err := src.Bounds()
	if err != nil {
		delete(c.entries, id)
		return Entry{}, err
	}

	e := Entry{
		Rect:       rect,
		Center:     CenterOf(rect),
		MeasuredAt: c.now(),
	}
	c.entries[id] = e
	return e, nil
}

// Get returns the cached entry, measuring src on a miss or expiry
func (c *Cache) Get(id string, src Source) (Entry, error) {
	if e, ok := c.Peek(id); ok {
		return e, nil
	}
	return c.Refresh(id, src)
}

// Peek returns a fresh cached entry without measuring
func (c *Cache) Peek(id string) (Entry, bool) {
	e, ok := c.entries[id]
	if !ok {
		return Entry{}, false
	}
	if c.ttl > 0 && c.now().Sub(e.MeasuredAt) > c.ttl {
		return Entry{}, false
	}
	return e, true
}

// Evict drops id from the cache
func (c *Cache) Evict(id string) {
	delete(c.entries, id)
}

// Invalidate drops every entry
func (c *Cache) Invalidate() int {
	n := len(c.entries)
	c.entries = make(map[string]Entry)
	return n
}

// Len returns the number of cached entries, including expired ones
func (c *Cache) Len() int {
	return len(c.entries)
}

// CenterOf returns the midpoint of rect as a vector
func CenterOf(rect types.Rect) r2.Vec {
	p := rect.Center()
	return r2.Vec{X: p.X, Y: p.Y}
}
