package registry

import (
	"errors"
	"sort"
	"time"

	"github.com/GriffinCanCode/AgentOS/spatialnav/internal/shared/types"
)

// ErrStaleRegion is returned by Region.Bounds when the host-side element is gone
var ErrStaleRegion = errors.New("region is no longer attached")

// Region is the host handle for one focusable element
type Region interface {
	// Bounds returns the current rectangle in viewport coordinates
	Bounds() (types.Rect, error)
	// SetFocused applies or clears the focused visual
	SetFocused(focused bool)
	// SetActivated applies or clears the activation pulse visual
	SetActivated(active bool)
	// Activate triggers the element's bound action
	Activate()
}

// Focusable describes a region as registered by the host
type Focusable struct {
	ID       string
	Group    string
	Priority int
	Region   Region
}

// Entry is a registered focusable plus bookkeeping
type Entry struct {
	Focusable
	Seq           uint64
	RegisteredAt  time.Time
	TouchedAt     time.Time
	LastFocusedAt time.Time
}

// Registry stores entries by ID. Not safe for concurrent use.
type Registry struct {
	entries map[string]*Entry
	seq     uint64
}

// New creates an empty registry
func New() *Registry {
	return &Registry{entries: make(map[string]*Entry)}
}

// Upsert registers f or updates the existing entry with the same ID.
// It reports whether a new entry was created.
func (r *Registry) Upsert(f Focusable, now time.Time) (*Entry, bool) {
	if e, ok := r.entries[f.ID]; ok {
		e.Focusable = f
		e.TouchedAt = now
		return e, false
	}

	r.seq++
	e := &Entry{
		Focusable:    f,
		Seq:          r.seq,
		RegisteredAt: now,
		TouchedAt:    now,
	}
	r.entries[f.ID] = e
	return e, true
}

// Remove deletes id and returns the removed entry
func (r *Registry) Remove(id string) (*Entry, bool) {
	e, ok := r.entries[id]
	if ok {
		delete(r.entries, id)
	}
	return e, ok
}

// Get returns the entry for id
func (r *Registry) Get(id string) (*Entry, bool) {
	e, ok := r.entries[id]
	return e, ok
}

// Has reports whether id is registered
func (r *Registry) Has(id string) bool {
	_, ok := r.entries[id]
	return ok
}

// Len returns the number of entries
func (r *Registry) Len() int {
	return len(r.entries)
}

// ListByGroup returns the members of group in registration order
func (r *Registry) ListByGroup(group string) []*Entry {
	out := make([]*Entry, 0)
	for _, e := range r.entries {
		if e.Group == group {
			out = append(out, e)
		}
	}
	sortBySeq(out)
	return out
}

// All returns every entry in registration order
func (r *Registry) All() []*Entry {
	out := make([]*Entry, 0, len(r.entries))
	for _, e := range r.entries {
		out = append(out, e)
	}
	sortBySeq(out)
	return out
}

// Groups returns member counts per group
func (r *Registry) Groups() map[string]int {
	counts := make(map[string]int)
	for _, e := range r.entries {
		counts[e.Group]++
	}
	return counts
}

// Preferred returns the highest priority member of group,
// breaking ties by registration order
func (r *Registry) Preferred(group string) (*Entry, bool) {
	var best *Entry
	for _, e := range r.entries {
		if e.Group != group {
			continue
		}
		if best == nil || e.Priority > best.Priority ||
			(e.Priority == best.Priority && e.Seq < best.Seq) {
			best = e
		}
	}
	return best, best != nil
}

// MarkFocused records that id received focus
func (r *Registry) MarkFocused(id string, now time.Time) {
	if e, ok := r.entries[id]; ok {
		e.LastFocusedAt = now
		e.TouchedAt = now
	}
}

// Touch marks id as still present without changing focus
func (r *Registry) Touch(id string, now time.Time) bool {
	e, ok := r.entries[id]
	if ok {
		e.TouchedAt = now
	}
	return ok
}

// Stale returns IDs untouched for longer than window, excluding keep.
// The result is in registration order.
func (r *Registry) Stale(now time.Time, window time.Duration, keep string) []string {
	stale := make([]*Entry, 0)
	for id, e := range r.entries {
		if id == keep {
			continue
		}
		if now.Sub(e.TouchedAt) > window {
			stale = append(stale, e)
		}
	}
	sortBySeq(stale)

	ids := make([]string, len(stale))
	for i, e := range stale {
		ids[i] = e.ID
	}
	return ids
}

func sortBySeq(entries []*Entry) {
	sort.Slice(entries, func(i, j int) bool { return entries[i].Seq < entries[j].Seq })
}
