package registry

import (
	"testing"
	"time"

	"github.com/GriffinCanCode/AgentOS/spatialnav/internal/shared/types"
)

type stubRegion struct{}

func (stubRegion) Bounds() (types.Rect, error) { return types.Rect{}, nil }
func (stubRegion) SetFocused(bool)             {}
func (stubRegion) SetActivated(bool)           {}
func (stubRegion) Activate()                   {}

func focusable(id, group string, priority int) Focusable {
	return Focusable{ID: id, Group: group, Priority: priority, Region: stubRegion{}}
}

func TestUpsertIsIdempotent(t *testing.T) {
	r := New()
	t0 := time.Unix(0, 0)

	first, created := r.Upsert(focusable("a", "main", 0), t0)
	if !created {
		t.Fatal("first registration should create an entry")
	}
	r.Upsert(focusable("b", "main", 0), t0)

	again, created := r.Upsert(focusable("a", "side", 5), t0.Add(time.Second))
	if created {
		t.Error("re-registration should not create a new entry")
	}
	if r.Len() != 2 {
		t.Errorf("Len() = %d, want 2", r.Len())
	}
	if again.Seq != first.Seq {
		t.Errorf("Seq changed from %d to %d on upsert", first.Seq, again.Seq)
	}
	if again.Group != "side" || again.Priority != 5 {
		t.Errorf("upsert did not update fields: %+v", again.Focusable)
	}
	if !again.TouchedAt.Equal(t0.Add(time.Second)) {
		t.Error("upsert should touch the entry")
	}
}

func TestListByGroupOrder(t *testing.T) {
	r := New()
	now := time.Unix(0, 0)
	r.Upsert(focusable("c", "main", 0), now)
	r.Upsert(focusable("x", "side", 0), now)
	r.Upsert(focusable("a", "main", 0), now)

	got := r.ListByGroup("main")
	if len(got) != 2 || got[0].ID != "c" || got[1].ID != "a" {
		t.Errorf("ListByGroup() = %v, want [c a]", ids(got))
	}
	if len(r.ListByGroup("missing")) != 0 {
		t.Error("unknown group should be empty")
	}
	if counts := r.Groups(); counts["main"] != 2 || counts["side"] != 1 {
		t.Errorf("Groups() = %v", counts)
	}
}

func TestPreferred(t *testing.T) {
	tests := []struct {
		name  string
		items []Focusable
		want  string
	}{
		{"highest priority", []Focusable{focusable("a", "g", 1), focusable("b", "g", 3), focusable("c", "g", 2)}, "b"},
		{"tie uses registration order", []Focusable{focusable("a", "g", 2), focusable("b", "g", 2)}, "a"},
		{"ignores other groups", []Focusable{focusable("a", "other", 9), focusable("b", "g", 0)}, "b"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := New()
			for _, f := range tt.items {
				r.Upsert(f, time.Unix(0, 0))
			}
			got, ok := r.Preferred("g")
			if !ok || got.ID != tt.want {
				t.Errorf("Preferred() = %v, want %s", got, tt.want)
			}
		})
	}

	if _, ok := New().Preferred("g"); ok {
		t.Error("empty registry should have no preferred entry")
	}
}

func TestStale(t *testing.T) {
	r := New()
	t0 := time.Unix(0, 0)
	r.Upsert(focusable("old", "g", 0), t0)
	r.Upsert(focusable("focused", "g", 0), t0)
	r.Upsert(focusable("fresh", "g", 0), t0.Add(50*time.Second))
	r.Upsert(focusable("refocused", "g", 0), t0)
	r.MarkFocused("refocused", t0.Add(45*time.Second))
	r.Upsert(focusable("touched", "g", 0), t0)
	if !r.Touch("touched", t0.Add(40*time.Second)) {
		t.Fatal("Touch() should find the entry")
	}
	if r.Touch("missing", t0) {
		t.Error("Touch() on unknown id should report false")
	}

	got := r.Stale(t0.Add(60*time.Second), 30*time.Second, "focused")
	if len(got) != 1 || got[0] != "old" {
		t.Errorf("Stale() = %v, want [old]", got)
	}
}

func TestRemove(t *testing.T) {
	r := New()
	r.Upsert(focusable("a", "g", 0), time.Unix(0, 0))

	if _, ok := r.Remove("a"); !ok {
		t.Error("Remove() should report the removed entry")
	}
	if _, ok := r.Remove("a"); ok {
		t.Error("second Remove() should be a no-op")
	}
	if _, ok := r.Get("a"); ok {
		t.Error("entry still present")
	}
}

func ids(entries []*Entry) []string {
	out := make([]string, len(entries))
	for i, e := range entries {
		out[i] = e.ID
	}
	return out
}
