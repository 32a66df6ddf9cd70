// Package groups cycles the host-declared ordered list of focus groups.
package groups

import (
	"github.com/GriffinCanCode/AgentOS/spatialnav/internal/domain/registry"
)

// Switcher holds the group order used by Tab / Shift+Tab and bumpers
type Switcher struct {
	order []string
}

// NewSwitcher creates a switcher over order. Duplicates and empty names are dropped.
func NewSwitcher(order []string) *Switcher {
	s := &Switcher{}
	s.SetOrder(order)
	return s
}

// SetOrder replaces the group order
func (s *Switcher) SetOrder(order []string) {
	seen := make(map[string]bool, len(order))
	s.order = s.order[:0]
	for _, g := range order {
		if g == "" || seen[g] {
			continue
		}
		seen[g] = true
		s.order = append(s.order, g)
	}
}

// Order returns a copy of the group order
func (s *Switcher) Order() []string {
	return append([]string(nil), s.order...)
}

// Cycle steps through order from current, wrapping at both ends.
// A current group outside order starts from the first (step > 0) or last
// (step < 0) entry.
func Cycle(order []string, current string, step int) (string, bool) {
	n := len(order)
	if n == 0 || step == 0 {
		return "", false
	}

	idx := -1
	for i, g := range order {
		if g == current {
			idx = i
			break
		}
	}

	if idx < 0 {
		if step > 0 {
			return order[0], true
		}
		return order[n-1], true
	}

	next := ((idx+step)%n + n) % n
	return order[next], true
}

// Anchor returns the member of group that should receive focus on entry
func Anchor(reg *registry.Registry, group string) (string, bool) {
	e, ok := reg.Preferred(group)
	if !ok {
		return "", false
	}
	return e.ID, true
}
