package engine

import (
	"errors"

	"github.com/GriffinCanCode/AgentOS/spatialnav/internal/domain/groups"
	"github.com/GriffinCanCode/AgentOS/spatialnav/internal/domain/navigator"
	"github.com/GriffinCanCode/AgentOS/spatialnav/internal/domain/registry"
	"github.com/GriffinCanCode/AgentOS/spatialnav/internal/shared/types"
	"github.com/GriffinCanCode/AgentOS/spatialnav/internal/shared/utils"
	"go.uber.org/zap"
)

// Navigation outcomes recorded per command
const (
	outcomeMoved   = "moved"
	outcomeEntered = "entered"
	outcomeBlocked = "blocked"
)

// Register adds f or updates the entry with the same ID, then measures its
// bounds. An empty group means the home group. It reports whether the entry
// is registered afterwards.
func (e *Engine) Register(f registry.Focusable) bool {
	if e.closed {
		return false
	}
	if err := utils.ValidateID(f.ID, "focusable id"); err != nil {
		e.logger.Warn("Rejected focusable registration", zap.Error(err))
		return false
	}
	if f.Region == nil {
		e.logger.Warn("Rejected focusable registration without region", zap.String("focusable_id", f.ID))
		return false
	}
	if f.Group == "" {
		f.Group = e.cfg.Navigation.HomeGroup
	} else if err := utils.ValidateGroup(f.Group); err != nil {
		e.logger.Warn("Rejected focusable registration",
			zap.String("focusable_id", f.ID),
			zap.Error(err))
		return false
	}

	done := e.begin("register")
	defer done()
	defer e.notify()

	entry, created := e.registry.Upsert(f, e.sched.Now())
	if created {
		e.metrics.AddRegisteredRegions(1)
	}
	if _, err := e.cache.Refresh(f.ID, e.source(entry)); errors.Is(err, registry.ErrStaleRegion) {
		e.dropStale(f.ID, err)
		return false
	}

	if f.ID == e.focusID {
		if entry.Group != e.group {
			e.clearFocus()
		} else {
			e.setFocusedVisual(entry, true)
		}
	}

	e.logger.Debug("Focusable registered",
		zap.String("focusable_id", f.ID),
		zap.String("group", f.Group),
		zap.Bool("created", created))
	return true
}

// Unregister removes id. Removing the focused entry leaves the engine with
// no focus until the next navigation re-anchors it.
func (e *Engine) Unregister(id string) bool {
	if e.closed {
		return false
	}
	if !e.remove(id) {
		return false
	}
	if id == e.focusID {
		e.focusID = ""
	}
	e.notify()
	return true
}

// Touch marks ids as still mounted so the staleness sweep keeps them.
// It returns how many were registered.
func (e *Engine) Touch(ids ...string) int {
	if e.closed {
		return 0
	}
	now := e.sched.Now()
	n := 0
	for _, id := range ids {
		if e.registry.Touch(id, now) {
			n++
		}
	}
	return n
}

// ListByGroup returns the focusables registered in group
func (e *Engine) ListByGroup(group string) []registry.Focusable {
	entries := e.registry.ListByGroup(group)
	out := make([]registry.Focusable, len(entries))
	for i, entry := range entries {
		out[i] = entry.Focusable
	}
	return out
}

// Navigate moves focus one step in dir within the current group. With no
// focus in the group it focuses the group's preferred member instead. It
// reports whether focus changed.
func (e *Engine) Navigate(dir types.Direction) bool {
	if e.closed {
		return false
	}
	parsed, ok := types.ParseDirection(string(dir))
	if !ok {
		e.logger.Debug("Ignored navigation with unknown direction", zap.String("direction", string(dir)))
		return false
	}

	done := e.begin("navigate")
	defer done()
	defer e.notify()

	e.promote()
	e.navigations++

	outcome := e.navigate(parsed)
	e.metrics.RecordNavigation(string(parsed), outcome)
	e.logger.Debug("Navigation",
		zap.String("direction", string(parsed)),
		zap.String("outcome", outcome),
		zap.String("focus", e.focusID))
	return outcome != outcomeBlocked
}

func (e *Engine) navigate(dir types.Direction) string {
	origin, ok := e.origin()
	if !ok {
		if e.enterGroup() {
			return outcomeEntered
		}
		return outcomeBlocked
	}

	for {
		res, ok := navigator.Search(origin.Center, dir, e.candidates(), e.params)
		if !ok {
			return outcomeBlocked
		}
		if e.setFocus(res.ID) {
			return outcomeMoved
		}
		if _, ok := e.registry.Get(res.ID); ok {
			return outcomeBlocked
		}
	}
}

// origin returns the measured focused entry if it belongs to the current
// group. A stale focus is dropped.
func (e *Engine) origin() (navigator.Candidate, bool) {
	if e.focusID == "" {
		return navigator.Candidate{}, false
	}
	entry, ok := e.registry.Get(e.focusID)
	if !ok || entry.Group != e.group {
		return navigator.Candidate{}, false
	}

	geo, err := e.cache.Get(entry.ID, e.source(entry))
	if err != nil {
		if errors.Is(err, registry.ErrStaleRegion) {
			e.dropStale(entry.ID, err)
		}
		return navigator.Candidate{}, false
	}
	return navigator.Candidate{ID: entry.ID, Center: geo.Center, Seq: entry.Seq}, true
}

// candidates measures every other member of the current group. Stale
// members are dropped and members that fail to measure are skipped.
func (e *Engine) candidates() []navigator.Candidate {
	entries := e.registry.ListByGroup(e.group)
	out := make([]navigator.Candidate, 0, len(entries))
	for _, entry := range entries {
		if entry.ID == e.focusID {
			continue
		}
		geo, err := e.cache.Get(entry.ID, e.source(entry))
		if err != nil {
			if errors.Is(err, registry.ErrStaleRegion) {
				e.dropStale(entry.ID, err)
			}
			continue
		}
		out = append(out, navigator.Candidate{ID: entry.ID, Center: geo.Center, Seq: entry.Seq})
	}
	return out
}

// SwitchGroup makes name the current group and focuses its preferred
// member, or clears focus when it has none. A group intent is emitted.
// It reports whether a member holds focus afterwards.
func (e *Engine) SwitchGroup(name string) bool {
	if e.closed {
		return false
	}
	if err := utils.ValidateGroup(name); err != nil {
		e.logger.Debug("Ignored group switch", zap.Error(err))
		return false
	}

	done := e.begin("switch_group")
	defer done()
	defer e.notify()

	e.promote()
	if name != e.group {
		e.logger.Debug("Group switched",
			zap.String("from", e.group),
			zap.String("to", name))
		e.group = name
		e.metrics.RecordGroupSwitch()
	}
	e.emitIntent(types.IntentGroup, name)

	e.enterGroup()
	return e.focusID != ""
}

// CycleGroup switches step places through the group order, wrapping at both
// ends. Without a configured order the registered groups are cycled in
// first registration order.
func (e *Engine) CycleGroup(step int) bool {
	if e.closed || step == 0 {
		return false
	}
	order := e.switcher.Order()
	if len(order) == 0 {
		order = e.registeredGroups()
	}
	next, ok := groups.Cycle(order, e.group, step)
	if !ok {
		return false
	}
	return e.SwitchGroup(next)
}

func (e *Engine) registeredGroups() []string {
	seen := make(map[string]bool)
	var order []string
	for _, entry := range e.registry.All() {
		if !seen[entry.Group] {
			seen[entry.Group] = true
			order = append(order, entry.Group)
		}
	}
	return order
}

// SetGroupOrder replaces the order cycled by CycleGroup
func (e *Engine) SetGroupOrder(order []string) {
	e.switcher.SetOrder(order)
}

// Activate triggers the focused region once and pulses its activated
// visual. With no focus it does nothing.
func (e *Engine) Activate() bool {
	if e.closed || e.focusID == "" {
		return false
	}

	done := e.begin("activate")
	defer done()
	defer e.notify()

	entry, ok := e.registry.Get(e.focusID)
	if !ok {
		e.dropStale(e.focusID, registry.ErrStaleRegion)
		return false
	}
	if _, err := e.cache.Refresh(entry.ID, e.source(entry)); errors.Is(err, registry.ErrStaleRegion) {
		e.dropStale(entry.ID, err)
		return false
	}

	e.activation.Activate(entry.ID, target{e: e, region: entry.Region}, e.governor.Profile().ActivationPulse)
	e.metrics.RecordActivation()
	e.playFeedback(feedbackSelect)
	return true
}

// Back plays the back cue and emits a back intent
func (e *Engine) Back() {
	if e.closed {
		return
	}
	done := e.begin("back")
	defer done()

	e.playFeedback(feedbackBack)
	e.emitIntent(types.IntentBack, "")
}

// Route emits a route intent for target
func (e *Engine) Route(target string) bool {
	if e.closed {
		return false
	}
	if err := utils.ValidateRoute(target); err != nil {
		e.logger.Debug("Ignored route request", zap.Error(err))
		return false
	}
	done := e.begin("route")
	defer done()

	e.emitIntent(types.IntentRoute, target)
	return true
}

// SetViewport sets the span used for alignment scoring and drops cached
// geometry. Empty sizes are ignored.
func (e *Engine) SetViewport(size types.Size) bool {
	if e.closed || size.Empty() {
		return false
	}
	e.params.Viewport = size
	e.cache.Invalidate()
	return true
}

// Viewport returns the span used for alignment scoring
func (e *Engine) Viewport() types.Size {
	return e.params.Viewport
}

// InvalidateGeometry drops every cached measurement, for hosts that
// scrolled or relaid out. It returns how many entries were dropped.
func (e *Engine) InvalidateGeometry() int {
	if e.closed {
		return 0
	}
	return e.cache.Invalidate()
}

// Sweep removes entries untouched for longer than the staleness window.
// The focused entry is always kept. It returns how many were removed.
func (e *Engine) Sweep() int {
	window := e.cfg.Geometry.StalenessWindow.Std()
	if e.closed || window <= 0 {
		return 0
	}

	stale := e.registry.Stale(e.sched.Now(), window, e.focusID)
	var evicted []string
	for _, id := range stale {
		if e.remove(id) {
			evicted = append(evicted, id)
		}
	}
	removed := len(evicted)
	if removed == 0 {
		return 0
	}

	e.evictions += uint64(removed)
	e.metrics.RecordEvictions(removed)
	e.logger.Info("Staleness sweep evicted entries",
		zap.Int("evicted", removed),
		zap.Int("remaining", e.registry.Len()))

	if e.onEvict != nil {
		e.guarded(e.guards.evict, func() { e.onEvict(evicted) })
	}
	return removed
}
