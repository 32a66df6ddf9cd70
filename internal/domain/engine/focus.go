package engine

import (
	"errors"

	"github.com/GriffinCanCode/AgentOS/spatialnav/internal/domain/groups"
	"github.com/GriffinCanCode/AgentOS/spatialnav/internal/domain/registry"
	"github.com/GriffinCanCode/AgentOS/spatialnav/internal/infrastructure/monitoring"
	"github.com/GriffinCanCode/AgentOS/spatialnav/internal/shared/types"
	"go.uber.org/zap"
)

// begin opens a span and command timer; call the result when done
func (e *Engine) begin(command string) func() {
	span := e.tracer.Start("engine." + command)
	timer := monitoring.NewTimer(e.metrics, command)
	return func() {
		timer.Stop()
		span.Finish()
	}
}

// setMode switches input mode, clearing focus when entering pointer mode
func (e *Engine) setMode(mode types.InputMode) bool {
	from := e.arbiter.Mode()
	if !e.arbiter.Set(mode) {
		return false
	}
	e.metrics.RecordModeTransition(string(mode))
	e.logger.Info("Input mode changed",
		zap.String("from", string(from)),
		zap.String("to", string(mode)))

	if mode == types.ModePointer {
		e.clearFocus()
		e.requestClearPass()
	}
	return true
}

// promote leaves pointer mode for an explicit directional command
func (e *Engine) promote() {
	if e.arbiter.Mode() == types.ModePointer {
		e.setMode(types.ModeDirectional)
	}
}

// setFocus moves focus to id and updates visuals. It reports whether focus
// changed. A target whose region is gone is dropped and focus stays put.
func (e *Engine) setFocus(id string) bool {
	if id == e.focusID {
		return false
	}
	next, ok := e.registry.Get(id)
	if !ok {
		return false
	}
	if _, err := e.cache.Refresh(id, e.source(next)); errors.Is(err, registry.ErrStaleRegion) {
		e.dropStale(id, err)
		return false
	}

	if prev, ok := e.registry.Get(e.focusID); ok {
		e.setFocusedVisual(prev, false)
	}
	e.focusID = id
	e.registry.MarkFocused(id, e.sched.Now())

	e.setFocusedVisual(next, true)
	e.requestClearPass()
	e.playFeedback(feedbackFocus)
	return true
}

// clearFocus unsets focus and removes its visual
func (e *Engine) clearFocus() {
	if e.focusID == "" {
		return
	}
	if prev, ok := e.registry.Get(e.focusID); ok {
		e.setFocusedVisual(prev, false)
	}
	e.focusID = ""
}

// enterGroup focuses the preferred member of the current group, or clears
// focus when the group is empty
func (e *Engine) enterGroup() bool {
	for {
		id, ok := groups.Anchor(e.registry, e.group)
		if !ok {
			e.clearFocus()
			return false
		}
		if e.focusID == id {
			return false
		}
		if e.setFocus(id) {
			return true
		}
		if _, ok := e.registry.Get(id); ok {
			// measurement failed without the region going away
			return false
		}
	}
}

// requestClearPass runs, or defers, a pass that clears the focused visual
// from every entry except the current focus
func (e *Engine) requestClearPass() {
	delay, ok := e.arbiter.ClearPass(e.sched.Now())
	if !ok {
		return
	}
	if delay == 0 {
		e.clearPass()
		return
	}
	e.clearTimer = e.sched.AfterFunc(delay, func() {
		e.clearTimer = nil
		e.arbiter.ClearDone()
		if e.closed {
			return
		}
		e.clearPass()
	})
}

func (e *Engine) clearPass() {
	for _, entry := range e.registry.All() {
		if entry.ID == e.focusID {
			continue
		}
		e.setFocusedVisual(entry, false)
	}
}

// dropStale handles a region whose host element disappeared
func (e *Engine) dropStale(id string, err error) {
	e.logger.Warn("Stale focus reference",
		zap.String("focusable_id", id),
		zap.Error(err))
	e.stale++
	e.metrics.RecordStaleReference()

	if id == e.focusID {
		e.focusID = ""
	}
	e.remove(id)
}

// remove drops id from every structure without touching its region
func (e *Engine) remove(id string) bool {
	if _, ok := e.registry.Remove(id); !ok {
		return false
	}
	e.cache.Evict(id)
	e.activation.Cancel(id)
	e.metrics.AddRegisteredRegions(-1)
	return true
}
