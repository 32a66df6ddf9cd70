package engine

import (
	"errors"
	"time"

	"github.com/GriffinCanCode/AgentOS/spatialnav/internal/domain/geometry"
	"github.com/GriffinCanCode/AgentOS/spatialnav/internal/domain/registry"
	"github.com/GriffinCanCode/AgentOS/spatialnav/internal/infrastructure/resilience"
	"github.com/GriffinCanCode/AgentOS/spatialnav/internal/shared/id"
	"github.com/GriffinCanCode/AgentOS/spatialnav/internal/shared/types"
	"go.uber.org/zap"
)

// FeedbackPlayer plays audio or haptic cues. Calls are fire and forget.
type FeedbackPlayer interface {
	OnFocusFeedback()
	OnSelectFeedback()
	OnBackFeedback()
}

// Router receives view change requests. The engine never performs them.
type Router interface {
	RequestNavigation(intent types.Intent)
}

type guards struct {
	feedback   *resilience.Guard
	router     *resilience.Guard
	region     *resilience.Guard
	gamepad    *resilience.Guard
	subscriber *resilience.Guard
	probe      *resilience.Guard
	evict      *resilience.Guard
}

func newGuards(e *Engine) guards {
	settings := func() resilience.Settings {
		return resilience.Settings{
			Timeout: 30 * time.Second,
			ReadyToTrip: func(c resilience.Counts) bool {
				return c.ConsecutiveFailures >= 5
			},
			OnStateChange: func(name string, from, to resilience.State) {
				e.logger.Warn("Host callback guard changed state",
					zap.String("callback", name),
					zap.String("from", from.String()),
					zap.String("to", to.String()))
			},
			Now: e.sched.Now,
		}
	}
	return guards{
		feedback:   resilience.New("feedback", settings()),
		router:     resilience.New("router", settings()),
		region:     resilience.New("region", settings()),
		gamepad:    resilience.New("gamepad", settings()),
		subscriber: resilience.New("subscriber", settings()),
		probe:      resilience.New("probe", settings()),
		evict:      resilience.New("evict", settings()),
	}
}

// guarded runs a host callback, logging and counting failures
func (e *Engine) guarded(g *resilience.Guard, fn func()) bool {
	if err := g.Run(fn); err != nil {
		e.callbackFailed(g.Name(), err)
		return false
	}
	return true
}

func (e *Engine) callbackFailed(name string, err error) {
	e.metrics.RecordCallbackFailure(name)
	if errors.Is(err, resilience.ErrGuardOpen) || errors.Is(err, resilience.ErrTooManyRequests) {
		e.logger.Debug("Host callback skipped", zap.String("callback", name), zap.Error(err))
		return
	}
	e.logger.Warn("Host callback failed", zap.String("callback", name), zap.Error(err))
}

type feedbackKind int

const (
	feedbackFocus feedbackKind = iota
	feedbackSelect
	feedbackBack
)

// playFeedback fires a cue. Focus and select cues are suppressed in
// performance mode; back always plays.
func (e *Engine) playFeedback(kind feedbackKind) {
	if e.feedback == nil {
		return
	}
	if kind != feedbackBack && !e.governor.Profile().FeedbackEnabled {
		return
	}

	switch kind {
	case feedbackFocus:
		e.guarded(e.guards.feedback, e.feedback.OnFocusFeedback)
	case feedbackSelect:
		e.guarded(e.guards.feedback, e.feedback.OnSelectFeedback)
	case feedbackBack:
		e.guarded(e.guards.feedback, e.feedback.OnBackFeedback)
	}
}

// emitIntent asks the router for a view change
func (e *Engine) emitIntent(kind types.IntentKind, target string) {
	intent := types.Intent{
		ID:        id.NewIntentID().String(),
		Kind:      kind,
		Target:    target,
		Source:    e.arbiter.Mode(),
		CreatedAt: e.sched.Now(),
	}
	e.metrics.RecordIntent(string(kind))
	e.logger.Debug("Intent emitted",
		zap.String("kind", string(kind)),
		zap.String("target", target))

	if e.router == nil {
		return
	}
	e.guarded(e.guards.router, func() { e.router.RequestNavigation(intent) })
}

// source measures an entry through the region guard. ErrStaleRegion is a
// normal outcome and does not count against the guard.
func (e *Engine) source(entry *registry.Entry) geometry.Source {
	return geometry.SourceFunc(func() (types.Rect, error) {
		var rect types.Rect
		var boundsErr error
		err := e.guards.region.Call(func() error {
			rect, boundsErr = entry.Region.Bounds()
			if errors.Is(boundsErr, registry.ErrStaleRegion) {
				return nil
			}
			return boundsErr
		})
		if err != nil {
			e.callbackFailed("region", err)
			return types.Rect{}, err
		}
		return rect, boundsErr
	})
}

func (e *Engine) setFocusedVisual(entry *registry.Entry, focused bool) {
	e.guarded(e.guards.region, func() { entry.Region.SetFocused(focused) })
}

// target adapts a region to activation.Target through the region guard
type target struct {
	e      *Engine
	region registry.Region
}

func (t target) Activate() {
	t.e.guarded(t.e.guards.region, t.region.Activate)
}

func (t target) SetActivated(active bool) {
	t.e.guarded(t.e.guards.region, func() { t.region.SetActivated(active) })
}
