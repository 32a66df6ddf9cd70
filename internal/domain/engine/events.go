package engine

import (
	"time"

	"github.com/GriffinCanCode/AgentOS/spatialnav/internal/domain/input"
	"github.com/GriffinCanCode/AgentOS/spatialnav/internal/shared/types"
	"go.uber.org/zap"
)

// HandleKey classifies a key press and runs the matching command. Keys
// aimed at text-entry controls and unmapped keys are ignored. It reports
// whether the key was consumed.
func (e *Engine) HandleKey(ev types.KeyEvent) bool {
	if e.closed {
		return false
	}
	cmd, ok := input.ClassifyKey(ev, e.cfg.Input.Shortcuts)
	if !ok {
		return false
	}
	if cmd.Directional() {
		e.setMode(types.ModeDirectional)
	}
	e.run(cmd)
	e.notify()
	return true
}

// HandlePointerMove switches to pointer mode, dropping directional focus
func (e *Engine) HandlePointerMove(types.PointerEvent) {
	if e.closed {
		return
	}
	if e.setMode(types.ModePointer) {
		e.notify()
	}
}

// Frame feeds one animation frame timestamp to the performance governor
func (e *Engine) Frame(ts time.Time) {
	if e.closed {
		return
	}
	res := e.governor.Frame(ts)
	if !res.WindowClosed {
		return
	}
	e.metrics.ObserveFrameRate(res.FPS)

	if res.ModeChanged {
		enabled := e.governor.PerformanceMode()
		e.metrics.SetPerformanceMode(enabled)
		e.logger.Info("Performance mode changed",
			zap.Bool("enabled", enabled),
			zap.Float64("fps", res.FPS))
		e.reschedulePolling()
	}
	e.notify()
}

func (e *Engine) run(cmd input.Command) {
	switch cmd.Action {
	case input.ActionNavigate:
		e.Navigate(cmd.Direction)
	case input.ActionActivate:
		e.Activate()
	case input.ActionCycleGroup:
		e.CycleGroup(cmd.Step)
	case input.ActionBack:
		e.Back()
	case input.ActionRoute:
		e.Route(cmd.Route)
	}
}

// startPolling polls the gamepad source at the current profile's interval.
// Without a source gamepad support is simply off.
func (e *Engine) startPolling() {
	if e.gamepads == nil {
		e.logger.Debug("Gamepad polling disabled, no gamepad source")
		return
	}
	e.pollInterval = e.governor.Profile().GamepadPollInterval
	e.pollTimer = e.sched.Every(e.pollInterval, e.pollGamepads)
}

func (e *Engine) reschedulePolling() {
	if e.gamepads == nil || e.closed {
		return
	}
	if e.governor.Profile().GamepadPollInterval == e.pollInterval {
		return
	}
	if e.pollTimer != nil {
		e.pollTimer.Stop()
	}
	e.startPolling()
	e.logger.Debug("Gamepad poll interval changed", zap.Duration("interval", e.pollInterval))
}

// PollGamepads reads the gamepad source once. The engine calls it on its
// poll timer; hosts may call it directly after a connect event.
func (e *Engine) PollGamepads() {
	e.pollGamepads()
}

func (e *Engine) pollGamepads() {
	if e.closed || e.gamepads == nil {
		return
	}

	var pads []types.GamepadState
	if !e.guarded(e.guards.gamepad, func() { pads = e.gamepads.Gamepads() }) {
		return
	}

	changed := false
	if e.arbiter.ObservePads(pads) {
		changed = e.setMode(types.ModeGamepad)
	}

	cmds := e.poller.Poll(pads, e.sched.Now())
	if len(cmds) > 0 {
		changed = e.setMode(types.ModeGamepad) || changed
	}
	for _, cmd := range cmds {
		e.run(cmd)
	}
	if changed || len(cmds) > 0 {
		e.notify()
	}
}
