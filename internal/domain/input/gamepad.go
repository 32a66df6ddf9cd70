package input

import (
	"math"
	"time"

	"github.com/GriffinCanCode/AgentOS/spatialnav/internal/shared/types"
	"golang.org/x/time/rate"
)

// Standard gamepad mapping indexes
const (
	ButtonA         = 0
	ButtonB         = 1
	ButtonLB        = 4
	ButtonRB        = 5
	ButtonDpadUp    = 12
	ButtonDpadDown  = 13
	ButtonDpadLeft  = 14
	ButtonDpadRight = 15

	AxisLeftX = 0
	AxisLeftY = 1
)

// GamepadSource lists the currently connected gamepads
type GamepadSource interface {
	Gamepads() []types.GamepadState
}

// GamepadSourceFunc adapts a function to GamepadSource
type GamepadSourceFunc func() []types.GamepadState

// Gamepads calls f
func (f GamepadSourceFunc) Gamepads() []types.GamepadState { return f() }

// RepeatSettings controls held-direction repeat
type RepeatSettings struct {
	Delay          time.Duration
	Interval       time.Duration
	StickThreshold float64
}

type heldDirection struct {
	dir     types.Direction
	since   time.Time
	limiter *rate.Limiter
}

type padState struct {
	buttons []bool
	held    *heldDirection
}

var buttonActions = []struct {
	button int
	cmd    Command
}{
	{ButtonA, Command{Action: ActionActivate}},
	{ButtonB, Command{Action: ActionBack}},
	{ButtonLB, Command{Action: ActionCycleGroup, Step: -1}},
	{ButtonRB, Command{Action: ActionCycleGroup, Step: 1}},
}

// GamepadPoller converts successive pad snapshots into commands.
// Buttons fire on press; directions fire on press and repeat while held.
type GamepadPoller struct {
	settings RepeatSettings
	pads     map[int]*padState
}

// NewGamepadPoller creates a poller
func NewGamepadPoller(settings RepeatSettings) *GamepadPoller {
	if settings.Interval <= 0 {
		settings.Interval = 150 * time.Millisecond
	}
	if settings.StickThreshold <= 0 {
		settings.StickThreshold = 0.5
	}
	return &GamepadPoller{
		settings: settings,
		pads:     make(map[int]*padState),
	}
}

// Poll diffs pads against the previous snapshot and returns the commands
// to run, in pad order
func (p *GamepadPoller) Poll(pads []types.GamepadState, now time.Time) []Command {
	var cmds []Command
	live := make(map[int]bool, len(pads))

	for _, pad := range pads {
		if !pad.Connected {
			continue
		}
		live[pad.Index] = true

		st, ok := p.pads[pad.Index]
		if !ok {
			st = &padState{}
			p.pads[pad.Index] = st
		}

		if cmd, ok := p.direction(st, pad, now); ok {
			cmds = append(cmds, cmd)
		}

		for _, ba := range buttonActions {
			wasDown := ba.button < len(st.buttons) && st.buttons[ba.button]
			if pad.Pressed(ba.button) && !wasDown {
				cmds = append(cmds, ba.cmd)
			}
		}
		st.buttons = append(st.buttons[:0], pad.Buttons...)
	}

	for idx := range p.pads {
		if !live[idx] {
			delete(p.pads, idx)
		}
	}
	return cmds
}

func (p *GamepadPoller) direction(st *padState, pad types.GamepadState, now time.Time) (Command, bool) {
	dir, active := p.readDirection(pad)
	if !active {
		st.held = nil
		return Command{}, false
	}

	if st.held == nil || st.held.dir != dir {
		limiter := rate.NewLimiter(rate.Every(p.settings.Interval), 1)
		st.held = &heldDirection{dir: dir, since: now, limiter: limiter}
		return Command{Action: ActionNavigate, Direction: dir}, true
	}

	if now.Sub(st.held.since) < p.settings.Delay {
		return Command{}, false
	}
	if !st.held.limiter.AllowN(now, 1) {
		return Command{}, false
	}
	return Command{Action: ActionNavigate, Direction: dir}, true
}

func (p *GamepadPoller) readDirection(pad types.GamepadState) (types.Direction, bool) {
	switch {
	case pad.Pressed(ButtonDpadUp):
		return types.DirectionUp, true
	case pad.Pressed(ButtonDpadDown):
		return types.DirectionDown, true
	case pad.Pressed(ButtonDpadLeft):
		return types.DirectionLeft, true
	case pad.Pressed(ButtonDpadRight):
		return types.DirectionRight, true
	}

	x, y := pad.Axis(AxisLeftX), pad.Axis(AxisLeftY)
	t := p.settings.StickThreshold
	if math.Abs(y) >= math.Abs(x) {
		switch {
		case y <= -t:
			return types.DirectionUp, true
		case y >= t:
			return types.DirectionDown, true
		}
	}
	switch {
	case x <= -t:
		return types.DirectionLeft, true
	case x >= t:
		return types.DirectionRight, true
	}
	return "", false
}
