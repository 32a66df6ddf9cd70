package input

import (
	"strings"

	"github.com/GriffinCanCode/AgentOS/spatialnav/internal/shared/types"
)

// Action is what a command asks the engine to do
type Action int

const (
	ActionNone Action = iota
	ActionNavigate
	ActionActivate
	ActionCycleGroup
	ActionBack
	ActionRoute
)

// String returns the action name
func (a Action) String() string {
	switch a {
	case ActionNavigate:
		return "navigate"
	case ActionActivate:
		return "activate"
	case ActionCycleGroup:
		return "cycle_group"
	case ActionBack:
		return "back"
	case ActionRoute:
		return "route"
	default:
		return "none"
	}
}

// Command is a classified input event
type Command struct {
	Action    Action
	Direction types.Direction // ActionNavigate
	Step      int             // ActionCycleGroup: +1 next, -1 previous
	Route     string          // ActionRoute
}

// Directional reports whether the command comes from the directional key
// set that switches the engine into directional mode
func (c Command) Directional() bool {
	switch c.Action {
	case ActionNavigate, ActionActivate, ActionCycleGroup, ActionBack:
		return true
	default:
		return false
	}
}

// ClassifyKey maps a key event to a command. Events whose target is a
// text-entry control, and keys with no mapping, report ok=false.
func ClassifyKey(ev types.KeyEvent, shortcuts map[string]string) (Command, bool) {
	if ev.Target.IsTextEntry() {
		return Command{}, false
	}

	if dir, ok := types.ParseDirection(ev.Key); ok && strings.HasPrefix(strings.ToLower(ev.Key), "arrow") {
		return Command{Action: ActionNavigate, Direction: dir}, true
	}

	switch ev.Key {
	case "Enter", " ", "Space", "Spacebar":
		return Command{Action: ActionActivate}, true
	case "Tab":
		if ev.Shift {
			return Command{Action: ActionCycleGroup, Step: -1}, true
		}
		return Command{Action: ActionCycleGroup, Step: 1}, true
	case "Escape", "Esc":
		return Command{Action: ActionBack}, true
	}

	if route, ok := shortcuts[strings.ToLower(ev.Key)]; ok && route != "" {
		return Command{Action: ActionRoute, Route: route}, true
	}
	return Command{}, false
}
