package types

import "strings"

// Direction is the compass direction of a navigation request
type Direction string

const (
	DirectionUp    Direction = "up"
	DirectionDown  Direction = "down"
	DirectionLeft  Direction = "left"
	DirectionRight Direction = "right"
)

// ParseDirection converts a loose direction name into a Direction.
// Unknown names report ok=false; callers treat that as a no-op.
func ParseDirection(s string) (Direction, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "up", "arrowup":
		return DirectionUp, true
	case "down", "arrowdown":
		return DirectionDown, true
	case "left", "arrowleft":
		return DirectionLeft, true
	case "right", "arrowright":
		return DirectionRight, true
	default:
		return "", false
	}
}

// Vertical reports whether the direction moves along the y axis
func (d Direction) Vertical() bool {
	return d == DirectionUp || d == DirectionDown
}

// InputMode is the device class currently driving the engine
type InputMode string

const (
	ModePointer     InputMode = "pointer"
	ModeDirectional InputMode = "directional"
	ModeGamepad     InputMode = "gamepad"
)

// TargetKind describes the control that received a key event
type TargetKind string

const (
	TargetNone            TargetKind = ""
	TargetTextInput       TargetKind = "text_input"
	TargetTextArea        TargetKind = "textarea"
	TargetContentEditable TargetKind = "contenteditable"
	TargetSelect          TargetKind = "select"
	TargetButton          TargetKind = "button"
)

// IsTextEntry reports whether typing into the target must not be hijacked
func (t TargetKind) IsTextEntry() bool {
	switch t {
	case TargetTextInput, TargetTextArea, TargetContentEditable:
		return true
	default:
		return false
	}
}

// KeyEvent is a key press reported by the host.
// Key uses DOM KeyboardEvent.key names ("ArrowUp", "Enter", " ", "Tab").
type KeyEvent struct {
	Key    string     `json:"key"`
	Shift  bool       `json:"shift,omitempty"`
	Target TargetKind `json:"target,omitempty"`
}

// PointerEvent is a pointer movement reported by the host
type PointerEvent struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// GamepadState is one polled gamepad in the standard button mapping
type GamepadState struct {
	Index     int       `json:"index"`
	ID        string    `json:"id,omitempty"`
	Connected bool      `json:"connected"`
	Buttons   []bool    `json:"buttons,omitempty"`
	Axes      []float64 `json:"axes,omitempty"`
}

// Pressed reports whether button i is held
func (g GamepadState) Pressed(i int) bool {
	return i >= 0 && i < len(g.Buttons) && g.Buttons[i]
}

// Axis returns axis i, or 0 if the pad does not report it
func (g GamepadState) Axis(i int) float64 {
	if i < 0 || i >= len(g.Axes) {
		return 0
	}
	return g.Axes[i]
}

// Capabilities is the device signal consumed once at startup.
// Zero values mean the platform did not report that dimension.
type Capabilities struct {
	MemoryGB float64 `json:"memory_gb"`
	Cores    int     `json:"cores"`
}
