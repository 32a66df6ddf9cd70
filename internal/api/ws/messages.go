package ws

import (
	"github.com/GriffinCanCode/AgentOS/spatialnav/internal/shared/types"
)

// Message types
const (
	TypeRegister   = "register"
	TypeUnregister = "unregister"
	TypeTouch      = "touch"
	TypeKey        = "key"
	TypePointer    = "pointer"
	TypeFrame      = "frame"
	TypeGamepad    = "gamepad"
	TypeViewport   = "viewport"
	TypeNavigate   = "navigate"
	TypeActivate   = "activate"
	TypeGroup      = "group"
	TypeCycle      = "cycle"
	TypeBack       = "back"
	TypeInvalidate = "invalidate"
	TypePing       = "ping"

	TypeWelcome   = "welcome"
	TypeState     = "state"
	TypeFocus     = "focus"
	TypeActivated = "activated"
	TypeFeedback  = "feedback"
	TypeIntent    = "intent"
	TypeEvicted   = "evicted"
	TypeError     = "error"
	TypePong      = "pong"
)

// Message is the single envelope used in both directions
type Message struct {
	Type string `json:"type"`

	// Inbound
	ID        string               `json:"id,omitempty"`
	IDs       []string             `json:"ids,omitempty"`
	Group     string               `json:"group,omitempty"`
	Priority  int                  `json:"priority,omitempty"`
	Bounds    *types.Rect          `json:"bounds,omitempty"`
	Key       *types.KeyEvent      `json:"key,omitempty"`
	Pointer   *types.PointerEvent  `json:"pointer,omitempty"`
	Timestamp float64              `json:"ts,omitempty"` // milliseconds, host clock
	Pads      []types.GamepadState `json:"pads,omitempty"`
	Viewport  *types.Size          `json:"viewport,omitempty"`
	Direction string               `json:"direction,omitempty"`
	Step      int                  `json:"step,omitempty"`

	// Outbound
	SessionID string         `json:"session_id,omitempty"`
	State     *types.State   `json:"state,omitempty"`
	Profile   *types.Profile `json:"profile,omitempty"`
	Active    *bool          `json:"active,omitempty"`
	Feedback  string         `json:"feedback,omitempty"`
	Intent    *types.Intent  `json:"intent,omitempty"`
	Error     string         `json:"error,omitempty"`
}

func boolPtr(v bool) *bool { return &v }
