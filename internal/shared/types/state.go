package types

import "time"

// State is a read-only snapshot of the navigation state
type State struct {
	CurrentFocusID  string    `json:"current_focus_id,omitempty"`
	CurrentGroup    string    `json:"current_group"`
	InputMode       InputMode `json:"input_mode"`
	PerformanceMode bool      `json:"performance_mode"`
	FrameRate       float64   `json:"frame_rate"`
}

// HasFocus reports whether the engine currently manages a focus
func (s State) HasFocus() bool {
	return s.CurrentFocusID != ""
}

// Metrics is the diagnostics snapshot returned by the engine
type Metrics struct {
	RegistrySize    int            `json:"registry_size"`
	CacheSize       int            `json:"cache_size"`
	InputMode       InputMode      `json:"input_mode"`
	PerformanceMode bool           `json:"performance_mode"`
	FrameRate       float64        `json:"frame_rate"`
	CurrentGroup    string         `json:"current_group"`
	Groups          map[string]int `json:"groups"`
	Navigations     uint64         `json:"navigations"`
	Activations     uint64         `json:"activations"`
	Evictions       uint64         `json:"evictions"`
	StaleReferences uint64         `json:"stale_references"`
	PendingPulses   int            `json:"pending_pulses"`
}

// Profile holds the fidelity settings derived from the performance mode
type Profile struct {
	FocusTransition     time.Duration `json:"focus_transition"`
	ActivationPulse     time.Duration `json:"activation_pulse"`
	FeedbackEnabled     bool          `json:"feedback_enabled"`
	GamepadPollInterval time.Duration `json:"gamepad_poll_interval"`
}

// IntentKind classifies a view change request
type IntentKind string

const (
	IntentRoute IntentKind = "route"
	IntentBack  IntentKind = "back"
	IntentGroup IntentKind = "group"
)

// Intent asks the host router for a view change; the engine never performs it
type Intent struct {
	ID        string     `json:"id"`
	Kind      IntentKind `json:"kind"`
	Target    string     `json:"target,omitempty"`
	Source    InputMode  `json:"source"`
	CreatedAt time.Time  `json:"created_at"`
}
