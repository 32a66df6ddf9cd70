// Package testutil provides mocks and fakes for engine and host tests.
package testutil

import (
	"sync"
	"testing"
	"time"

	"github.com/GriffinCanCode/AgentOS/spatialnav/internal/domain/registry"
	"github.com/GriffinCanCode/AgentOS/spatialnav/internal/infrastructure/schedule"
	"github.com/GriffinCanCode/AgentOS/spatialnav/internal/shared/types"
	"github.com/stretchr/testify/mock"
)

// MockFeedbackPlayer is a mock implementation of engine.FeedbackPlayer.
type MockFeedbackPlayer struct {
	mock.Mock
}

// OnFocusFeedback mocks the focus cue.
func (m *MockFeedbackPlayer) OnFocusFeedback() { m.Called() }

// OnSelectFeedback mocks the select cue.
func (m *MockFeedbackPlayer) OnSelectFeedback() { m.Called() }

// OnBackFeedback mocks the back cue.
func (m *MockFeedbackPlayer) OnBackFeedback() { m.Called() }

// NewMockFeedbackPlayer returns a player that accepts any cue.
func NewMockFeedbackPlayer(t *testing.T) *MockFeedbackPlayer {
	t.Helper()
	m := new(MockFeedbackPlayer)
	m.On("OnFocusFeedback").Maybe()
	m.On("OnSelectFeedback").Maybe()
	m.On("OnBackFeedback").Maybe()
	return m
}

// MockRouter is a mock implementation of engine.Router.
type MockRouter struct {
	mock.Mock
}

// RequestNavigation mocks intent delivery.
func (m *MockRouter) RequestNavigation(intent types.Intent) { m.Called(intent) }

// NewMockRouter returns a router that accepts any intent.
func NewMockRouter(t *testing.T) *MockRouter {
	t.Helper()
	m := new(MockRouter)
	m.On("RequestNavigation", mock.Anything).Maybe()
	return m
}

// Intents returns the intents the router received, in order.
func (m *MockRouter) Intents() []types.Intent {
	var out []types.Intent
	for _, call := range m.Calls {
		if call.Method == "RequestNavigation" {
			out = append(out, call.Arguments.Get(0).(types.Intent))
		}
	}
	return out
}

// FakeRegion is a registry.Region with settable bounds that records visuals.
type FakeRegion struct {
	mu          sync.Mutex
	rect        types.Rect
	err         error
	focused     bool
	activated   bool
	activations int
	pulseCalls  int
	boundsCalls int
	focusCalls  int
	panicOn     string
	onActivate  func()
}

// NewFakeRegion creates a region at x,y with size w,h.
func NewFakeRegion(x, y, w, h float64) *FakeRegion {
	return &FakeRegion{rect: types.NewRect(x, y, w, h)}
}

// Bounds returns the configured rect or error.
func (r *FakeRegion) Bounds() (types.Rect, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.boundsCalls++
	if r.panicOn == "bounds" {
		panic("bounds exploded")
	}
	return r.rect, r.err
}

// SetFocused records the focused visual.
func (r *FakeRegion) SetFocused(focused bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.focusCalls++
	if r.panicOn == "focus" {
		panic("focus exploded")
	}
	r.focused = focused
}

// SetActivated records the activation pulse.
func (r *FakeRegion) SetActivated(active bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.pulseCalls++
	r.activated = active
}

// Activate counts activations, then runs the OnActivate hook.
func (r *FakeRegion) Activate() {
	r.mu.Lock()
	if r.panicOn == "activate" {
		r.mu.Unlock()
		panic("activate exploded")
	}
	r.activations++
	hook := r.onActivate
	r.mu.Unlock()

	if hook != nil {
		hook()
	}
}

// OnActivate sets a hook run after each activation, outside the lock, so
// it may call back into the engine.
func (r *FakeRegion) OnActivate(fn func()) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.onActivate = fn
}

// Move changes the region's bounds.
func (r *FakeRegion) Move(x, y float64) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.rect.X, r.rect.Y = x, y
}

// Detach makes Bounds report registry.ErrStaleRegion.
func (r *FakeRegion) Detach() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.err = registry.ErrStaleRegion
}

// PanicOn makes the named call ("bounds", "focus", "activate") panic.
func (r *FakeRegion) PanicOn(call string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.panicOn = call
}

// Focused reports the focused visual.
func (r *FakeRegion) Focused() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.focused
}

// Activated reports the activation pulse visual.
func (r *FakeRegion) Activated() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.activated
}

// Activations returns how many times Activate ran.
func (r *FakeRegion) Activations() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.activations
}

// PulseCalls returns how many times SetActivated ran.
func (r *FakeRegion) PulseCalls() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.pulseCalls
}

// BoundsCalls returns how many times Bounds ran.
func (r *FakeRegion) BoundsCalls() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.boundsCalls
}

// FocusCalls returns how many times SetFocused ran.
func (r *FakeRegion) FocusCalls() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.focusCalls
}

// NewClock returns a manual scheduler at a fixed epoch.
func NewClock() *schedule.Manual {
	return schedule.NewManual(time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC))
}
