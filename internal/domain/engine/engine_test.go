package engine

import (
	"errors"
	"testing"
	"time"

	"github.com/GriffinCanCode/AgentOS/spatialnav/internal/domain/input"
	"github.com/GriffinCanCode/AgentOS/spatialnav/internal/domain/performance"
	"github.com/GriffinCanCode/AgentOS/spatialnav/internal/domain/registry"
	"github.com/GriffinCanCode/AgentOS/spatialnav/internal/infrastructure/config"
	"github.com/GriffinCanCode/AgentOS/spatialnav/internal/infrastructure/monitoring"
	"github.com/GriffinCanCode/AgentOS/spatialnav/internal/infrastructure/schedule"
	"github.com/GriffinCanCode/AgentOS/spatialnav/internal/shared/types"
	"github.com/GriffinCanCode/AgentOS/spatialnav/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestEngine(t *testing.T, mutate ...func(*Options)) (*Engine, *schedule.Manual) {
	t.Helper()
	clock := testutil.NewClock()
	opts := Options{
		Config:    config.Default(),
		Scheduler: clock,
		Probe:     performance.StaticProbe{Capabilities: types.Capabilities{Cores: 8, MemoryGB: 16}},
	}
	for _, m := range mutate {
		m(&opts)
	}
	e, err := New(opts)
	require.NoError(t, err)
	t.Cleanup(e.Close)
	return e, clock
}

// tile returns a 40x40 region centered on cx, cy
func tile(cx, cy float64) *testutil.FakeRegion {
	return testutil.NewFakeRegion(cx-20, cy-20, 40, 40)
}

func register(t *testing.T, e *Engine, id, group string, region registry.Region) {
	t.Helper()
	require.True(t, e.Register(registry.Focusable{ID: id, Group: group, Region: region}))
}

func TestNewRequiresScheduler(t *testing.T) {
	_, err := New(Options{})
	assert.ErrorIs(t, err, ErrNoScheduler)
}

func TestNewRejectsInvalidConfig(t *testing.T) {
	cfg := config.Default()
	cfg.Performance.FPSThreshold = 0
	_, err := New(Options{Config: cfg, Scheduler: testutil.NewClock()})
	assert.Error(t, err)
}

func TestInitialState(t *testing.T) {
	e, _ := newTestEngine(t)

	s := e.State()
	assert.Equal(t, "", s.CurrentFocusID)
	assert.Equal(t, "navigation", s.CurrentGroup)
	assert.Equal(t, types.ModePointer, s.InputMode)
	assert.False(t, s.PerformanceMode)
	assert.Equal(t, types.Size{Width: 1920, Height: 1080}, e.Viewport())
}

func TestNavigateDirectionalCorrectness(t *testing.T) {
	tests := []struct {
		name  string
		dir   types.Direction
		want  string
		moved bool
	}{
		{"right selects B", types.DirectionRight, "b", true},
		{"down selects C", types.DirectionDown, "c", true},
		{"left stays", types.DirectionLeft, "a", false},
		{"up stays", types.DirectionUp, "a", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e, _ := newTestEngine(t)
			register(t, e, "a", "content", tile(0, 0))
			register(t, e, "b", "content", tile(100, 0))
			register(t, e, "c", "content", tile(0, 100))
			require.True(t, e.SwitchGroup("content"))
			require.Equal(t, "a", e.State().CurrentFocusID)

			assert.Equal(t, tt.moved, e.Navigate(tt.dir))
			assert.Equal(t, tt.want, e.State().CurrentFocusID)
		})
	}
}

func TestNavigateAlignmentTieBreak(t *testing.T) {
	e, _ := newTestEngine(t)
	register(t, e, "a", "content", tile(0, 0))
	register(t, e, "c", "content", tile(60, 100))
	register(t, e, "b", "content", tile(0, 100))
	e.SwitchGroup("content")

	e.Navigate(types.DirectionDown)
	assert.Equal(t, "b", e.State().CurrentFocusID)
}

func TestNavigateNoWraparound(t *testing.T) {
	e, _ := newTestEngine(t)
	register(t, e, "a", "content", tile(0, 0))
	register(t, e, "b", "content", tile(100, 0))
	e.SwitchGroup("content")

	require.True(t, e.Navigate(types.DirectionRight))
	for i := 0; i < 3; i++ {
		assert.False(t, e.Navigate(types.DirectionRight))
		assert.Equal(t, "b", e.State().CurrentFocusID)
	}
}

func TestNavigateStaysInGroup(t *testing.T) {
	e, _ := newTestEngine(t)
	register(t, e, "a", "content", tile(0, 0))
	register(t, e, "side", "sidebar", tile(100, 0))
	e.SwitchGroup("content")

	assert.False(t, e.Navigate(types.DirectionRight))
	assert.Equal(t, "a", e.State().CurrentFocusID)
}

func TestNavigateWithoutFocusEntersGroup(t *testing.T) {
	e, _ := newTestEngine(t)
	register(t, e, "low", "", tile(0, 0))
	require.True(t, e.Register(registry.Focusable{ID: "high", Region: tile(100, 0), Priority: 5}))

	assert.True(t, e.Navigate(types.DirectionDown))
	s := e.State()
	assert.Equal(t, "high", s.CurrentFocusID)
	assert.Equal(t, types.ModeDirectional, s.InputMode)
}

func TestNavigateIgnoresUnknownDirection(t *testing.T) {
	e, _ := newTestEngine(t)
	register(t, e, "a", "", tile(0, 0))

	assert.False(t, e.Navigate(types.Direction("sideways")))
	assert.Equal(t, types.ModePointer, e.State().InputMode)
	assert.Equal(t, "", e.State().CurrentFocusID)
}

func TestNavigateUpdatesVisuals(t *testing.T) {
	e, clock := newTestEngine(t)
	a, b := tile(0, 0), tile(100, 0)
	register(t, e, "a", "content", a)
	register(t, e, "b", "content", b)
	e.SwitchGroup("content")
	assert.True(t, a.Focused())

	e.Navigate(types.DirectionRight)
	clock.Advance(50 * time.Millisecond)
	assert.False(t, a.Focused())
	assert.True(t, b.Focused())
}

func TestRegisterIsIdempotent(t *testing.T) {
	e, _ := newTestEngine(t)
	register(t, e, "a", "content", tile(0, 0))
	register(t, e, "b", "content", tile(100, 0))
	register(t, e, "a", "content", tile(200, 0))

	assert.Equal(t, 2, e.Metrics().RegistrySize)
	assert.Len(t, e.ListByGroup("content"), 2)

	// latest bounds win: a now sits right of b
	e.SwitchGroup("content")
	require.Equal(t, "a", e.State().CurrentFocusID)
	assert.True(t, e.Navigate(types.DirectionLeft))
	assert.Equal(t, "b", e.State().CurrentFocusID)
}

func TestRegisterRejectsInvalidInput(t *testing.T) {
	e, _ := newTestEngine(t)

	assert.False(t, e.Register(registry.Focusable{ID: "", Region: tile(0, 0)}))
	assert.False(t, e.Register(registry.Focusable{ID: "bad id", Region: tile(0, 0)}))
	assert.False(t, e.Register(registry.Focusable{ID: "a"}))
	assert.False(t, e.Register(registry.Focusable{ID: "a", Group: "no spaces", Region: tile(0, 0)}))
	assert.Equal(t, 0, e.Metrics().RegistrySize)
}

func TestRegisterMovingFocusedEntryOutOfGroupClearsFocus(t *testing.T) {
	e, _ := newTestEngine(t)
	a := tile(0, 0)
	register(t, e, "a", "content", a)
	e.SwitchGroup("content")
	require.Equal(t, "a", e.State().CurrentFocusID)

	register(t, e, "a", "sidebar", a)
	assert.Equal(t, "", e.State().CurrentFocusID)
	assert.False(t, a.Focused())
}

func TestUnregisterFocusedClearsFocus(t *testing.T) {
	e, _ := newTestEngine(t)
	register(t, e, "a", "content", tile(0, 0))
	register(t, e, "b", "content", tile(100, 0))
	e.SwitchGroup("content")

	assert.True(t, e.Unregister("a"))
	assert.Equal(t, "", e.State().CurrentFocusID)
	assert.False(t, e.Unregister("a"))

	// next navigation re-anchors
	e.Navigate(types.DirectionRight)
	assert.Equal(t, "b", e.State().CurrentFocusID)
}

func TestSwitchGroupAnchoring(t *testing.T) {
	e, _ := newTestEngine(t)
	require.True(t, e.Register(registry.Focusable{ID: "first", Group: "content", Region: tile(0, 0), Priority: 1}))
	require.True(t, e.Register(registry.Focusable{ID: "best", Group: "content", Region: tile(100, 0), Priority: 3}))
	require.True(t, e.Register(registry.Focusable{ID: "tied", Group: "content", Region: tile(200, 0), Priority: 3}))

	assert.True(t, e.SwitchGroup("content"))
	s := e.State()
	assert.Equal(t, "content", s.CurrentGroup)
	assert.Equal(t, "best", s.CurrentFocusID)

	assert.False(t, e.SwitchGroup("sidebar"))
	s = e.State()
	assert.Equal(t, "sidebar", s.CurrentGroup)
	assert.Equal(t, "", s.CurrentFocusID)
}

func TestSwitchGroupReanchorsWhenAlreadyInGroup(t *testing.T) {
	e, _ := newTestEngine(t)
	register(t, e, "a", "content", tile(0, 0))
	register(t, e, "b", "content", tile(100, 0))
	e.SwitchGroup("content")
	e.Navigate(types.DirectionRight)
	require.Equal(t, "b", e.State().CurrentFocusID)

	e.SwitchGroup("content")
	assert.Equal(t, "a", e.State().CurrentFocusID)
}

func TestSwitchGroupEmitsIntent(t *testing.T) {
	router := testutil.NewMockRouter(t)
	e, _ := newTestEngine(t, func(o *Options) { o.Router = router })

	e.SwitchGroup("content")
	assert.False(t, e.SwitchGroup(""))

	intents := router.Intents()
	require.Len(t, intents, 1)
	assert.Equal(t, types.IntentGroup, intents[0].Kind)
	assert.Equal(t, "content", intents[0].Target)
	assert.Equal(t, types.ModeDirectional, intents[0].Source)
	assert.NotEmpty(t, intents[0].ID)
}

func TestCycleGroupWraps(t *testing.T) {
	e, _ := newTestEngine(t)

	e.CycleGroup(1)
	assert.Equal(t, "content", e.State().CurrentGroup)
	e.CycleGroup(1)
	assert.Equal(t, "sidebar", e.State().CurrentGroup)
	e.CycleGroup(1)
	assert.Equal(t, "navigation", e.State().CurrentGroup)
	e.CycleGroup(-1)
	assert.Equal(t, "sidebar", e.State().CurrentGroup)
}

func TestCycleGroupFallsBackToRegisteredGroups(t *testing.T) {
	e, _ := newTestEngine(t)
	e.SetGroupOrder(nil)
	register(t, e, "a", "navigation", tile(0, 0))
	register(t, e, "b", "grid", tile(0, 100))

	e.CycleGroup(1)
	assert.Equal(t, "grid", e.State().CurrentGroup)
	assert.Equal(t, "b", e.State().CurrentFocusID)
	e.CycleGroup(1)
	assert.Equal(t, "navigation", e.State().CurrentGroup)
}

func TestActivate(t *testing.T) {
	player := new(testutil.MockFeedbackPlayer)
	player.On("OnFocusFeedback").Maybe()
	player.On("OnSelectFeedback").Once()
	e, clock := newTestEngine(t, func(o *Options) { o.Feedback = player })

	assert.False(t, e.Activate(), "no focus is a no-op")

	a := tile(0, 0)
	register(t, e, "a", "content", a)
	e.SwitchGroup("content")

	assert.True(t, e.Activate())
	assert.Equal(t, 1, a.Activations())
	assert.True(t, a.Activated())
	assert.Equal(t, 1, e.Metrics().PendingPulses)

	clock.Advance(e.Profile().ActivationPulse)
	assert.False(t, a.Activated())
	assert.Equal(t, 0, e.Metrics().PendingPulses)
	assert.Equal(t, uint64(1), e.Metrics().Activations)
	player.AssertExpectations(t)
}

func TestActivateRepeatedRestartsPulse(t *testing.T) {
	e, clock := newTestEngine(t)
	a := tile(0, 0)
	register(t, e, "a", "content", a)
	e.SwitchGroup("content")

	e.Activate()
	clock.Advance(100 * time.Millisecond)
	e.Activate()
	clock.Advance(100 * time.Millisecond)
	assert.True(t, a.Activated())
	assert.Equal(t, 2, a.Activations())

	clock.Advance(100 * time.Millisecond)
	assert.False(t, a.Activated())
}

func TestStaleCandidateIsDropped(t *testing.T) {
	e, _ := newTestEngine(t)
	b := tile(100, 0)
	register(t, e, "a", "content", tile(0, 0))
	register(t, e, "b", "content", b)
	register(t, e, "c", "content", tile(300, 0))
	e.SwitchGroup("content")
	e.InvalidateGeometry()

	b.Detach()
	assert.True(t, e.Navigate(types.DirectionRight))
	assert.Equal(t, "c", e.State().CurrentFocusID)

	m := e.Metrics()
	assert.Equal(t, 2, m.RegistrySize)
	assert.Equal(t, uint64(1), m.StaleReferences)
}

func TestStaleOriginFallsBackToGroup(t *testing.T) {
	e, _ := newTestEngine(t)
	a := tile(0, 0)
	register(t, e, "a", "content", a)
	register(t, e, "b", "content", tile(100, 0))
	e.SwitchGroup("content")
	e.InvalidateGeometry()

	a.Detach()
	assert.True(t, e.Navigate(types.DirectionRight))
	assert.Equal(t, "b", e.State().CurrentFocusID)
	assert.Equal(t, 1, e.Metrics().RegistrySize)
}

func TestStaleActivationClearsFocus(t *testing.T) {
	e, _ := newTestEngine(t)
	a := tile(0, 0)
	register(t, e, "a", "content", a)
	e.SwitchGroup("content")

	a.Detach()
	assert.False(t, e.Activate())
	assert.Equal(t, "", e.State().CurrentFocusID)
	assert.Equal(t, 0, a.Activations())
}

func TestStalenessSweep(t *testing.T) {
	m := monitoring.NewMetrics()
	e, clock := newTestEngine(t, func(o *Options) { o.Metrics = m })
	register(t, e, "old", "content", tile(0, 0))
	register(t, e, "focused", "content", tile(100, 0))
	register(t, e, "kept", "content", tile(200, 0))
	e.SwitchGroup("content")
	e.Navigate(types.DirectionRight)
	require.Equal(t, "focused", e.State().CurrentFocusID)

	clock.Advance(45 * time.Second)
	assert.Equal(t, 1, e.Touch("kept", "missing"))

	clock.Advance(15 * time.Second)
	assert.Empty(t, e.ListByGroup("nope"))

	ids := make([]string, 0)
	for _, f := range e.ListByGroup("content") {
		ids = append(ids, f.ID)
	}
	assert.ElementsMatch(t, []string{"focused", "kept"}, ids)
	assert.Equal(t, "focused", e.State().CurrentFocusID)
	assert.Equal(t, uint64(1), e.Metrics().Evictions)

	// focused entry survives any age
	clock.Advance(10 * time.Minute)
	assert.Equal(t, []string{"focused"}, idsOf(e.ListByGroup("content")))
}

func idsOf(fs []registry.Focusable) []string {
	out := make([]string, len(fs))
	for i, f := range fs {
		out[i] = f.ID
	}
	return out
}

func TestSweepDisabled(t *testing.T) {
	e, clock := newTestEngine(t, func(o *Options) {
		o.Config.Geometry.StalenessWindow = 0
	})
	register(t, e, "a", "", tile(0, 0))

	clock.Advance(time.Hour)
	assert.Equal(t, 0, e.Sweep())
	assert.Equal(t, 1, e.Metrics().RegistrySize)
}

func TestPointerMoveClearsFocus(t *testing.T) {
	e, clock := newTestEngine(t)
	a := tile(0, 0)
	register(t, e, "a", "content", a)
	e.SwitchGroup("content")
	require.Equal(t, types.ModeDirectional, e.State().InputMode)

	e.HandlePointerMove(types.PointerEvent{X: 5, Y: 5})
	clock.Advance(50 * time.Millisecond)

	s := e.State()
	assert.Equal(t, types.ModePointer, s.InputMode)
	assert.Equal(t, "", s.CurrentFocusID)
	assert.False(t, a.Focused())
}

func TestPointerMoveInPointerModeIsNoop(t *testing.T) {
	e, _ := newTestEngine(t)
	a := tile(0, 0)
	register(t, e, "a", "", a)

	e.HandlePointerMove(types.PointerEvent{})
	assert.Equal(t, 0, a.FocusCalls())
}

func TestHandleKey(t *testing.T) {
	router := testutil.NewMockRouter(t)
	player := testutil.NewMockFeedbackPlayer(t)
	e, _ := newTestEngine(t, func(o *Options) {
		o.Router = router
		o.Feedback = player
		o.Config.Input.Shortcuts = map[string]string{"h": "/home"}
	})
	register(t, e, "a", "", tile(0, 0))
	register(t, e, "b", "", tile(100, 0))

	assert.False(t, e.HandleKey(types.KeyEvent{Key: "ArrowRight", Target: types.TargetTextInput}))
	assert.Equal(t, types.ModePointer, e.State().InputMode)

	assert.True(t, e.HandleKey(types.KeyEvent{Key: "ArrowRight"}))
	assert.Equal(t, types.ModeDirectional, e.State().InputMode)
	assert.Equal(t, "a", e.State().CurrentFocusID)

	assert.True(t, e.HandleKey(types.KeyEvent{Key: "ArrowRight"}))
	assert.Equal(t, "b", e.State().CurrentFocusID)

	assert.True(t, e.HandleKey(types.KeyEvent{Key: "Enter"}))
	assert.Equal(t, uint64(1), e.Metrics().Activations)

	assert.True(t, e.HandleKey(types.KeyEvent{Key: "Tab"}))
	assert.Equal(t, "content", e.State().CurrentGroup)
	assert.True(t, e.HandleKey(types.KeyEvent{Key: "Tab", Shift: true}))
	assert.Equal(t, "navigation", e.State().CurrentGroup)

	assert.True(t, e.HandleKey(types.KeyEvent{Key: "Escape"}))
	assert.True(t, e.HandleKey(types.KeyEvent{Key: "h"}))
	assert.False(t, e.HandleKey(types.KeyEvent{Key: "q"}))

	var kinds []types.IntentKind
	for _, in := range router.Intents() {
		kinds = append(kinds, in.Kind)
	}
	assert.Equal(t, []types.IntentKind{types.IntentGroup, types.IntentGroup, types.IntentBack, types.IntentRoute}, kinds)
	assert.Equal(t, "/home", router.Intents()[3].Target)
	player.AssertCalled(t, "OnBackFeedback")
}

func TestPerformanceThreshold(t *testing.T) {
	feed := func(e *Engine, start time.Time, fps int, frames int) {
		for i := 0; i <= frames; i++ {
			e.Frame(start.Add(time.Duration(i) * time.Second / time.Duration(fps)))
		}
	}

	t.Run("30 fps enables performance mode", func(t *testing.T) {
		e, clock := newTestEngine(t)
		feed(e, clock.Now(), 30, 40)

		s := e.State()
		assert.True(t, s.PerformanceMode)
		assert.InDelta(t, 30, s.FrameRate, 0.5)
		assert.Equal(t, 75*time.Millisecond, e.Profile().ActivationPulse)
	})

	t.Run("60 fps on capable device stays normal", func(t *testing.T) {
		e, clock := newTestEngine(t)
		feed(e, clock.Now(), 60, 130)

		s := e.State()
		assert.False(t, s.PerformanceMode)
		assert.InDelta(t, 60, s.FrameRate, 0.5)
		assert.Equal(t, 2, e.FrameStats().Windows)
	})

	t.Run("frame rate mode recovers", func(t *testing.T) {
		e, clock := newTestEngine(t)
		start := clock.Now()
		feed(e, start, 30, 40)
		require.True(t, e.State().PerformanceMode)

		feed(e, start.Add(2*time.Second), 60, 70)
		assert.False(t, e.State().PerformanceMode)
	})
}

func TestCapabilityProbe(t *testing.T) {
	t.Run("low capability is sticky", func(t *testing.T) {
		e, clock := newTestEngine(t, func(o *Options) {
			o.Probe = performance.StaticProbe{Capabilities: types.Capabilities{Cores: 2, MemoryGB: 1}}
		})
		require.True(t, e.State().PerformanceMode)

		start := clock.Now()
		for i := 0; i <= 130; i++ {
			e.Frame(start.Add(time.Duration(i) * time.Second / 60))
		}
		assert.True(t, e.State().PerformanceMode)
	})

	t.Run("probe failure leaves capability unknown", func(t *testing.T) {
		e, _ := newTestEngine(t, func(o *Options) {
			o.Probe = performance.StaticProbe{Err: errors.New("no device memory api")}
		})
		assert.False(t, e.State().PerformanceMode)
	})

	t.Run("no probe", func(t *testing.T) {
		e, _ := newTestEngine(t, func(o *Options) { o.Probe = nil })
		assert.False(t, e.State().PerformanceMode)
	})
}

func TestFeedbackSuppressedInPerformanceMode(t *testing.T) {
	player := new(testutil.MockFeedbackPlayer)
	player.On("OnBackFeedback").Once()
	e, _ := newTestEngine(t, func(o *Options) {
		o.Feedback = player
		o.Probe = performance.StaticProbe{Capabilities: types.Capabilities{Cores: 1}}
	})
	register(t, e, "a", "", tile(0, 0))

	e.Navigate(types.DirectionDown)
	e.Activate()
	e.Back()

	player.AssertNotCalled(t, "OnFocusFeedback")
	player.AssertNotCalled(t, "OnSelectFeedback")
	player.AssertExpectations(t)
}

func TestFocusFeedbackPlays(t *testing.T) {
	player := new(testutil.MockFeedbackPlayer)
	player.On("OnFocusFeedback").Twice()
	e, _ := newTestEngine(t, func(o *Options) { o.Feedback = player })
	register(t, e, "a", "", tile(0, 0))
	register(t, e, "b", "", tile(100, 0))

	e.Navigate(types.DirectionRight)
	e.Navigate(types.DirectionRight)
	e.Navigate(types.DirectionRight)

	player.AssertExpectations(t)
}

type panickingPlayer struct{}

func (panickingPlayer) OnFocusFeedback()  { panic("speaker missing") }
func (panickingPlayer) OnSelectFeedback() { panic("speaker missing") }
func (panickingPlayer) OnBackFeedback()   { panic("speaker missing") }

func TestHostCallbackPanicsAreContained(t *testing.T) {
	m := monitoring.NewMetrics()
	e, _ := newTestEngine(t, func(o *Options) {
		o.Feedback = panickingPlayer{}
		o.Metrics = m
	})
	a := tile(0, 0)
	a.PanicOn("activate")
	register(t, e, "a", "", a)
	register(t, e, "b", "", tile(100, 0))

	assert.NotPanics(t, func() {
		e.Navigate(types.DirectionRight)
		e.Activate()
		e.Navigate(types.DirectionRight)
		e.Back()
	})
	assert.Equal(t, "b", e.State().CurrentFocusID)
}

func TestGamepadPolling(t *testing.T) {
	pad := types.GamepadState{Index: 0, Connected: true, Buttons: make([]bool, 16)}
	pads := []types.GamepadState{}
	source := func() []types.GamepadState { return pads }

	e, clock := newTestEngine(t, func(o *Options) {
		o.Gamepads = input.GamepadSourceFunc(source)
	})
	register(t, e, "a", "", tile(0, 0))
	register(t, e, "b", "", tile(100, 0))

	clock.Advance(100 * time.Millisecond)
	assert.Equal(t, types.ModePointer, e.State().InputMode)

	pads = []types.GamepadState{pad}
	clock.Advance(100 * time.Millisecond)
	assert.Equal(t, types.ModeGamepad, e.State().InputMode)

	pressed := pad
	pressed.Buttons = make([]bool, 16)
	pressed.Buttons[15] = true
	pads = []types.GamepadState{pressed}
	clock.Advance(100 * time.Millisecond)
	assert.Equal(t, "a", e.State().CurrentFocusID)

	pads = []types.GamepadState{pad}
	clock.Advance(100 * time.Millisecond)
	pads = []types.GamepadState{pressed}
	clock.Advance(100 * time.Millisecond)
	assert.Equal(t, "b", e.State().CurrentFocusID)
}

func TestSubscribe(t *testing.T) {
	e, _ := newTestEngine(t)
	register(t, e, "a", "", tile(0, 0))

	var got []types.State
	unsubscribe := e.Subscribe(func(s types.State) { got = append(got, s) })

	e.Navigate(types.DirectionRight)
	require.Len(t, got, 1)
	assert.Equal(t, "a", got[0].CurrentFocusID)
	assert.Equal(t, types.ModeDirectional, got[0].InputMode)

	// unchanged state is not re-sent
	e.Navigate(types.DirectionRight)
	assert.Len(t, got, 1)

	unsubscribe()
	unsubscribe()
	e.HandlePointerMove(types.PointerEvent{})
	assert.Len(t, got, 1)
}

func TestSetViewport(t *testing.T) {
	e, _ := newTestEngine(t)
	register(t, e, "a", "", tile(0, 0))

	assert.False(t, e.SetViewport(types.Size{}))
	assert.Equal(t, types.Size{Width: 1920, Height: 1080}, e.Viewport())

	assert.True(t, e.SetViewport(types.Size{Width: 800, Height: 600}))
	assert.Equal(t, types.Size{Width: 800, Height: 600}, e.Viewport())
	assert.Equal(t, 0, e.Metrics().CacheSize)
}

func TestCloseReleasesTimers(t *testing.T) {
	e, clock := newTestEngine(t, func(o *Options) {
		o.Gamepads = input.GamepadSourceFunc(func() []types.GamepadState { return nil })
	})
	register(t, e, "a", "", tile(0, 0))
	register(t, e, "b", "", tile(100, 0))
	e.Navigate(types.DirectionRight)
	e.Navigate(types.DirectionRight)
	e.Activate()
	require.Greater(t, clock.Pending(), 0)

	e.Close()
	e.Close()
	assert.True(t, e.Closed())
	assert.Equal(t, 0, clock.Pending())

	assert.False(t, e.Navigate(types.DirectionLeft))
	assert.False(t, e.Register(registry.Focusable{ID: "c", Region: tile(0, 100)}))
	assert.Equal(t, "b", e.State().CurrentFocusID)
}

func TestGamepadPollingSlowsInPerformanceMode(t *testing.T) {
	polls := 0
	e, clock := newTestEngine(t, func(o *Options) {
		o.Gamepads = input.GamepadSourceFunc(func() []types.GamepadState {
			polls++
			return nil
		})
	})

	clock.Advance(time.Second)
	assert.Equal(t, 10, polls)

	start := clock.Now()
	for i := 0; i <= 31; i++ {
		e.Frame(start.Add(time.Duration(i) * time.Second / 30))
	}
	require.True(t, e.State().PerformanceMode)
	assert.Equal(t, 200*time.Millisecond, e.Profile().GamepadPollInterval)

	polls = 0
	clock.Advance(time.Second)
	assert.Equal(t, 5, polls)
}

func TestActivateUnmountingRegionSkipsPulse(t *testing.T) {
	e, clock := newTestEngine(t)
	dialog := tile(0, 0)
	register(t, e, "dialog", "content", dialog)
	register(t, e, "other", "content", tile(100, 0))
	e.SwitchGroup("content")
	require.Equal(t, "dialog", e.State().CurrentFocusID)

	dialog.OnActivate(func() { e.Unregister("dialog") })

	assert.True(t, e.Activate())
	assert.Equal(t, 1, dialog.Activations())
	assert.Equal(t, 0, dialog.PulseCalls())

	m := e.Metrics()
	assert.Equal(t, 1, m.RegistrySize)
	assert.Equal(t, 0, m.PendingPulses)
	assert.Equal(t, uint64(1), m.Activations)
	assert.Equal(t, "", e.State().CurrentFocusID)

	clock.Advance(time.Second)
	assert.Equal(t, 0, dialog.PulseCalls())
}

func TestSweepReportsEvictions(t *testing.T) {
	var evicted [][]string
	e, clock := newTestEngine(t, func(o *Options) {
		o.OnEvict = func(ids []string) { evicted = append(evicted, ids) }
	})
	register(t, e, "a", "content", tile(0, 0))
	register(t, e, "b", "content", tile(100, 0))
	register(t, e, "c", "content", tile(200, 0))
	e.SwitchGroup("content")

	clock.Advance(45 * time.Second)
	e.Touch("c")
	clock.Advance(15 * time.Second)

	require.Len(t, evicted, 1)
	assert.Equal(t, []string{"b"}, evicted[0])

	// nothing stale, no callback
	assert.Equal(t, 0, e.Sweep())
	assert.Len(t, evicted, 1)
}
