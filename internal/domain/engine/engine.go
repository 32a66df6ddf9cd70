package engine

import (
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/GriffinCanCode/AgentOS/spatialnav/internal/domain/activation"
	"github.com/GriffinCanCode/AgentOS/spatialnav/internal/domain/geometry"
	"github.com/GriffinCanCode/AgentOS/spatialnav/internal/domain/groups"
	"github.com/GriffinCanCode/AgentOS/spatialnav/internal/domain/input"
	"github.com/GriffinCanCode/AgentOS/spatialnav/internal/domain/navigator"
	"github.com/GriffinCanCode/AgentOS/spatialnav/internal/domain/performance"
	"github.com/GriffinCanCode/AgentOS/spatialnav/internal/domain/registry"
	"github.com/GriffinCanCode/AgentOS/spatialnav/internal/infrastructure/config"
	"github.com/GriffinCanCode/AgentOS/spatialnav/internal/infrastructure/monitoring"
	"github.com/GriffinCanCode/AgentOS/spatialnav/internal/infrastructure/schedule"
	"github.com/GriffinCanCode/AgentOS/spatialnav/internal/infrastructure/tracing"
	"github.com/GriffinCanCode/AgentOS/spatialnav/internal/shared/id"
	"github.com/GriffinCanCode/AgentOS/spatialnav/internal/shared/types"
	"go.uber.org/zap"
)

// ErrNoScheduler is returned by New when Options.Scheduler is nil
var ErrNoScheduler = errors.New("engine requires a scheduler")

// Options configures an Engine. Everything except Scheduler is optional.
type Options struct {
	Config    *config.Config
	Scheduler schedule.Scheduler
	Logger    *zap.Logger
	Metrics   *monitoring.Metrics
	Tracer    *tracing.Tracer
	Feedback  FeedbackPlayer
	Router    Router
	Probe     performance.CapabilityProbe
	Gamepads  input.GamepadSource
	// OnEvict receives the ids the staleness sweep removed
	OnEvict func(ids []string)
}

// Engine is the spatial navigation state machine
type Engine struct {
	id      id.EngineID
	cfg     *config.Config
	sched   schedule.Scheduler
	logger  *zap.Logger
	metrics *monitoring.Metrics
	tracer  *tracing.Tracer

	feedback FeedbackPlayer
	router   Router
	gamepads input.GamepadSource
	onEvict  func(ids []string)
	guards   guards

	registry   *registry.Registry
	cache      *geometry.Cache
	arbiter    *input.Arbiter
	poller     *input.GamepadPoller
	switcher   *groups.Switcher
	activation *activation.Controller
	governor   *performance.Governor
	sweeper    *geometry.Sweeper
	params     navigator.Params

	focusID string
	group   string

	pollTimer    schedule.Timer
	pollInterval time.Duration
	clearTimer   schedule.Timer

	subscribers map[int]func(types.State)
	nextSub     int
	last        types.State

	navigations uint64
	evictions   uint64
	stale       uint64

	closed bool
}

// New creates an engine, probes device capabilities once and starts the
// staleness sweep and gamepad polling.
func New(opts Options) (*Engine, error) {
	if opts.Scheduler == nil {
		return nil, ErrNoScheduler
	}
	cfg := opts.Config
	if cfg == nil {
		cfg = config.Default()
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid engine config: %w", err)
	}

	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	engineID := id.NewEngineID()
	e := &Engine{
		id:       engineID,
		cfg:      cfg,
		sched:    opts.Scheduler,
		logger:   logger.With(zap.String("engine_id", engineID.String())),
		metrics:  opts.Metrics,
		tracer:   opts.Tracer,
		feedback: opts.Feedback,
		router:   opts.Router,
		gamepads: opts.Gamepads,
		onEvict:  opts.OnEvict,

		registry:   registry.New(),
		cache:      geometry.NewCache(cfg.Geometry.CacheTTL.Std(), opts.Scheduler.Now),
		arbiter:    input.NewArbiter(types.ModePointer, cfg.Navigation.PointerThrottleHz),
		switcher:   groups.NewSwitcher(cfg.Navigation.GroupOrder),
		governor:   performance.NewGovernor(governorSettings(cfg)),
		params: navigator.Params{
			DeadZone:        cfg.Navigation.DeadZone,
			AlignmentWeight: cfg.Navigation.AlignmentWeight,
			Viewport: types.Size{
				Width:  cfg.Navigation.ViewportWidth,
				Height: cfg.Navigation.ViewportHeight,
			},
		},
		poller: input.NewGamepadPoller(input.RepeatSettings{
			Delay:          cfg.Input.RepeatDelay.Std(),
			Interval:       cfg.Input.RepeatInterval.Std(),
			StickThreshold: cfg.Input.StickThreshold,
		}),

		group:       cfg.Navigation.HomeGroup,
		subscribers: make(map[int]func(types.State)),
	}
	e.guards = newGuards(e)
	e.activation = activation.NewController(e.sched, e.registry.Has)

	e.probe(opts.Probe)

	if cfg.Geometry.StalenessWindow > 0 {
		e.sweeper = geometry.NewSweeper(e.sched, cfg.Geometry.SweepInterval.Std(), func(_ time.Time) { e.Sweep() })
		e.sweeper.Start()
	}
	e.startPolling()

	e.last = e.State()
	e.logger.Info("Navigation engine started",
		zap.String("home_group", e.group),
		zap.Bool("performance_mode", e.governor.PerformanceMode()),
		zap.Bool("gamepad", e.gamepads != nil))
	return e, nil
}

func governorSettings(cfg *config.Config) performance.Settings {
	p := cfg.Performance
	return performance.Settings{
		FPSThreshold: p.FPSThreshold,
		SampleWindow: p.SampleWindow.Std(),
		MinCores:     p.MinCores,
		MinMemoryGB:  p.MinMemoryGB,
		Normal: types.Profile{
			FocusTransition:     p.FocusTransition.Std(),
			ActivationPulse:     p.ActivationPulse.Std(),
			FeedbackEnabled:     true,
			GamepadPollInterval: p.PollInterval.Std(),
		},
		Reduced: types.Profile{
			FocusTransition:     p.ReducedFocusTransition.Std(),
			ActivationPulse:     p.ReducedActivationPulse.Std(),
			FeedbackEnabled:     false,
			GamepadPollInterval: p.SlowPollInterval.Std(),
		},
	}
}

func (e *Engine) probe(p performance.CapabilityProbe) {
	if p == nil {
		e.logger.Debug("Capability probe disabled", zap.Error(performance.ErrProbeUnavailable))
		return
	}

	var caps types.Capabilities
	err := e.guards.probe.Call(func() error {
		var err error
		caps, err = p.Probe()
		return err
	})
	if err != nil {
		e.logger.Info("Capability probe failed, assuming capable device",
			zap.Error(fmt.Errorf("%w: %v", performance.ErrProbeUnavailable, err)))
		return
	}

	if e.governor.ApplyCapabilities(caps) {
		e.metrics.SetPerformanceMode(true)
		e.logger.Info("Performance mode enabled by device capabilities",
			zap.Int("cores", caps.Cores),
			zap.Float64("memory_gb", caps.MemoryGB))
	}
}

// ID returns the engine identifier
func (e *Engine) ID() id.EngineID {
	return e.id
}

// State returns a snapshot of the navigation state
func (e *Engine) State() types.State {
	return types.State{
		CurrentFocusID:  e.focusID,
		CurrentGroup:    e.group,
		InputMode:       e.arbiter.Mode(),
		PerformanceMode: e.governor.PerformanceMode(),
		FrameRate:       e.governor.FrameRate(),
	}
}

// Metrics returns diagnostics for the engine
func (e *Engine) Metrics() types.Metrics {
	return types.Metrics{
		RegistrySize:    e.registry.Len(),
		CacheSize:       e.cache.Len(),
		InputMode:       e.arbiter.Mode(),
		PerformanceMode: e.governor.PerformanceMode(),
		FrameRate:       e.governor.FrameRate(),
		CurrentGroup:    e.group,
		Groups:          e.registry.Groups(),
		Navigations:     e.navigations,
		Activations:     e.activation.Activations(),
		Evictions:       e.evictions,
		StaleReferences: e.stale,
		PendingPulses:   e.activation.Pending(),
	}
}

// Profile returns animation and polling settings for the current mode
func (e *Engine) Profile() types.Profile {
	return e.governor.Profile()
}

// FrameStats summarizes recent frame rate windows
func (e *Engine) FrameStats() performance.Stats {
	return e.governor.Stats()
}

// Subscribe registers fn to receive every state change. The returned func
// removes the subscription and may be called more than once.
func (e *Engine) Subscribe(fn func(types.State)) func() {
	if e.closed || fn == nil {
		return func() {}
	}
	key := e.nextSub
	e.nextSub++
	e.subscribers[key] = fn
	return func() { delete(e.subscribers, key) }
}

// notify pushes the current state to subscribers if it changed
func (e *Engine) notify() {
	s := e.State()
	if s == e.last {
		return
	}
	e.last = s

	keys := make([]int, 0, len(e.subscribers))
	for k := range e.subscribers {
		keys = append(keys, k)
	}
	sort.Ints(keys)
	for _, k := range keys {
		fn, ok := e.subscribers[k]
		if !ok {
			continue
		}
		e.guarded(e.guards.subscriber, func() { fn(s) })
	}
}

// Close stops every timer and subscription. Later calls are no-ops, and
// every other method becomes a no-op once closed.
func (e *Engine) Close() {
	if e.closed {
		return
	}
	e.closed = true

	if e.sweeper != nil {
		e.sweeper.Stop()
	}
	schedule.StopAll(e.pollTimer, e.clearTimer)
	e.pollTimer, e.clearTimer = nil, nil
	e.arbiter.CancelClear(e.sched.Now())
	e.activation.Close()

	e.subscribers = make(map[int]func(types.State))
	if e.governor.PerformanceMode() {
		e.metrics.SetPerformanceMode(false)
	}
	e.metrics.AddRegisteredRegions(-e.registry.Len())

	e.logger.Info("Navigation engine closed",
		zap.Int("registered", e.registry.Len()),
		zap.Uint64("navigations", e.navigations))
}

// Closed reports whether Close has run
func (e *Engine) Closed() bool {
	return e.closed
}
