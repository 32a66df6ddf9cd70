package terminal

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/GriffinCanCode/AgentOS/spatialnav/internal/domain/engine"
	"github.com/GriffinCanCode/AgentOS/spatialnav/internal/domain/performance"
	"github.com/GriffinCanCode/AgentOS/spatialnav/internal/infrastructure/config"
	"github.com/GriffinCanCode/AgentOS/spatialnav/internal/infrastructure/monitoring"
	"github.com/GriffinCanCode/AgentOS/spatialnav/internal/infrastructure/schedule"
	"github.com/GriffinCanCode/AgentOS/spatialnav/internal/infrastructure/tracing"
	"github.com/GriffinCanCode/AgentOS/spatialnav/internal/intents"
	"github.com/GriffinCanCode/AgentOS/spatialnav/internal/runtime"
	"github.com/GriffinCanCode/AgentOS/spatialnav/internal/shared/types"
	"github.com/gdamore/tcell/v2"
	"go.uber.org/zap"
)

const (
	defaultFrameInterval = 16 * time.Millisecond
	loopQueueSize        = 256
	closeTimeout         = 2 * time.Second
)

// Options configures a Host
type Options struct {
	Config  *config.Config
	Logger  *zap.Logger
	Metrics *monitoring.Metrics
	Tracer  *tracing.Tracer
	// Probe defaults to the machine running the demo
	Probe performance.CapabilityProbe
	// FrameInterval is how often a frame is reported and the screen redrawn
	FrameInterval time.Duration
}

// Host renders tiles on a tcell screen and feeds its events to an engine
type Host struct {
	screen        tcell.Screen
	cfg           *config.Config
	loop          *runtime.Loop
	engine        *engine.Engine
	logger        *zap.Logger
	frameInterval time.Duration

	// loop-owned
	tiles   []*Tile
	byID    map[string]*Tile
	buttons tcell.ButtonMask
	status  string
	frames  schedule.Timer

	quit     chan struct{}
	quitOnce sync.Once
}

// New creates a host on an initialized screen
func New(screen tcell.Screen, opts Options) (*Host, error) {
	cfg := opts.Config
	if cfg == nil {
		cfg = config.Default()
	}
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	probe := opts.Probe
	if probe == nil {
		probe = performance.SystemProbe{}
	}
	interval := opts.FrameInterval
	if interval <= 0 {
		interval = defaultFrameInterval
	}

	h := &Host{
		screen:        screen,
		cfg:           cfg,
		logger:        logger,
		frameInterval: interval,
		byID:          make(map[string]*Tile),
		quit:          make(chan struct{}),
	}
	h.loop = runtime.NewLoop(loopQueueSize, logger)

	eng, err := engine.New(engine.Options{
		Config:    cfg,
		Scheduler: h.loop,
		Logger:    logger.Named("engine"),
		Metrics:   opts.Metrics,
		Tracer:    opts.Tracer,
		Feedback:  h,
		Router:    intents.NewRouter("terminal", logger, intents.SinkFunc(h.onIntent)),
		Probe:     probe,
		OnEvict:   h.onEvict,
	})
	if err != nil {
		return nil, err
	}
	h.engine = eng
	return h, nil
}

// Do runs fn with the engine on the host loop
func (h *Host) Do(ctx context.Context, fn func(e *engine.Engine)) error {
	return h.loop.Do(ctx, func() { fn(h.engine) })
}

// Run lays out the tiles, focuses the home group and serves screen events
// until ctx is done or the user quits. The caller finalizes the screen.
func (h *Host) Run(ctx context.Context) error {
	loopCtx, cancelLoop := context.WithCancel(context.Background())
	defer cancelLoop()
	go h.loop.Run(loopCtx)

	h.screen.EnableMouse()
	h.screen.HideCursor()

	if err := h.loop.Do(ctx, h.start); err != nil {
		h.shutdown()
		return err
	}
	go h.pump()
	h.logger.Info("Terminal host started", zap.Int("tiles", len(h.byID)))

	select {
	case <-ctx.Done():
	case <-h.quit:
	}
	h.shutdown()
	return nil
}

func (h *Host) start() {
	h.relayout()
	h.engine.SwitchGroup(h.cfg.Navigation.HomeGroup)
	h.frames = h.loop.Every(h.frameInterval, h.tick)
	h.draw()
}

func (h *Host) stop() {
	h.quitOnce.Do(func() { close(h.quit) })
}

func (h *Host) shutdown() {
	ctx, cancel := context.WithTimeout(context.Background(), closeTimeout)
	defer cancel()

	err := h.loop.Do(ctx, func() {
		if h.frames != nil {
			h.frames.Stop()
		}
		h.engine.Close()
	})
	if err != nil {
		h.logger.Warn("Engine close did not complete", zap.Error(err))
	}
	h.loop.Stop()
	h.logger.Info("Terminal host stopped")
}

// pump moves screen events onto the loop until the screen is finalized
func (h *Host) pump() {
	for {
		ev := h.screen.PollEvent()
		if ev == nil {
			return
		}
		if err := h.loop.Post(func() { h.handle(ev) }); err != nil {
			return
		}
	}
}

// tick reports a frame and keeps every tile alive for the staleness sweep;
// tiles stay mounted for the life of the host
func (h *Host) tick() {
	h.engine.Touch(h.ids()...)
	h.engine.Frame(h.loop.Now())
	h.draw()
}

func (h *Host) ids() []string {
	ids := make([]string, len(h.tiles))
	for i, t := range h.tiles {
		ids[i] = t.ID
	}
	return ids
}

// onEvict puts back tiles the sweep dropped, which happens when frames stall
// for longer than the staleness window
func (h *Host) onEvict(ids []string) {
	h.logger.Warn("Tiles evicted by staleness sweep", zap.Strings("ids", ids))
	// runs after the sweep returns; a Post from the loop itself could block
	h.loop.AfterFunc(0, func() {
		for _, id := range ids {
			if t, ok := h.byID[id]; ok {
				h.engine.Register(t.focusable())
			}
		}
	})
}

func (h *Host) handle(ev tcell.Event) {
	switch ev := ev.(type) {
	case *tcell.EventKey:
		if isQuit(ev) {
			h.stop()
			return
		}
		if key, ok := keyEvent(ev); ok {
			h.engine.HandleKey(key)
		}
	case *tcell.EventMouse:
		x, y := ev.Position()
		px, py := toPixels(x, y)
		h.engine.HandlePointerMove(types.PointerEvent{X: px, Y: py})

		pressed := ev.Buttons()&tcell.Button1 != 0 && h.buttons&tcell.Button1 == 0
		h.buttons = ev.Buttons()
		if pressed {
			if t := h.tileAt(x, y); t != nil {
				t.Activate()
				h.status = "clicked " + t.Label
			}
		}
	case *tcell.EventResize:
		h.screen.Sync()
		h.relayout()
	}
	h.draw()
}

// relayout positions tiles for the current screen size, registering new
// ones, and drops cached geometry. The engine sees pixel-equivalent units.
func (h *Host) relayout() {
	w, hgt := h.screen.Size()
	for _, spec := range Layout(w, hgt) {
		t, ok := h.byID[spec.ID]
		if !ok {
			t = &Tile{ID: spec.ID, Group: spec.Group, Label: spec.Label}
			h.byID[spec.ID] = t
			h.tiles = append(h.tiles, t)
		}
		t.rect = spec.Rect
		if !ok && !h.engine.Register(t.focusable()) {
			h.logger.Warn("Tile rejected", zap.String("id", t.ID))
		}
	}
	vw, vh := toPixels(w, hgt)
	h.engine.SetViewport(types.Size{Width: vw, Height: vh})
	h.engine.InvalidateGeometry()
}

func (h *Host) tileAt(x, y int) *Tile {
	for _, t := range h.tiles {
		if t.contains(x, y) {
			return t
		}
	}
	return nil
}

// OnFocusFeedback is silent in a terminal
func (h *Host) OnFocusFeedback() {}

// OnSelectFeedback rings the bell
func (h *Host) OnSelectFeedback() {
	h.screen.Beep()
}

// OnBackFeedback shows the cue in the status line
func (h *Host) OnBackFeedback() {
	h.status = "back"
}

func (h *Host) onIntent(env intents.Envelope) {
	switch env.Intent.Kind {
	case types.IntentBack:
		h.status = "intent: back"
	default:
		h.status = fmt.Sprintf("intent: %s %s", env.Intent.Kind, env.Intent.Target)
	}
}
