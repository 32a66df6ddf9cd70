package performance

import (
	"time"

	"github.com/GriffinCanCode/AgentOS/spatialnav/internal/shared/types"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

const historySize = 60

// Settings configures the governor
type Settings struct {
	FPSThreshold float64
	SampleWindow time.Duration
	MinCores     int
	MinMemoryGB  float64
	Normal       types.Profile
	Reduced      types.Profile
}

// FrameResult reports what a Frame call changed
type FrameResult struct {
	WindowClosed bool
	FPS          float64
	ModeChanged  bool
}

// Stats summarizes recent sample windows
type Stats struct {
	Windows       int     `json:"windows"`
	LastFPS       float64 `json:"last_fps"`
	MeanFPS       float64 `json:"mean_fps"`
	StdDevFPS     float64 `json:"stddev_fps"`
	MinFPS        float64 `json:"min_fps"`
	CapabilityLow bool    `json:"capability_low"`
	FPSLow        bool    `json:"fps_low"`
}

// Governor tracks frame timing and device capability.
// Not safe for concurrent use.
type Governor struct {
	settings Settings

	windowStart time.Time
	lastFrame   time.Time
	frames      int
	started     bool

	fps           float64
	fpsLow        bool
	capabilityLow bool
	history       []float64
}

// NewGovernor creates a governor
func NewGovernor(settings Settings) *Governor {
	if settings.SampleWindow <= 0 {
		settings.SampleWindow = time.Second
	}
	return &Governor{
		settings: settings,
		history:  make([]float64, 0, historySize),
	}
}

// Frame records one animation frame at ts. A gap longer than a sample
// window (host hidden, tab in background) restarts the window instead of
// counting as a slow one.
func (g *Governor) Frame(ts time.Time) FrameResult {
	if g.started && ts.Sub(g.lastFrame) > g.settings.SampleWindow {
		g.restart()
	}
	g.lastFrame = ts

	if !g.started {
		g.started = true
		g.windowStart = ts
		g.frames = 0
		return FrameResult{}
	}

	g.frames++
	elapsed := ts.Sub(g.windowStart)
	if elapsed < g.settings.SampleWindow {
		return FrameResult{}
	}

	before := g.PerformanceMode()

	elapsedMs := float64(elapsed) / float64(time.Millisecond)
	g.fps = float64(g.frames) / elapsedMs * 1000
	g.fpsLow = g.fps < g.settings.FPSThreshold
	g.record(g.fps)

	g.windowStart = ts
	g.frames = 0

	return FrameResult{
		WindowClosed: true,
		FPS:          g.fps,
		ModeChanged:  before != g.PerformanceMode(),
	}
}

// restart discards the current partial window
func (g *Governor) restart() {
	g.started = false
	g.frames = 0
}

// ApplyCapabilities evaluates a probe result. Unknown (zero) values are
// ignored. It reports whether performance mode changed.
func (g *Governor) ApplyCapabilities(c types.Capabilities) bool {
	before := g.PerformanceMode()

	lowCores := c.Cores > 0 && c.Cores < g.settings.MinCores
	lowMemory := c.MemoryGB > 0 && c.MemoryGB < g.settings.MinMemoryGB
	if lowCores || lowMemory {
		g.capabilityLow = true
	}
	return before != g.PerformanceMode()
}

// PerformanceMode reports whether reduced fidelity is in effect
func (g *Governor) PerformanceMode() bool {
	return g.capabilityLow || g.fpsLow
}

// FrameRate returns the fps of the last closed window, 0 before the first
func (g *Governor) FrameRate() float64 {
	return g.fps
}

// Profile returns the fidelity settings for the current mode
func (g *Governor) Profile() types.Profile {
	if g.PerformanceMode() {
		return g.settings.Reduced
	}
	return g.settings.Normal
}

// Stats summarizes recent windows
func (g *Governor) Stats() Stats {
	s := Stats{
		Windows:       len(g.history),
		LastFPS:       g.fps,
		CapabilityLow: g.capabilityLow,
		FPSLow:        g.fpsLow,
	}
	if len(g.history) == 0 {
		return s
	}
	s.MeanFPS, s.StdDevFPS = stat.MeanStdDev(g.history, nil)
	s.MinFPS = floats.Min(g.history)
	return s
}

func (g *Governor) record(fps float64) {
	if len(g.history) == historySize {
		copy(g.history, g.history[1:])
		g.history = g.history[:historySize-1]
	}
	g.history = append(g.history, fps)
}
