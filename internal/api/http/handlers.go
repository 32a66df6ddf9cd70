package http

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/GriffinCanCode/AgentOS/spatialnav/internal/api/ws"
	"github.com/GriffinCanCode/AgentOS/spatialnav/internal/domain/engine"
	"github.com/GriffinCanCode/AgentOS/spatialnav/internal/domain/performance"
	"github.com/GriffinCanCode/AgentOS/spatialnav/internal/infrastructure/monitoring"
	"github.com/GriffinCanCode/AgentOS/spatialnav/internal/shared/types"
	"github.com/GriffinCanCode/AgentOS/spatialnav/internal/shared/utils"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const (
	serviceName    = "spatialnav"
	serviceVersion = "0.1.0"

	// DefaultCallTimeout bounds how long a request waits for a session loop
	DefaultCallTimeout = 2 * time.Second
)

// Handlers contains all HTTP handlers
type Handlers struct {
	hub     *ws.Hub
	metrics *monitoring.Metrics
	logger  *zap.Logger
	timeout time.Duration
	started time.Time
}

// NewHandlers creates a new handler set
func NewHandlers(hub *ws.Hub, metrics *monitoring.Metrics, logger *zap.Logger) *Handlers {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handlers{
		hub:     hub,
		metrics: metrics,
		logger:  logger,
		timeout: DefaultCallTimeout,
		started: time.Now(),
	}
}

// WithTimeout overrides the per-request loop timeout
func (h *Handlers) WithTimeout(d time.Duration) *Handlers {
	if d > 0 {
		h.timeout = d
	}
	return h
}

// RegisterRoutes attaches every control route to r
func (h *Handlers) RegisterRoutes(r gin.IRoutes) {
	r.GET("/", h.Root)
	r.GET("/health", h.Health)
	r.GET("/metrics/summary", h.Summary)

	r.GET("/sessions", h.ListSessions)
	r.GET("/sessions/:id/state", h.State)
	r.GET("/sessions/:id/diagnostics", h.Diagnostics)
	r.POST("/sessions/:id/navigate/:direction", h.Navigate)
	r.POST("/sessions/:id/activate", h.Activate)
	r.POST("/sessions/:id/back", h.Back)
	r.POST("/sessions/:id/groups/:name", h.SwitchGroup)
	r.POST("/sessions/:id/cycle/:step", h.CycleGroup)
	r.POST("/sessions/:id/invalidate", h.Invalidate)
	r.DELETE("/sessions/:id", h.CloseSession)
}

// Root handles the service banner
func (h *Handlers) Root(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "online",
		"service": serviceName,
		"version": serviceVersion,
	})
}

// Health handles detailed health check
func (h *Handlers) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":         "healthy",
		"sessions":       h.hub.Len(),
		"uptime_seconds": time.Since(h.started).Seconds(),
	})
}

// ListSessions lists live host sessions, oldest first
func (h *Handlers) ListSessions(c *gin.Context) {
	sessions := h.hub.Sessions()
	infos := make([]ws.Info, 0, len(sessions))
	for _, s := range sessions {
		ctx, cancel := context.WithTimeout(c.Request.Context(), h.timeout)
		info, err := s.Info(ctx)
		cancel()
		if err != nil {
			// closed between listing and the call
			continue
		}
		infos = append(infos, info)
	}

	c.JSON(http.StatusOK, gin.H{
		"sessions": infos,
		"count":    len(infos),
	})
}

// State returns the session's navigation state
func (h *Handlers) State(c *gin.Context) {
	s, ok := h.session(c)
	if !ok {
		return
	}
	var st types.State
	if !h.do(c, s, func(e *engine.Engine) { st = e.State() }) {
		return
	}
	c.JSON(http.StatusOK, st)
}

// Diagnostics returns engine counters, frame statistics and the active profile
func (h *Handlers) Diagnostics(c *gin.Context) {
	s, ok := h.session(c)
	if !ok {
		return
	}

	var (
		metrics  types.Metrics
		frames   performance.Stats
		profile  types.Profile
		viewport types.Size
	)
	if !h.do(c, s, func(e *engine.Engine) {
		metrics = e.Metrics()
		frames = e.FrameStats()
		profile = e.Profile()
		viewport = e.Viewport()
	}) {
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"session_id": s.ID(),
		"engine":     metrics,
		"frames":     frames,
		"profile":    profile,
		"viewport":   viewport,
	})
}

// Navigate moves focus one step in a direction
func (h *Handlers) Navigate(c *gin.Context) {
	dir, valid := types.ParseDirection(c.Param("direction"))
	if !valid {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid direction"})
		return
	}
	h.command(c, func(e *engine.Engine) bool { return e.Navigate(dir) })
}

// Activate activates the focused region
func (h *Handlers) Activate(c *gin.Context) {
	h.command(c, func(e *engine.Engine) bool { return e.Activate() })
}

// Back plays the back cue and emits a back intent
func (h *Handlers) Back(c *gin.Context) {
	h.command(c, func(e *engine.Engine) bool {
		e.Back()
		return true
	})
}

// SwitchGroup makes a group active and focuses its anchor
func (h *Handlers) SwitchGroup(c *gin.Context) {
	name := c.Param("name")
	if err := utils.ValidateGroup(name); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	h.command(c, func(e *engine.Engine) bool { return e.SwitchGroup(name) })
}

// CycleGroup moves through the group order by a signed step
func (h *Handlers) CycleGroup(c *gin.Context) {
	step, err := strconv.Atoi(c.Param("step"))
	if err != nil || step == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "step must be a non-zero integer"})
		return
	}
	h.command(c, func(e *engine.Engine) bool { return e.CycleGroup(step) })
}

// Invalidate drops every cached bound for the session
func (h *Handlers) Invalidate(c *gin.Context) {
	s, ok := h.session(c)
	if !ok {
		return
	}
	var dropped int
	if !h.do(c, s, func(e *engine.Engine) { dropped = e.InvalidateGeometry() }) {
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"success":    true,
		"session_id": s.ID(),
		"dropped":    dropped,
	})
}

// CloseSession disconnects the host and stops its engine
func (h *Handlers) CloseSession(c *gin.Context) {
	s, ok := h.session(c)
	if !ok {
		return
	}
	s.Close()
	h.logger.Info("Session closed via API", zap.String("session_id", s.ID()))

	c.JSON(http.StatusOK, gin.H{
		"success":    true,
		"session_id": s.ID(),
	})
}

// command runs fn on the session loop and reports its result with the new state
func (h *Handlers) command(c *gin.Context, fn func(e *engine.Engine) bool) {
	s, ok := h.session(c)
	if !ok {
		return
	}

	var (
		success bool
		st      types.State
	)
	if !h.do(c, s, func(e *engine.Engine) {
		success = fn(e)
		st = e.State()
	}) {
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": success,
		"state":   st,
	})
}

func (h *Handlers) session(c *gin.Context) (*ws.Session, bool) {
	id := c.Param("id")
	s, ok := h.hub.Get(id)
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{
			"error":      "session not found",
			"session_id": id,
		})
		return nil, false
	}
	return s, true
}

func (h *Handlers) do(c *gin.Context, s *ws.Session, fn func(e *engine.Engine)) bool {
	ctx, cancel := context.WithTimeout(c.Request.Context(), h.timeout)
	defer cancel()

	err := s.Do(ctx, fn)
	switch {
	case err == nil:
		return true
	case errors.Is(err, ws.ErrSessionClosed):
		c.JSON(http.StatusGone, gin.H{"error": err.Error(), "session_id": s.ID()})
	default:
		h.logger.Warn("Session call failed", zap.String("session_id", s.ID()), zap.Error(err))
		c.JSON(http.StatusGatewayTimeout, gin.H{"error": err.Error(), "session_id": s.ID()})
	}
	return false
}
