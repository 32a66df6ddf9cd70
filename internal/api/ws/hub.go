package ws

import (
	"context"
	"net/http"
	"sort"
	"strconv"
	"sync"

	"github.com/GriffinCanCode/AgentOS/spatialnav/internal/domain/performance"
	"github.com/GriffinCanCode/AgentOS/spatialnav/internal/infrastructure/config"
	"github.com/GriffinCanCode/AgentOS/spatialnav/internal/infrastructure/monitoring"
	"github.com/GriffinCanCode/AgentOS/spatialnav/internal/infrastructure/tracing"
	"github.com/GriffinCanCode/AgentOS/spatialnav/internal/intents"
	"github.com/GriffinCanCode/AgentOS/spatialnav/internal/shared/types"
	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

// HubOptions configures a Hub
type HubOptions struct {
	Config      *config.Config
	Logger      *zap.Logger
	Metrics     *monitoring.Metrics
	Tracer      *tracing.Tracer
	Sinks       []intents.Sink
	CheckOrigin func(r *http.Request) bool
}

// Hub accepts host connections and tracks their sessions
type Hub struct {
	cfg      *config.Config
	logger   *zap.Logger
	metrics  *monitoring.Metrics
	tracer   *tracing.Tracer
	sinks    []intents.Sink
	upgrader websocket.Upgrader

	ctx    context.Context
	cancel context.CancelFunc

	mu       sync.RWMutex
	sessions map[string]*Session
}

// NewHub creates a hub
func NewHub(opts HubOptions) *Hub {
	cfg := opts.Config
	if cfg == nil {
		cfg = config.Default()
	}
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	checkOrigin := opts.CheckOrigin
	if checkOrigin == nil {
		checkOrigin = func(r *http.Request) bool { return true }
	}

	ctx, cancel := context.WithCancel(context.Background())
	return &Hub{
		cfg:     cfg,
		logger:  logger,
		metrics: opts.Metrics,
		tracer:  opts.Tracer,
		sinks:   opts.Sinks,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  4096,
			WriteBufferSize: 4096,
			CheckOrigin:     checkOrigin,
		},
		ctx:      ctx,
		cancel:   cancel,
		sessions: make(map[string]*Session),
	}
}

// HandleConnection upgrades the request and serves a session until the
// host disconnects
func (h *Hub) HandleConnection(c *gin.Context) {
	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.logger.Warn("WebSocket upgrade failed", zap.Error(err))
		return
	}

	s, err := newSession(h, conn, probeFromQuery(c))
	if err != nil {
		h.logger.Error("Failed to start session", zap.Error(err))
		conn.WriteMessage(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseInternalServerErr, "engine unavailable"))
		conn.Close()
		return
	}

	h.mu.Lock()
	h.sessions[s.id] = s
	h.mu.Unlock()
	h.metrics.IncWSConnections()
	s.logger.Info("Session opened", zap.String("remote", c.ClientIP()))

	s.run(h.ctx)
}

// probeFromQuery reads ?cores=&memory_gb= from the upgrade request.
// Without either the capability stays unknown.
func probeFromQuery(c *gin.Context) performance.CapabilityProbe {
	var caps types.Capabilities
	if v, err := strconv.Atoi(c.Query("cores")); err == nil && v > 0 {
		caps.Cores = v
	}
	if v, err := strconv.ParseFloat(c.Query("memory_gb"), 64); err == nil && v > 0 {
		caps.MemoryGB = v
	}
	if caps == (types.Capabilities{}) {
		return nil
	}
	return performance.StaticProbe{Capabilities: caps}
}

func (h *Hub) remove(s *Session) {
	h.mu.Lock()
	_, ok := h.sessions[s.id]
	delete(h.sessions, s.id)
	h.mu.Unlock()
	if ok {
		h.metrics.DecWSConnections()
	}
}

// Get returns a live session
func (h *Hub) Get(id string) (*Session, bool) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	s, ok := h.sessions[id]
	return s, ok
}

// Sessions returns live sessions, oldest first
func (h *Hub) Sessions() []*Session {
	h.mu.RLock()
	out := make([]*Session, 0, len(h.sessions))
	for _, s := range h.sessions {
		out = append(out, s)
	}
	h.mu.RUnlock()

	sort.Slice(out, func(i, j int) bool { return out[i].createdAt.Before(out[j].createdAt) })
	return out
}

// Len returns the number of live sessions
func (h *Hub) Len() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.sessions)
}

// Close ends every session
func (h *Hub) Close() {
	h.cancel()
	for _, s := range h.Sessions() {
		s.Close()
	}
}
