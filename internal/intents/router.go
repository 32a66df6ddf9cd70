package intents

import (
	"sync"

	"github.com/GriffinCanCode/AgentOS/spatialnav/internal/shared/types"
	"go.uber.org/zap"
)

// Envelope is an intent tagged with the session that produced it
type Envelope struct {
	SessionID string       `json:"session_id,omitempty"`
	Intent    types.Intent `json:"intent"`
}

// Sink receives intents. Publish must not block.
type Sink interface {
	Publish(env Envelope)
}

// SinkFunc adapts a function to Sink
type SinkFunc func(env Envelope)

// Publish calls f
func (f SinkFunc) Publish(env Envelope) { f(env) }

// Router fans intents out to sinks. It satisfies engine.Router.
type Router struct {
	session string
	logger  *zap.Logger

	mu    sync.RWMutex
	sinks []Sink
}

// NewRouter creates a router for session
func NewRouter(session string, logger *zap.Logger, sinks ...Sink) *Router {
	if logger == nil {
		logger = zap.NewNop()
	}
	r := &Router{
		session: session,
		logger:  logger,
	}
	for _, s := range sinks {
		r.Add(s)
	}
	return r
}

// Add registers another sink. Nil sinks are ignored.
func (r *Router) Add(s Sink) {
	if s == nil {
		return
	}
	r.mu.Lock()
	r.sinks = append(r.sinks, s)
	r.mu.Unlock()
}

// Len returns the number of sinks
func (r *Router) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.sinks)
}

// RequestNavigation publishes intent to every sink in registration order
func (r *Router) RequestNavigation(intent types.Intent) {
	env := Envelope{SessionID: r.session, Intent: intent}

	r.mu.RLock()
	sinks := make([]Sink, len(r.sinks))
	copy(sinks, r.sinks)
	r.mu.RUnlock()

	if len(sinks) == 0 {
		r.logger.Debug("Intent has no sinks", zap.String("kind", string(intent.Kind)))
		return
	}
	for _, s := range sinks {
		s.Publish(env)
	}
}
