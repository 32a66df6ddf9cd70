package ws

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/GriffinCanCode/AgentOS/spatialnav/internal/domain/engine"
	"github.com/GriffinCanCode/AgentOS/spatialnav/internal/domain/input"
	"github.com/GriffinCanCode/AgentOS/spatialnav/internal/domain/performance"
	"github.com/GriffinCanCode/AgentOS/spatialnav/internal/infrastructure/monitoring"
	"github.com/GriffinCanCode/AgentOS/spatialnav/internal/intents"
	"github.com/GriffinCanCode/AgentOS/spatialnav/internal/runtime"
	"github.com/GriffinCanCode/AgentOS/spatialnav/internal/shared/types"
	"github.com/bytedance/sonic"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 64 * 1024
	outboxSize     = 256
	loopQueueSize  = 256
	closeTimeout   = 2 * time.Second
)

// ErrSessionClosed is returned when calling into a closed session
var ErrSessionClosed = errors.New("session closed")

// Info describes a session for the control API
type Info struct {
	ID        string      `json:"id"`
	CreatedAt time.Time   `json:"created_at"`
	State     types.State `json:"state"`
}

// Session is one remote host connection and the engine serving it
type Session struct {
	id        string
	createdAt time.Time
	hub       *Hub
	conn      *websocket.Conn
	loop      *runtime.Loop
	engine    *engine.Engine
	logger    *zap.Logger
	metrics   *monitoring.Metrics

	// loop-owned
	regions map[string]*RemoteRegion
	pads    []types.GamepadState

	out       chan Message
	done      chan struct{}
	closeOnce sync.Once
}

func newSession(h *Hub, conn *websocket.Conn, probe performance.CapabilityProbe) (*Session, error) {
	id := uuid.NewString()
	s := &Session{
		id:        id,
		createdAt: time.Now(),
		hub:       h,
		conn:      conn,
		logger:    h.logger.With(zap.String("session_id", id)),
		metrics:   h.metrics,
		regions:   make(map[string]*RemoteRegion),
		out:       make(chan Message, outboxSize),
		done:      make(chan struct{}),
	}
	s.loop = runtime.NewLoop(loopQueueSize, s.logger)

	sinks := append([]intents.Sink{intents.SinkFunc(s.forwardIntent)}, h.sinks...)
	eng, err := engine.New(engine.Options{
		Config:    h.cfg,
		Scheduler: s.loop,
		Logger:    s.logger.Named("engine"),
		Metrics:   h.metrics,
		Tracer:    h.tracer,
		Feedback:  s,
		Router:    intents.NewRouter(id, s.logger, sinks...),
		Probe:     probe,
		Gamepads:  input.GamepadSourceFunc(func() []types.GamepadState { return s.pads }),
		OnEvict:   s.evicted,
	})
	if err != nil {
		return nil, err
	}
	s.engine = eng
	eng.Subscribe(func(st types.State) {
		s.send(Message{Type: TypeState, State: &st})
	})
	return s, nil
}

// ID returns the session identifier
func (s *Session) ID() string {
	return s.id
}

// CreatedAt returns when the host connected
func (s *Session) CreatedAt() time.Time {
	return s.createdAt
}

// Do runs fn with the session's engine on the engine's goroutine
func (s *Session) Do(ctx context.Context, fn func(e *engine.Engine)) error {
	select {
	case <-s.done:
		return ErrSessionClosed
	default:
	}
	if err := s.loop.Do(ctx, func() { fn(s.engine) }); err != nil {
		if errors.Is(err, runtime.ErrStopped) {
			return ErrSessionClosed
		}
		return err
	}
	return nil
}

// Info returns a snapshot of the session
func (s *Session) Info(ctx context.Context) (Info, error) {
	info := Info{ID: s.id, CreatedAt: s.createdAt}
	err := s.Do(ctx, func(e *engine.Engine) { info.State = e.State() })
	return info, err
}

// run drives the session until the connection drops or ctx ends
func (s *Session) run(ctx context.Context) {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	go s.loop.Run(ctx)
	go s.writePump()

	s.loop.Post(func() {
		st := s.engine.State()
		profile := s.engine.Profile()
		s.send(Message{Type: TypeWelcome, SessionID: s.id, State: &st, Profile: &profile})
	})

	s.readPump()
	s.Close()
}

// Close stops the engine and its loop, then drops the connection.
// Safe to call more than once and from any goroutine but the loop's.
func (s *Session) Close() {
	s.closeOnce.Do(func() {
		ctx, cancel := context.WithTimeout(context.Background(), closeTimeout)
		defer cancel()
		err := s.loop.Do(ctx, s.engine.Close)
		s.loop.Stop()
		switch {
		case errors.Is(err, runtime.ErrStopped):
			// loop already gone, nothing else can touch the engine
			s.engine.Close()
		case err != nil:
			s.logger.Warn("Engine close did not complete", zap.Error(err))
		}

		close(s.done)
		msg := websocket.FormatCloseMessage(websocket.CloseGoingAway, "session closed")
		_ = s.conn.WriteControl(websocket.CloseMessage, msg, time.Now().Add(writeWait))
		s.conn.Close()
		s.hub.remove(s)
		s.logger.Info("Session closed")
	})
}

func (s *Session) readPump() {
	s.conn.SetReadLimit(maxMessageSize)
	s.conn.SetReadDeadline(time.Now().Add(pongWait))
	s.conn.SetPongHandler(func(string) error {
		return s.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		_, data, err := s.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				s.logger.Warn("WebSocket read error", zap.Error(err))
			}
			return
		}

		var msg Message
		if err := sonic.Unmarshal(data, &msg); err != nil {
			s.metrics.RecordWSMessage("in", "invalid")
			s.send(Message{Type: TypeError, Error: "invalid message"})
			continue
		}
		s.metrics.RecordWSMessage("in", msg.Type)

		if err := s.loop.Post(func() { s.handle(msg) }); err != nil {
			return
		}
	}
}

func (s *Session) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer ticker.Stop()

	for {
		select {
		case <-s.done:
			return
		case msg := <-s.out:
			data, err := sonic.Marshal(msg)
			if err != nil {
				s.logger.Error("Failed to encode message", zap.String("type", msg.Type), zap.Error(err))
				continue
			}
			s.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := s.conn.WriteMessage(websocket.TextMessage, data); err != nil {
				s.logger.Debug("WebSocket write failed", zap.Error(err))
				s.conn.Close()
				return
			}
		case <-ticker.C:
			if err := s.conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(writeWait)); err != nil {
				s.conn.Close()
				return
			}
		}
	}
}

// send queues msg for the host without blocking the engine
func (s *Session) send(msg Message) {
	select {
	case <-s.done:
		return
	default:
	}

	select {
	case s.out <- msg:
		s.metrics.RecordWSMessage("out", msg.Type)
	default:
		s.metrics.RecordWSMessage("out", "dropped")
		s.logger.Warn("Outbox full, dropping message", zap.String("type", msg.Type))
	}
}

// handle runs one inbound message on the loop
func (s *Session) handle(msg Message) {
	e := s.engine
	switch msg.Type {
	case TypeRegister:
		s.register(msg)
	case TypeUnregister:
		if r, ok := s.regions[msg.ID]; ok {
			r.detached = true
			delete(s.regions, msg.ID)
		}
		e.Unregister(msg.ID)
	case TypeTouch:
		e.Touch(msg.IDs...)
	case TypeKey:
		if msg.Key != nil {
			e.HandleKey(*msg.Key)
		}
	case TypePointer:
		var ev types.PointerEvent
		if msg.Pointer != nil {
			ev = *msg.Pointer
		}
		e.HandlePointerMove(ev)
	case TypeFrame:
		e.Frame(time.Unix(0, 0).Add(time.Duration(msg.Timestamp * float64(time.Millisecond))))
	case TypeGamepad:
		s.pads = msg.Pads
		e.PollGamepads()
	case TypeViewport:
		if msg.Viewport == nil || !e.SetViewport(*msg.Viewport) {
			s.send(Message{Type: TypeError, Error: "invalid viewport"})
		}
	case TypeNavigate:
		e.Navigate(types.Direction(msg.Direction))
	case TypeActivate:
		e.Activate()
	case TypeGroup:
		e.SwitchGroup(msg.Group)
	case TypeCycle:
		e.CycleGroup(msg.Step)
	case TypeBack:
		e.Back()
	case TypeInvalidate:
		e.InvalidateGeometry()
	case TypePing:
		s.send(Message{Type: TypePong})
	default:
		s.send(Message{Type: TypeError, Error: "unknown message type"})
	}
}

func (s *Session) register(msg Message) {
	if msg.Bounds == nil {
		s.send(Message{Type: TypeError, ID: msg.ID, Error: "register requires bounds"})
		return
	}

	r, ok := s.regions[msg.ID]
	if !ok {
		r = &RemoteRegion{id: msg.ID, session: s}
	}
	r.group = msg.Group
	r.priority = msg.Priority
	r.bounds = *msg.Bounds
	r.detached = false

	if !s.engine.Register(r.focusable()) {
		s.send(Message{Type: TypeError, ID: msg.ID, Error: "registration rejected"})
		return
	}
	s.regions[msg.ID] = r
}

// evicted drops regions the staleness sweep removed and tells the host,
// which must register them again to make them reachable
func (s *Session) evicted(ids []string) {
	for _, id := range ids {
		if r, ok := s.regions[id]; ok {
			r.detached = true
			delete(s.regions, id)
		}
	}
	s.send(Message{Type: TypeEvicted, IDs: ids})
}

// OnFocusFeedback forwards the focus cue
func (s *Session) OnFocusFeedback() {
	s.send(Message{Type: TypeFeedback, Feedback: "focus"})
}

// OnSelectFeedback forwards the select cue
func (s *Session) OnSelectFeedback() {
	s.send(Message{Type: TypeFeedback, Feedback: "select"})
}

// OnBackFeedback forwards the back cue
func (s *Session) OnBackFeedback() {
	s.send(Message{Type: TypeFeedback, Feedback: "back"})
}

func (s *Session) forwardIntent(env intents.Envelope) {
	intent := env.Intent
	s.send(Message{Type: TypeIntent, Intent: &intent})
}
