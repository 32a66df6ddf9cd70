package server

import (
	"context"
	"errors"
	"net"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/klauspost/compress/gzhttp"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	apihttp "github.com/GriffinCanCode/AgentOS/spatialnav/internal/api/http"
	"github.com/GriffinCanCode/AgentOS/spatialnav/internal/api/middleware"
	"github.com/GriffinCanCode/AgentOS/spatialnav/internal/api/ws"
	"github.com/GriffinCanCode/AgentOS/spatialnav/internal/infrastructure/config"
	"github.com/GriffinCanCode/AgentOS/spatialnav/internal/infrastructure/logging"
	"github.com/GriffinCanCode/AgentOS/spatialnav/internal/infrastructure/monitoring"
	"github.com/GriffinCanCode/AgentOS/spatialnav/internal/infrastructure/tracing"
	"github.com/GriffinCanCode/AgentOS/spatialnav/internal/intents"
)

const defaultShutdownTimeout = 10 * time.Second

// Server wraps the HTTP server and dependencies
type Server struct {
	config  *config.Config
	logger  *logging.Logger
	metrics *monitoring.Metrics
	tracer  *tracing.Tracer
	hub     *ws.Hub
	webhook *intents.Webhook
	router  *gin.Engine
	handler http.Handler
	http    *http.Server
}

// Option customizes a Server
type Option func(*Server)

// WithLogger replaces the logger built from the config
func WithLogger(logger *logging.Logger) Option {
	return func(s *Server) { s.logger = logger }
}

// NewServer creates a new server instance
func NewServer(cfg *config.Config, opts ...Option) (*Server, error) {
	if cfg == nil {
		cfg = config.Default()
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	s := &Server{config: cfg}
	for _, opt := range opts {
		opt(s)
	}
	if s.logger == nil {
		logger, err := logging.New(logging.FromConfig(cfg.Logging))
		if err != nil {
			return nil, err
		}
		s.logger = logger
	}

	s.logger.Info("Initializing navigation server",
		zap.String("addr", cfg.Server.Address()),
		zap.String("websocket_path", cfg.Server.WebsocketPath),
		zap.String("home_group", cfg.Navigation.HomeGroup),
	)

	s.metrics = monitoring.NewMetrics()
	s.tracer = tracing.New("spatialnav", s.logger.Named("tracing"))

	var sinks []intents.Sink
	if cfg.Intents.WebhookURL != "" {
		webhook, err := intents.NewWebhook(intents.WebhookConfig{
			URL:       cfg.Intents.WebhookURL,
			RetryMax:  cfg.Intents.RetryMax,
			Timeout:   cfg.Intents.Timeout.Std(),
			QueueSize: cfg.Intents.QueueSize,
		}, s.metrics, s.logger.Named("intents"))
		if err != nil {
			return nil, err
		}
		s.webhook = webhook
		sinks = append(sinks, webhook)
		s.logger.Info("Intent webhook enabled", zap.String("url", cfg.Intents.WebhookURL))
	}

	s.hub = ws.NewHub(ws.HubOptions{
		Config:  cfg,
		Logger:  s.logger.Named("ws"),
		Metrics: s.metrics,
		Tracer:  s.tracer,
		Sinks:   sinks,
	})

	if !cfg.Logging.Development {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(tracing.HTTPMiddleware(s.tracer))
	router.Use(monitoring.Middleware(s.metrics))
	router.Use(middleware.CORS(middleware.CORSFromOrigins(cfg.Server.AllowedOrigins)))
	if cfg.RateLimit.Enabled {
		s.logger.Info("Rate limiting enabled",
			zap.Int("rps", cfg.RateLimit.RequestsPerSecond),
			zap.Int("burst", cfg.RateLimit.Burst),
		)
		limit := middleware.DefaultRateLimitConfig()
		limit.RequestsPerSecond = cfg.RateLimit.RequestsPerSecond
		limit.Burst = cfg.RateLimit.Burst
		router.Use(middleware.RateLimit(limit))
	}

	handlers := apihttp.NewHandlers(s.hub, s.metrics, s.logger.Named("api"))
	handlers.RegisterRoutes(router)
	router.GET(cfg.Server.WebsocketPath, s.hub.HandleConnection)
	router.GET("/metrics", gin.WrapH(s.metrics.Handler()))
	s.router = router

	// upgrades need the raw writer, everything else is compressed
	mux := http.NewServeMux()
	mux.Handle(cfg.Server.WebsocketPath, router)
	mux.Handle("/", gzhttp.GzipHandler(router))
	s.handler = mux

	s.http = &http.Server{
		Addr:    cfg.Server.Address(),
		Handler: s.handler,
	}

	s.logger.Info("Server initialized successfully")
	return s, nil
}

// Handler returns the root HTTP handler
func (s *Server) Handler() http.Handler {
	return s.handler
}

// Hub returns the websocket session hub
func (s *Server) Hub() *ws.Hub {
	return s.hub
}

// Metrics returns the server's metrics
func (s *Server) Metrics() *monitoring.Metrics {
	return s.metrics
}

// Run listens on the configured address and serves until ctx is done
func (s *Server) Run(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.http.Addr)
	if err != nil {
		return err
	}
	return s.Serve(ctx, ln)
}

// Serve serves on ln until ctx is done, then shuts down gracefully
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	g, ctx := errgroup.WithContext(ctx)

	if s.webhook != nil {
		g.Go(func() error {
			err := s.webhook.Run(ctx)
			if errors.Is(err, context.Canceled) || errors.Is(err, intents.ErrWebhookClosed) {
				return nil
			}
			return err
		})
	}

	g.Go(func() error {
		s.logger.Info("Starting HTTP server", zap.String("addr", ln.Addr().String()))
		if err := s.http.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	g.Go(func() error {
		<-ctx.Done()
		return s.Close()
	})

	return g.Wait()
}

// Close gracefully shuts down the server
func (s *Server) Close() error {
	s.logger.Info("Shutting down server...")

	// hijacked websocket connections are not tracked by http.Server
	s.hub.Close()
	if s.webhook != nil {
		s.webhook.Close()
	}

	timeout := s.config.Server.ShutdownTimeout.Std()
	if timeout <= 0 {
		timeout = defaultShutdownTimeout
	}
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()
	err := s.http.Shutdown(ctx)
	if err != nil {
		s.logger.Error("HTTP shutdown incomplete", zap.Error(err))
	}

	s.logger.Sync()
	return err
}
