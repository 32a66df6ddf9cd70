package intents

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"sync"
	"time"

	"github.com/GriffinCanCode/AgentOS/spatialnav/internal/infrastructure/monitoring"
	"github.com/GriffinCanCode/AgentOS/spatialnav/internal/infrastructure/resilience"
	"github.com/bytedance/sonic"
	"github.com/hashicorp/go-retryablehttp"
	"go.uber.org/zap"
)

// Delivery statuses recorded in metrics
const (
	StatusDelivered = "delivered"
	StatusFailed    = "failed"
	StatusDropped   = "dropped"
)

var (
	// ErrInvalidURL is returned for a webhook URL that is not absolute http(s)
	ErrInvalidURL = errors.New("invalid webhook url")
	// ErrWebhookClosed is returned by Run after Close
	ErrWebhookClosed = errors.New("webhook closed")
)

// WebhookConfig configures a Webhook
type WebhookConfig struct {
	URL          string
	RetryMax     int
	RetryWaitMin time.Duration
	RetryWaitMax time.Duration
	Timeout      time.Duration
	QueueSize    int
}

// Webhook posts intents as JSON to an HTTP endpoint. Publish only queues;
// Run delivers. A full queue drops the intent.
type Webhook struct {
	url     string
	client  *retryablehttp.Client
	guard   *resilience.Guard
	timeout time.Duration
	metrics *monitoring.Metrics
	logger  *zap.Logger

	queue     chan Envelope
	done      chan struct{}
	closeOnce sync.Once
}

// NewWebhook creates a webhook sink
func NewWebhook(cfg WebhookConfig, metrics *monitoring.Metrics, logger *zap.Logger) (*Webhook, error) {
	u, err := url.Parse(cfg.URL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return nil, fmt.Errorf("%w: %q", ErrInvalidURL, cfg.URL)
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.QueueSize <= 0 {
		cfg.QueueSize = 64
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 5 * time.Second
	}
	if cfg.RetryWaitMin <= 0 {
		cfg.RetryWaitMin = 200 * time.Millisecond
	}
	if cfg.RetryWaitMax <= 0 {
		cfg.RetryWaitMax = 5 * time.Second
	}

	client := retryablehttp.NewClient()
	client.RetryMax = cfg.RetryMax
	client.RetryWaitMin = cfg.RetryWaitMin
	client.RetryWaitMax = cfg.RetryWaitMax
	client.HTTPClient.Timeout = cfg.Timeout
	client.Logger = leveledLogger{logger.Sugar()}

	w := &Webhook{
		url:     u.String(),
		client:  client,
		timeout: cfg.Timeout * time.Duration(cfg.RetryMax+1),
		metrics: metrics,
		logger:  logger,
		queue:   make(chan Envelope, cfg.QueueSize),
		done:    make(chan struct{}),
	}
	w.guard = resilience.New("intent-webhook", resilience.Settings{
		MaxRequests: 1,
		Timeout:     30 * time.Second,
		ReadyToTrip: func(c resilience.Counts) bool {
			return c.ConsecutiveFailures >= 3
		},
		OnStateChange: func(name string, from, to resilience.State) {
			logger.Warn("Intent webhook guard changed state",
				zap.String("from", from.String()),
				zap.String("to", to.String()))
		},
	})
	return w, nil
}

// Publish queues env for delivery without blocking
func (w *Webhook) Publish(env Envelope) {
	select {
	case <-w.done:
		w.metrics.RecordWebhookDelivery(StatusDropped)
		return
	default:
	}

	select {
	case w.queue <- env:
	default:
		w.metrics.RecordWebhookDelivery(StatusDropped)
		w.logger.Warn("Intent webhook queue full, dropping intent",
			zap.String("intent_id", env.Intent.ID),
			zap.String("kind", string(env.Intent.Kind)))
	}
}

// Run delivers queued intents until ctx is done or Close is called
func (w *Webhook) Run(ctx context.Context) error {
	w.logger.Info("Intent webhook started", zap.String("url", w.url))
	for {
		select {
		case <-w.done:
			return ErrWebhookClosed
		default:
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-w.done:
			return ErrWebhookClosed
		case env := <-w.queue:
			w.deliver(ctx, env)
		}
	}
}

// Close stops Run. Queued intents are discarded.
func (w *Webhook) Close() {
	w.closeOnce.Do(func() { close(w.done) })
}

func (w *Webhook) deliver(ctx context.Context, env Envelope) {
	err := w.guard.Call(func() error {
		return w.post(ctx, env)
	})
	if err != nil {
		w.metrics.RecordWebhookDelivery(StatusFailed)
		w.logger.Warn("Intent webhook delivery failed",
			zap.String("intent_id", env.Intent.ID),
			zap.Error(err))
		return
	}
	w.metrics.RecordWebhookDelivery(StatusDelivered)
}

func (w *Webhook) post(ctx context.Context, env Envelope) error {
	body, err := sonic.Marshal(env)
	if err != nil {
		return fmt.Errorf("failed to encode intent: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, w.timeout)
	defer cancel()

	req, err := retryablehttp.NewRequestWithContext(ctx, http.MethodPost, w.url, body)
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("User-Agent", "spatialnav-intents/1.0")

	resp, err := w.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("webhook responded %d", resp.StatusCode)
	}
	return nil
}

// leveledLogger routes retryablehttp logs through zap
type leveledLogger struct {
	s *zap.SugaredLogger
}

func (l leveledLogger) Error(msg string, kv ...interface{}) { l.s.Errorw(msg, kv...) }
func (l leveledLogger) Info(msg string, kv ...interface{})  { l.s.Debugw(msg, kv...) }
func (l leveledLogger) Debug(msg string, kv ...interface{}) { l.s.Debugw(msg, kv...) }
func (l leveledLogger) Warn(msg string, kv ...interface{})  { l.s.Warnw(msg, kv...) }
