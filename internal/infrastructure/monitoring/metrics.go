package monitoring

import (
	"net/http"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "spatialnav"

// Metrics holds all Prometheus metrics. Every Record/Set method is safe on
// a nil *Metrics so engines can run without instrumentation.
type Metrics struct {
	registry *prometheus.Registry

	// HTTP metrics
	RequestsTotal   *prometheus.CounterVec
	RequestDuration *prometheus.HistogramVec

	// Navigation metrics
	Navigations       *prometheus.CounterVec
	Activations       prometheus.Counter
	GroupSwitches     prometheus.Counter
	ModeTransitions   *prometheus.CounterVec
	CommandDuration   *prometheus.HistogramVec
	RegisteredRegions prometheus.Gauge
	Evictions         prometheus.Counter
	StaleReferences   prometheus.Counter
	CallbackFailures  *prometheus.CounterVec

	// Performance metrics
	PerformanceEngines prometheus.Gauge
	FrameRate          prometheus.Histogram

	// Intent metrics
	Intents           *prometheus.CounterVec
	WebhookDeliveries *prometheus.CounterVec

	// WebSocket metrics
	WSConnections prometheus.Gauge
	WSMessages    *prometheus.CounterVec

	startTime time.Time

	// Snapshot for JSON API
	snapshot MetricsSnapshot
	mu       sync.RWMutex
}

// MetricsSnapshot holds current values for the diagnostics endpoint
type MetricsSnapshot struct {
	TotalRequests     int64   `json:"total_requests"`
	TotalErrors       int64   `json:"total_errors"`
	Navigations       int64   `json:"navigations"`
	Activations       int64   `json:"activations"`
	Intents           int64   `json:"intents"`
	ActiveConnections int64   `json:"active_connections"`
	UptimeSeconds     float64 `json:"uptime_seconds"`
}

// NewMetrics creates a metrics collector on its own registry
func NewMetrics() *Metrics {
	reg := prometheus.NewRegistry()
	factory := promauto.With(reg)

	m := &Metrics{
		registry:  reg,
		startTime: time.Now(),

		RequestsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "http_requests_total",
				Help:      "Total number of HTTP requests",
			},
			[]string{"method", "path", "status"},
		),
		RequestDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "http_request_duration_seconds",
				Help:      "HTTP request duration in seconds",
				Buckets:   []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1},
			},
			[]string{"method", "path"},
		),

		Navigations: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "navigations_total",
				Help:      "Directional navigation commands by outcome",
			},
			[]string{"direction", "outcome"},
		),
		Activations: factory.NewCounter(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "activations_total",
				Help:      "Focused regions activated",
			},
		),
		GroupSwitches: factory.NewCounter(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "group_switches_total",
				Help:      "Active group changes",
			},
		),
		ModeTransitions: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "input_mode_transitions_total",
				Help:      "Input mode transitions by target mode",
			},
			[]string{"mode"},
		),
		CommandDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "command_duration_seconds",
				Help:      "Engine command duration in seconds",
				Buckets:   []float64{.00001, .00005, .0001, .0005, .001, .005, .01},
			},
			[]string{"command"},
		),
		RegisteredRegions: factory.NewGauge(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Name:      "registered_regions",
				Help:      "Focusable regions registered across engines",
			},
		),
		Evictions: factory.NewCounter(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "stale_evictions_total",
				Help:      "Entries removed by the staleness sweep",
			},
		),
		StaleReferences: factory.NewCounter(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "stale_references_total",
				Help:      "Focus targets whose region disappeared",
			},
		),
		CallbackFailures: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "callback_failures_total",
				Help:      "Host callbacks that failed, panicked or were skipped",
			},
			[]string{"callback"},
		),

		PerformanceEngines: factory.NewGauge(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Name:      "performance_mode_engines",
				Help:      "Engines currently in performance mode",
			},
		),
		FrameRate: factory.NewHistogram(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "frame_rate_fps",
				Help:      "Frame rate measured per sample window",
				Buckets:   []float64{15, 30, 45, 60, 90, 120, 144},
			},
		),

		Intents: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "intents_total",
				Help:      "Navigation intents emitted by kind",
			},
			[]string{"kind"},
		),
		WebhookDeliveries: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "intent_webhook_deliveries_total",
				Help:      "Intent webhook deliveries by status",
			},
			[]string{"status"},
		),

		WSConnections: factory.NewGauge(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Name:      "ws_connections",
				Help:      "Number of active WebSocket host sessions",
			},
		),
		WSMessages: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "ws_messages_total",
				Help:      "Total number of WebSocket messages",
			},
			[]string{"direction", "type"},
		),
	}

	factory.NewGaugeFunc(
		prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "uptime_seconds",
			Help:      "Process uptime in seconds",
		},
		func() float64 { return time.Since(m.startTime).Seconds() },
	)

	return m
}

// Registry returns the registry backing these metrics
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Handler serves the registry in Prometheus exposition format
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// RecordHTTPRequest records an HTTP request
func (m *Metrics) RecordHTTPRequest(method, path, status string, duration time.Duration) {
	if m == nil {
		return
	}
	m.RequestsTotal.WithLabelValues(method, path, status).Inc()
	m.RequestDuration.WithLabelValues(method, path).Observe(duration.Seconds())

	m.mu.Lock()
	m.snapshot.TotalRequests++
	if len(status) > 0 && (status[0] == '4' || status[0] == '5') {
		m.snapshot.TotalErrors++
	}
	m.mu.Unlock()
}

// RecordNavigation records a directional command and its outcome
// ("moved", "entered", "blocked")
func (m *Metrics) RecordNavigation(direction, outcome string) {
	if m == nil {
		return
	}
	m.Navigations.WithLabelValues(direction, outcome).Inc()
	m.mu.Lock()
	m.snapshot.Navigations++
	m.mu.Unlock()
}

// RecordActivation records a region activation
func (m *Metrics) RecordActivation() {
	if m == nil {
		return
	}
	m.Activations.Inc()
	m.mu.Lock()
	m.snapshot.Activations++
	m.mu.Unlock()
}

// RecordGroupSwitch records an active group change
func (m *Metrics) RecordGroupSwitch() {
	if m == nil {
		return
	}
	m.GroupSwitches.Inc()
}

// RecordModeTransition records an input mode change
func (m *Metrics) RecordModeTransition(mode string) {
	if m == nil {
		return
	}
	m.ModeTransitions.WithLabelValues(mode).Inc()
}

// ObserveCommand records how long an engine command took
func (m *Metrics) ObserveCommand(command string, duration time.Duration) {
	if m == nil {
		return
	}
	m.CommandDuration.WithLabelValues(command).Observe(duration.Seconds())
}

// AddRegisteredRegions adjusts the registered region gauge by delta
func (m *Metrics) AddRegisteredRegions(delta int) {
	if m == nil {
		return
	}
	m.RegisteredRegions.Add(float64(delta))
}

// RecordEvictions records entries removed by a sweep
func (m *Metrics) RecordEvictions(n int) {
	if m == nil || n <= 0 {
		return
	}
	m.Evictions.Add(float64(n))
}

// RecordStaleReference records a focus target whose region disappeared
func (m *Metrics) RecordStaleReference() {
	if m == nil {
		return
	}
	m.StaleReferences.Inc()
}

// RecordCallbackFailure records a failed or skipped host callback
func (m *Metrics) RecordCallbackFailure(callback string) {
	if m == nil {
		return
	}
	m.CallbackFailures.WithLabelValues(callback).Inc()
}

// SetPerformanceMode moves one engine in or out of performance mode
func (m *Metrics) SetPerformanceMode(enabled bool) {
	if m == nil {
		return
	}
	if enabled {
		m.PerformanceEngines.Inc()
	} else {
		m.PerformanceEngines.Dec()
	}
}

// ObserveFrameRate records a completed fps sample window
func (m *Metrics) ObserveFrameRate(fps float64) {
	if m == nil {
		return
	}
	m.FrameRate.Observe(fps)
}

// RecordIntent records an emitted intent
func (m *Metrics) RecordIntent(kind string) {
	if m == nil {
		return
	}
	m.Intents.WithLabelValues(kind).Inc()
	m.mu.Lock()
	m.snapshot.Intents++
	m.mu.Unlock()
}

// RecordWebhookDelivery records an intent webhook delivery result
func (m *Metrics) RecordWebhookDelivery(status string) {
	if m == nil {
		return
	}
	m.WebhookDeliveries.WithLabelValues(status).Inc()
}

// RecordWSMessage records a WebSocket message
func (m *Metrics) RecordWSMessage(direction, msgType string) {
	if m == nil {
		return
	}
	m.WSMessages.WithLabelValues(direction, msgType).Inc()
}

// IncWSConnections increments WebSocket connections
func (m *Metrics) IncWSConnections() {
	if m == nil {
		return
	}
	m.WSConnections.Inc()
	m.mu.Lock()
	m.snapshot.ActiveConnections++
	m.mu.Unlock()
}

// DecWSConnections decrements WebSocket connections
func (m *Metrics) DecWSConnections() {
	if m == nil {
		return
	}
	m.WSConnections.Dec()
	m.mu.Lock()
	m.snapshot.ActiveConnections--
	m.mu.Unlock()
}

// Snapshot returns current values for JSON diagnostics
func (m *Metrics) Snapshot() MetricsSnapshot {
	if m == nil {
		return MetricsSnapshot{}
	}
	m.mu.RLock()
	defer m.mu.RUnlock()

	snap := m.snapshot
	snap.UptimeSeconds = time.Since(m.startTime).Seconds()
	return snap
}
