package http

import (
	"context"
	"net/http"
	"time"

	"github.com/GriffinCanCode/AgentOS/spatialnav/internal/domain/engine"
	"github.com/GriffinCanCode/AgentOS/spatialnav/internal/infrastructure/monitoring"
	"github.com/GriffinCanCode/AgentOS/spatialnav/internal/shared/types"
	"github.com/gin-gonic/gin"
	"gonum.org/v1/gonum/stat"
)

// MetricsSummary aggregates server counters with every live engine
type MetricsSummary struct {
	Timestamp time.Time                  `json:"timestamp"`
	Server    monitoring.MetricsSnapshot `json:"server"`
	ErrorRate float64                    `json:"error_rate"`
	Engines   EngineSummary              `json:"engines"`
}

// EngineSummary totals engine diagnostics across sessions
type EngineSummary struct {
	Sessions        int     `json:"sessions"`
	Regions         int     `json:"regions"`
	PerformanceMode int     `json:"performance_mode"`
	Navigations     uint64  `json:"navigations"`
	Activations     uint64  `json:"activations"`
	Evictions       uint64  `json:"evictions"`
	StaleReferences uint64  `json:"stale_references"`
	MeanFPS         float64 `json:"mean_fps"`
	Unreachable     int     `json:"unreachable"`
}

// Summary returns aggregated metrics for dashboards
func (h *Handlers) Summary(c *gin.Context) {
	snap := h.metrics.Snapshot()
	summary := MetricsSummary{
		Timestamp: time.Now(),
		Server:    snap,
		Engines:   h.aggregateEngines(c.Request.Context()),
	}
	if snap.TotalRequests > 0 {
		summary.ErrorRate = float64(snap.TotalErrors) / float64(snap.TotalRequests)
	}

	c.JSON(http.StatusOK, summary)
}

func (h *Handlers) aggregateEngines(ctx context.Context) EngineSummary {
	var (
		sum   EngineSummary
		rates []float64
	)
	for _, s := range h.hub.Sessions() {
		var m types.Metrics
		callCtx, cancel := context.WithTimeout(ctx, h.timeout)
		err := s.Do(callCtx, func(e *engine.Engine) { m = e.Metrics() })
		cancel()
		if err != nil {
			sum.Unreachable++
			continue
		}

		sum.Sessions++
		sum.Regions += m.RegistrySize
		sum.Navigations += m.Navigations
		sum.Activations += m.Activations
		sum.Evictions += m.Evictions
		sum.StaleReferences += m.StaleReferences
		if m.PerformanceMode {
			sum.PerformanceMode++
		}
		if m.FrameRate > 0 {
			rates = append(rates, m.FrameRate)
		}
	}
	if len(rates) > 0 {
		sum.MeanFPS = stat.Mean(rates, nil)
	}
	return sum
}
