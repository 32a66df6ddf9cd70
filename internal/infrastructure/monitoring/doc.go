/*
Package monitoring provides Prometheus metrics for navigation engines and
their hosts.

Each Metrics value owns a private registry, so several can coexist in one
process (tests, multiple servers) without duplicate registration panics.
Record methods accept a nil receiver.

# Usage

	metrics := monitoring.NewMetrics()
	router.Use(monitoring.Middleware(metrics))
	router.GET("/metrics", gin.WrapH(metrics.Handler()))

	eng, _ := engine.New(engine.Options{Metrics: metrics})

	timer := monitoring.NewTimer(metrics, "navigate")
	// ... run command ...
	timer.Stop()
*/
package monitoring
