/*
Package tracing wraps engine commands and API requests in lightweight spans.

Spans are recorded synchronously when finished: the engine is driven from a
single goroutine, so there is no collector. Completed spans are logged at
debug with their duration; spans carrying an error are logged at warn.

# Usage

	tracer := tracing.New("spatialnav", logger)

	span := tracer.Start("engine.navigate")
	span.SetTag("direction", "up")
	defer span.Finish()

	router.Use(tracing.HTTPMiddleware(tracer))

# Trace Format

HTTP requests propagate context with:
- X-Trace-ID: identifier for the request flow
- X-Span-ID: identifier for the current operation
*/
package tracing
