// Package main runs the spatial navigation server.
//
// Each WebSocket connection on the configured path gets its own navigation
// engine. Hosts register focusable regions with their bounds and stream key,
// pointer, gamepad and frame events; the server answers with focus changes,
// activations, feedback cues and navigation intents. A REST surface exposes
// the same sessions for inspection and scripted commands.
//
// Configuration:
//   - Defaults for development
//   - Optional YAML or TOML file (-config or NAV_CONFIG_FILE)
//   - Environment variables (12-factor)
//   - CLI flags (override everything)
//
// Usage:
//
//	# Production mode
//	./server -port 8080
//
//	# Development mode (colored logs, debug level)
//	./server -dev
//
// Signals:
//   - SIGINT, SIGTERM: Graceful shutdown
package main
