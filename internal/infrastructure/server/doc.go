// Package server wires configuration, logging, metrics, tracing, the
// websocket hub, the control API and the optional intent webhook into one
// HTTP server with graceful shutdown.
package server
