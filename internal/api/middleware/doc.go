// Package middleware provides the HTTP middleware in front of the control
// API and the websocket endpoint.
//
//   - CORS: origins from server.allowed_origins, websocket upgrades allowed,
//     trace and rate limit headers exposed to browser hosts
//   - RateLimit: per-client token buckets, idle clients evicted
//
// Example Usage:
//
//	router.Use(middleware.CORS(middleware.CORSFromOrigins(cfg.Server.AllowedOrigins)))
//	router.Use(middleware.RateLimit(middleware.DefaultRateLimitConfig()))
package middleware
