// Package logging provides structured logging using uber/zap.
//
// Two modes are supported:
//   - Production: JSON output for machine parsing
//   - Development: colored console output for humans
//
// Engine components take a plain *zap.Logger; hosts build one here and hand
// out named children:
//
//	logger, err := logging.New(logging.FromConfig(cfg.Logging))
//	eng, err := engine.New(engine.Options{Logger: logger.Named("engine")})
//
// Stale focus references are logged at warn, mode and performance flips at
// info, per-command detail at debug.
package logging
