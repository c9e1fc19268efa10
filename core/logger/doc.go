// Package logger provides a structured logging facility based on Zap.
//
// It offers a configured logger instance that supports different environments
// (development vs production) for a CLI-driven sync tool.
//
// # Configuration
//
// The package supports configuration for:
//   - Level: debug, info, warn, error
//   - Encoding: json (production) or console (development)
//
// # Usage
//
//	log, _ := logger.New(&logger.Config{Level: "info", Format: "console"})
//	log.Info("Sync started")
//
//	// While processing one supplier:
//	l := logger.WithSupplier(log, "oase_outdoors")
//	l.Warn("Fetch failed", zap.Error(err))
package logger
