// Package logging provides structured logging utilities with context propagation.
//
// This package wraps the standard library's log/slog package with helper functions
// for common logging patterns used throughout the application.
//
// Key features:
//   - JSON and text output formats
//   - Run ID tagging for batch runs
//   - Context-aware logging
//   - Configurable log levels
//
// Example usage:
//
//	import "feeddigest/internal/observability/logging"
//
//	func main() {
//	    logger := logging.WithRunID(logging.NewLogger())
//	    slog.SetDefault(logger)
//	    logger.Info("ingest run started", slog.String("store", path))
//	}
package logging
