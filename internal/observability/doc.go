// Package observability provides the pipeline's observability infrastructure:
// structured logging and Prometheus metrics.
//
// Subpackages:
//   - logging: Structured logging utilities with slog
//   - metrics: Prometheus metrics registry and recorders
//
// Example usage:
//
//	import (
//	    "feeddigest/internal/observability/logging"
//	    "feeddigest/internal/observability/metrics"
//	)
//
//	func main() {
//	    logger := logging.WithRunID(logging.NewLogger())
//	    slog.SetDefault(logger)
//
//	    metrics.RecordItemsIngested(1, 10)
//	}
package observability
