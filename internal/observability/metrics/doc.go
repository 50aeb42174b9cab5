// Package metrics provides Prometheus metrics registry and recording utilities.
//
// This package centralizes the pipeline metrics:
//   - Ingest metrics (feed fetches, resolution outcomes, stored items)
//   - Content extraction metrics (page fetch attempts, durations)
//   - Summarization metrics (outcomes, durations, JSON repairs)
//   - Database query metrics
//
// All metrics are registered with the Prometheus default registry via
// promauto, so a run can push or expose them without extra wiring.
//
// Example usage:
//
//	import "feeddigest/internal/observability/metrics"
//
//	start := time.Now()
//	// ... fetch and ingest one source ...
//	metrics.RecordFeedFetch(source.ID, time.Since(start))
//	metrics.RecordItemsIngested(source.ID, inserted)
package metrics
