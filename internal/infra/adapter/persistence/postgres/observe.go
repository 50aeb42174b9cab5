package postgres

import (
	"time"

	"feeddigest/internal/observability/metrics"
)

// observeQuery times one repository operation for the query duration
// histogram. Use as: defer observeQuery("insert_item")().
func observeQuery(operation string) func() {
	start := time.Now()
	return func() {
		metrics.RecordDBQuery(operation, time.Since(start))
	}
}
