package metrics

import (
	"fmt"
	"time"
)

// RecordItemsIngested records the number of new items stored for a source.
func RecordItemsIngested(sourceID int64, count int) {
	ItemsIngestedTotal.WithLabelValues(
		fmt.Sprintf("%d", sourceID),
	).Add(float64(count))
}

// RecordItemDuplicated records a feed entry skipped by the url_hash check.
func RecordItemDuplicated() {
	ItemsDuplicatedTotal.Inc()
}

// RecordFeedFetch records the duration of one source's fetch-and-ingest pass.
func RecordFeedFetch(sourceID int64, duration time.Duration) {
	FeedFetchDuration.WithLabelValues(
		fmt.Sprintf("%d", sourceID),
	).Observe(duration.Seconds())
}

// RecordFeedFetchError records a per-source ingest failure.
// errorType names the stage that failed (e.g. "resolve_failed", "fetch_failed").
func RecordFeedFetchError(sourceID int64, errorType string) {
	FeedFetchErrors.WithLabelValues(
		fmt.Sprintf("%d", sourceID),
		errorType,
	).Inc()
}

// RecordFeedNotModified records a conditional fetch answered with 304.
func RecordFeedNotModified() {
	FeedNotModifiedTotal.Inc()
}

// RecordFeedResolve records the outcome of a feed URL resolution attempt.
func RecordFeedResolve(sourceType string, resolved bool) {
	result := "resolved"
	if !resolved {
		result = "failed"
	}
	FeedResolveTotal.WithLabelValues(sourceType, result).Inc()
}

// RecordPageFetchSuccess records a successful article page fetch.
func RecordPageFetchSuccess(duration time.Duration) {
	PageFetchAttemptsTotal.WithLabelValues("success").Inc()
	PageFetchDuration.Observe(duration.Seconds())
}

// RecordPageFetchFailed records a failed article page fetch.
func RecordPageFetchFailed(duration time.Duration) {
	PageFetchAttemptsTotal.WithLabelValues("failure").Inc()
	PageFetchDuration.Observe(duration.Seconds())
}

// RecordPageFetchSkipped records an item whose feed excerpt was rich enough
// that no page fetch was needed.
func RecordPageFetchSkipped() {
	PageFetchAttemptsTotal.WithLabelValues("skipped").Inc()
}

// RecordItemSummarized records the outcome of one summarization attempt.
// Status should be "success", "failure", or "skipped".
func RecordItemSummarized(status string) {
	ItemsSummarizedTotal.WithLabelValues(status).Inc()
}

// RecordSummarizationDuration records the time taken to summarize one item.
func RecordSummarizationDuration(duration time.Duration) {
	SummarizationDuration.Observe(duration.Seconds())
}

// RecordSummaryRepair records a JSON repair re-prompt and whether it recovered.
func RecordSummaryRepair(recovered bool) {
	result := "recovered"
	if !recovered {
		result = "failed"
	}
	SummaryRepairsTotal.WithLabelValues(result).Inc()
}

// UpdateSourcesActive updates the active source count gauge.
func UpdateSourcesActive(count int) {
	SourcesActive.Set(float64(count))
}

// RecordDBQuery records the duration of a database query operation.
// Operation should describe the query type (e.g. "select_pending", "insert_item").
func RecordDBQuery(operation string, duration time.Duration) {
	DBQueryDuration.WithLabelValues(operation).Observe(duration.Seconds())
}
