// Package metrics provides centralized Prometheus metrics for the pipeline.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Ingest metrics track feed fetching and item storage
var (
	// SourcesActive tracks the number of active sources at run start
	SourcesActive = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "sources_active",
			Help: "Number of active sources at the start of an ingest run",
		},
	)

	// ItemsIngestedTotal counts items inserted per source
	ItemsIngestedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "items_ingested_total",
			Help: "Total number of new items stored from sources",
		},
		[]string{"source_id"},
	)

	// ItemsDuplicatedTotal counts feed entries skipped as already-seen
	ItemsDuplicatedTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "items_duplicated_total",
			Help: "Total number of feed entries skipped because their URL hash already exists",
		},
	)

	// FeedFetchDuration measures time to fetch and process one source
	FeedFetchDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "feed_fetch_duration_seconds",
			Help:    "Time taken to fetch and ingest one source",
			Buckets: prometheus.ExponentialBuckets(0.1, 2, 10),
		},
		[]string{"source_id"},
	)

	// FeedFetchErrors counts per-source ingest failures by stage
	FeedFetchErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "feed_fetch_errors_total",
			Help: "Total number of per-source ingest failures",
		},
		[]string{"source_id", "error_type"},
	)

	// FeedNotModifiedTotal counts conditional fetches answered with 304
	FeedNotModifiedTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "feed_not_modified_total",
			Help: "Total number of feed fetches short-circuited by HTTP 304",
		},
	)

	// FeedResolveTotal counts feed discovery outcomes by source type
	FeedResolveTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "feed_resolve_total",
			Help: "Total number of feed URL resolution attempts",
		},
		[]string{"source_type", "result"}, // result: resolved, failed
	)
)

// Content extraction metrics
var (
	// PageFetchAttemptsTotal counts article page fetches by result
	PageFetchAttemptsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "page_fetch_attempts_total",
			Help: "Total number of article page fetch attempts",
		},
		[]string{"result"}, // result: success, failure, skipped
	)

	// PageFetchDuration measures time to fetch an article page
	PageFetchDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "page_fetch_duration_seconds",
			Help:    "Time taken to fetch an article page",
			Buckets: []float64{0.1, 0.2, 0.4, 0.8, 1.6, 3.2, 6.4, 12.8},
		},
	)
)

// Summarization metrics
var (
	// ItemsSummarizedTotal counts summarization outcomes
	ItemsSummarizedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "items_summarized_total",
			Help: "Total number of items processed by the summarizer",
		},
		[]string{"status"}, // status: success, failure, skipped
	)

	// SummarizationDuration measures time to summarize one item
	SummarizationDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "summarization_duration_seconds",
			Help:    "Time taken to summarize an item",
			Buckets: prometheus.ExponentialBuckets(0.5, 2, 10),
		},
	)

	// SummaryRepairsTotal counts JSON repair re-prompts
	SummaryRepairsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "summary_repairs_total",
			Help: "Total number of JSON repair re-prompts",
		},
		[]string{"result"}, // result: recovered, failed
	)
)

// Database metrics
var (
	// DBQueryDuration measures database query duration
	DBQueryDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "db_query_duration_seconds",
			Help:    "Database query duration in seconds",
			Buckets: prometheus.ExponentialBuckets(0.001, 2, 10),
		},
		[]string{"operation"},
	)
)
