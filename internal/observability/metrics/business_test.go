package metrics

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestRecordItemsIngested(t *testing.T) {
	tests := []struct {
		name     string
		sourceID int64
		count    int
	}{
		{
			name:     "single item",
			sourceID: 1,
			count:    1,
		},
		{
			name:     "multiple items",
			sourceID: 2,
			count:    10,
		},
		{
			name:     "zero items",
			sourceID: 3,
			count:    0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.NotPanics(t, func() {
				RecordItemsIngested(tt.sourceID, tt.count)
			})
		})
	}
}

func TestRecordItemSummarized(t *testing.T) {
	tests := []struct {
		name   string
		status string
	}{
		{
			name:   "success",
			status: "success",
		},
		{
			name:   "failure",
			status: "failure",
		},
		{
			name:   "skipped",
			status: "skipped",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.NotPanics(t, func() {
				RecordItemSummarized(tt.status)
			})
		})
	}
}

func TestRecordFeedResolve(t *testing.T) {
	tests := []struct {
		name       string
		sourceType string
		resolved   bool
	}{
		{
			name:       "site resolved",
			sourceType: "site",
			resolved:   true,
		},
		{
			name:       "medium failed",
			sourceType: "medium",
			resolved:   false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.NotPanics(t, func() {
				RecordFeedResolve(tt.sourceType, tt.resolved)
			})
		})
	}
}

func TestRecordSummaryRepair(t *testing.T) {
	assert.NotPanics(t, func() {
		RecordSummaryRepair(true)
		RecordSummaryRepair(false)
	})
}

func TestDurationRecorders(t *testing.T) {
	durations := []time.Duration{0, 50 * time.Millisecond, 2 * time.Second}
	for _, d := range durations {
		assert.NotPanics(t, func() {
			RecordFeedFetch(1, d)
			RecordSummarizationDuration(d)
			RecordPageFetchSuccess(d)
			RecordPageFetchFailed(d)
			RecordDBQuery("insert_item", d)
		})
	}
}

func TestCounters(t *testing.T) {
	assert.NotPanics(t, func() {
		RecordItemDuplicated()
		RecordFeedNotModified()
		RecordPageFetchSkipped()
		RecordFeedFetchError(7, "fetch_failed")
		UpdateSourcesActive(12)
	})
}
