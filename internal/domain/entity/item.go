package entity

import (
	"crypto/sha256"
	"encoding/hex"
	"time"
)

// ItemStatus is the lifecycle state of an ingested item.
type ItemStatus string

const (
	// StatusNew marks an item waiting for summarization.
	StatusNew ItemStatus = "new"
	// StatusSummarized marks an item with a validated summary payload attached.
	StatusSummarized ItemStatus = "summarized"
	// StatusSkipped marks an item the summarizer refused (no usable excerpt).
	// Skipped items are never selected again.
	StatusSkipped ItemStatus = "skipped"
)

// Item is one ingested content unit. URLHash is a deterministic fingerprint of
// the URL and the sole deduplication key: inserting the same URL twice yields
// exactly one row, across runs and across all time.
type Item struct {
	ID          int64
	SourceID    int64
	Title       string
	URL         string
	GUID        *string
	PublishedAt *time.Time
	FetchedAt   time.Time
	ContentText string
	URLHash     string
	Status      ItemStatus
	SummaryJSON *string
	ModelUsed   *string
}

// HashURL computes the content fingerprint for a URL: the hex-encoded SHA-256
// of the raw URL string. The hash is a pure function of the URL alone.
func HashURL(url string) string {
	sum := sha256.Sum256([]byte(url))
	return hex.EncodeToString(sum[:])
}
