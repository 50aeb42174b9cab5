// Package extractor turns a raw feed entry into a normalized text excerpt.
// Embedded entry content is preferred; when it is trivial the entry's own
// page is fetched and run through readability, with a markup heuristic as
// the last resort. Output is hard-truncated, never summarized.
package extractor

import (
	"bytes"
	"context"
	"log/slog"
	"net/url"
	"strings"
	"time"

	"github.com/go-shiori/go-readability"

	"feeddigest/internal/infra/feed"
	"feeddigest/internal/infra/fetcher"
	"feeddigest/internal/observability/metrics"
	"feeddigest/internal/utils/text"
)

// minUsableChars is the threshold below which embedded entry content is
// considered trivial (a bare teaser or link) and the page itself is fetched.
const minUsableChars = 100

// DefaultMaxChars is the default excerpt length bound.
const DefaultMaxChars = 8000

// Extractor produces text excerpts for feed entries.
type Extractor struct {
	client   *fetcher.Client
	maxChars int
}

// New creates an Extractor. maxChars bounds every returned excerpt; values
// below 1 fall back to DefaultMaxChars.
func New(client *fetcher.Client, maxChars int) *Extractor {
	if maxChars < 1 {
		maxChars = DefaultMaxChars
	}
	return &Extractor{client: client, maxChars: maxChars}
}

// Extract returns the excerpt for the entry. A failed page fetch degrades to
// whatever the entry itself carried (possibly empty) rather than dropping the
// item; dedup protects against reprocessing either way.
func (e *Extractor) Extract(ctx context.Context, entry feed.Entry) string {
	excerpt := FromHTML(entry.Content)
	if text.CountRunes(excerpt) >= minUsableChars {
		metrics.RecordPageFetchSkipped()
		return text.TruncateRunes(excerpt, e.maxChars)
	}

	if entry.URL != "" {
		if pageText := e.fromPage(ctx, entry.URL); text.CountRunes(pageText) > text.CountRunes(excerpt) {
			excerpt = pageText
		}
	}

	return text.TruncateRunes(excerpt, e.maxChars)
}

// fromPage fetches the entry's page and extracts its main content, trying
// readability first and the markup heuristic second.
func (e *Extractor) fromPage(ctx context.Context, pageURL string) string {
	start := time.Now()
	result, err := e.client.Get(ctx, pageURL)
	if err != nil {
		metrics.RecordPageFetchFailed(time.Since(start))
		slog.Warn("page fetch failed, keeping entry excerpt",
			slog.String("url", pageURL),
			slog.Any("error", err))
		return ""
	}
	metrics.RecordPageFetchSuccess(time.Since(start))

	if parsed, err := url.Parse(pageURL); err == nil {
		article, err := readability.FromReader(bytes.NewReader(result.Body), parsed)
		if err == nil && strings.TrimSpace(article.TextContent) != "" {
			return normalizeWhitespace(article.TextContent)
		}
	}

	return FromHTML(string(result.Body))
}
