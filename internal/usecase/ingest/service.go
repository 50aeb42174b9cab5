// Package ingest implements the fetch stage of the pipeline: it walks the
// active sources, fetches their feeds conditionally, extracts entry content,
// and stores new items for the summarizer to pick up.
package ingest

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"golang.org/x/time/rate"

	"feeddigest/internal/domain/entity"
	"feeddigest/internal/infra/feed"
	"feeddigest/internal/infra/fetcher"
	"feeddigest/internal/observability/metrics"
	"feeddigest/internal/repository"
)

// FeedResolver discovers the feed URL for a source that has none stored.
type FeedResolver interface {
	Resolve(ctx context.Context, source *entity.Source) (string, error)
}

// FeedFetcher performs conditional HTTP fetches of feed endpoints.
type FeedFetcher interface {
	GetConditional(ctx context.Context, url string, etag, lastModified *string) (*fetcher.Result, error)
}

// ContentExtractor turns a feed entry into a bounded text excerpt.
type ContentExtractor interface {
	Extract(ctx context.Context, entry feed.Entry) string
}

// Service orchestrates one ingest run. Sources are processed sequentially;
// a failure in one source never aborts the run, only context cancellation
// and the source listing itself do.
type Service struct {
	SourceRepo repository.SourceRepository
	ItemRepo   repository.ItemRepository
	Resolver   FeedResolver
	Fetcher    FeedFetcher
	Extractor  ContentExtractor
	Limiter    *rate.Limiter
}

// NewService creates an ingest Service. limiter paces the per-source feed
// fetches; nil disables pacing.
func NewService(
	sourceRepo repository.SourceRepository,
	itemRepo repository.ItemRepository,
	resolver FeedResolver,
	feedFetcher FeedFetcher,
	extractor ContentExtractor,
	limiter *rate.Limiter,
) Service {
	return Service{
		SourceRepo: sourceRepo,
		ItemRepo:   itemRepo,
		Resolver:   resolver,
		Fetcher:    feedFetcher,
		Extractor:  extractor,
		Limiter:    limiter,
	}
}

// RunStats contains statistics about one ingest run.
type RunStats struct {
	Sources       int
	Resolved      int
	ResolveFailed int
	NotModified   int
	FetchErrors   int
	FeedEntries   int
	Inserted      int
	Duplicated    int
	Duration      time.Duration
}

// SyncSources upserts the configured source list into the store. Sources
// present in the store but absent from the list are left untouched; pruning
// is an operator decision, not a sync side effect.
func (s *Service) SyncSources(ctx context.Context, sources []*entity.Source) ([]*entity.Source, error) {
	synced := make([]*entity.Source, 0, len(sources))
	for _, src := range sources {
		if err := src.Validate(); err != nil {
			return nil, fmt.Errorf("sync sources: source %q: %w", src.Name, err)
		}
		stored, err := s.SourceRepo.UpsertByURL(ctx, src)
		if err != nil {
			return nil, fmt.Errorf("sync sources: upsert %q: %w", src.SourceURL, err)
		}
		synced = append(synced, stored)
	}
	return synced, nil
}

// IngestAll fetches and stores items from all active sources. Per-source
// failures are logged and counted; the run continues with the next source.
func (s *Service) IngestAll(ctx context.Context) (*RunStats, error) {
	logger := slog.Default()
	startAll := time.Now()
	stats := &RunStats{}

	srcs, err := s.SourceRepo.ListActive(ctx)
	if err != nil {
		return nil, fmt.Errorf("list active sources: %w", err)
	}
	stats.Sources = len(srcs)
	metrics.UpdateSourcesActive(len(srcs))

	for _, src := range srcs {
		if s.Limiter != nil {
			if err := s.Limiter.Wait(ctx); err != nil {
				return stats, fmt.Errorf("rate limiter wait: %w", err)
			}
		}
		if err := s.processSource(ctx, src, stats); err != nil {
			if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
				return stats, err
			}
			logger.Warn("source ingest failed",
				slog.Int64("source_id", src.ID),
				slog.String("source", src.Name),
				slog.Any("error", err))
		}
	}

	stats.Duration = time.Since(startAll)
	logger.Info("ingest run completed",
		slog.Int("sources", stats.Sources),
		slog.Int("resolved", stats.Resolved),
		slog.Int("resolve_failed", stats.ResolveFailed),
		slog.Int("not_modified", stats.NotModified),
		slog.Int("fetch_errors", stats.FetchErrors),
		slog.Int("feed_entries", stats.FeedEntries),
		slog.Int("inserted", stats.Inserted),
		slog.Int("duplicated", stats.Duplicated),
		slog.Duration("duration", stats.Duration),
	)

	return stats, nil
}

// processSource runs the resolve, fetch, parse, and store steps for one
// source. Recoverable failures are absorbed here (logged, counted, nil
// returned) so the caller moves on; only storage errors propagate.
func (s *Service) processSource(ctx context.Context, src *entity.Source, stats *RunStats) error {
	logger := slog.Default()
	sourceStart := time.Now()

	feedURL, err := s.ensureFeedURL(ctx, src, stats)
	if err != nil {
		return err
	}
	if feedURL == "" {
		return nil
	}

	result, err := s.Fetcher.GetConditional(ctx, feedURL, src.ETag, src.LastModified)
	if err != nil {
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return err
		}
		stats.FetchErrors++
		metrics.RecordFeedFetchError(src.ID, "fetch_failed")
		logger.Warn("failed to fetch feed",
			slog.Int64("source_id", src.ID),
			slog.String("feed_url", feedURL),
			slog.Any("error", err))
		return nil
	}

	now := time.Now()

	if result.NotModified {
		stats.NotModified++
		metrics.RecordFeedNotModified()
		logger.Info("feed not modified",
			slog.Int64("source_id", src.ID),
			slog.String("feed_url", feedURL))
		// 304 responses may omit validators; keep the stored ones then.
		etag, lastModified := result.ETag, result.LastModified
		if etag == nil {
			etag = src.ETag
		}
		if lastModified == nil {
			lastModified = src.LastModified
		}
		return s.SourceRepo.UpdateValidators(ctx, src.ID, etag, lastModified, now)
	}

	entries, err := feed.Parse(result.Body)
	if err != nil {
		stats.FetchErrors++
		metrics.RecordFeedFetchError(src.ID, "parse_failed")
		logger.Warn("failed to parse feed",
			slog.Int64("source_id", src.ID),
			slog.String("feed_url", feedURL),
			slog.Any("error", err))
		return nil
	}

	inserted, duplicated, err := s.storeEntries(ctx, src, entries, stats)
	if err != nil {
		metrics.RecordFeedFetchError(src.ID, "store_failed")
		return fmt.Errorf("store entries: %w", err)
	}

	if err := s.SourceRepo.UpdateValidators(ctx, src.ID, result.ETag, result.LastModified, now); err != nil {
		return fmt.Errorf("update validators: %w", err)
	}

	sourceDuration := time.Since(sourceStart)
	metrics.RecordFeedFetch(src.ID, sourceDuration)
	metrics.RecordItemsIngested(src.ID, inserted)

	logger.Info("source ingest completed",
		slog.Int64("source_id", src.ID),
		slog.Int("feed_entries", len(entries)),
		slog.Int("inserted", inserted),
		slog.Int("duplicated", duplicated),
		slog.Duration("duration", sourceDuration),
	)

	return nil
}

// ensureFeedURL returns the feed URL for the source, resolving and storing
// it on first contact. A feed URL that has been fetched at least once is
// trusted; an explicit one from the source list still goes through resolution
// the first time so a bad entry deactivates instead of failing every run.
// An unresolvable source is deactivated so later runs stop burning fetches
// on it; an empty return with nil error means skip.
func (s *Service) ensureFeedURL(ctx context.Context, src *entity.Source, stats *RunStats) (string, error) {
	if src.FeedURL != nil && *src.FeedURL != "" && src.LastFetchAt != nil {
		return *src.FeedURL, nil
	}

	logger := slog.Default()

	feedURL, err := s.Resolver.Resolve(ctx, src)
	if err != nil {
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return "", err
		}
		stats.ResolveFailed++
		metrics.RecordFeedResolve(string(src.Type), false)
		logger.Warn("feed resolution failed, deactivating source",
			slog.Int64("source_id", src.ID),
			slog.String("source", src.Name),
			slog.String("type", string(src.Type)),
			slog.Any("error", err))
		if err := s.SourceRepo.Deactivate(ctx, src.ID); err != nil {
			return "", fmt.Errorf("deactivate source %d: %w", src.ID, err)
		}
		return "", nil
	}

	stats.Resolved++
	metrics.RecordFeedResolve(string(src.Type), true)
	if err := s.SourceRepo.UpdateFeedURL(ctx, src.ID, feedURL); err != nil {
		return "", fmt.Errorf("update feed url: %w", err)
	}
	src.FeedURL = &feedURL

	logger.Info("feed resolved",
		slog.Int64("source_id", src.ID),
		slog.String("source", src.Name),
		slog.String("feed_url", feedURL))

	return feedURL, nil
}

// storeEntries extracts and inserts the feed entries for one source.
// Duplicates are detected twice: a cheap hash lookup before the expensive
// extraction, and the unique constraint at insert time for anything that
// slipped past.
func (s *Service) storeEntries(ctx context.Context, src *entity.Source, entries []feed.Entry, stats *RunStats) (inserted, duplicated int, err error) {
	logger := slog.Default()

	for _, entry := range entries {
		if entry.URL == "" {
			continue
		}
		stats.FeedEntries++

		urlHash := entity.HashURL(entry.URL)
		exists, err := s.ItemRepo.ExistsByURLHash(ctx, urlHash)
		if err != nil {
			return inserted, duplicated, fmt.Errorf("exists check: %w", err)
		}
		if exists {
			stats.Duplicated++
			duplicated++
			metrics.RecordItemDuplicated()
			continue
		}

		content := s.Extractor.Extract(ctx, entry)

		item := &entity.Item{
			SourceID:    src.ID,
			Title:       entry.Title,
			URL:         entry.URL,
			FetchedAt:   time.Now(),
			ContentText: content,
			URLHash:     urlHash,
			Status:      entity.StatusNew,
		}
		if entry.GUID != "" {
			guid := entry.GUID
			item.GUID = &guid
		}
		item.PublishedAt = entry.Published

		ok, err := s.ItemRepo.Insert(ctx, item)
		if err != nil {
			return inserted, duplicated, fmt.Errorf("insert item: %w", err)
		}
		if !ok {
			stats.Duplicated++
			duplicated++
			metrics.RecordItemDuplicated()
			continue
		}

		stats.Inserted++
		inserted++
		logger.Debug("item stored",
			slog.Int64("source_id", src.ID),
			slog.Int64("item_id", item.ID),
			slog.String("url", entry.URL))
	}

	return inserted, duplicated, nil
}
