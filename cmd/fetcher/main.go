// Command fetcher runs the first pipeline stage: it syncs the source list,
// resolves missing feed URLs, fetches feeds conditionally, and stores new
// items with status "new".
package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"golang.org/x/time/rate"

	"feeddigest/internal/config"
	"feeddigest/internal/infra/adapter/persistence"
	"feeddigest/internal/infra/db"
	"feeddigest/internal/infra/extractor"
	"feeddigest/internal/infra/fetcher"
	"feeddigest/internal/infra/resolver"
	"feeddigest/internal/observability/logging"
	"feeddigest/internal/resilience/circuitbreaker"
	"feeddigest/internal/resilience/retry"
	"feeddigest/internal/sourcelist"
	"feeddigest/internal/usecase/ingest"
)

func main() {
	logger := logging.WithRunID(logging.NewLogger())
	slog.SetDefault(logger)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := config.LoadAppConfig()
	if err != nil {
		logger.Error("invalid configuration", slog.Any("error", err))
		os.Exit(1)
	}

	conn, dialect, err := db.Open()
	if err != nil {
		logger.Error("failed to open store", slog.Any("error", err))
		os.Exit(1)
	}
	defer func() {
		if err := conn.Close(); err != nil {
			logger.Error("failed to close store", slog.Any("error", err))
		}
	}()

	if err := db.MigrateUp(conn, dialect); err != nil {
		logger.Error("failed to migrate store", slog.Any("error", err))
		os.Exit(1)
	}

	sourceRepo, itemRepo := persistence.NewRepositories(conn, dialect)

	fetchCfg, err := fetcher.LoadConfigFromEnv()
	if err != nil {
		logger.Error("invalid fetch configuration", slog.Any("error", err))
		os.Exit(1)
	}

	feedClient := fetcher.New(fetchCfg, retry.FeedFetchConfig(), circuitbreaker.FeedFetchConfig())
	pageClient := fetcher.New(fetchCfg, retry.PageFetchConfig(), circuitbreaker.PageFetchConfig())

	service := ingest.NewService(
		sourceRepo,
		itemRepo,
		resolver.New(feedClient),
		feedClient,
		extractor.New(pageClient, cfg.MaxCharsPerItem),
		rate.NewLimiter(rate.Every(cfg.FetchPacing), 1),
	)

	sources, err := sourcelist.Load(cfg.FeedsPath)
	if err != nil {
		logger.Error("failed to load source list",
			slog.String("path", cfg.FeedsPath),
			slog.Any("error", err))
		os.Exit(1)
	}
	logger.Info("source list loaded",
		slog.String("path", cfg.FeedsPath),
		slog.Int("sources", len(sources)))

	if _, err := service.SyncSources(ctx, sources); err != nil {
		logger.Error("failed to sync sources", slog.Any("error", err))
		os.Exit(1)
	}

	stats, err := service.IngestAll(ctx)
	if err != nil {
		logger.Error("ingest run failed", slog.Any("error", err))
		os.Exit(1)
	}

	if hosts := feedClient.BlacklistedHosts(); len(hosts) > 0 {
		logger.Warn("hosts blacklisted during run", slog.Any("hosts", hosts))
	}

	logger.Info("fetcher finished",
		slog.Int("inserted", stats.Inserted),
		slog.Int("duplicated", stats.Duplicated),
		slog.Duration("duration", stats.Duration))
}
