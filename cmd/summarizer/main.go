// Command summarizer runs the second pipeline stage: it selects pending
// items up to the per-run cap, produces structured JSON summaries via the
// configured LLM provider, and marks them summarized.
package main

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"golang.org/x/time/rate"

	"feeddigest/internal/config"
	"feeddigest/internal/infra/adapter/persistence"
	"feeddigest/internal/infra/db"
	"feeddigest/internal/infra/summarizer"
	"feeddigest/internal/observability/logging"
	"feeddigest/internal/usecase/summarize"
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

	_, itemRepo := persistence.NewRepositories(conn, dialect)

	provider, err := summarizer.NewProvider(summarizer.LoadConfigFromEnv())
	if err != nil {
		if errors.Is(err, summarizer.ErrNoCredentials) {
			logger.Error("no provider credentials configured", slog.Any("error", err))
		} else {
			logger.Error("failed to construct provider", slog.Any("error", err))
		}
		os.Exit(1)
	}

	engine := summarize.NewEngine(
		itemRepo,
		provider,
		rate.NewLimiter(rate.Every(cfg.SummarizePacing), 1),
		cfg.MaxNewItemsPerRun,
	)

	stats, err := engine.SummarizeAll(ctx)
	if err != nil {
		logger.Error("summarization run failed", slog.Any("error", err))
		os.Exit(1)
	}

	logger.Info("summarizer finished",
		slog.Int("summarized", stats.Summarized),
		slog.Int("skipped", stats.Skipped),
		slog.Int("failed", stats.Failed),
		slog.Duration("duration", stats.Duration))
}
