// Command generator runs the third pipeline stage: it renders the most
// recent summaries into a static HTML page under the site directory.
package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"feeddigest/internal/config"
	"feeddigest/internal/infra/adapter/persistence"
	"feeddigest/internal/infra/db"
	"feeddigest/internal/observability/logging"
	"feeddigest/internal/usecase/render"
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
	service := render.NewService(itemRepo, sourceRepo, cfg.MaxDisplayItems)

	page, err := service.BuildPage(ctx)
	if err != nil {
		logger.Error("failed to build page", slog.Any("error", err))
		os.Exit(1)
	}

	if err := os.MkdirAll(cfg.SiteDir, 0o755); err != nil {
		logger.Error("failed to create site directory", slog.Any("error", err))
		os.Exit(1)
	}

	outPath := filepath.Join(cfg.SiteDir, "index.html")
	out, err := os.Create(outPath)
	if err != nil {
		logger.Error("failed to create output file", slog.Any("error", err))
		os.Exit(1)
	}
	defer func() { _ = out.Close() }()

	if err := service.WritePage(out, page); err != nil {
		logger.Error("failed to write page", slog.Any("error", err))
		os.Exit(1)
	}

	logger.Info("generator finished",
		slog.String("path", outPath),
		slog.Int("items", len(page.Items)))
}
