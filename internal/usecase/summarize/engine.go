// Package summarize implements the second pipeline stage: it selects pending
// items up to a hard per-run cap, asks the configured LLM provider for a
// structured summary, validates the JSON, and records the result. Items are
// processed independently; a failed item stays pending for the next run.
package summarize

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"feeddigest/internal/domain/entity"
	"feeddigest/internal/infra/summarizer"
	"feeddigest/internal/observability/metrics"
	"feeddigest/internal/repository"
)

// DefaultMaxItemsPerRun caps how many items one run may send to the
// provider. The cap bounds spend when a new source floods the store.
const DefaultMaxItemsPerRun = 25

// Engine runs one summarization pass. The provider is fixed for the
// Engine's lifetime; provider selection happens at construction of the
// summarizer, never per item.
type Engine struct {
	ItemRepo repository.ItemRepository
	Provider summarizer.Provider
	Limiter  *rate.Limiter
	MaxItems int
}

// NewEngine creates a summarization Engine. maxItems values below 1 fall
// back to DefaultMaxItemsPerRun; limiter paces provider calls, nil disables
// pacing.
func NewEngine(itemRepo repository.ItemRepository, provider summarizer.Provider, limiter *rate.Limiter, maxItems int) Engine {
	if maxItems < 1 {
		maxItems = DefaultMaxItemsPerRun
	}
	return Engine{
		ItemRepo: itemRepo,
		Provider: provider,
		Limiter:  limiter,
		MaxItems: maxItems,
	}
}

// RunStats contains statistics about one summarization run.
type RunStats struct {
	Selected   int
	Summarized int
	Skipped    int
	Failed     int
	Repaired   int
	Duration   time.Duration
}

// SummarizeAll processes pending items up to the per-run cap. Item failures
// are counted and the item stays pending; only auth failures, storage
// errors, and context cancellation abort the run.
func (e *Engine) SummarizeAll(ctx context.Context) (*RunStats, error) {
	logger := slog.Default()
	startAll := time.Now()
	stats := &RunStats{}

	items, err := e.ItemRepo.SelectPending(ctx, e.MaxItems)
	if err != nil {
		return nil, fmt.Errorf("select pending items: %w", err)
	}
	stats.Selected = len(items)

	if len(items) == 0 {
		logger.Info("no pending items to summarize")
		return stats, nil
	}

	logger.Info("summarization run started",
		slog.Int("pending", len(items)),
		slog.Int("cap", e.MaxItems),
		slog.String("model", e.Provider.ModelID()))

	for _, item := range items {
		if e.Limiter != nil {
			if err := e.Limiter.Wait(ctx); err != nil {
				return stats, fmt.Errorf("rate limiter wait: %w", err)
			}
		}

		if strings.TrimSpace(item.ContentText) == "" {
			if err := e.ItemRepo.MarkSkipped(ctx, item.ID); err != nil {
				return stats, fmt.Errorf("mark item %d skipped: %w", item.ID, err)
			}
			stats.Skipped++
			metrics.RecordItemSummarized("skipped")
			logger.Warn("skipping item with empty content",
				slog.Int64("item_id", item.ID),
				slog.String("title", item.Title))
			continue
		}

		summaryStart := time.Now()
		summaryJSON, repaired, err := e.summarizeItem(ctx, item)
		summaryDuration := time.Since(summaryStart)
		metrics.RecordSummarizationDuration(summaryDuration)

		if err != nil {
			if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
				return stats, err
			}
			if summarizer.IsAuthError(err) {
				return stats, fmt.Errorf("provider rejected credentials: %w", err)
			}
			// The item stays pending and is retried next run. Content is
			// never logged, only identifiers.
			stats.Failed++
			metrics.RecordItemSummarized("failure")
			logger.Warn("summarization failed, item stays pending",
				slog.Int64("item_id", item.ID),
				slog.String("title", item.Title),
				slog.Duration("duration", summaryDuration),
				slog.Any("error", err))
			continue
		}
		if repaired {
			stats.Repaired++
		}

		if err := e.ItemRepo.MarkSummarized(ctx, item.ID, summaryJSON, e.Provider.ModelID()); err != nil {
			// ErrAlreadySummarized here means another writer raced this
			// run, which the single-writer model rules out. Abort loudly.
			return stats, fmt.Errorf("mark item %d summarized: %w", item.ID, err)
		}

		stats.Summarized++
		metrics.RecordItemSummarized("success")
		logger.Info("item summarized",
			slog.Int64("item_id", item.ID),
			slog.String("title", item.Title),
			slog.String("model", e.Provider.ModelID()),
			slog.Duration("duration", summaryDuration))
	}

	stats.Duration = time.Since(startAll)
	logger.Info("summarization run completed",
		slog.Int("selected", stats.Selected),
		slog.Int("summarized", stats.Summarized),
		slog.Int("skipped", stats.Skipped),
		slog.Int("failed", stats.Failed),
		slog.Int("repaired", stats.Repaired),
		slog.Duration("duration", stats.Duration),
	)

	return stats, nil
}

// summarizeItem produces the validated summary JSON for one item. An
// unparsable response earns exactly one repair re-prompt; a second bad
// response fails the item.
func (e *Engine) summarizeItem(ctx context.Context, item *entity.Item) (string, bool, error) {
	content := truncateForInput(item.ContentText)

	raw, err := e.Provider.Complete(ctx, summarySystemPrompt, userPrompt(item.Title, content))
	if err != nil {
		return "", false, fmt.Errorf("provider call: %w", err)
	}

	repaired := false
	summary, err := ParseSummary(raw)
	if err != nil {
		slog.Warn("invalid summary JSON, attempting repair",
			slog.Int64("item_id", item.ID),
			slog.Int("response_length", len(raw)))

		fixed, err := e.Provider.Complete(ctx, repairSystemPrompt, repairPrompt(raw))
		if err != nil {
			return "", false, fmt.Errorf("repair call: %w", err)
		}

		summary, err = ParseSummary(fixed)
		if err != nil {
			metrics.RecordSummaryRepair(false)
			return "", false, fmt.Errorf("summary JSON invalid after repair: %w", err)
		}
		metrics.RecordSummaryRepair(true)
		repaired = true
	}

	data, err := json.Marshal(summary)
	if err != nil {
		return "", false, fmt.Errorf("marshal summary: %w", err)
	}
	return string(data), repaired, nil
}
