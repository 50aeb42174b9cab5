// Package render implements the third pipeline stage: it reads the most
// recent summarized items and produces a static HTML digest page.
package render

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"time"

	"feeddigest/internal/domain/entity"
	"feeddigest/internal/repository"
)

// DefaultMaxDisplayItems caps how many summaries appear on the page.
const DefaultMaxDisplayItems = 100

// Service builds the digest page from the store.
type Service struct {
	ItemRepo   repository.ItemRepository
	SourceRepo repository.SourceRepository
	MaxItems   int
}

// NewService creates a render Service. maxItems values below 1 fall back to
// DefaultMaxDisplayItems.
func NewService(itemRepo repository.ItemRepository, sourceRepo repository.SourceRepository, maxItems int) Service {
	if maxItems < 1 {
		maxItems = DefaultMaxDisplayItems
	}
	return Service{
		ItemRepo:   itemRepo,
		SourceRepo: sourceRepo,
		MaxItems:   maxItems,
	}
}

// PageItem is one summary card on the digest page.
type PageItem struct {
	Title      string
	URL        string
	SourceName string
	Date       string
	Summary    entity.Summary
}

// Page is the template payload for the digest page.
type Page struct {
	GeneratedAt string
	Items       []PageItem
}

// BuildPage assembles the page data from the most recent summarized items.
// An item whose stored summary fails to parse is rendered with empty fields
// rather than dropped; the page shows what the store holds.
func (s *Service) BuildPage(ctx context.Context) (*Page, error) {
	items, err := s.ItemRepo.ListRecentSummarized(ctx, s.MaxItems)
	if err != nil {
		return nil, fmt.Errorf("list summarized items: %w", err)
	}

	sources, err := s.SourceRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list sources: %w", err)
	}
	names := make(map[int64]string, len(sources))
	for _, src := range sources {
		names[src.ID] = src.Name
	}

	page := &Page{
		GeneratedAt: time.Now().UTC().Format("2006-01-02 15:04 UTC"),
		Items:       make([]PageItem, 0, len(items)),
	}

	for _, item := range items {
		var summary entity.Summary
		if item.SummaryJSON != nil {
			if err := json.Unmarshal([]byte(*item.SummaryJSON), &summary); err != nil {
				slog.Warn("stored summary does not parse, rendering empty",
					slog.Int64("item_id", item.ID),
					slog.Any("error", err))
			}
		}

		page.Items = append(page.Items, PageItem{
			Title:      item.Title,
			URL:        item.URL,
			SourceName: names[item.SourceID],
			Date:       formatDate(item.PublishedAt),
			Summary:    summary,
		})
	}

	return page, nil
}

// WritePage renders the page as HTML. Escaping is handled by html/template;
// nothing from the store reaches the output unescaped.
func (s *Service) WritePage(w io.Writer, page *Page) error {
	if err := pageTemplate.Execute(w, page); err != nil {
		return fmt.Errorf("execute page template: %w", err)
	}
	return nil
}

func formatDate(t *time.Time) string {
	if t == nil {
		return "Unknown date"
	}
	return t.Format("Jan 02, 2006")
}
