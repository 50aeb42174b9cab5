package render_test

import (
	"bytes"
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"feeddigest/internal/domain/entity"
	"feeddigest/internal/usecase/render"
)

/* ───────── stubs ───────── */

type stubItemRepo struct {
	summarized []*entity.Item
	listErr    error
	gotLimit   int
}

func (s *stubItemRepo) Insert(_ context.Context, _ *entity.Item) (bool, error) { return false, nil }

func (s *stubItemRepo) ExistsByURLHash(_ context.Context, _ string) (bool, error) {
	return false, nil
}

func (s *stubItemRepo) SelectPending(_ context.Context, _ int) ([]*entity.Item, error) {
	return nil, nil
}

func (s *stubItemRepo) MarkSummarized(_ context.Context, _ int64, _, _ string) error { return nil }

func (s *stubItemRepo) MarkSkipped(_ context.Context, _ int64) error { return nil }

func (s *stubItemRepo) ListRecentSummarized(_ context.Context, limit int) ([]*entity.Item, error) {
	s.gotLimit = limit
	return s.summarized, s.listErr
}

type stubSourceRepo struct {
	sources []*entity.Source
}

func (s *stubSourceRepo) UpsertByURL(_ context.Context, src *entity.Source) (*entity.Source, error) {
	return src, nil
}

func (s *stubSourceRepo) ListActive(_ context.Context) ([]*entity.Source, error) {
	return s.sources, nil
}

func (s *stubSourceRepo) List(_ context.Context) ([]*entity.Source, error) {
	return s.sources, nil
}

func (s *stubSourceRepo) UpdateFeedURL(_ context.Context, _ int64, _ string) error { return nil }

func (s *stubSourceRepo) UpdateValidators(_ context.Context, _ int64, _, _ *string, _ time.Time) error {
	return nil
}

func (s *stubSourceRepo) Deactivate(_ context.Context, _ int64) error { return nil }

/* ───────── helpers ───────── */

func summarizedItem(id, sourceID int64, title string) *entity.Item {
	published := time.Date(2025, 10, 5, 8, 0, 0, 0, time.UTC)
	summary := `{"eli5":"Simple take.","eli16":"Technical take.","why_this_matters":"It matters.","what_changed":"New default.","key_quotes":["a direct quote"],"confidence_unknowns":"Rollout unclear."}`
	model := "test-model"
	return &entity.Item{
		ID:          id,
		SourceID:    sourceID,
		Title:       title,
		URL:         "https://example.com/post",
		PublishedAt: &published,
		Status:      entity.StatusSummarized,
		SummaryJSON: &summary,
		ModelUsed:   &model,
	}
}

/* ───────── tests ───────── */

func TestBuildPage(t *testing.T) {
	itemRepo := &stubItemRepo{summarized: []*entity.Item{summarizedItem(1, 3, "Big Release")}}
	sourceRepo := &stubSourceRepo{sources: []*entity.Source{
		{ID: 3, Name: "Some Blog", SourceURL: "https://blog.example", Type: entity.SourceTypeSite},
	}}

	svc := render.NewService(itemRepo, sourceRepo, 0)
	page, err := svc.BuildPage(context.Background())

	require.NoError(t, err)
	assert.Equal(t, render.DefaultMaxDisplayItems, itemRepo.gotLimit)
	require.Len(t, page.Items, 1)

	item := page.Items[0]
	assert.Equal(t, "Big Release", item.Title)
	assert.Equal(t, "Some Blog", item.SourceName)
	assert.Equal(t, "Oct 05, 2025", item.Date)
	assert.Equal(t, "Simple take.", item.Summary.ELI5)
	assert.Equal(t, []string{"a direct quote"}, item.Summary.KeyQuotes)
	assert.NotEmpty(t, page.GeneratedAt)
}

func TestBuildPage_MissingDateAndBadSummary(t *testing.T) {
	bad := `{not json`
	item := summarizedItem(1, 3, "Broken")
	item.PublishedAt = nil
	item.SummaryJSON = &bad

	svc := render.NewService(&stubItemRepo{summarized: []*entity.Item{item}}, &stubSourceRepo{}, 0)
	page, err := svc.BuildPage(context.Background())

	require.NoError(t, err)
	require.Len(t, page.Items, 1)
	assert.Equal(t, "Unknown date", page.Items[0].Date)
	assert.Empty(t, page.Items[0].Summary.ELI5)
}

func TestBuildPage_ListFailure(t *testing.T) {
	svc := render.NewService(&stubItemRepo{listErr: errors.New("db locked")}, &stubSourceRepo{}, 0)
	_, err := svc.BuildPage(context.Background())

	assert.Error(t, err)
}

func TestWritePage(t *testing.T) {
	itemRepo := &stubItemRepo{summarized: []*entity.Item{summarizedItem(1, 3, "Big Release")}}
	sourceRepo := &stubSourceRepo{sources: []*entity.Source{
		{ID: 3, Name: "Some Blog", SourceURL: "https://blog.example", Type: entity.SourceTypeSite},
	}}

	svc := render.NewService(itemRepo, sourceRepo, 0)
	page, err := svc.BuildPage(context.Background())
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, svc.WritePage(&buf, page))

	html := buf.String()
	assert.Contains(t, html, "<title>Keep Up With AI</title>")
	assert.Contains(t, html, "Big Release")
	assert.Contains(t, html, "Some Blog")
	assert.Contains(t, html, "Simple take.")
	assert.Contains(t, html, "a direct quote")
	assert.Contains(t, html, "1 summaries")
}

func TestWritePage_EscapesStoredText(t *testing.T) {
	item := summarizedItem(1, 3, `<script>alert("x")</script>`)
	svc := render.NewService(&stubItemRepo{summarized: []*entity.Item{item}}, &stubSourceRepo{}, 0)

	page, err := svc.BuildPage(context.Background())
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, svc.WritePage(&buf, page))

	html := buf.String()
	assert.NotContains(t, html, "<script>alert")
	assert.Contains(t, html, "&lt;script&gt;")
}

func TestWritePage_EmptyState(t *testing.T) {
	svc := render.NewService(&stubItemRepo{}, &stubSourceRepo{}, 0)

	page, err := svc.BuildPage(context.Background())
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, svc.WritePage(&buf, page))

	assert.Contains(t, buf.String(), "No summaries yet")
}
