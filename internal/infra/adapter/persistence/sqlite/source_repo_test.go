package sqlite

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"feeddigest/internal/domain/entity"
)

func TestSourceRepo_UpsertByURL_InsertsNewSource(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer func() { _ = db.Close() }()

	mock.ExpectQuery("SELECT id, feed_url, last_fetch_at, etag, last_modified FROM sources").
		WithArgs("https://example.com").
		WillReturnError(sql.ErrNoRows)

	mock.ExpectExec("INSERT INTO sources").
		WithArgs("Example", "https://example.com", nil, "rss").
		WillReturnResult(sqlmock.NewResult(7, 1))

	repo := NewSourceRepo(db)
	got, err := repo.UpsertByURL(context.Background(), &entity.Source{
		Name:      "Example",
		SourceURL: "https://example.com",
		Type:      entity.SourceTypeRSS,
	})

	require.NoError(t, err)
	assert.Equal(t, int64(7), got.ID)
	assert.True(t, got.Active)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSourceRepo_UpsertByURL_UpdatesExistingPreservingFetchState(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer func() { _ = db.Close() }()

	storedFeed := "https://example.com/feed"
	storedETag := `"v1"`
	fetchedAt := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)

	mock.ExpectQuery("SELECT id, feed_url, last_fetch_at, etag, last_modified FROM sources").
		WithArgs("https://example.com").
		WillReturnRows(sqlmock.NewRows([]string{"id", "feed_url", "last_fetch_at", "etag", "last_modified"}).
			AddRow(3, storedFeed, fetchedAt, storedETag, nil))

	mock.ExpectExec("UPDATE sources").
		WithArgs("Renamed", "site", storedFeed, int64(3)).
		WillReturnResult(sqlmock.NewResult(0, 1))

	repo := NewSourceRepo(db)
	got, err := repo.UpsertByURL(context.Background(), &entity.Source{
		Name:      "Renamed",
		SourceURL: "https://example.com",
		Type:      entity.SourceTypeSite,
	})

	require.NoError(t, err)
	assert.Equal(t, int64(3), got.ID)
	require.NotNil(t, got.FeedURL)
	assert.Equal(t, storedFeed, *got.FeedURL)
	require.NotNil(t, got.ETag)
	assert.Equal(t, storedETag, *got.ETag)
	require.NotNil(t, got.LastFetchAt)
	assert.True(t, got.LastFetchAt.Equal(fetchedAt))
	assert.Nil(t, got.LastModified)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSourceRepo_UpsertByURL_ExplicitFeedURLReplacesStored(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer func() { _ = db.Close() }()

	explicit := "https://www.youtube.com/feeds/videos.xml?channel_id=abc"

	mock.ExpectQuery("SELECT id, feed_url, last_fetch_at, etag, last_modified FROM sources").
		WithArgs("https://www.youtube.com/@chan").
		WillReturnRows(sqlmock.NewRows([]string{"id", "feed_url", "last_fetch_at", "etag", "last_modified"}).
			AddRow(9, "https://stale.example/feed", nil, nil, nil))

	mock.ExpectExec("UPDATE sources").
		WithArgs("Chan", "youtube", explicit, int64(9)).
		WillReturnResult(sqlmock.NewResult(0, 1))

	repo := NewSourceRepo(db)
	got, err := repo.UpsertByURL(context.Background(), &entity.Source{
		Name:      "Chan",
		SourceURL: "https://www.youtube.com/@chan",
		FeedURL:   &explicit,
		Type:      entity.SourceTypeYouTube,
	})

	require.NoError(t, err)
	require.NotNil(t, got.FeedURL)
	assert.Equal(t, explicit, *got.FeedURL)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSourceRepo_ListActive(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer func() { _ = db.Close() }()

	mock.ExpectQuery("SELECT id, name, source_url, feed_url, type, active, last_fetch_at, etag, last_modified FROM sources").
		WillReturnRows(sqlmock.NewRows([]string{
			"id", "name", "source_url", "feed_url", "type", "active", "last_fetch_at", "etag", "last_modified",
		}).
			AddRow(1, "A", "https://a.example", "https://a.example/feed", "rss", true, nil, nil, nil).
			AddRow(2, "B", "https://b.example", nil, "site", true, nil, nil, nil))

	repo := NewSourceRepo(db)
	sources, err := repo.ListActive(context.Background())

	require.NoError(t, err)
	require.Len(t, sources, 2)
	assert.Equal(t, "A", sources[0].Name)
	require.NotNil(t, sources[0].FeedURL)
	assert.Equal(t, "https://a.example/feed", *sources[0].FeedURL)
	assert.Equal(t, entity.SourceTypeSite, sources[1].Type)
	assert.Nil(t, sources[1].FeedURL)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSourceRepo_List_IncludesInactive(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer func() { _ = db.Close() }()

	mock.ExpectQuery("SELECT id, name, source_url, feed_url, type, active, last_fetch_at, etag, last_modified FROM sources").
		WillReturnRows(sqlmock.NewRows([]string{
			"id", "name", "source_url", "feed_url", "type", "active", "last_fetch_at", "etag", "last_modified",
		}).
			AddRow(1, "Live", "https://a.example", nil, "rss", true, nil, nil, nil).
			AddRow(2, "Dead", "https://b.example", nil, "site", false, nil, nil, nil))

	repo := NewSourceRepo(db)
	sources, err := repo.List(context.Background())

	require.NoError(t, err)
	require.Len(t, sources, 2)
	assert.True(t, sources[0].Active)
	assert.False(t, sources[1].Active)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSourceRepo_UpdateValidators(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer func() { _ = db.Close() }()

	etag := `"v2"`
	fetchedAt := time.Date(2025, 7, 1, 12, 0, 0, 0, time.UTC)

	mock.ExpectExec("UPDATE sources").
		WithArgs(etag, nil, fetchedAt, int64(4)).
		WillReturnResult(sqlmock.NewResult(0, 1))

	repo := NewSourceRepo(db)
	err = repo.UpdateValidators(context.Background(), 4, &etag, nil, fetchedAt)

	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSourceRepo_Deactivate(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer func() { _ = db.Close() }()

	mock.ExpectExec("UPDATE sources SET active = 0").
		WithArgs(int64(5)).
		WillReturnResult(sqlmock.NewResult(0, 1))

	repo := NewSourceRepo(db)
	err = repo.Deactivate(context.Background(), 5)

	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSourceRepo_UpdateFeedURL(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer func() { _ = db.Close() }()

	mock.ExpectExec("UPDATE sources SET feed_url").
		WithArgs("https://example.com/feed", int64(2)).
		WillReturnResult(sqlmock.NewResult(0, 1))

	repo := NewSourceRepo(db)
	err = repo.UpdateFeedURL(context.Background(), 2, "https://example.com/feed")

	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}
