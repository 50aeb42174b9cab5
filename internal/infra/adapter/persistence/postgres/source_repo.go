// Package postgres implements the repository interfaces on PostgreSQL via
// the pgx stdlib driver, for deployments sharing a store between runners.
package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"feeddigest/internal/domain/entity"
	"feeddigest/internal/repository"
)

type SourceRepo struct{ db *sql.DB }

func NewSourceRepo(db *sql.DB) repository.SourceRepository {
	return &SourceRepo{db: db}
}

func (repo *SourceRepo) UpsertByURL(ctx context.Context, source *entity.Source) (*entity.Source, error) {
	defer observeQuery("upsert_source")()
	const selectQuery = `
SELECT id, feed_url, last_fetch_at, etag, last_modified
FROM sources
WHERE source_url = $1
LIMIT 1`

	var (
		id           int64
		feedURL      sql.NullString
		lastFetchAt  sql.NullTime
		etag         sql.NullString
		lastModified sql.NullString
	)
	err := repo.db.QueryRowContext(ctx, selectQuery, source.SourceURL).Scan(
		&id, &feedURL, &lastFetchAt, &etag, &lastModified,
	)
	if err == sql.ErrNoRows {
		return repo.insert(ctx, source)
	}
	if err != nil {
		return nil, fmt.Errorf("UpsertByURL: QueryRowContext: %w", err)
	}

	merged := *source
	merged.ID = id
	merged.Active = true
	if merged.FeedURL == nil {
		merged.FeedURL = nullableString(feedURL)
	}
	merged.LastFetchAt = nullableTime(lastFetchAt)
	merged.ETag = nullableString(etag)
	merged.LastModified = nullableString(lastModified)

	const updateQuery = `
UPDATE sources
SET name = $1, type = $2, feed_url = $3, active = TRUE
WHERE id = $4`
	if _, err := repo.db.ExecContext(ctx, updateQuery, merged.Name, string(merged.Type), merged.FeedURL, id); err != nil {
		return nil, fmt.Errorf("UpsertByURL: ExecContext: %w", err)
	}

	return &merged, nil
}

func (repo *SourceRepo) insert(ctx context.Context, source *entity.Source) (*entity.Source, error) {
	const query = `
INSERT INTO sources (name, source_url, feed_url, type, active)
VALUES ($1, $2, $3, $4, TRUE)
RETURNING id`
	var id int64
	err := repo.db.QueryRowContext(ctx, query, source.Name, source.SourceURL, source.FeedURL, string(source.Type)).Scan(&id)
	if err != nil {
		return nil, fmt.Errorf("UpsertByURL: insert: %w", err)
	}

	created := *source
	created.ID = id
	created.Active = true
	return &created, nil
}

func (repo *SourceRepo) ListActive(ctx context.Context) ([]*entity.Source, error) {
	defer observeQuery("list_active_sources")()
	const query = `
SELECT id, name, source_url, feed_url, type, active, last_fetch_at, etag, last_modified
FROM sources
WHERE active = TRUE
ORDER BY id ASC`
	rows, err := repo.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("ListActive: QueryContext: %w", err)
	}
	defer func() { _ = rows.Close() }()

	sources := make([]*entity.Source, 0, 50)
	for rows.Next() {
		source, err := scanSource(rows)
		if err != nil {
			return nil, fmt.Errorf("ListActive: Scan: %w", err)
		}
		sources = append(sources, source)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("ListActive: rows.Err: %w", err)
	}

	return sources, nil
}

func (repo *SourceRepo) List(ctx context.Context) ([]*entity.Source, error) {
	defer observeQuery("list_sources")()
	const query = `
SELECT id, name, source_url, feed_url, type, active, last_fetch_at, etag, last_modified
FROM sources
ORDER BY id ASC`
	rows, err := repo.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("List: QueryContext: %w", err)
	}
	defer func() { _ = rows.Close() }()

	sources := make([]*entity.Source, 0, 50)
	for rows.Next() {
		source, err := scanSource(rows)
		if err != nil {
			return nil, fmt.Errorf("List: Scan: %w", err)
		}
		sources = append(sources, source)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("List: rows.Err: %w", err)
	}

	return sources, nil
}

func (repo *SourceRepo) UpdateFeedURL(ctx context.Context, id int64, feedURL string) error {
	defer observeQuery("update_feed_url")()
	const query = `UPDATE sources SET feed_url = $1 WHERE id = $2`
	if _, err := repo.db.ExecContext(ctx, query, feedURL, id); err != nil {
		return fmt.Errorf("UpdateFeedURL: ExecContext: %w", err)
	}
	return nil
}

func (repo *SourceRepo) UpdateValidators(ctx context.Context, id int64, etag, lastModified *string, fetchedAt time.Time) error {
	defer observeQuery("update_validators")()
	const query = `
UPDATE sources
SET etag = $1, last_modified = $2, last_fetch_at = $3
WHERE id = $4`
	if _, err := repo.db.ExecContext(ctx, query, etag, lastModified, fetchedAt, id); err != nil {
		return fmt.Errorf("UpdateValidators: ExecContext: %w", err)
	}
	return nil
}

func (repo *SourceRepo) Deactivate(ctx context.Context, id int64) error {
	defer observeQuery("deactivate_source")()
	const query = `UPDATE sources SET active = FALSE WHERE id = $1`
	if _, err := repo.db.ExecContext(ctx, query, id); err != nil {
		return fmt.Errorf("Deactivate: ExecContext: %w", err)
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanSource(row rowScanner) (*entity.Source, error) {
	var (
		source       entity.Source
		sourceType   string
		feedURL      sql.NullString
		lastFetchAt  sql.NullTime
		etag         sql.NullString
		lastModified sql.NullString
	)
	err := row.Scan(
		&source.ID, &source.Name, &source.SourceURL, &feedURL, &sourceType,
		&source.Active, &lastFetchAt, &etag, &lastModified,
	)
	if err != nil {
		return nil, err
	}
	source.Type = entity.SourceType(sourceType)
	source.FeedURL = nullableString(feedURL)
	source.LastFetchAt = nullableTime(lastFetchAt)
	source.ETag = nullableString(etag)
	source.LastModified = nullableString(lastModified)
	return &source, nil
}

func nullableString(v sql.NullString) *string {
	if !v.Valid {
		return nil
	}
	return &v.String
}

func nullableTime(v sql.NullTime) *time.Time {
	if !v.Valid {
		return nil
	}
	return &v.Time
}
