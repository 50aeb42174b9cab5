package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"feeddigest/internal/domain/entity"
	"feeddigest/internal/repository"
)

type ItemRepo struct{ db *sql.DB }

func NewItemRepo(db *sql.DB) repository.ItemRepository {
	return &ItemRepo{db: db}
}

// Insert uses ON CONFLICT DO NOTHING on the url_hash unique constraint.
// RETURNING yields no row on conflict, which maps to inserted=false.
func (repo *ItemRepo) Insert(ctx context.Context, item *entity.Item) (bool, error) {
	defer observeQuery("insert_item")()
	const query = `
INSERT INTO items (source_id, title, url, guid, published_at, fetched_at, content_text, url_hash, status)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
ON CONFLICT (url_hash) DO NOTHING
RETURNING id`
	var id int64
	err := repo.db.QueryRowContext(ctx, query,
		item.SourceID, item.Title, item.URL, item.GUID, item.PublishedAt,
		item.FetchedAt, item.ContentText, item.URLHash, string(item.Status),
	).Scan(&id)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("Insert: QueryRowContext: %w", err)
	}

	item.ID = id
	return true, nil
}

func (repo *ItemRepo) ExistsByURLHash(ctx context.Context, urlHash string) (bool, error) {
	defer observeQuery("exists_by_url_hash")()
	const query = `SELECT 1 FROM items WHERE url_hash = $1 LIMIT 1`
	var one int
	err := repo.db.QueryRowContext(ctx, query, urlHash).Scan(&one)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("ExistsByURLHash: QueryRowContext: %w", err)
	}
	return true, nil
}

func (repo *ItemRepo) SelectPending(ctx context.Context, limit int) ([]*entity.Item, error) {
	defer observeQuery("select_pending")()
	const query = `
SELECT id, source_id, title, url, guid, published_at, fetched_at, content_text, url_hash, status, summary_json, model_used
FROM items
WHERE status = 'new'
ORDER BY published_at DESC NULLS LAST
LIMIT $1`
	rows, err := repo.db.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("SelectPending: QueryContext: %w", err)
	}
	defer func() { _ = rows.Close() }()

	items := make([]*entity.Item, 0, limit)
	for rows.Next() {
		item, err := scanItem(rows)
		if err != nil {
			return nil, fmt.Errorf("SelectPending: Scan: %w", err)
		}
		items = append(items, item)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("SelectPending: rows.Err: %w", err)
	}

	return items, nil
}

func (repo *ItemRepo) MarkSummarized(ctx context.Context, id int64, summaryJSON, modelUsed string) error {
	defer observeQuery("mark_summarized")()
	const query = `
UPDATE items
SET summary_json = $1, model_used = $2, status = 'summarized'
WHERE id = $3 AND status = 'new'`
	result, err := repo.db.ExecContext(ctx, query, summaryJSON, modelUsed, id)
	if err != nil {
		return fmt.Errorf("MarkSummarized: ExecContext: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("MarkSummarized: RowsAffected: %w", err)
	}
	if affected > 0 {
		return nil
	}

	var status string
	err = repo.db.QueryRowContext(ctx, `SELECT status FROM items WHERE id = $1`, id).Scan(&status)
	if err == sql.ErrNoRows {
		return fmt.Errorf("MarkSummarized: item %d: %w", id, entity.ErrNotFound)
	}
	if err != nil {
		return fmt.Errorf("MarkSummarized: QueryRowContext: %w", err)
	}
	return fmt.Errorf("MarkSummarized: item %d has status %q: %w", id, status, entity.ErrAlreadySummarized)
}

func (repo *ItemRepo) MarkSkipped(ctx context.Context, id int64) error {
	defer observeQuery("mark_skipped")()
	const query = `UPDATE items SET status = 'skipped' WHERE id = $1 AND status = 'new'`
	if _, err := repo.db.ExecContext(ctx, query, id); err != nil {
		return fmt.Errorf("MarkSkipped: ExecContext: %w", err)
	}
	return nil
}

func (repo *ItemRepo) ListRecentSummarized(ctx context.Context, limit int) ([]*entity.Item, error) {
	defer observeQuery("list_recent_summarized")()
	const query = `
SELECT id, source_id, title, url, guid, published_at, fetched_at, content_text, url_hash, status, summary_json, model_used
FROM items
WHERE status = 'summarized'
ORDER BY published_at DESC NULLS LAST
LIMIT $1`
	rows, err := repo.db.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("ListRecentSummarized: QueryContext: %w", err)
	}
	defer func() { _ = rows.Close() }()

	items := make([]*entity.Item, 0, limit)
	for rows.Next() {
		item, err := scanItem(rows)
		if err != nil {
			return nil, fmt.Errorf("ListRecentSummarized: Scan: %w", err)
		}
		items = append(items, item)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("ListRecentSummarized: rows.Err: %w", err)
	}

	return items, nil
}

func scanItem(row rowScanner) (*entity.Item, error) {
	var (
		item        entity.Item
		status      string
		guid        sql.NullString
		publishedAt sql.NullTime
		summaryJSON sql.NullString
		modelUsed   sql.NullString
	)
	err := row.Scan(
		&item.ID, &item.SourceID, &item.Title, &item.URL, &guid, &publishedAt,
		&item.FetchedAt, &item.ContentText, &item.URLHash, &status, &summaryJSON, &modelUsed,
	)
	if err != nil {
		return nil, err
	}
	item.Status = entity.ItemStatus(status)
	item.GUID = nullableString(guid)
	item.PublishedAt = nullableTime(publishedAt)
	item.SummaryJSON = nullableString(summaryJSON)
	item.ModelUsed = nullableString(modelUsed)
	return &item, nil
}
