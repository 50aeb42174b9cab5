package sqlite

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

// Insert relies on the UNIQUE constraint on url_hash: a conflicting insert
// is a no-op, reported as inserted=false. This is the system's sole
// deduplication mechanism, so the stored row is never touched on conflict.
func (repo *ItemRepo) Insert(ctx context.Context, item *entity.Item) (bool, error) {
	defer observeQuery("insert_item")()
	const query = `
INSERT INTO items (source_id, title, url, guid, published_at, fetched_at, content_text, url_hash, status)
VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
ON CONFLICT(url_hash) DO NOTHING`
	result, err := repo.db.ExecContext(ctx, query,
		item.SourceID, item.Title, item.URL, item.GUID, item.PublishedAt,
		item.FetchedAt, item.ContentText, item.URLHash, string(item.Status),
	)
	if err != nil {
		return false, fmt.Errorf("Insert: ExecContext: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("Insert: RowsAffected: %w", err)
	}
	if affected == 0 {
		return false, nil
	}

	id, err := result.LastInsertId()
	if err != nil {
		return false, fmt.Errorf("Insert: LastInsertId: %w", err)
	}
	item.ID = id
	return true, nil
}

func (repo *ItemRepo) ExistsByURLHash(ctx context.Context, urlHash string) (bool, error) {
	defer observeQuery("exists_by_url_hash")()
	const query = `SELECT 1 FROM items WHERE url_hash = ? LIMIT 1`
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
ORDER BY published_at DESC
LIMIT ?`
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

// MarkSummarized transitions the item from new to summarized. The status
// guard in the WHERE clause makes the transition atomic; a zero row count
// means the item either does not exist or has already left the pending
// state, which is an invariant violation under single-writer access.
func (repo *ItemRepo) MarkSummarized(ctx context.Context, id int64, summaryJSON, modelUsed string) error {
	defer observeQuery("mark_summarized")()
	const query = `
UPDATE items
SET summary_json = ?, model_used = ?, status = 'summarized'
WHERE id = ? AND status = 'new'`
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
	err = repo.db.QueryRowContext(ctx, `SELECT status FROM items WHERE id = ?`, id).Scan(&status)
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
	const query = `UPDATE items SET status = 'skipped' WHERE id = ? AND status = 'new'`
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
ORDER BY published_at DESC
LIMIT ?`
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
