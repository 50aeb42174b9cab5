package repository

import (
	"context"

	"feeddigest/internal/domain/entity"
)

// ItemRepository manages ingested feed items and their summarization
// lifecycle.
type ItemRepository interface {
	// Insert stores the item keyed by its URL hash. When an item with the
	// same hash already exists the call is a no-op and returns false; the
	// stored row is never modified.
	Insert(ctx context.Context, item *entity.Item) (inserted bool, err error)

	// ExistsByURLHash reports whether an item with the given URL hash is
	// already stored.
	ExistsByURLHash(ctx context.Context, urlHash string) (bool, error)

	// SelectPending returns up to limit items still awaiting summarization,
	// oldest first.
	SelectPending(ctx context.Context, limit int) ([]*entity.Item, error)

	// MarkSummarized attaches the summary payload and model identifier to a
	// pending item. Returns entity.ErrAlreadySummarized when the item has
	// left the pending state, entity.ErrNotFound when no such item exists.
	MarkSummarized(ctx context.Context, id int64, summaryJSON, modelUsed string) error

	// MarkSkipped retires an item that cannot be summarized (empty excerpt)
	// so later runs stop selecting it.
	MarkSkipped(ctx context.Context, id int64) error

	// ListRecentSummarized returns the most recently summarized items,
	// newest first, for the static page generator.
	ListRecentSummarized(ctx context.Context, limit int) ([]*entity.Item, error)
}
