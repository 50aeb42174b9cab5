// Package repository defines the persistence interfaces consumed by the
// usecase layer. Concrete adapters live under internal/infra/adapter.
package repository

import (
	"context"
	"time"

	"feeddigest/internal/domain/entity"
)

// SourceRepository manages tracked feed sources and their fetch state.
type SourceRepository interface {
	// UpsertByURL inserts the source if its SourceURL is unknown, otherwise
	// updates the declarative fields (name, type, explicit feed URL) and
	// reactivates it. Stored fetch state (resolved feed URL when no explicit
	// one is given, cache validators, last fetch time) is preserved. The
	// returned source carries the merged row including its ID.
	UpsertByURL(ctx context.Context, source *entity.Source) (*entity.Source, error)

	// ListActive returns every source still eligible for fetching.
	ListActive(ctx context.Context) ([]*entity.Source, error)

	// List returns every source, active or not. The render stage uses it to
	// attribute items whose source has since been deactivated.
	List(ctx context.Context) ([]*entity.Source, error)

	// UpdateFeedURL records the resolved feed location for a source.
	UpdateFeedURL(ctx context.Context, id int64, feedURL string) error

	// UpdateValidators stores the cache validators returned by the origin and
	// stamps the fetch time. Either validator may be nil when the origin did
	// not send one.
	UpdateValidators(ctx context.Context, id int64, etag, lastModified *string, fetchedAt time.Time) error

	// Deactivate marks a source inactive so later runs skip it until the
	// source list is corrected.
	Deactivate(ctx context.Context, id int64) error
}
