// Package entity defines the core domain entities and validation logic for the
// pipeline: tracked feed Sources, ingested Items, and structured Summaries.
package entity

import (
	"fmt"
	"time"
)

// SourceType is the closed set of feed kinds the resolver knows how to handle.
// Each type maps to exactly one feed-location discovery strategy.
type SourceType string

const (
	SourceTypeRSS      SourceType = "rss"
	SourceTypeSubstack SourceType = "substack"
	SourceTypeMedium   SourceType = "medium"
	SourceTypeYouTube  SourceType = "youtube"
	SourceTypeSite     SourceType = "site"
)

// Valid reports whether the type tag is a member of the closed set.
func (t SourceType) Valid() bool {
	switch t {
	case SourceTypeRSS, SourceTypeSubstack, SourceTypeMedium, SourceTypeYouTube, SourceTypeSite:
		return true
	}
	return false
}

// Source represents a tracked content origin.
// FeedURL stays nil until resolution succeeds; Active flips to false when
// resolution or validation fails and stays false until manually corrected.
// ETag and LastModified are opaque cache validators returned by the origin
// and replayed on the next conditional fetch.
type Source struct {
	ID           int64
	Name         string
	SourceURL    string
	FeedURL      *string
	Type         SourceType
	Active       bool
	LastFetchAt  *time.Time
	ETag         *string
	LastModified *string
}

// Validate checks the Source fields that the ingest path depends on.
// An empty type defaults to "site", matching the declarative source list.
func (s *Source) Validate() error {
	if s.Name == "" {
		return &ValidationError{Field: "name", Message: "must not be empty"}
	}
	if s.SourceURL == "" {
		return &ValidationError{Field: "source_url", Message: "must not be empty"}
	}
	if s.Type == "" {
		s.Type = SourceTypeSite
	}
	if !s.Type.Valid() {
		return &ValidationError{
			Field:   "type",
			Message: fmt.Sprintf("invalid source type %q (must be rss, substack, medium, youtube, or site)", s.Type),
		}
	}
	return nil
}
