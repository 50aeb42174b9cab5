// Package feed parses raw RSS/Atom payloads into entries.
// It uses the gofeed library so RSS 2.0, Atom, and JSON Feed all parse
// through one code path.
package feed

import (
	"bytes"
	"fmt"
	"time"

	"github.com/mmcdole/gofeed"
)

// Entry is one item from a parsed feed. Content carries whichever of the
// feed's content or description fields was present, unprocessed; the
// extractor decides whether it is usable.
type Entry struct {
	Title       string
	URL         string
	GUID        string
	Published   *time.Time
	Content     string
}

// Parse parses a raw feed payload into entries. The payload is whatever the
// fetch client read from the feed endpoint; parsing never touches the
// network.
func Parse(data []byte) ([]Entry, error) {
	parsed, err := gofeed.NewParser().Parse(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("parse feed: %w", err)
	}

	entries := make([]Entry, 0, len(parsed.Items))
	for _, it := range parsed.Items {
		var published *time.Time
		if it.PublishedParsed != nil {
			published = it.PublishedParsed
		} else if it.UpdatedParsed != nil {
			published = it.UpdatedParsed
		}

		// Prefer full content, fall back to the description
		content := it.Content
		if content == "" {
			content = it.Description
		}

		entries = append(entries, Entry{
			Title:     it.Title,
			URL:       it.Link,
			GUID:      it.GUID,
			Published: published,
			Content:   content,
		})
	}

	return entries, nil
}
