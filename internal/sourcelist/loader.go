// Package sourcelist loads the declarative feed source list. The list is the
// single place operators add or remove sources; the ingest stage syncs it
// into the store on every run.
package sourcelist

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"feeddigest/internal/domain/entity"
)

// DefaultPath is where the source list lives unless FEEDS_PATH overrides it.
const DefaultPath = "feeds.yaml"

type sourceEntry struct {
	Name    string `yaml:"name"`
	URL     string `yaml:"url"`
	Type    string `yaml:"type"`
	FeedURL string `yaml:"feed_url"`
}

type sourceFile struct {
	Sources []sourceEntry `yaml:"sources"`
}

// Load reads and validates the source list at path. Entries without a type
// default to "site"; an entry that fails validation fails the whole load so
// a typo never silently drops a source.
func Load(path string) ([]*entity.Source, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read source list: %w", err)
	}

	var parsed sourceFile
	if err := yaml.Unmarshal(data, &parsed); err != nil {
		return nil, fmt.Errorf("parse source list %s: %w", path, err)
	}

	sources := make([]*entity.Source, 0, len(parsed.Sources))
	for i, e := range parsed.Sources {
		src := &entity.Source{
			Name:      e.Name,
			SourceURL: e.URL,
			Type:      entity.SourceType(e.Type),
		}
		if e.FeedURL != "" {
			feedURL := e.FeedURL
			src.FeedURL = &feedURL
		}
		if err := src.Validate(); err != nil {
			return nil, fmt.Errorf("source list %s entry %d: %w", path, i, err)
		}
		sources = append(sources, src)
	}

	return sources, nil
}
