// Package config loads the application-level pipeline configuration from
// environment variables. Stage-specific knobs (fetch client, provider) load
// in their own packages; this covers the knobs shared across stages.
package config

import (
	"fmt"
	"time"

	pkgconfig "feeddigest/pkg/config"
)

// AppConfig holds the pipeline-wide settings.
type AppConfig struct {
	// FeedsPath is the location of the declarative source list.
	FeedsPath string
	// SiteDir is where the generator writes the static page.
	SiteDir string
	// MaxCharsPerItem bounds stored item excerpts.
	MaxCharsPerItem int
	// MaxNewItemsPerRun caps items sent to the LLM per run.
	MaxNewItemsPerRun int
	// MaxDisplayItems caps summaries on the generated page.
	MaxDisplayItems int
	// FetchPacing is the minimum gap between per-source feed fetches.
	FetchPacing time.Duration
	// SummarizePacing is the minimum gap between provider calls.
	SummarizePacing time.Duration
}

// LoadAppConfig reads the pipeline configuration from the environment,
// falling back to defaults that match a single-operator deployment.
func LoadAppConfig() (*AppConfig, error) {
	cfg := &AppConfig{
		FeedsPath:         pkgconfig.GetEnvString("FEEDS_PATH", "feeds.yaml"),
		SiteDir:           pkgconfig.GetEnvString("SITE_DIR", "site"),
		MaxCharsPerItem:   pkgconfig.GetEnvInt("MAX_CHARS_PER_ITEM", 8000),
		MaxNewItemsPerRun: pkgconfig.GetEnvInt("MAX_NEW_ITEMS_PER_RUN", 25),
		MaxDisplayItems:   pkgconfig.GetEnvInt("MAX_DISPLAY_ITEMS", 100),
		FetchPacing:       pkgconfig.GetEnvDuration("FETCH_PACING", 1*time.Second),
		SummarizePacing:   pkgconfig.GetEnvDuration("SUMMARIZE_PACING", 500*time.Millisecond),
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("app configuration validation failed: %w", err)
	}
	return cfg, nil
}

// Validate checks the loaded values. Zero pacing is legal and disables
// pacing entirely; negative values are not.
func (c *AppConfig) Validate() error {
	if err := pkgconfig.ValidateNonNegativeDuration(c.FetchPacing); err != nil {
		return fmt.Errorf("fetch pacing: %w", err)
	}
	if err := pkgconfig.ValidateNonNegativeDuration(c.SummarizePacing); err != nil {
		return fmt.Errorf("summarize pacing: %w", err)
	}
	if c.MaxCharsPerItem < 1 {
		return fmt.Errorf("max chars per item must be positive, got %d", c.MaxCharsPerItem)
	}
	if c.MaxNewItemsPerRun < 1 {
		return fmt.Errorf("max new items per run must be positive, got %d", c.MaxNewItemsPerRun)
	}
	if c.MaxDisplayItems < 1 {
		return fmt.Errorf("max display items must be positive, got %d", c.MaxDisplayItems)
	}
	return nil
}
