package fetcher

import (
	"fmt"
	"time"

	"feeddigest/pkg/config"
)

// Config holds the configuration for the HTTP fetch client.
type Config struct {
	// Timeout is the maximum duration for a single HTTP request
	Timeout time.Duration

	// MaxBodySize is the maximum response body size in bytes; larger
	// responses are rejected while reading, not from Content-Length
	MaxBodySize int64

	// MaxRedirects is the maximum number of redirects to follow; each
	// redirect target is re-validated
	MaxRedirects int

	// UserAgent is sent on every request
	UserAgent string

	// DenyPrivateIPs blocks URLs resolving to private, loopback, or
	// link-local addresses
	DenyPrivateIPs bool

	// BlockedHosts are hostnames refused without ever being requested,
	// on top of the hosts blacklisted dynamically during a run
	BlockedHosts []string
}

// DefaultConfig returns production defaults for the fetch client.
func DefaultConfig() Config {
	return Config{
		Timeout:        15 * time.Second,
		MaxBodySize:    10 * 1024 * 1024, // 10MB
		MaxRedirects:   5,
		UserAgent:      "feeddigest/1.0 (+https://github.com/feeddigest)",
		DenyPrivateIPs: true,
	}
}

// LoadConfigFromEnv loads fetch client configuration from environment
// variables, falling back to defaults for anything unset.
//
// Environment variables:
//   - FETCH_TIMEOUT: duration string, e.g. "15s"
//   - FETCH_MAX_BODY_SIZE: integer bytes
//   - FETCH_MAX_REDIRECTS: integer
//   - FETCH_USER_AGENT: string
//   - FETCH_DENY_PRIVATE_IPS: "true" or "false"
//   - FETCH_BLOCKED_HOSTS: comma-separated hostnames to refuse outright
func LoadConfigFromEnv() (Config, error) {
	cfg := DefaultConfig()

	cfg.Timeout = config.GetEnvDuration("FETCH_TIMEOUT", cfg.Timeout)
	cfg.MaxBodySize = int64(config.GetEnvInt("FETCH_MAX_BODY_SIZE", int(cfg.MaxBodySize)))
	cfg.MaxRedirects = config.GetEnvInt("FETCH_MAX_REDIRECTS", cfg.MaxRedirects)
	cfg.UserAgent = config.GetEnvString("FETCH_USER_AGENT", cfg.UserAgent)
	cfg.DenyPrivateIPs = config.GetEnvBool("FETCH_DENY_PRIVATE_IPS", cfg.DenyPrivateIPs)
	cfg.BlockedHosts = config.GetEnvStringList("FETCH_BLOCKED_HOSTS", nil)

	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("fetch configuration validation failed: %w", err)
	}
	return cfg, nil
}

// Validate checks the configuration values for sanity.
func (c *Config) Validate() error {
	if err := config.ValidateDurationRange(c.Timeout, 1*time.Second, 5*time.Minute); err != nil {
		return fmt.Errorf("timeout: %w", err)
	}

	minBodySize := int64(1024)              // 1KB
	maxBodySize := int64(100 * 1024 * 1024) // 100MB
	if c.MaxBodySize < minBodySize || c.MaxBodySize > maxBodySize {
		return fmt.Errorf("max body size must be between %d and %d bytes, got %d", minBodySize, maxBodySize, c.MaxBodySize)
	}

	if c.MaxRedirects < 0 || c.MaxRedirects > 10 {
		return fmt.Errorf("max redirects must be between 0 and 10, got %d", c.MaxRedirects)
	}

	if c.UserAgent == "" {
		return fmt.Errorf("user agent must not be empty")
	}

	return nil
}
