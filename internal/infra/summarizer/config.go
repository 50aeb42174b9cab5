package summarizer

import (
	"fmt"
	"os"
	"time"

	"feeddigest/pkg/config"
)

// Config holds provider credentials and request bounds for summarization.
type Config struct {
	// AnthropicAPIKey selects the primary provider when set
	AnthropicAPIKey string

	// OpenAIAPIKey selects the fallback provider when set and the primary is not
	OpenAIAPIKey string

	// AnthropicModel is the Claude model identifier
	AnthropicModel string

	// OpenAIModel is the OpenAI model identifier
	OpenAIModel string

	// MaxOutputTokens bounds the response length of every completion
	MaxOutputTokens int

	// Timeout is the maximum duration for a single completion call
	Timeout time.Duration
}

// DefaultConfig returns the default provider configuration. Credentials are
// always taken from the environment, never defaulted.
func DefaultConfig() Config {
	return Config{
		AnthropicModel:  "claude-haiku-4-5-20251001",
		OpenAIModel:     "gpt-4o-mini",
		MaxOutputTokens: 500,
		Timeout:         60 * time.Second,
	}
}

// LoadConfigFromEnv loads provider configuration from environment variables.
//
// Environment variables:
//   - ANTHROPIC_API_KEY / OPENAI_API_KEY: provider credentials
//   - ANTHROPIC_MODEL / OPENAI_MODEL: model overrides
//   - LLM_MAX_OUTPUT_TOKENS: response length bound
//   - LLM_TIMEOUT: per-call timeout, e.g. "60s"
func LoadConfigFromEnv() Config {
	cfg := DefaultConfig()

	cfg.AnthropicAPIKey = os.Getenv("ANTHROPIC_API_KEY")
	cfg.OpenAIAPIKey = os.Getenv("OPENAI_API_KEY")
	cfg.AnthropicModel = config.GetEnvString("ANTHROPIC_MODEL", cfg.AnthropicModel)
	cfg.OpenAIModel = config.GetEnvString("OPENAI_MODEL", cfg.OpenAIModel)
	cfg.MaxOutputTokens = config.GetEnvInt("LLM_MAX_OUTPUT_TOKENS", cfg.MaxOutputTokens)
	cfg.Timeout = config.GetEnvDuration("LLM_TIMEOUT", cfg.Timeout)

	return cfg
}

// Validate checks the request bounds. Credentials are checked at provider
// selection, not here.
func (c *Config) Validate() error {
	if err := config.ValidatePositiveDuration(c.Timeout); err != nil {
		return fmt.Errorf("timeout: %w", err)
	}
	if c.MaxOutputTokens < 1 {
		return fmt.Errorf("max output tokens must be positive, got %d", c.MaxOutputTokens)
	}
	return nil
}
