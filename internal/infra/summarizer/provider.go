// Package summarizer provides LLM provider adapters for structured
// summarization. It includes Claude (Anthropic) and OpenAI clients with
// reliability patterns; exactly one provider is selected per run.
package summarizer

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"feeddigest/internal/resilience/retry"
)

// ErrNoCredentials indicates neither provider credential is configured.
// This is fatal: the summarization stage cannot run without a provider.
var ErrNoCredentials = errors.New("no LLM API key configured: set ANTHROPIC_API_KEY or OPENAI_API_KEY")

// Provider is a single LLM endpoint. Complete sends one system/user prompt
// pair and returns the raw response text.
type Provider interface {
	Complete(ctx context.Context, system, user string) (string, error)
	// ModelID identifies the concrete model, recorded on summarized items.
	ModelID() string
}

// NewProvider selects the provider for this run: Claude when the Anthropic
// credential is configured, otherwise OpenAI, never both. The choice is made
// once here, not per call.
func NewProvider(cfg Config) (Provider, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("provider configuration: %w", err)
	}
	if cfg.AnthropicAPIKey != "" {
		slog.Info("using LLM provider", slog.String("provider", "anthropic"), slog.String("model", cfg.AnthropicModel))
		return NewClaude(cfg), nil
	}
	if cfg.OpenAIAPIKey != "" {
		slog.Info("using LLM provider", slog.String("provider", "openai"), slog.String("model", cfg.OpenAIModel))
		return NewOpenAI(cfg), nil
	}
	return nil, ErrNoCredentials
}

// IsAuthError reports whether the error chain carries an HTTP 401 or 403
// from the provider. Auth failures are fatal for the whole run: every
// subsequent call would fail the same way.
func IsAuthError(err error) bool {
	var httpErr *retry.HTTPError
	if !errors.As(err, &httpErr) {
		return false
	}
	return httpErr.StatusCode == http.StatusUnauthorized || httpErr.StatusCode == http.StatusForbidden
}
