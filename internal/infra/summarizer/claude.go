package summarizer

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
	"github.com/google/uuid"
	"github.com/sony/gobreaker"

	"feeddigest/internal/resilience/circuitbreaker"
	"feeddigest/internal/resilience/retry"
	"feeddigest/internal/utils/text"
)

// Claude implements Provider using Anthropic's Messages API.
// It includes circuit breaker and retry logic for improved reliability.
type Claude struct {
	client          anthropic.Client
	circuitBreaker  *circuitbreaker.CircuitBreaker
	retryConfig     retry.Config
	model           string
	maxOutputTokens int
	timeout         time.Duration
	metricsRecorder LLMMetricsRecorder
}

// NewClaude creates a Claude provider from the given configuration.
func NewClaude(cfg Config) *Claude {
	return &Claude{
		client:          anthropic.NewClient(option.WithAPIKey(cfg.AnthropicAPIKey)),
		circuitBreaker:  circuitbreaker.New(circuitbreaker.ClaudeAPIConfig()),
		retryConfig:     retry.AIAPIConfig(),
		model:           cfg.AnthropicModel,
		maxOutputTokens: cfg.MaxOutputTokens,
		timeout:         cfg.Timeout,
		metricsRecorder: NewPrometheusLLMMetrics(),
	}
}

// ModelID returns the configured Claude model identifier.
func (c *Claude) ModelID() string {
	return c.model
}

// Complete sends one prompt pair through retry and circuit breaker.
// Auth failures surface as non-retryable *retry.HTTPError values so the
// caller can abort the run.
func (c *Claude) Complete(ctx context.Context, system, user string) (string, error) {
	var result string

	retryErr := retry.WithBackoff(ctx, c.retryConfig, func() error {
		cbResult, err := c.circuitBreaker.Execute(func() (interface{}, error) {
			return c.doComplete(ctx, system, user)
		})
		if err != nil {
			if errors.Is(err, gobreaker.ErrOpenState) {
				slog.Warn("claude api circuit breaker open, request rejected",
					slog.String("service", "claude-api"),
					slog.String("state", c.circuitBreaker.State().String()))
				return fmt.Errorf("claude api unavailable: circuit breaker open")
			}
			return err
		}

		result = cbResult.(string)
		return nil
	})
	if retryErr != nil {
		return "", fmt.Errorf("claude completion failed: %w", retryErr)
	}

	return result, nil
}

// doComplete performs one API call without retry or circuit breaker.
// Prompt and response content never reach the logs, only their lengths.
func (c *Claude) doComplete(ctx context.Context, system, user string) (string, error) {
	requestID := uuid.New().String()

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	slog.InfoContext(ctx, "starting claude completion",
		slog.String("request_id", requestID),
		slog.String("model", c.model),
		slog.Int("input_length", text.CountRunes(user)))

	start := time.Now()
	message, err := c.client.Messages.New(ctx, anthropic.MessageNewParams{
		Model:     anthropic.Model(c.model),
		MaxTokens: int64(c.maxOutputTokens),
		System: []anthropic.TextBlockParam{
			{Text: system},
		},
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(
				anthropic.NewTextBlock(user),
			),
		},
	})
	duration := time.Since(start)

	if err != nil {
		c.metricsRecorder.RecordCall("anthropic", false, duration)
		slog.ErrorContext(ctx, "claude completion failed",
			slog.String("request_id", requestID),
			slog.Duration("duration", duration),
			slog.String("error", err.Error()))
		return "", classifyAnthropicError(err)
	}

	if len(message.Content) == 0 {
		c.metricsRecorder.RecordCall("anthropic", false, duration)
		return "", fmt.Errorf("claude api returned empty response")
	}

	textBlock, ok := message.Content[0].AsAny().(anthropic.TextBlock)
	if !ok {
		c.metricsRecorder.RecordCall("anthropic", false, duration)
		return "", fmt.Errorf("claude api returned unexpected response type")
	}

	c.metricsRecorder.RecordCall("anthropic", true, duration)
	slog.InfoContext(ctx, "claude completion done",
		slog.String("request_id", requestID),
		slog.Int("output_length", text.CountRunes(textBlock.Text)),
		slog.Duration("duration", duration))

	return textBlock.Text, nil
}

// classifyAnthropicError converts SDK API errors into *retry.HTTPError so
// the backoff layer can distinguish throttling from auth failure.
func classifyAnthropicError(err error) error {
	var apiErr *anthropic.Error
	if errors.As(err, &apiErr) {
		return fmt.Errorf("claude api error: %w",
			&retry.HTTPError{StatusCode: apiErr.StatusCode, Message: apiErr.Error()})
	}
	return fmt.Errorf("claude api error: %w", err)
}
