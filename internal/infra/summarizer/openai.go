package summarizer

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	openai "github.com/sashabaranov/go-openai"
	"github.com/sony/gobreaker"

	"feeddigest/internal/resilience/circuitbreaker"
	"feeddigest/internal/resilience/retry"
	"feeddigest/internal/utils/text"
)

// OpenAI implements Provider using the Chat Completions API. It is the
// fallback provider, selected only when no Anthropic credential is present.
type OpenAI struct {
	client          *openai.Client
	circuitBreaker  *circuitbreaker.CircuitBreaker
	retryConfig     retry.Config
	model           string
	maxOutputTokens int
	timeout         time.Duration
	metricsRecorder LLMMetricsRecorder
}

// NewOpenAI creates an OpenAI provider from the given configuration.
func NewOpenAI(cfg Config) *OpenAI {
	return &OpenAI{
		client:          openai.NewClient(cfg.OpenAIAPIKey),
		circuitBreaker:  circuitbreaker.New(circuitbreaker.OpenAIAPIConfig()),
		retryConfig:     retry.AIAPIConfig(),
		model:           cfg.OpenAIModel,
		maxOutputTokens: cfg.MaxOutputTokens,
		timeout:         cfg.Timeout,
		metricsRecorder: NewPrometheusLLMMetrics(),
	}
}

// ModelID returns the configured OpenAI model identifier.
func (o *OpenAI) ModelID() string {
	return o.model
}

// Complete sends one prompt pair through retry and circuit breaker.
func (o *OpenAI) Complete(ctx context.Context, system, user string) (string, error) {
	var result string

	retryErr := retry.WithBackoff(ctx, o.retryConfig, func() error {
		cbResult, err := o.circuitBreaker.Execute(func() (interface{}, error) {
			return o.doComplete(ctx, system, user)
		})
		if err != nil {
			if errors.Is(err, gobreaker.ErrOpenState) {
				slog.Warn("openai api circuit breaker open, request rejected",
					slog.String("service", "openai-api"),
					slog.String("state", o.circuitBreaker.State().String()))
				return fmt.Errorf("openai api unavailable: circuit breaker open")
			}
			return err
		}

		result = cbResult.(string)
		return nil
	})
	if retryErr != nil {
		return "", fmt.Errorf("openai completion failed: %w", retryErr)
	}

	return result, nil
}

// doComplete performs one API call without retry or circuit breaker.
func (o *OpenAI) doComplete(ctx context.Context, system, user string) (string, error) {
	requestID := uuid.New().String()

	ctx, cancel := context.WithTimeout(ctx, o.timeout)
	defer cancel()

	slog.InfoContext(ctx, "starting openai completion",
		slog.String("request_id", requestID),
		slog.String("model", o.model),
		slog.Int("input_length", text.CountRunes(user)))

	start := time.Now()
	resp, err := o.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:     o.model,
		MaxTokens: o.maxOutputTokens,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: system},
			{Role: openai.ChatMessageRoleUser, Content: user},
		},
	})
	duration := time.Since(start)

	if err != nil {
		o.metricsRecorder.RecordCall("openai", false, duration)
		slog.ErrorContext(ctx, "openai completion failed",
			slog.String("request_id", requestID),
			slog.Duration("duration", duration),
			slog.String("error", err.Error()))
		return "", classifyOpenAIError(err)
	}

	if len(resp.Choices) == 0 {
		o.metricsRecorder.RecordCall("openai", false, duration)
		return "", fmt.Errorf("openai api returned no choices")
	}

	content := resp.Choices[0].Message.Content
	o.metricsRecorder.RecordCall("openai", true, duration)
	slog.InfoContext(ctx, "openai completion done",
		slog.String("request_id", requestID),
		slog.Int("output_length", text.CountRunes(content)),
		slog.Duration("duration", duration))

	return content, nil
}

// classifyOpenAIError converts SDK API errors into *retry.HTTPError so the
// backoff layer can distinguish throttling from auth failure.
func classifyOpenAIError(err error) error {
	var apiErr *openai.APIError
	if errors.As(err, &apiErr) {
		return fmt.Errorf("openai api error: %w",
			&retry.HTTPError{StatusCode: apiErr.HTTPStatusCode, Message: apiErr.Message})
	}
	return fmt.Errorf("openai api error: %w", err)
}
