package llm

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	openai "github.com/sashabaranov/go-openai"
)

// Request describes one call to the generation service.
type Request struct {
	Model       string
	System      string
	Prompt      string
	Temperature float32
	MaxTokens   int
}

// Client is the generation service collaborator: one synchronous
// call-and-wait per request, returning text or an error.
type Client interface {
	Complete(ctx context.Context, req Request) (string, error)
}

// Options configures the OpenAI-compatible client.
type Options struct {
	APIKey  string
	BaseURL string // Optional; set for OpenRouter or local endpoints.
}

// OpenAI calls an OpenAI-compatible chat completions endpoint. Transient
// failures (429, 5xx) are retried with backoff before the error surfaces.
type OpenAI struct {
	client *openai.Client
	stats  *Stats
	log    *slog.Logger
}

// NewOpenAI creates a client. The base URL override selects alternate
// providers that speak the same API.
func NewOpenAI(opts Options, stats *Stats, log *slog.Logger) *OpenAI {
	cfg := openai.DefaultConfig(opts.APIKey)
	if opts.BaseURL != "" {
		cfg.BaseURL = opts.BaseURL
	}
	return &OpenAI{
		client: openai.NewClientWithConfig(cfg),
		stats:  stats,
		log:    log,
	}
}

// Complete sends a chat completion request and returns the response text.
func (c *OpenAI) Complete(ctx context.Context, req Request) (string, error) {
	var messages []openai.ChatCompletionMessage
	if req.System != "" {
		messages = append(messages, openai.ChatCompletionMessage{
			Role:    openai.ChatMessageRoleSystem,
			Content: req.System,
		})
	}
	messages = append(messages, openai.ChatCompletionMessage{
		Role:    openai.ChatMessageRoleUser,
		Content: req.Prompt,
	})

	var lastErr error
	for attempt := range MaxRetries {
		start := time.Now()
		resp, err := c.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
			Model:       req.Model,
			Messages:    messages,
			Temperature: req.Temperature,
			MaxTokens:   req.MaxTokens,
		})
		if c.stats != nil {
			c.stats.Record(time.Since(start), err == nil)
		}
		if err == nil {
			if len(resp.Choices) == 0 {
				return "", fmt.Errorf("empty response from model %s", req.Model)
			}
			return resp.Choices[0].Message.Content, nil
		}

		lastErr = err
		if !IsRetryable(err) {
			break
		}
		c.log.Warn("retryable completion error", "model", req.Model, "attempt", attempt, "error", err)
		select {
		case <-time.After(Backoff(attempt)):
		case <-ctx.Done():
			return "", ctx.Err()
		}
	}

	return "", fmt.Errorf("chat completion: %w", lastErr)
}
