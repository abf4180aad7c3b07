package llm

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"

	"github.com/plumline/taxon/internal/common"
)

const defaultModel = "claude-sonnet-4-5-20250929"

// Config holds configuration for the decision-service client.
type Config struct {
	APIKey    string
	Model     string
	MaxTokens int
	RateLimit int
}

// anthropicClient implements Client using the Anthropic API.
type anthropicClient struct {
	client      anthropic.Client
	rateLimiter *rateLimiter
	model       anthropic.Model
	maxTokens   int64
}

// NewAnthropicClient creates a new Anthropic-backed decision client.
func NewAnthropicClient(cfg Config) (Client, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("anthropic API key is required")
	}

	model := cfg.Model
	if model == "" {
		model = defaultModel
	}

	maxTokens := cfg.MaxTokens
	if maxTokens == 0 {
		maxTokens = 1024
	}

	return &anthropicClient{
		client:      anthropic.NewClient(option.WithAPIKey(cfg.APIKey)),
		model:       anthropic.Model(model),
		maxTokens:   int64(maxTokens),
		rateLimiter: newRateLimiter(cfg.RateLimit),
	}, nil
}

// Complete sends a prompt pair to the decision service and returns the
// first text block of the response.
func (c *anthropicClient) Complete(ctx context.Context, systemPrompt, userPrompt string) (string, error) {
	if err := c.rateLimiter.wait(ctx); err != nil {
		return "", fmt.Errorf("rate limit error: %w", err)
	}

	params := anthropic.MessageNewParams{
		Model:     c.model,
		MaxTokens: c.maxTokens,
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(userPrompt)),
		},
	}
	if systemPrompt != "" {
		params.System = []anthropic.TextBlockParam{{Text: systemPrompt}}
	}

	message, err := c.client.Messages.New(ctx, params)
	if err != nil {
		return "", wrapAPIError(err)
	}

	for _, block := range message.Content {
		if block.Type == "text" {
			return block.Text, nil
		}
	}
	return "", fmt.Errorf("no text content in response")
}

// wrapAPIError maps throttling responses to common.ErrRateLimit so the
// retry layer backs off at its delay ceiling instead of hammering the
// API; everything else is wrapped as-is.
func wrapAPIError(err error) error {
	var apiErr *anthropic.Error
	if errors.As(err, &apiErr) && apiErr.StatusCode == http.StatusTooManyRequests {
		return fmt.Errorf("anthropic request failed: %w: %v", common.ErrRateLimit, err)
	}
	return fmt.Errorf("anthropic request failed: %w", err)
}

// Close stops the rate limiter's background goroutine.
func (c *anthropicClient) Close() error {
	c.rateLimiter.Close()
	return nil
}
