package embedding

import (
	"context"
	"fmt"

	openai "github.com/sashabaranov/go-openai"
)

// openAIClient implements Client using the OpenAI embeddings API.
type openAIClient struct {
	client *openai.Client
	model  openai.EmbeddingModel
}

// Config holds configuration for the OpenAI embedding client.
type Config struct {
	APIKey string
	Model  string
}

// NewOpenAIClient creates a new OpenAI-backed embedding client.
func NewOpenAIClient(cfg Config) (Client, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("openai API key is required")
	}

	model := openai.AdaEmbeddingV2
	if cfg.Model != "" {
		model = openai.EmbeddingModel(cfg.Model)
	}

	return &openAIClient{
		client: openai.NewClient(cfg.APIKey),
		model:  model,
	}, nil
}

// Embed generates an embedding vector for a single text.
func (c *openAIClient) Embed(ctx context.Context, text string) ([]float32, error) {
	resp, err := c.client.CreateEmbeddings(ctx, openai.EmbeddingRequest{
		Model: c.model,
		Input: []string{text},
	})
	if err != nil {
		return nil, fmt.Errorf("embedding request failed: %w", err)
	}

	if len(resp.Data) == 0 {
		return nil, fmt.Errorf("no embedding data in response")
	}

	return resp.Data[0].Embedding, nil
}

// EmbedBatch generates embedding vectors for multiple texts in one call.
func (c *openAIClient) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	if len(texts) == 0 {
		return nil, nil
	}

	resp, err := c.client.CreateEmbeddings(ctx, openai.EmbeddingRequest{
		Model: c.model,
		Input: texts,
	})
	if err != nil {
		return nil, fmt.Errorf("batch embedding request failed: %w", err)
	}

	if len(resp.Data) != len(texts) {
		return nil, fmt.Errorf("expected %d embeddings, got %d", len(texts), len(resp.Data))
	}

	result := make([][]float32, len(resp.Data))
	for i, data := range resp.Data {
		result[i] = data.Embedding
	}
	return result, nil
}
