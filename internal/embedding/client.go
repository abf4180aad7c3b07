// Package embedding provides text embedding generation for category
// retrieval.
package embedding

import "context"

// Client generates fixed-dimensionality vector embeddings for text.
type Client interface {
	Embed(ctx context.Context, text string) ([]float32, error)
	EmbedBatch(ctx context.Context, texts []string) ([][]float32, error)
}
