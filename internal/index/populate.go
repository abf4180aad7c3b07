package index

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/plumline/taxon/internal/embedding"
)

// DefaultPopulateBatchSize bounds how many category paths go into a
// single embedding request.
const DefaultPopulateBatchSize = 100

// Populate embeds every category that has no stored vector yet. It is
// resumable: interrupting and re-running picks up where it left off,
// because vectors are written per batch.
func Populate(ctx context.Context, store *Store, embedder embedding.Client, batchSize int) (int, error) {
	if batchSize <= 0 {
		batchSize = DefaultPopulateBatchSize
	}

	pending, err := store.MissingEmbeddings(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to list unembedded categories: %w", err)
	}
	if len(pending) == 0 {
		slog.Info("Category index already fully embedded")
		return 0, nil
	}

	slog.Info("Populating category embeddings",
		"pending", len(pending),
		"batch_size", batchSize)

	embedded := 0
	for start := 0; start < len(pending); start += batchSize {
		select {
		case <-ctx.Done():
			return embedded, ctx.Err()
		default:
		}

		end := start + batchSize
		if end > len(pending) {
			end = len(pending)
		}
		batch := pending[start:end]

		texts := make([]string, len(batch))
		for i, cat := range batch {
			// The full path carries the ancestor context a bare leaf
			// name lacks ("Food > Snacks > Chips" vs "Chips").
			texts[i] = cat.FullPath
		}

		vectors, embedErr := embedder.EmbedBatch(ctx, texts)
		if embedErr != nil {
			return embedded, fmt.Errorf("failed to embed batch starting at %q: %w", batch[0].Code, embedErr)
		}

		for i, cat := range batch {
			if err := store.SetEmbedding(ctx, cat.Code, vectors[i]); err != nil {
				return embedded, err
			}
			embedded++
		}
	}

	slog.Info("Category embedding population complete", "embedded", embedded)
	return embedded, nil
}
