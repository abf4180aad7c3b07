package engine

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/plumline/taxon/internal/model"
)

// BatchResult pairs one input with its outcome. A failed product does
// not abort the rest of the batch.
type BatchResult struct {
	Output *model.ClassificationOutput
	Err    error
	Title  string
}

// ClassifyBatch classifies up to MaxBatchSize products strictly
// sequentially. The serialization is deliberate backpressure against the
// decision service's rate limits, not an oversight; do not parallelize.
func (e *Engine) ClassifyBatch(ctx context.Context, inputs []model.ClassificationInput) ([]BatchResult, error) {
	return e.ClassifyBatchWith(ctx, inputs, e.Classify)
}

// ClassifyBatchWith runs the batch loop with a caller-supplied per-item
// function, so callers can wrap items (retry, offline mode, progress
// reporting) without re-implementing the sequencing, size limit, and
// cancellation rules.
func (e *Engine) ClassifyBatchWith(ctx context.Context, inputs []model.ClassificationInput, classify func(context.Context, model.ClassificationInput) (*model.ClassificationOutput, error)) ([]BatchResult, error) {
	if len(inputs) > MaxBatchSize {
		return nil, fmt.Errorf("batch of %d exceeds limit of %d", len(inputs), MaxBatchSize)
	}

	results := make([]BatchResult, 0, len(inputs))
	for _, input := range inputs {
		select {
		case <-ctx.Done():
			return results, ctx.Err()
		default:
		}

		output, err := classify(ctx, input)
		if err != nil {
			slog.Warn("batch item failed", "title", input.Title, "error", err)
		}
		results = append(results, BatchResult{
			Title:  input.Title,
			Output: output,
			Err:    err,
		})
	}
	return results, nil
}
