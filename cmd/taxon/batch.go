package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/plumline/taxon/internal/common"
	"github.com/plumline/taxon/internal/model"
	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func batchCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "batch",
		Short: "Classify up to 10 products sequentially",
		Long: `Classify a batch of products from a JSON array file.

Products are processed strictly one at a time to respect decision-service
rate limits. Each product gets up to 3 attempts; a product that still
fails is reported and the batch continues.

Example:
  taxon batch --input products.json`,
		RunE: runBatch,
	}

	cmd.Flags().StringP("input", "i", "", "products JSON file (required)")
	cmd.Flags().Bool("offline", false, "skip the decision service; always flags for review")
	_ = cmd.MarkFlagRequired("input")

	_ = viper.BindPFlag("batch.input", cmd.Flags().Lookup("input"))
	_ = viper.BindPFlag("batch.offline", cmd.Flags().Lookup("offline"))

	return cmd
}

// retryableFailure reports whether another attempt can plausibly change
// the outcome. Rate limits and timeouts always can; bad input and
// hierarchy inconsistencies never can.
func retryableFailure(err error) bool {
	if common.IsRetryable(err) {
		return true
	}
	if errors.Is(err, model.ErrEmptyTitle) || errors.Is(err, common.ErrCategoryNotFound) {
		return false
	}
	return true
}

func runBatch(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()
	offline := viper.GetBool("batch.offline")

	inputs, err := readInputs(viper.GetString("batch.input"))
	if err != nil {
		return err
	}
	if len(inputs) == 0 {
		return fmt.Errorf("input file contains no products")
	}

	eng, cleanup, err := buildEngine(offline)
	if err != nil {
		return err
	}
	defer cleanup()

	bar := progressbar.Default(int64(len(inputs)), "classifying")

	// Retry is a caller concern; the engine itself never retries.
	retryOpts := common.RetryOptions{
		MaxAttempts:  3,
		InitialDelay: time.Second,
		MaxDelay:     15 * time.Second,
		Multiplier:   2.0,
	}

	classifyItem := func(ctx context.Context, input model.ClassificationInput) (*model.ClassificationOutput, error) {
		var output *model.ClassificationOutput
		retryErr := common.WithRetry(ctx, func() error {
			var attemptErr error
			if offline {
				output, attemptErr = eng.ClassifyOffline(ctx, input)
			} else {
				output, attemptErr = eng.Classify(ctx, input)
			}
			if attemptErr != nil {
				return &common.RetryableError{Err: attemptErr, Retryable: retryableFailure(attemptErr)}
			}
			return nil
		}, retryOpts)
		_ = bar.Add(1)
		return output, retryErr
	}

	results, err := eng.ClassifyBatchWith(ctx, inputs, classifyItem)
	if err != nil {
		return err
	}

	type batchLine struct {
		Title  string                      `json:"title"`
		Error  string                      `json:"error,omitempty"`
		Result *model.ClassificationOutput `json:"result,omitempty"`
	}

	lines := make([]batchLine, 0, len(results))
	failed := 0
	for _, r := range results {
		line := batchLine{Title: r.Title, Result: r.Output}
		if r.Err != nil {
			line.Error = r.Err.Error()
			failed++
		}
		lines = append(lines, line)
	}

	if err := printJSON(lines); err != nil {
		return err
	}

	slog.Info("Batch complete", "total", len(results), "failed", failed)
	return nil
}
