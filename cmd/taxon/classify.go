package main

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func classifyCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "classify",
		Short: "Classify a single product",
		Long: `Classify one product into the category taxonomy.

Reads a product JSON file (title, description, product_type, tags,
variants) and prints the classification result as JSON.

Examples:
  taxon classify --input product.json
  taxon classify --input product.json --offline`,
		RunE: runClassify,
	}

	cmd.Flags().StringP("input", "i", "", "product JSON file (required)")
	cmd.Flags().Bool("offline", false, "skip the decision service; always flags for review")
	_ = cmd.MarkFlagRequired("input")

	_ = viper.BindPFlag("classification.input", cmd.Flags().Lookup("input"))
	_ = viper.BindPFlag("classification.offline", cmd.Flags().Lookup("offline"))

	return cmd
}

func runClassify(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()
	inputPath := viper.GetString("classification.input")
	offline := viper.GetBool("classification.offline")

	inputs, err := readInputs(inputPath)
	if err != nil {
		return err
	}
	if len(inputs) != 1 {
		return fmt.Errorf("classify expects exactly one product, got %d (use 'taxon batch' for multiple)", len(inputs))
	}

	eng, cleanup, err := buildEngine(offline)
	if err != nil {
		return err
	}
	defer cleanup()

	input := inputs[0]
	slog.Info("Classifying product", "title", input.Title, "offline", offline)

	output := func() (any, error) {
		if offline {
			return eng.ClassifyOffline(ctx, input)
		}
		return eng.Classify(ctx, input)
	}

	result, err := output()
	if err != nil {
		return fmt.Errorf("classification failed: %w", err)
	}

	return printJSON(result)
}
