package main

import (
	"fmt"
	"log/slog"

	"github.com/plumline/taxon/internal/index"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func indexCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "index",
		Short: "Build or refresh the category index",
		Long: `Load the taxonomy and the merchant type-anchor table into the
category index, then embed any categories that do not have vectors yet.

Population is resumable: embeddings are written per batch, so an
interrupted run picks up where it left off.

Example:
  taxon index --taxonomy taxonomy.yaml --anchors anchors.yaml`,
		RunE: runIndex,
	}

	cmd.Flags().String("taxonomy", "", "taxonomy YAML file")
	cmd.Flags().String("anchors", "", "type-anchor YAML file")
	cmd.Flags().Int("batch-size", index.DefaultPopulateBatchSize, "categories per embedding request")

	_ = viper.BindPFlag("index.taxonomy", cmd.Flags().Lookup("taxonomy"))
	_ = viper.BindPFlag("index.anchors", cmd.Flags().Lookup("anchors"))
	_ = viper.BindPFlag("index.batch_size", cmd.Flags().Lookup("batch-size"))

	return cmd
}

func runIndex(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()

	store, err := openStore()
	if err != nil {
		return fmt.Errorf("failed to open category index: %w", err)
	}
	defer func() {
		if closeErr := store.Close(); closeErr != nil {
			slog.Error("Failed to close index", "error", closeErr)
		}
	}()

	if err := store.Migrate(ctx); err != nil {
		return fmt.Errorf("failed to migrate index: %w", err)
	}

	if taxonomyPath := viper.GetString("index.taxonomy"); taxonomyPath != "" {
		categories, loadErr := index.LoadTaxonomy(expandPath(taxonomyPath))
		if loadErr != nil {
			return loadErr
		}
		if err := store.UpsertCategories(ctx, categories); err != nil {
			return err
		}
		slog.Info("Taxonomy loaded", "categories", len(categories))
	}

	if anchorPath := viper.GetString("index.anchors"); anchorPath != "" {
		anchors, loadErr := index.LoadAnchors(expandPath(anchorPath))
		if loadErr != nil {
			return loadErr
		}
		if err := store.UpsertAnchors(ctx, anchors); err != nil {
			return err
		}
		slog.Info("Type anchors loaded", "anchors", len(anchors))
	}

	embedder, err := newEmbedder()
	if err != nil {
		return fmt.Errorf("failed to create embedding client: %w", err)
	}

	embedded, err := index.Populate(ctx, store, embedder, viper.GetInt("index.batch_size"))
	if err != nil {
		return fmt.Errorf("embedding population failed: %w", err)
	}

	slog.Info("Index ready", "newly_embedded", embedded)
	return nil
}
