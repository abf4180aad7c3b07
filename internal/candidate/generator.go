// Package candidate produces ranked, deduplicated category candidates
// from the type-anchor table and embedding similarity search.
package candidate

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/plumline/taxon/internal/common"
	"github.com/plumline/taxon/internal/embedding"
	"github.com/plumline/taxon/internal/index"
	"github.com/plumline/taxon/internal/model"
)

// Hierarchy is the slice of the category index the generator needs.
type Hierarchy interface {
	ByCode(ctx context.Context, code string) (*model.Category, error)
	ByTypeLabel(ctx context.Context, label string) (string, error)
}

// Searcher runs nearest-neighbor queries against the category embeddings.
type Searcher interface {
	Search(ctx context.Context, vector []float32, opts index.SearchOptions) ([]index.Match, error)
}

// anchorScore is the fixed score for type-anchor candidates. High enough
// to survive the merge, but the anchor is a seed, never a guarantee.
const anchorScore = 0.9

// DefaultSimilarityThreshold is the floor below which search hits are
// discarded as noise.
const DefaultSimilarityThreshold = 0.3

// Options shapes one candidate generation request.
type Options struct {
	RootPrefix    string
	MaxCandidates int
	MaxDepth      int
	Threshold     float64
}

// Generator merges the two candidate sources.
type Generator struct {
	embedder  embedding.Client
	searcher  Searcher
	hierarchy Hierarchy
}

// NewGenerator creates a candidate generator.
func NewGenerator(embedder embedding.Client, searcher Searcher, hierarchy Hierarchy) *Generator {
	return &Generator{
		embedder:  embedder,
		searcher:  searcher,
		hierarchy: hierarchy,
	}
}

// GetCandidates returns up to opts.MaxCandidates candidates, highest
// scores first. A failed similarity search degrades to zero candidates;
// only when both sources fail at the transport level does the call
// return ErrRetrieval. An empty result is returned as an empty list;
// the caller decides that is NoCandidates, not this layer.
func (g *Generator) GetCandidates(ctx context.Context, input model.ClassificationInput, opts Options) (model.CandidateList, error) {
	if opts.MaxCandidates <= 0 {
		opts.MaxCandidates = 10
	}
	if opts.Threshold == 0 {
		opts.Threshold = DefaultSimilarityThreshold
	}

	anchors, anchorErr := g.anchorCandidates(ctx, input)
	if anchorErr != nil {
		slog.Warn("type-anchor lookup failed", "error", anchorErr)
	}

	matches, searchErr := g.similarityCandidates(ctx, input, opts)
	if searchErr != nil {
		// A dead search degrades to zero candidates rather than failing
		// the request; the anchor may still carry it.
		slog.Warn("similarity search failed, continuing without it", "error", searchErr)
		matches = nil
	}

	if anchorErr != nil && searchErr != nil {
		return nil, fmt.Errorf("%w: anchor: %v; search: %v", common.ErrRetrieval, anchorErr, searchErr)
	}

	merged := model.MergeCandidates(anchors, matches)
	return merged.Truncate(opts.MaxCandidates), nil
}

// anchorCandidates resolves the merchant type label against the curated
// anchor table.
func (g *Generator) anchorCandidates(ctx context.Context, input model.ClassificationInput) (model.CandidateList, error) {
	if input.ProductType == "" {
		return nil, nil
	}

	code, err := g.hierarchy.ByTypeLabel(ctx, input.ProductType)
	if err != nil {
		return nil, fmt.Errorf("anchor lookup: %w", err)
	}
	if code == "" {
		return nil, nil
	}

	cat, err := g.hierarchy.ByCode(ctx, code)
	if err != nil {
		return nil, fmt.Errorf("anchor category lookup: %w", err)
	}
	if cat == nil {
		slog.Warn("anchor table references unknown category", "code", code, "label", input.ProductType)
		return nil, nil
	}

	return model.CandidateList{{
		Code:   cat.Code,
		Path:   cat.FullPath,
		Depth:  cat.Depth,
		Origin: model.OriginTypeAnchor,
		Score:  anchorScore,
	}}, nil
}

// similarityCandidates embeds the normalized search string and queries
// the category index for nearest neighbors.
func (g *Generator) similarityCandidates(ctx context.Context, input model.ClassificationInput, opts Options) (model.CandidateList, error) {
	search := BuildSearchString(input)

	vector, err := g.embedder.Embed(ctx, search)
	if err != nil {
		return nil, fmt.Errorf("search string embedding: %w", err)
	}

	matches, err := g.searcher.Search(ctx, vector, index.SearchOptions{
		Threshold: opts.Threshold,
		Limit:     opts.MaxCandidates,
		MaxDepth:  opts.MaxDepth,
		Prefix:    opts.RootPrefix,
	})
	if err != nil {
		return nil, fmt.Errorf("similarity search: %w", err)
	}

	candidates := make(model.CandidateList, 0, len(matches))
	for _, m := range matches {
		candidates = append(candidates, model.CategoryCandidate{
			Code:   m.Code,
			Path:   m.Path,
			Depth:  m.Depth,
			Origin: model.OriginSimilarity,
			Score:  m.Similarity,
		})
	}
	return candidates, nil
}
