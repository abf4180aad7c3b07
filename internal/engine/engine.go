// Package engine orchestrates the classification pipeline: bundle
// detection, candidate generation, selection, depth adjustment,
// confidence scoring and attribute extraction.
package engine

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/plumline/taxon/internal/bundle"
	"github.com/plumline/taxon/internal/candidate"
	"github.com/plumline/taxon/internal/common"
	"github.com/plumline/taxon/internal/confidence"
	"github.com/plumline/taxon/internal/llm"
	"github.com/plumline/taxon/internal/model"
)

// MaxCandidateCap is the hierarchy-wide ceiling on candidates per
// request, regardless of configuration.
const MaxCandidateCap = 50

// MaxBatchSize bounds one batch classification call, by external
// contract with the HTTP layer.
const MaxBatchSize = 10

// offlineDecisionConfidence is the neutral midpoint used when no
// decision-service call is made.
const offlineDecisionConfidence = 0.5

// Config holds the engine's tunables.
type Config struct {
	Weights             confidence.Weights
	ReviewThreshold     float64
	MaxCandidates       int
	SimilarityThreshold float64
	RootPrefix          string
	ExtractAttributes   bool
}

// DefaultConfig returns the default engine configuration.
func DefaultConfig() Config {
	return Config{
		ReviewThreshold:     confidence.DefaultReviewThreshold,
		MaxCandidates:       10,
		SimilarityThreshold: candidate.DefaultSimilarityThreshold,
		ExtractAttributes:   true,
		Weights:             confidence.DefaultWeights(),
	}
}

// Engine is the classification orchestrator. It holds only read-only
// collaborators, so a single Engine serves concurrent requests.
type Engine struct {
	candidates CandidateSource
	hierarchy  Hierarchy
	decisions  llm.Client
	config     Config
}

// New creates a classification engine with the given dependencies.
func New(candidates CandidateSource, hierarchy Hierarchy, decisions llm.Client, config Config) *Engine {
	if config.MaxCandidates <= 0 {
		config.MaxCandidates = DefaultConfig().MaxCandidates
	}
	if config.MaxCandidates > MaxCandidateCap {
		config.MaxCandidates = MaxCandidateCap
	}
	if config.ReviewThreshold == 0 {
		config.ReviewThreshold = confidence.DefaultReviewThreshold
	}
	if config.Weights == (confidence.Weights{}) {
		config.Weights = confidence.DefaultWeights()
	}

	return &Engine{
		candidates: candidates,
		hierarchy:  hierarchy,
		decisions:  decisions,
		config:     config,
	}
}

// Classify runs the full pipeline for one product. It is a single pass
// with no internal retries; retry policy belongs to the caller.
func (e *Engine) Classify(ctx context.Context, input model.ClassificationInput) (*model.ClassificationOutput, error) {
	return e.classify(ctx, input, false)
}

// ClassifyOffline classifies without the decision service: the top
// candidate wins, confidence is fixed at a neutral midpoint, the result
// is always flagged for review, and attributes are skipped. Used for
// testing and degraded-mode operation.
func (e *Engine) ClassifyOffline(ctx context.Context, input model.ClassificationInput) (*model.ClassificationOutput, error) {
	return e.classify(ctx, input, true)
}

func (e *Engine) classify(ctx context.Context, input model.ClassificationInput, offline bool) (*model.ClassificationOutput, error) {
	if err := input.Validate(); err != nil {
		return nil, err
	}

	detection := bundle.Detect(input)
	if detection.IsBundle {
		slog.Debug("bundle detected",
			"title", input.Title,
			"confidence", detection.Confidence,
			"signals", detection.Signals)
	}

	candidates, err := e.candidates.GetCandidates(ctx, input, candidate.Options{
		MaxCandidates: e.config.MaxCandidates,
		MaxDepth:      detection.RecommendedMaxDepth,
		Threshold:     e.config.SimilarityThreshold,
		RootPrefix:    e.config.RootPrefix,
	})
	if err != nil {
		return nil, fmt.Errorf("candidate generation: %w", err)
	}
	if len(candidates) == 0 {
		return nil, fmt.Errorf("%w for %q", common.ErrNoCandidates, input.Title)
	}

	var decision *model.Decision
	if offline {
		decision = &model.Decision{
			SelectedCode: candidates.Top().Code,
			Confidence:   offlineDecisionConfidence,
		}
	} else {
		prompt := llm.BuildSelectionPrompt(input, candidates)
		raw, completeErr := e.decisions.Complete(ctx, llm.SelectionSystemPrompt, prompt)
		if completeErr != nil {
			return nil, fmt.Errorf("%w: %v", common.ErrDecisionParse, completeErr)
		}

		decision = llm.ParseDecision(raw)
		if decision == nil {
			return nil, fmt.Errorf("%w: no structured decision in response", common.ErrDecisionParse)
		}
	}

	// An out-of-set selection falls back to the top candidate. This is
	// a defined substitution, never an error.
	chosen := candidates.FindByCode(decision.SelectedCode)
	if chosen == nil {
		chosen = candidates.Top()
		slog.Warn("decision selected unknown candidate, substituting top",
			"selected", decision.SelectedCode,
			"substitute", chosen.Code)
	}

	adjustedCode := confidence.AdjustCategoryForBundle(chosen.Code, &detection)

	category, err := e.hierarchy.ByCode(ctx, adjustedCode)
	if err != nil {
		return nil, fmt.Errorf("hierarchy lookup: %w", err)
	}
	if category == nil {
		return nil, fmt.Errorf("%w: %q", common.ErrCategoryNotFound, adjustedCode)
	}

	topMatch := topSimilarityMatch(candidates)
	var topScore *float64
	if topMatch != nil {
		topScore = &topMatch.Score
	}

	score := confidence.Score(e.config.Weights, decision.Confidence, topScore, &detection)
	needsReview := offline || confidence.NeedsReview(score, e.config.ReviewThreshold)

	var attributes []model.AttributeAssignment
	if !offline && e.config.ExtractAttributes && len(category.Attributes) > 0 {
		attributes = e.extractAttributes(ctx, input, category)
	}

	return &model.ClassificationOutput{
		Category: model.CategoryAssignment{
			Code:       category.Code,
			FullPath:   category.FullPath,
			ExternalID: category.ExternalID,
			Confidence: score,
		},
		Attributes:  attributes,
		Reasoning:   decision.Reasoning,
		NeedsReview: needsReview,
		Signals: model.Signals{
			IsBundle:      detection.IsBundle,
			TopSimilarity: topMatch,
		},
	}, nil
}

// extractAttributes issues a second, independent decision-service call
// constrained to the category's attribute schema. Malformed responses
// degrade to an empty list, not a failure.
func (e *Engine) extractAttributes(ctx context.Context, input model.ClassificationInput, category *model.Category) []model.AttributeAssignment {
	prompt := llm.BuildAttributePrompt(input, category)
	raw, err := e.decisions.Complete(ctx, llm.AttributeSystemPrompt, prompt)
	if err != nil {
		slog.Warn("attribute extraction call failed, continuing without attributes",
			"category", category.Code,
			"error", err)
		return nil
	}
	return llm.ParseAttributes(raw, category)
}

// topSimilarityMatch returns the strongest similarity-search hit among
// the candidates, or nil when retrieval contributed none. Anchor
// candidates carry a fixed seed score, not a similarity, so they are
// excluded.
func topSimilarityMatch(candidates model.CandidateList) *model.SimilarityMatch {
	var top *model.CategoryCandidate
	for i := range candidates {
		if candidates[i].Origin != model.OriginSimilarity {
			continue
		}
		if top == nil || candidates[i].Score > top.Score {
			top = &candidates[i]
		}
	}
	if top == nil {
		return nil
	}
	return &model.SimilarityMatch{Path: top.Path, Score: top.Score}
}
