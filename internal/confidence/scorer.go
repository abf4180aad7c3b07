// Package confidence combines the pipeline's signals into a single
// bounded score and gates human review.
package confidence

import (
	"strings"

	"github.com/plumline/taxon/internal/model"
)

// Weights configures the blend of signals. The decision service's
// self-reported certainty dominates; retrieval similarity is a sanity
// check; bundle ambiguity is a minor penalty.
type Weights struct {
	Decision   float64
	Similarity float64
	Bundle     float64
}

// DefaultWeights is the LLM-dominant configuration.
func DefaultWeights() Weights {
	return Weights{
		Decision:   0.85,
		Similarity: 0.10,
		Bundle:     0.05,
	}
}

// DefaultReviewThreshold is the score below which a result needs human
// verification.
const DefaultReviewThreshold = 0.85

// Score blends the decision confidence, the top retrieval similarity,
// and the bundle penalty into a value in [0,1]. topSimilarity is nil
// when retrieval produced no usable score; a missing similarity is
// absent, not zero, so its term is simply skipped.
func Score(w Weights, decisionConfidence float64, topSimilarity *float64, detection *model.BundleDetection) float64 {
	score := clamp01(decisionConfidence) * w.Decision

	if topSimilarity != nil {
		score += clamp01(*topSimilarity) * w.Similarity
	}

	// The penalty shrinks as the bundle call gets more certain: a
	// confident bundle at a broad node is a fine answer, an ambiguous
	// one deserves scrutiny.
	if detection != nil && detection.IsBundle {
		score -= w.Bundle * (1 - detection.Confidence)
	}

	return clamp01(score)
}

// NeedsReview reports whether the score falls below the acceptance
// threshold. A score exactly at the threshold passes.
func NeedsReview(score, threshold float64) bool {
	return score < threshold
}

// AdjustCategoryForBundle truncates a bundle's category code to the
// recommended depth ceiling. The +1 accounts for the root-domain prefix
// segment of the code. Idempotent; non-bundles and codes already within
// depth are returned unchanged.
func AdjustCategoryForBundle(code string, detection *model.BundleDetection) string {
	if detection == nil || !detection.IsBundle {
		return code
	}

	maxSegments := detection.RecommendedMaxDepth + 1
	if maxSegments < 1 {
		maxSegments = 1
	}

	segments := strings.Split(code, "-")
	if len(segments) <= maxSegments {
		return code
	}
	return strings.Join(segments[:maxSegments], "-")
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
