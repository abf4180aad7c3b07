package confidence

import (
	"testing"

	"github.com/plumline/taxon/internal/model"
)

func floatPtr(v float64) *float64 { return &v }

func TestScore_AlwaysBounded(t *testing.T) {
	w := DefaultWeights()
	bundled := &model.BundleDetection{IsBundle: true, Confidence: 0.0, RecommendedMaxDepth: 3}

	// Extreme and out-of-range inputs must never escape [0,1].
	decisions := []float64{-5, -1, 0, 0.5, 1, 1.5, 100}
	similarities := []*float64{nil, floatPtr(-2), floatPtr(0), floatPtr(0.5), floatPtr(1), floatPtr(3)}
	detections := []*model.BundleDetection{nil, bundled, {IsBundle: true, Confidence: 0.9, RecommendedMaxDepth: 3}}

	for _, d := range decisions {
		for _, s := range similarities {
			for _, b := range detections {
				got := Score(w, d, s, b)
				if got < 0 || got > 1 {
					t.Errorf("Score(%v, %v, %+v) = %v, outside [0,1]", d, s, b, got)
				}
			}
		}
	}
}

func TestScore_Weighting(t *testing.T) {
	w := DefaultWeights()

	tests := []struct {
		similarity *float64
		detection  *model.BundleDetection
		name       string
		decision   float64
		want       float64
	}{
		{
			name:       "all signals strong",
			decision:   1.0,
			similarity: floatPtr(1.0),
			want:       0.95,
		},
		{
			name:     "missing similarity skips its term",
			decision: 1.0,
			want:     0.85,
		},
		{
			name:       "bundle penalty scales with ambiguity",
			decision:   1.0,
			similarity: floatPtr(1.0),
			detection:  &model.BundleDetection{IsBundle: true, Confidence: 0.4, RecommendedMaxDepth: 3},
			want:       0.95 - 0.05*0.6,
		},
		{
			name:       "confident bundle barely penalized",
			decision:   1.0,
			similarity: floatPtr(1.0),
			detection:  &model.BundleDetection{IsBundle: true, Confidence: 1.0, RecommendedMaxDepth: 3},
			want:       0.95,
		},
		{
			name:       "non-bundle detection has no penalty",
			decision:   0.8,
			similarity: floatPtr(0.5),
			detection:  &model.BundleDetection{IsBundle: false, Confidence: 0.2, RecommendedMaxDepth: 7},
			want:       0.8*0.85 + 0.5*0.10,
		},
	}

	const epsilon = 1e-9
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Score(w, tt.decision, tt.similarity, tt.detection)
			if diff := got - tt.want; diff > epsilon || diff < -epsilon {
				t.Errorf("Score() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestNeedsReview_ThresholdBoundary(t *testing.T) {
	// Exactly at threshold passes; strictly below needs review.
	if NeedsReview(0.85, 0.85) {
		t.Error("score equal to threshold must not need review")
	}
	if !NeedsReview(0.8499999, 0.85) {
		t.Error("score below threshold must need review")
	}
	if NeedsReview(1.0, 0.85) {
		t.Error("perfect score must not need review")
	}
}

func TestAdjustCategoryForBundle(t *testing.T) {
	bundled := &model.BundleDetection{IsBundle: true, Confidence: 0.6, RecommendedMaxDepth: 3}

	tests := []struct {
		detection *model.BundleDetection
		name      string
		code      string
		want      string
	}{
		{
			name:      "deep code truncated to depth ceiling",
			code:      "fb-2-3-2-1-4",
			detection: bundled,
			want:      "fb-2-3-2",
		},
		{
			name:      "code already within depth unchanged",
			code:      "fb-2-3",
			detection: bundled,
			want:      "fb-2-3",
		},
		{
			name:      "code exactly at limit unchanged",
			code:      "fb-2-3-2",
			detection: bundled,
			want:      "fb-2-3-2",
		},
		{
			name:      "non-bundle unchanged",
			code:      "fb-2-3-2-1-4",
			detection: &model.BundleDetection{IsBundle: false, RecommendedMaxDepth: 7},
			want:      "fb-2-3-2-1-4",
		},
		{
			name: "nil detection unchanged",
			code: "fb-2-3-2-1-4",
			want: "fb-2-3-2-1-4",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := AdjustCategoryForBundle(tt.code, tt.detection)
			if got != tt.want {
				t.Errorf("AdjustCategoryForBundle(%q) = %q, want %q", tt.code, got, tt.want)
			}
		})
	}
}

func TestAdjustCategoryForBundle_Idempotent(t *testing.T) {
	detection := &model.BundleDetection{IsBundle: true, Confidence: 0.8, RecommendedMaxDepth: 3}

	once := AdjustCategoryForBundle("fb-2-3-2-1-4-5", detection)
	twice := AdjustCategoryForBundle(once, detection)
	if once != twice {
		t.Errorf("adjustment not idempotent: %q then %q", once, twice)
	}
}

func TestDefaultWeights_DecisionDominant(t *testing.T) {
	w := DefaultWeights()
	if w.Decision < 0.6 {
		t.Errorf("decision weight %.2f should dominate (>= 0.6)", w.Decision)
	}
	if w.Bundle > 0.1 {
		t.Errorf("bundle weight %.2f should stay minor (<= 0.1)", w.Bundle)
	}
}
