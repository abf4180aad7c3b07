package model

// CategoryAssignment is the final category the pipeline settled on.
type CategoryAssignment struct {
	Code       string  `json:"code"`
	FullPath   string  `json:"full_path"`
	ExternalID string  `json:"external_id"`
	Confidence float64 `json:"confidence"`
}

// SimilarityMatch records the strongest retrieval hit, kept for
// observability alongside the final assignment.
type SimilarityMatch struct {
	Path  string  `json:"path"`
	Score float64 `json:"score"`
}

// Signals summarizes the heuristic evidence that shaped the result.
type Signals struct {
	TopSimilarity *SimilarityMatch `json:"top_similarity,omitempty"`
	IsBundle      bool             `json:"is_bundle"`
}

// ClassificationOutput is the sole externally visible artifact of one
// classification request. It is not mutated after construction.
type ClassificationOutput struct {
	Category    CategoryAssignment    `json:"category"`
	Attributes  []AttributeAssignment `json:"attributes,omitempty"`
	Reasoning   string                `json:"reasoning"`
	Signals     Signals               `json:"signals"`
	NeedsReview bool                  `json:"needs_review"`
}
