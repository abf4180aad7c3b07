package model

// BundleMaxDepth is the recommended hierarchy ceiling for composite
// products: a variety pack belongs at a broader node than any of its
// contents would individually.
const BundleMaxDepth = 3

// BundleThreshold is the confidence at or above which a product is
// treated as a bundle.
const BundleThreshold = 0.4

// BundleDetection is the outcome of the bundle heuristics. Computed once
// per request and consumed by candidate generation, confidence scoring
// and depth adjustment.
type BundleDetection struct {
	Signals             []string
	Confidence          float64
	RecommendedMaxDepth int
	IsBundle            bool
}
