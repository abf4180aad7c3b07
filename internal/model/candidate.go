package model

import (
	"fmt"
	"sort"
)

// CandidateOrigin tags which source produced a candidate.
type CandidateOrigin string

// Candidate origins.
const (
	OriginSimilarity CandidateOrigin = "similarity-search"
	OriginTypeAnchor CandidateOrigin = "type-anchor"
	OriginManual     CandidateOrigin = "manual"
)

// CategoryCandidate is a category proposed as a plausible classification
// target. Candidates are generated fresh per request and never persisted.
type CategoryCandidate struct {
	Code   string
	Path   string
	Origin CandidateOrigin
	Depth  int
	Score  float64
}

// Validate ensures the candidate has usable data.
func (c *CategoryCandidate) Validate() error {
	if c.Code == "" {
		return fmt.Errorf("candidate code is required")
	}
	if c.Score < 0.0 || c.Score > 1.0 {
		return fmt.Errorf("candidate score must be between 0.0 and 1.0, got %.2f", c.Score)
	}
	switch c.Origin {
	case OriginSimilarity, OriginTypeAnchor, OriginManual:
	default:
		return fmt.Errorf("unknown candidate origin %q", c.Origin)
	}
	return nil
}

// CandidateList is a slice of CategoryCandidate with ranking helpers.
type CandidateList []CategoryCandidate

// Len implements sort.Interface.
func (l CandidateList) Len() int { return len(l) }

// Less implements sort.Interface - higher scores come first.
func (l CandidateList) Less(i, j int) bool {
	if l[i].Score != l[j].Score {
		return l[i].Score > l[j].Score
	}
	// Equal scores sort by code for deterministic output.
	return l[i].Code < l[j].Code
}

// Swap implements sort.Interface.
func (l CandidateList) Swap(i, j int) { l[i], l[j] = l[j], l[i] }

// Sort orders the list by score in descending order.
func (l CandidateList) Sort() { sort.Sort(l) }

// Top returns the highest-scoring candidate, or nil if the list is empty.
func (l CandidateList) Top() *CategoryCandidate {
	if len(l) == 0 {
		return nil
	}
	l.Sort()
	return &l[0]
}

// FindByCode returns the candidate with the given code, or nil when absent.
// Substitution on a miss is the caller's decision, never this method's.
func (l CandidateList) FindByCode(code string) *CategoryCandidate {
	for i := range l {
		if l[i].Code == code {
			return &l[i]
		}
	}
	return nil
}

// Truncate returns at most n candidates, highest scores first.
func (l CandidateList) Truncate(n int) CandidateList {
	l.Sort()
	if n < 0 {
		n = 0
	}
	if n > len(l) {
		n = len(l)
	}
	result := make(CandidateList, n)
	copy(result, l[:n])
	return result
}

// MergeCandidates combines tagged candidate lists, deduplicating by
// category code and keeping the highest score per code.
func MergeCandidates(lists ...CandidateList) CandidateList {
	byCode := make(map[string]CategoryCandidate)
	for _, list := range lists {
		for _, c := range list {
			if best, ok := byCode[c.Code]; !ok || c.Score > best.Score {
				byCode[c.Code] = c
			}
		}
	}

	merged := make(CandidateList, 0, len(byCode))
	for _, c := range byCode {
		merged = append(merged, c)
	}
	merged.Sort()
	return merged
}
