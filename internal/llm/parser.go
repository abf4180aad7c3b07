package llm

import (
	"encoding/json"
	"strings"

	"github.com/plumline/taxon/internal/model"
)

// ParseDecision extracts a structured selection decision from free-form
// model output. It tolerates surrounding prose and code-fence wrapping,
// clamps confidence to [0,1], and returns nil on any decode failure.
// Callers must treat nil as a hard classification failure.
func ParseDecision(raw string) *model.Decision {
	block := extractJSONBlock(raw)
	if block == "" {
		return nil
	}

	var resp struct {
		SelectedCode string  `json:"selected_code"`
		Confidence   float64 `json:"confidence"`
		Reasoning    string  `json:"reasoning"`
	}
	if err := json.Unmarshal([]byte(block), &resp); err != nil {
		return nil
	}
	if resp.SelectedCode == "" {
		return nil
	}

	return &model.Decision{
		SelectedCode: resp.SelectedCode,
		Confidence:   clamp01(resp.Confidence),
		Reasoning:    resp.Reasoning,
	}
}

// ParseAttributes extracts attribute assignments from free-form model
// output, keeping only handles the category schema defines. Malformed
// responses degrade to an empty list, never an error.
func ParseAttributes(raw string, category *model.Category) []model.AttributeAssignment {
	block := extractJSONBlock(raw)
	if block == "" {
		return nil
	}

	var resp struct {
		Attributes []struct {
			Handle     string  `json:"handle"`
			Value      string  `json:"value"`
			Confidence float64 `json:"confidence"`
		} `json:"attributes"`
	}
	if err := json.Unmarshal([]byte(block), &resp); err != nil {
		return nil
	}

	names := make(map[string]string, len(category.Attributes))
	for _, attr := range category.Attributes {
		names[attr.Handle] = attr.Name
	}

	var assignments []model.AttributeAssignment
	for _, a := range resp.Attributes {
		name, known := names[a.Handle]
		if !known || a.Value == "" {
			continue
		}
		assignments = append(assignments, model.AttributeAssignment{
			Handle:     a.Handle,
			Name:       name,
			Value:      a.Value,
			Confidence: clamp01(a.Confidence),
		})
	}
	return assignments
}

// extractJSONBlock returns the first balanced brace-delimited block in
// the text, or "" when none exists. String literals are skipped so
// braces inside reasoning text don't unbalance the scan.
func extractJSONBlock(raw string) string {
	start := strings.IndexByte(raw, '{')
	if start < 0 {
		return ""
	}

	depth := 0
	inString := false
	escaped := false
	for i := start; i < len(raw); i++ {
		c := raw[i]
		if inString {
			switch {
			case escaped:
				escaped = false
			case c == '\\':
				escaped = true
			case c == '"':
				inString = false
			}
			continue
		}
		switch c {
		case '"':
			inString = true
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return raw[start : i+1]
			}
		}
	}
	return ""
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
