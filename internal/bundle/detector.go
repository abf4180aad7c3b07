// Package bundle detects multi-product listings (variety packs, gift
// boxes, samplers) from textual and structural signals.
package bundle

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/plumline/taxon/internal/model"
)

// sourceField identifies which part of the input a rule inspects.
type sourceField int

const (
	fieldTitle sourceField = iota
	fieldDescription
	fieldTypeLabel
	fieldTag
)

func (f sourceField) String() string {
	switch f {
	case fieldTitle:
		return "title"
	case fieldDescription:
		return "description"
	case fieldTypeLabel:
		return "product type"
	case fieldTag:
		return "tag"
	default:
		return "unknown"
	}
}

// rule is one entry of the declarative signal table. Each source field
// contributes its weight at most once, on the first matching rule.
type rule struct {
	pattern *regexp.Regexp
	phrase  string
	field   sourceField
	weight  float64
}

// Field weights. The type label is the strongest single signal because
// merchants who set it to "gift set" usually mean it; descriptions are
// the weakest because bundle words show up in marketing copy.
const (
	titleWeight       = 0.4
	descriptionWeight = 0.2
	typeLabelWeight   = 0.5
	tagWeight         = 0.4
	variantWeight     = 0.2
)

var bundlePhrases = []string{
	"variety pack",
	"variety box",
	"gift box",
	"gift set",
	"gift basket",
	"sampler",
	"assortment",
	"assorted",
	"bundle",
	"combo pack",
	"combo kit",
	"mixed pack",
	"starter kit",
	"care package",
	"mix pack",
}

var signalRules = buildRules()

func buildRules() []rule {
	fields := []struct {
		field  sourceField
		weight float64
	}{
		{fieldTitle, titleWeight},
		{fieldDescription, descriptionWeight},
		{fieldTypeLabel, typeLabelWeight},
		{fieldTag, tagWeight},
	}

	var rules []rule
	for _, f := range fields {
		for _, phrase := range bundlePhrases {
			rules = append(rules, rule{
				pattern: regexp.MustCompile(`(?i)\b` + regexp.QuoteMeta(phrase) + `\b`),
				phrase:  phrase,
				field:   f.field,
				weight:  f.weight,
			})
		}
	}
	return rules
}

// Pure size tokens ("Large", "8oz") and pure pack-count tokens
// ("6-pack") indicate quantity or sizing, not product variety, and must
// never contribute a bundle signal.
var (
	sizeTokenPattern = regexp.MustCompile(`(?i)^(xx?s|s|small|m|medium|l|large|xl|xxl|x-large|xx-large|one size|` +
		`\d+(\.\d+)?\s*(oz|fl oz|ml|l|g|kg|lb|lbs|mg|cm|mm|in|inch|ft|gal|qt|pt))$`)
	packCountPattern = regexp.MustCompile(`(?i)^\d+\s*[- ]?\s*(pack|pk|count|ct|pcs|pieces)$`)
)

// minVarietyVariants is the gate below which distinct variant titles are
// treated as ordinary options rather than evidence of a bundle.
const minVarietyVariants = 3

// Detect scores the input against the signal table and the variant
// structure. It is pure and total: no external calls, no failure mode.
func Detect(input model.ClassificationInput) model.BundleDetection {
	var confidence float64
	var signals []string

	matched := make(map[sourceField]bool)
	for _, r := range signalRules {
		if matched[r.field] {
			continue
		}
		for _, text := range fieldTexts(input, r.field) {
			if r.pattern.MatchString(text) {
				matched[r.field] = true
				confidence += r.weight
				signals = append(signals, fmt.Sprintf("%s contains %q", r.field, r.phrase))
				break
			}
		}
	}

	if varietyTitles := distinctVarietyVariants(input.Variants); len(varietyTitles) >= minVarietyVariants {
		confidence += variantWeight * float64(len(varietyTitles))
		signals = append(signals, fmt.Sprintf("%d distinct non-size variant titles", len(varietyTitles)))
	}

	if confidence > 1.0 {
		confidence = 1.0
	}

	isBundle := confidence >= model.BundleThreshold
	maxDepth := model.MaxHierarchyDepth
	if isBundle {
		maxDepth = model.BundleMaxDepth
	}

	return model.BundleDetection{
		IsBundle:            isBundle,
		Confidence:          confidence,
		Signals:             signals,
		RecommendedMaxDepth: maxDepth,
	}
}

// fieldTexts returns the input texts a given source field maps to.
func fieldTexts(input model.ClassificationInput, f sourceField) []string {
	switch f {
	case fieldTitle:
		return []string{input.Title}
	case fieldDescription:
		return []string{input.Description}
	case fieldTypeLabel:
		return []string{input.ProductType}
	case fieldTag:
		return input.Tags
	default:
		return nil
	}
}

// distinctVarietyVariants returns the deduplicated variant titles that
// are neither pure size tokens nor pure pack-count tokens.
func distinctVarietyVariants(variants []model.Variant) []string {
	seen := make(map[string]bool)
	var titles []string
	for _, v := range variants {
		title := strings.ToLower(strings.TrimSpace(v.Title))
		if title == "" || seen[title] {
			continue
		}
		if sizeTokenPattern.MatchString(title) || packCountPattern.MatchString(title) {
			continue
		}
		seen[title] = true
		titles = append(titles, title)
	}
	return titles
}
