package candidate

import (
	"regexp"
	"strings"

	"github.com/plumline/taxon/internal/common"
	"github.com/plumline/taxon/internal/model"
)

const (
	searchDescriptionLimit = 500
	searchTagLimit         = 5
)

// marketingTagPatterns match merchandising tags that describe how a
// product is sold, not what it is. They only add noise to retrieval.
var marketingTagPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)^best\s?sellers?$`),
	regexp.MustCompile(`(?i)^(on\s)?sale$`),
	regexp.MustCompile(`(?i)^trending$`),
	regexp.MustCompile(`(?i)^staff\spicks?$`),
	regexp.MustCompile(`(?i)^new(\sarrivals?)?$`),
	regexp.MustCompile(`(?i)^featured$`),
	regexp.MustCompile(`(?i)^limited(\sedition)?$`),
	regexp.MustCompile(`(?i)^exclusive$`),
	regexp.MustCompile(`(?i)^popular$`),
	regexp.MustCompile(`(?i)^clearance$`),
}

// BuildSearchString assembles the normalized text sent to the embedding
// service: title, cleaned description, and a handful of informative
// tags. The merchant type label is deliberately excluded: it is
// unreliable in practice and biases retrieval toward mislabeled
// categories. The decision service still sees it as context.
func BuildSearchString(input model.ClassificationInput) string {
	parts := []string{strings.TrimSpace(input.Title)}

	if desc := common.CleanText(input.Description, searchDescriptionLimit); desc != "" {
		parts = append(parts, desc)
	}

	kept := 0
	for _, tag := range input.Tags {
		tag = strings.TrimSpace(tag)
		if tag == "" || isMarketingTag(tag) {
			continue
		}
		parts = append(parts, tag)
		kept++
		if kept == searchTagLimit {
			break
		}
	}

	return strings.Join(parts, " ")
}

func isMarketingTag(tag string) bool {
	for _, p := range marketingTagPatterns {
		if p.MatchString(tag) {
			return true
		}
	}
	return false
}
