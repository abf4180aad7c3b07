package llm

import (
	"fmt"
	"strings"

	"github.com/plumline/taxon/internal/common"
	"github.com/plumline/taxon/internal/model"
)

// SelectionSystemPrompt frames the decision service's role for category
// selection.
const SelectionSystemPrompt = "You are a product taxonomy specialist. " +
	"Select the single best category for the product and respond only with the JSON object requested."

// AttributeSystemPrompt frames the decision service's role for attribute
// extraction.
const AttributeSystemPrompt = "You are a product data specialist. " +
	"Extract attribute values for the product and respond only with the JSON object requested."

const (
	promptDescriptionLimit = 300
	promptVariantLimit     = 5
)

// BuildSelectionPrompt renders the product context and the ranked
// candidate list into a selection request.
func BuildSelectionPrompt(input model.ClassificationInput, candidates model.CandidateList) string {
	var b strings.Builder

	b.WriteString("Product:\n")
	fmt.Fprintf(&b, "Title: %s\n", input.Title)
	if input.ProductType != "" {
		fmt.Fprintf(&b, "Merchant type label: %s\n", input.ProductType)
	}
	if desc := common.CleanText(input.Description, promptDescriptionLimit); desc != "" {
		fmt.Fprintf(&b, "Description: %s\n", desc)
	}
	if len(input.Tags) > 0 {
		fmt.Fprintf(&b, "Tags: %s\n", strings.Join(input.Tags, ", "))
	}
	if len(input.Variants) > 0 {
		var titles []string
		for _, v := range input.Variants {
			if v.Title == "" {
				continue
			}
			titles = append(titles, v.Title)
			if len(titles) == promptVariantLimit {
				break
			}
		}
		if len(titles) > 0 {
			fmt.Fprintf(&b, "Variants: %s\n", strings.Join(titles, ", "))
		}
	}

	b.WriteString("\nCandidate categories, ranked by retrieval relevance:\n")
	for _, c := range candidates {
		fmt.Fprintf(&b, "- %s: %s (depth %d, similarity %.2f)\n", c.Code, c.Path, c.Depth, c.Score)
	}

	b.WriteString(`
Pick the category a shopper would look in to find this product. Judge by
physical form and consumption occasion, not production method: a
"cold-brew coffee soap" belongs with soaps, not beverages. The merchant
type label is frequently wrong; weigh it lightly.

Respond with exactly one JSON object:
{"selected_code": "<code from the list above>", "confidence": <0.0-1.0>, "reasoning": "<one short sentence>"}`)

	return b.String()
}

// BuildAttributePrompt renders an attribute-extraction request
// constrained to the selected category's attribute schema.
func BuildAttributePrompt(input model.ClassificationInput, category *model.Category) string {
	var b strings.Builder

	fmt.Fprintf(&b, "Product:\nTitle: %s\n", input.Title)
	if desc := common.CleanText(input.Description, promptDescriptionLimit); desc != "" {
		fmt.Fprintf(&b, "Description: %s\n", desc)
	}
	if len(input.Tags) > 0 {
		fmt.Fprintf(&b, "Tags: %s\n", strings.Join(input.Tags, ", "))
	}

	fmt.Fprintf(&b, "\nCategory: %s\nAttribute schema:\n", category.FullPath)
	for _, attr := range category.Attributes {
		if len(attr.Values) > 0 {
			fmt.Fprintf(&b, "- %s (%s): one of %s\n", attr.Handle, attr.Name, strings.Join(attr.Values, ", "))
		} else {
			fmt.Fprintf(&b, "- %s (%s): free text\n", attr.Handle, attr.Name)
		}
	}

	b.WriteString(`
Extract values only for attributes the product information supports.
Omit attributes you cannot determine. Respond with exactly one JSON object:
{"attributes": [{"handle": "<handle from the schema>", "value": "<value>", "confidence": <0.0-1.0>}]}`)

	return b.String()
}
