package candidate

import (
	"strings"
	"testing"

	"github.com/plumline/taxon/internal/model"
)

func TestBuildSearchString(t *testing.T) {
	input := model.ClassificationInput{
		Title:       "Organic Dark Chocolate",
		Description: "<div>Rich <b>70% cacao</b>   bar from Ecuador.</div>",
		ProductType: "Candy",
		Tags:        []string{"chocolate", "Best Seller", "organic", "sale", "fair trade"},
	}

	got := BuildSearchString(input)

	for _, want := range []string{"Organic Dark Chocolate", "Rich 70% cacao bar from Ecuador.", "chocolate", "organic", "fair trade"} {
		if !strings.Contains(got, want) {
			t.Errorf("search string missing %q: %q", want, got)
		}
	}

	// Marketing tags are noise for retrieval.
	if strings.Contains(got, "Best Seller") || strings.Contains(got, "sale") {
		t.Errorf("search string contains marketing tags: %q", got)
	}
	// The type label is unreliable and deliberately excluded.
	if strings.Contains(got, "Candy") {
		t.Errorf("search string must not contain the type label: %q", got)
	}
	if strings.Contains(got, "<") {
		t.Errorf("search string contains markup: %q", got)
	}
}

func TestBuildSearchString_TagCap(t *testing.T) {
	input := model.ClassificationInput{
		Title: "Tea",
		Tags:  []string{"t1", "t2", "t3", "t4", "t5", "t6"},
	}

	got := BuildSearchString(input)
	if strings.Contains(got, "t6") {
		t.Errorf("search string should cap tags at five: %q", got)
	}
	if !strings.Contains(got, "t5") {
		t.Errorf("search string should include the fifth tag: %q", got)
	}
}

func TestBuildSearchString_DescriptionTruncated(t *testing.T) {
	long := strings.Repeat("very long description text ", 50)
	input := model.ClassificationInput{Title: "Widget", Description: long}

	got := BuildSearchString(input)
	// Title + space + truncated description.
	if len(got) > len("Widget")+1+searchDescriptionLimit {
		t.Errorf("search string length %d exceeds limit", len(got))
	}
}

func TestIsMarketingTag(t *testing.T) {
	marketing := []string{"best seller", "Bestseller", "SALE", "on sale", "trending", "staff pick", "new", "New Arrival", "featured", "limited", "Limited Edition", "exclusive", "popular", "clearance"}
	for _, tag := range marketing {
		if !isMarketingTag(tag) {
			t.Errorf("%q should be a marketing tag", tag)
		}
	}

	informative := []string{"new york style", "limited ingredient diet", "chocolate", "popular science kits"}
	for _, tag := range informative {
		if isMarketingTag(tag) {
			t.Errorf("%q should not be a marketing tag", tag)
		}
	}
}
