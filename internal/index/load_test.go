package index

import (
	"os"
	"path/filepath"
	"testing"
)

func writeTempFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0600); err != nil {
		t.Fatalf("writing %s: %v", name, err)
	}
	return path
}

func TestLoadTaxonomy(t *testing.T) {
	path := writeTempFile(t, "taxonomy.yaml", `
categories:
  - code: fb-1
    name: Snacks
    path: Food & Beverage > Snacks
    depth: 1
  - code: fb-1-3
    name: Chips
    path: Food & Beverage > Snacks > Chips
    external_id: gid://cat/112
    depth: 2
    attributes:
      - handle: flavor
        name: Flavor
      - handle: dietary
        name: Dietary Preference
        values: [Vegan, Gluten-Free]
`)

	categories, err := LoadTaxonomy(path)
	if err != nil {
		t.Fatalf("LoadTaxonomy() error = %v", err)
	}
	if len(categories) != 2 {
		t.Fatalf("got %d categories, want 2", len(categories))
	}

	chips := categories[1]
	if chips.Code != "fb-1-3" || chips.FullPath != "Food & Beverage > Snacks > Chips" || chips.Depth != 2 {
		t.Errorf("category = %+v", chips)
	}
	if chips.ExternalID != "gid://cat/112" {
		t.Errorf("external ID = %q", chips.ExternalID)
	}
	if len(chips.Attributes) != 2 || len(chips.Attributes[1].Values) != 2 {
		t.Errorf("attributes = %+v", chips.Attributes)
	}
}

func TestLoadTaxonomy_Invalid(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{
			name:    "missing code",
			content: "categories:\n  - name: Orphan\n    path: Orphan\n    depth: 1\n",
		},
		{
			name:    "depth out of range",
			content: "categories:\n  - code: x-1\n    name: Deep\n    path: Deep\n    depth: 12\n",
		},
		{
			name:    "not YAML",
			content: "{{{",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeTempFile(t, "taxonomy.yaml", tt.content)
			if _, err := LoadTaxonomy(path); err == nil {
				t.Error("LoadTaxonomy() should reject invalid input")
			}
		})
	}
}

func TestLoadTaxonomy_MissingFile(t *testing.T) {
	if _, err := LoadTaxonomy(filepath.Join(t.TempDir(), "absent.yaml")); err == nil {
		t.Error("LoadTaxonomy() should fail on a missing file")
	}
}

func TestLoadAnchors(t *testing.T) {
	path := writeTempFile(t, "anchors.yaml", `
anchors:
  Potato Chips: fb-1-3-1
  T-Shirts: ap-2-1
`)

	anchors, err := LoadAnchors(path)
	if err != nil {
		t.Fatalf("LoadAnchors() error = %v", err)
	}
	if len(anchors) != 2 {
		t.Fatalf("got %d anchors, want 2", len(anchors))
	}
	if anchors["Potato Chips"] != "fb-1-3-1" {
		t.Errorf("anchors = %+v", anchors)
	}
}
