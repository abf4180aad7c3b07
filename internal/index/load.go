package index

import (
	"fmt"
	"os"

	"github.com/plumline/taxon/internal/model"

	"gopkg.in/yaml.v3"
)

// taxonomyFile is the on-disk shape of a taxonomy export.
type taxonomyFile struct {
	Categories []model.Category `yaml:"categories"`
}

// anchorFile is the on-disk shape of the curated merchant type-anchor
// table.
type anchorFile struct {
	Anchors map[string]string `yaml:"anchors"`
}

// LoadTaxonomy reads a taxonomy YAML file into category nodes.
func LoadTaxonomy(path string) ([]model.Category, error) {
	data, err := os.ReadFile(path) // #nosec G304 -- operator-supplied path
	if err != nil {
		return nil, fmt.Errorf("failed to read taxonomy file: %w", err)
	}

	var file taxonomyFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("failed to parse taxonomy file: %w", err)
	}

	for i, cat := range file.Categories {
		if cat.Code == "" {
			return nil, fmt.Errorf("taxonomy entry %d has no code", i)
		}
		if cat.Depth < 0 || cat.Depth > model.MaxHierarchyDepth {
			return nil, fmt.Errorf("taxonomy entry %q has depth %d outside 0-%d", cat.Code, cat.Depth, model.MaxHierarchyDepth)
		}
	}
	return file.Categories, nil
}

// LoadAnchors reads the type-anchor YAML file into a label-to-code map.
func LoadAnchors(path string) (map[string]string, error) {
	data, err := os.ReadFile(path) // #nosec G304 -- operator-supplied path
	if err != nil {
		return nil, fmt.Errorf("failed to read anchor file: %w", err)
	}

	var file anchorFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("failed to parse anchor file: %w", err)
	}
	return file.Anchors, nil
}
