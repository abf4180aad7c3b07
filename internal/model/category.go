package model

// MaxHierarchyDepth is the deepest level in the category tree (root is 0).
const MaxHierarchyDepth = 7

// CategoryAttribute describes one attribute the category schema defines,
// e.g. handle "flavor" with its display name and allowed values.
type CategoryAttribute struct {
	Handle string   `yaml:"handle"`
	Name   string   `yaml:"name"`
	Values []string `yaml:"values,omitempty"`
}

// Category is one node of the read-only product taxonomy.
type Category struct {
	Code       string              `yaml:"code"`
	Name       string              `yaml:"name"`
	FullPath   string              `yaml:"path"`
	ExternalID string              `yaml:"external_id"`
	Depth      int                 `yaml:"depth"`
	Attributes []CategoryAttribute `yaml:"attributes,omitempty"`
}
