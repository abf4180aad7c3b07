// Package model defines the core types shared across the classification pipeline.
package model

// Variant is a single purchasable variation of a product listing.
type Variant struct {
	Options map[string]string `json:"options,omitempty"`
	Title   string            `json:"title"`
	SKU     string            `json:"sku,omitempty"`
}

// ClassificationInput holds everything we know about a product at
// classification time. It is immutable for the duration of one request.
type ClassificationInput struct {
	Title       string    `json:"title"`
	Description string    `json:"description,omitempty"`
	ProductType string    `json:"product_type,omitempty"`
	Tags        []string  `json:"tags,omitempty"`
	Variants    []Variant `json:"variants,omitempty"`
}

// Validate ensures the input carries the minimum required fields.
func (in *ClassificationInput) Validate() error {
	if in.Title == "" {
		return ErrEmptyTitle
	}
	return nil
}
