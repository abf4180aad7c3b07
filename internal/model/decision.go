package model

import "errors"

// ErrEmptyTitle indicates a classification input without a product title.
var ErrEmptyTitle = errors.New("product title is required")

// Decision is the structured selection parsed out of the decision
// service's free-form output. Confidence is always clamped to [0,1] at
// the parse boundary.
type Decision struct {
	SelectedCode string
	Reasoning    string
	Confidence   float64
}

// AttributeAssignment is one extracted attribute value for the selected
// category.
type AttributeAssignment struct {
	Handle     string
	Name       string
	Value      string
	Confidence float64
}
