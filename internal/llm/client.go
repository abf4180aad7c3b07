// Package llm talks to the natural-language decision service: building
// selection prompts, issuing completions, and parsing structured
// decisions back out of free-form output.
package llm

import "context"

// Client defines the interface to the decision service.
type Client interface {
	// Complete sends a prompt pair and returns the raw text response.
	Complete(ctx context.Context, systemPrompt, userPrompt string) (string, error)
}
