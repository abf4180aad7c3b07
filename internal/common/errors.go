// Package common provides shared utilities and types used across the application.
package common

import (
	"context"
	"errors"
	"fmt"
)

// Classification pipeline errors. All four are fatal at the orchestrator
// boundary; they are never coerced into a low-confidence success.
var (
	// ErrNoCandidates indicates retrieval produced zero usable candidates.
	ErrNoCandidates = errors.New("no category candidates found")
	// ErrDecisionParse indicates the decision service output was unparsable.
	ErrDecisionParse = errors.New("decision response unparsable")
	// ErrCategoryNotFound indicates the resolved code is missing from the
	// hierarchy, which points at a data inconsistency.
	ErrCategoryNotFound = errors.New("category not found in hierarchy")
	// ErrRetrieval indicates both candidate sources failed at the
	// transport level.
	ErrRetrieval = errors.New("candidate retrieval failed")

	// ErrRateLimit indicates that an API rate limit has been exceeded.
	ErrRateLimit = errors.New("rate limit exceeded")
	// ErrMaxRetries indicates that all retry attempts have been exhausted.
	ErrMaxRetries = errors.New("max retries exceeded")
)

// RetryableError wraps an error with retry-specific metadata.
type RetryableError struct {
	Err       error
	Retryable bool
}

func (e *RetryableError) Error() string {
	return e.Err.Error()
}

func (e *RetryableError) Unwrap() error {
	return e.Err
}

// UserError represents an error that should be shown to the user.
type UserError struct {
	Err         error
	UserMessage string
}

func (e *UserError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.UserMessage, e.Err)
	}
	return e.UserMessage
}

func (e *UserError) Unwrap() error {
	return e.Err
}

// NewUserError creates a new user-friendly error.
func NewUserError(userMessage string, err error) error {
	return &UserError{
		UserMessage: userMessage,
		Err:         err,
	}
}

// IsRetryable determines if an error should trigger a retry.
func IsRetryable(err error) bool {
	if errors.Is(err, ErrRateLimit) ||
		errors.Is(err, context.DeadlineExceeded) {
		return true
	}

	var retryableErr *RetryableError
	if errors.As(err, &retryableErr) {
		return retryableErr.Retryable
	}

	return false
}
