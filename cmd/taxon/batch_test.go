package main

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/plumline/taxon/internal/common"
	"github.com/plumline/taxon/internal/model"
)

func TestRetryableFailure(t *testing.T) {
	tests := []struct {
		err  error
		name string
		want bool
	}{
		{name: "rate limited", err: fmt.Errorf("request failed: %w", common.ErrRateLimit), want: true},
		{name: "deadline exceeded", err: context.DeadlineExceeded, want: true},
		{name: "no candidates", err: fmt.Errorf("%w for product", common.ErrNoCandidates), want: true},
		{name: "unparsable decision", err: fmt.Errorf("%w: no JSON", common.ErrDecisionParse), want: true},
		{name: "transport failure", err: errors.New("connection reset"), want: true},
		{name: "empty title", err: model.ErrEmptyTitle, want: false},
		{name: "category missing from hierarchy", err: fmt.Errorf("%w: fb-9", common.ErrCategoryNotFound), want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := retryableFailure(tt.err); got != tt.want {
				t.Errorf("retryableFailure(%v) = %v, want %v", tt.err, got, tt.want)
			}
		})
	}
}
