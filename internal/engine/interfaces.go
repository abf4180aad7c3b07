package engine

import (
	"context"

	"github.com/plumline/taxon/internal/candidate"
	"github.com/plumline/taxon/internal/model"
)

// CandidateSource produces ranked category candidates for a product.
type CandidateSource interface {
	GetCandidates(ctx context.Context, input model.ClassificationInput, opts candidate.Options) (model.CandidateList, error)
}

// Hierarchy resolves category codes against the taxonomy.
type Hierarchy interface {
	ByCode(ctx context.Context, code string) (*model.Category, error)
}
