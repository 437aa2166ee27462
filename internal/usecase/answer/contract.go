package answer

import (
	"context"

	"github.com/agrifield/sopadvisor/internal/domain"
)

// Searcher ranks documents for a query under a metadata filter.
type Searcher interface {
	Search(ctx context.Context, query string, topK int, filter map[string]string) ([]domain.Match, error)
}

// Generator produces a grounded recommendation for a note and document.
type Generator interface {
	Generate(ctx context.Context, noteText, docID string) domain.Recommendation
}
