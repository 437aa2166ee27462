package rank

import (
	"context"

	"github.com/agrifield/sopadvisor/internal/domain"
)

// Repository defines the storage contract for similarity search.
type Repository interface {
	Query(ctx context.Context, vector []float32, filter map[string]string, k int) ([]domain.Candidate, error)
	Strategy() domain.ScoringStrategy
}

// Embedder vectorizes text into embeddings.
type Embedder interface {
	Embed(ctx context.Context, text string) (domain.EmbeddingResult, error)
}
