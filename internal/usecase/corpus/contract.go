package corpus

import (
	"context"

	"github.com/agrifield/sopadvisor/internal/domain"
)

// Repository defines the storage contract for document indexing.
type Repository interface {
	Insert(ctx context.Context, doc domain.Document) (string, error)
	Get(ctx context.Context, id string) (domain.Document, error)
	Count(ctx context.Context) (int, error)
}

// Embedder vectorizes text into embeddings.
type Embedder interface {
	Embed(ctx context.Context, text string) (domain.EmbeddingResult, error)
}
