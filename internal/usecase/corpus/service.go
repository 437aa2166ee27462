// Package corpus handles document indexing with automatic vectorization.
package corpus

import (
	"context"
	"fmt"

	"github.com/agrifield/sopadvisor/internal/domain"
)

// Service indexes documents into the store.
type Service struct {
	repo  Repository
	embed Embedder
}

// New creates an indexing service.
func New(repo Repository, embed Embedder) *Service {
	return &Service{repo: repo, embed: embed}
}

// Index embeds the text and inserts the document. The embedder is fail-open, so
// an unavailable provider still yields an indexed document with a placeholder
// vector rather than a rejected record.
func (s *Service) Index(
	ctx context.Context, id, text string, metadata map[string]string,
) (string, error) {
	result, err := s.embed.Embed(ctx, text)
	if err != nil {
		return "", fmt.Errorf("vectorize document: %w", err)
	}

	doc, err := domain.NewDocument(id, text, metadata, result.Vector)
	if err != nil {
		return "", fmt.Errorf("build document: %w", err)
	}

	docID, err := s.repo.Insert(ctx, doc)
	if err != nil {
		return "", fmt.Errorf("insert document: %w", err)
	}
	return docID, nil
}

// Get retrieves a document by ID.
func (s *Service) Get(ctx context.Context, id string) (domain.Document, error) {
	doc, err := s.repo.Get(ctx, id)
	if err != nil {
		return domain.Document{}, fmt.Errorf("get document: %w", err)
	}
	return doc, nil
}

// Count returns the number of indexed documents.
func (s *Service) Count(ctx context.Context) (int, error) {
	n, err := s.repo.Count(ctx)
	if err != nil {
		return 0, fmt.Errorf("count documents: %w", err)
	}
	return n, nil
}
