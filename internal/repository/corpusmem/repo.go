// Package corpusmem is the in-memory document store: a brute-force backend with
// cosine scoring, suitable for single-node corpora seeded at startup.
package corpusmem

import (
	"context"
	"fmt"
	"sync"

	"github.com/agrifield/sopadvisor/internal/domain"
)

// Repo holds documents in insertion order, guarded for concurrent reads during
// steady-state serving. Seeding is the only writer.
type Repo struct {
	mu   sync.RWMutex
	docs []domain.Document
	byID map[string]int
	dim  int
}

// New creates an in-memory corpus repository. dim fixes the vector
// dimensionality for the whole store; 0 disables the check.
func New(dim int) *Repo {
	return &Repo{byID: make(map[string]int), dim: dim}
}

// Strategy declares how this backend scores candidates.
func (r *Repo) Strategy() domain.ScoringStrategy {
	return domain.StrategyCosine
}

// Insert stores a document. Duplicate ids are last-write-wins; the document
// keeps its original insertion position so tie ordering stays stable.
func (r *Repo) Insert(_ context.Context, doc domain.Document) (string, error) {
	if r.dim > 0 && len(doc.Vector) != r.dim {
		return "", fmt.Errorf(
			"document %s: got %d dimensions, want %d: %w",
			doc.ID, len(doc.Vector), r.dim, domain.ErrVectorDimMismatch,
		)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if i, ok := r.byID[doc.ID]; ok {
		r.docs[i] = doc
		return doc.ID, nil
	}
	r.byID[doc.ID] = len(r.docs)
	r.docs = append(r.docs, doc)
	return doc.ID, nil
}

// Get returns a document by ID.
func (r *Repo) Get(_ context.Context, id string) (domain.Document, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	i, ok := r.byID[id]
	if !ok {
		return domain.Document{}, domain.ErrDocumentNotFound
	}
	return r.docs[i], nil
}

// Scan returns all documents matching the filter, in insertion order.
// A nil or empty filter matches everything.
func (r *Repo) Scan(_ context.Context, filter map[string]string) ([]domain.Document, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var out []domain.Document
	for _, doc := range r.docs {
		if doc.MatchesFilter(filter) {
			out = append(out, doc)
		}
	}
	return out, nil
}

// Count returns the number of documents in the store.
func (r *Repo) Count(_ context.Context) (int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.docs), nil
}

// Query scores every eligible document by cosine similarity against the query
// vector and returns all of them in insertion order; ranking and truncation to
// k belong to the caller. Brute force over the full corpus.
func (r *Repo) Query(
	_ context.Context, vector []float32, filter map[string]string, _ int,
) ([]domain.Candidate, error) {
	if r.dim > 0 && len(vector) != r.dim {
		return nil, fmt.Errorf(
			"query vector: got %d dimensions, want %d: %w",
			len(vector), r.dim, domain.ErrVectorDimMismatch,
		)
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	var candidates []domain.Candidate
	for _, doc := range r.docs {
		if !doc.MatchesFilter(filter) {
			continue
		}
		candidates = append(candidates, domain.Candidate{
			Doc:      doc,
			RawScore: domain.Cosine(vector, doc.Vector),
		})
	}
	return candidates, nil
}

// Ping always succeeds; the store lives in process memory.
func (r *Repo) Ping(_ context.Context) error {
	return nil
}
