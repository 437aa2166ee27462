// Package rank implements similarity ranking: embed the query, score eligible
// documents, and return the top-K matches with evidence snippets.
package rank

import (
	"context"
	"fmt"
	"math"
	"sort"

	"github.com/agrifield/sopadvisor/internal/domain"
)

// DefaultTopK is the result count when the caller does not specify one.
const DefaultTopK = 5

// Service ranks documents against a query under a metadata filter.
type Service struct {
	repo  Repository
	embed Embedder
}

// New creates a ranking service.
func New(repo Repository, embed Embedder) *Service {
	return &Service{repo: repo, embed: embed}
}

// Search returns up to topK matches ordered by descending raw similarity.
// Ties keep insertion order (stable sort). An empty result is a normal outcome,
// not an error: callers must handle "no matches" explicitly.
func (s *Service) Search(
	ctx context.Context, query string, topK int, filter map[string]string,
) ([]domain.Match, error) {
	if topK <= 0 {
		topK = DefaultTopK
	}

	embResult, err := s.embed.Embed(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("vectorize query: %w", err)
	}

	candidates, err := s.repo.Query(ctx, embResult.Vector, filter, topK)
	if err != nil {
		return nil, fmt.Errorf("query store: %w", err)
	}
	if len(candidates) == 0 {
		return nil, nil
	}

	// Rank by the raw score, not the clamped display score.
	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].RawScore > candidates[j].RawScore
	})

	if len(candidates) > topK {
		candidates = candidates[:topK]
	}

	strategy := s.repo.Strategy()
	matches := make([]domain.Match, 0, len(candidates))
	for _, c := range candidates {
		matches = append(matches, domain.Match{
			DocID:           c.Doc.ID,
			Title:           c.Doc.Title(),
			Score:           math.Round(strategy.Display(c.RawScore)),
			EvidenceSnippet: domain.Snippet(c.Doc.Text),
		})
	}
	return matches, nil
}
