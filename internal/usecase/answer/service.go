// Package answer composes ranking and grounded generation into the end-to-end
// "match then recommend" flow behind the chat endpoint.
package answer

import (
	"context"
	"fmt"
	"strings"

	"github.com/agrifield/sopadvisor/internal/domain"
)

// matchTopK is how many matches the orchestrator requests; only the single
// best one grounds the recommendation (no multi-document synthesis).
const matchTopK = 3

// Service is the retrieval orchestrator.
type Service struct {
	search Searcher
	gen    Generator
}

// New creates an orchestrator service.
func New(search Searcher, gen Generator) *Service {
	return &Service{search: search, gen: gen}
}

// Response is the user-facing answer for a query.
type Response struct {
	Content        string
	Matches        []domain.Match
	Recommendation *domain.Recommendation
}

// Answer runs the match-then-recommend flow. An empty match set yields a
// "no relevant information" response and never invokes the generator.
func (s *Service) Answer(
	ctx context.Context, query string, filter map[string]string,
) (Response, error) {
	matches, err := s.search.Search(ctx, query, matchTopK, filter)
	if err != nil {
		return Response{}, fmt.Errorf("search matches: %w", err)
	}

	if len(matches) == 0 {
		return Response{Content: noMatchMessage(filter)}, nil
	}

	best := matches[0]
	rec := s.gen.Generate(ctx, query, best.DocID)

	return Response{
		Content:        composeContent(rec),
		Matches:        matches,
		Recommendation: &rec,
	}, nil
}

func noMatchMessage(filter map[string]string) string {
	scope := filter[domain.MetaRegion]
	if scope == "" {
		scope = "Any"
	}
	return fmt.Sprintf(
		"I couldn't find any relevant information in my knowledge base for region '%s' to answer that.",
		scope,
	)
}

// composeContent renders bullets, evidence quotes, and the fallback notice into
// the markdown the frontend expects.
func composeContent(rec domain.Recommendation) string {
	var b strings.Builder

	if len(rec.Bullets) > 0 {
		b.WriteString("Here are some recommendations based on our knowledge base:\n\n")
		for _, bullet := range rec.Bullets {
			fmt.Fprintf(&b, "- %s\n", bullet)
		}
	}

	if len(rec.Citations) > 0 {
		b.WriteString("\n**Evidence:**\n")
		for _, cite := range rec.Citations {
			fmt.Fprintf(&b, "> %s\n", cite)
		}
	}

	if rec.FallbackUsed {
		b.WriteString("\n*(Note: This response generated using fallback logic)*")
	}

	return b.String()
}
