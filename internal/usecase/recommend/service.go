// Package recommend implements grounded generation: one field note, one
// grounding document, one bounded model invocation, deterministic fallbacks.
package recommend

import (
	"context"
	"encoding/json"
	"errors"
	"strings"

	"go.uber.org/zap"

	"github.com/agrifield/sopadvisor/internal/domain"
	"github.com/agrifield/sopadvisor/internal/metrics"
)

// Deterministic fallback content. These strings are part of the API surface;
// the frontend displays them as-is.
const (
	bulletDocNotFound   = "Error: Document not found."
	bulletNoCredentials = "Fallback: model API key missing. Reference the matched document manually."
	bulletProviderError = "Error generating recommendation due to model failure."
	bulletParseError    = "Error parsing model response."
	citationUnavailable = "Citation not available without LLM."
)

// Service generates grounded recommendations.
type Service struct {
	docs   DocumentReader
	llm    ChatCompleter // nil when no model credentials are configured
	logger *zap.Logger
}

// New creates a recommendation service. llm may be nil (fallback-only mode).
func New(docs DocumentReader, llm ChatCompleter, logger *zap.Logger) *Service {
	return &Service{docs: docs, llm: llm, logger: logger}
}

// modelOutput is the JSON object the model is contracted to return.
type modelOutput struct {
	Bullets   []string `json:"bullets"`
	Citations []string `json:"citations"`
}

// Generate produces a recommendation for the note grounded on the given
// document. Every failure path terminates in a typed fallback result; no error
// and no panic ever reaches the caller, and no retries are performed.
func (s *Service) Generate(ctx context.Context, noteText, docID string) domain.Recommendation {
	doc, err := s.docs.Get(ctx, docID)
	if err != nil {
		if errors.Is(err, domain.ErrDocumentNotFound) {
			return s.fallback(domain.CauseDocumentNotFound, []string{bulletDocNotFound}, nil)
		}
		s.logger.Warn("Grounding document lookup failed", zap.String("doc_id", docID), zap.Error(err))
		return s.fallback(domain.CauseProviderError, []string{bulletProviderError}, nil)
	}

	if s.llm == nil {
		return s.fallback(domain.CauseNoCredentials,
			[]string{bulletNoCredentials}, []string{citationUnavailable})
	}

	content, err := s.llm.Complete(ctx, systemPrompt, buildPrompt(noteText, doc.Text))
	if err != nil {
		s.logger.Warn("Model invocation failed", zap.String("doc_id", docID), zap.Error(err))
		return s.fallback(domain.CauseProviderError, []string{bulletProviderError}, nil)
	}

	var out modelOutput
	if err := json.Unmarshal([]byte(content), &out); err != nil {
		// Keep the raw content as a diagnostic bullet for debuggability.
		s.logger.Warn("Model returned unparsable output", zap.String("doc_id", docID), zap.Error(err))
		return s.fallback(domain.CauseParseError, []string{bulletParseError, content}, nil)
	}

	return domain.Recommendation{
		Bullets:   out.Bullets,
		Citations: s.verifyCitations(out.Citations, doc.Text, docID),
		Cause:     domain.CauseNone,
	}
}

// verifyCitations drops citations that are not verbatim substrings of the
// grounding document. The model is asked for exact quotes but does not always
// comply, and downstream consumers rely on citations being quotable.
func (s *Service) verifyCitations(citations []string, docText, docID string) []string {
	verified := citations[:0]
	for _, c := range citations {
		if strings.Contains(docText, c) {
			verified = append(verified, c)
			continue
		}
		metrics.CitationsDroppedTotal.Inc()
		s.logger.Warn("Dropped non-verbatim citation",
			zap.String("doc_id", docID),
			zap.String("citation", c),
		)
	}
	return verified
}

func (s *Service) fallback(
	cause domain.FallbackCause, bullets, citations []string,
) domain.Recommendation {
	metrics.GenerationFallbackTotal.WithLabelValues(string(cause)).Inc()
	return domain.Recommendation{
		Bullets:      bullets,
		Citations:    citations,
		FallbackUsed: true,
		Cause:        cause,
	}
}
