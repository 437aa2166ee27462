// Package embedding carries the fail-open policy: the pipeline's availability
// is prioritized over recommendation quality, so embedding failures degrade to
// zero vectors ("everything equally irrelevant") instead of failing requests.
package embedding

import (
	"context"

	"go.uber.org/zap"

	"github.com/agrifield/sopadvisor/internal/domain"
	"github.com/agrifield/sopadvisor/internal/metrics"
)

// Failsafe wraps an embedding provider and never fails outward. Any inner error
// becomes a zero vector of the configured dimension with a typed outcome, so
// callers can still distinguish fallback causes in logs and metrics.
type Failsafe struct {
	inner  domain.Embedder // nil when no provider is configured
	dim    int
	logger *zap.Logger
}

// NewFailsafe creates the fail-open decorator. inner may be nil.
func NewFailsafe(inner domain.Embedder, dim int, logger *zap.Logger) *Failsafe {
	return &Failsafe{inner: inner, dim: dim, logger: logger}
}

// Embed implements domain.Embedder. The returned error is always nil.
func (f *Failsafe) Embed(ctx context.Context, text string) (domain.EmbeddingResult, error) {
	if f.inner == nil {
		metrics.EmbeddingFallbackTotal.WithLabelValues(string(domain.EmbeddingUnavailable)).Inc()
		return domain.EmbeddingResult{
			Vector:  domain.ZeroVector(f.dim),
			Outcome: domain.EmbeddingUnavailable,
		}, nil
	}

	result, err := f.inner.Embed(ctx, text)
	if err != nil {
		f.logger.Warn("Embedding failed, using zero-vector placeholder", zap.Error(err))
		metrics.EmbeddingFallbackTotal.WithLabelValues(string(domain.EmbeddingProviderError)).Inc()
		return domain.EmbeddingResult{
			Vector:  domain.ZeroVector(f.dim),
			Outcome: domain.EmbeddingProviderError,
		}, nil
	}

	// A provider can answer successfully with the wrong dimensionality, e.g. a
	// model change behind the same endpoint. The store would reject such a
	// vector, so it degrades here like any other provider failure.
	if len(result.Vector) != f.dim {
		f.logger.Warn("Embedding has wrong dimension, using zero-vector placeholder",
			zap.Int("got", len(result.Vector)),
			zap.Int("want", f.dim))
		metrics.EmbeddingFallbackTotal.WithLabelValues(string(domain.EmbeddingProviderError)).Inc()
		return domain.EmbeddingResult{
			Vector:  domain.ZeroVector(f.dim),
			Outcome: domain.EmbeddingProviderError,
		}, nil
	}

	return result, nil
}

// Configured reports whether a real provider backs this embedder.
func (f *Failsafe) Configured() bool {
	return f.inner != nil
}

// HealthCheck probes the inner provider when it supports health checks.
func (f *Failsafe) HealthCheck(ctx context.Context) error {
	if hc, ok := f.inner.(domain.HealthChecker); ok {
		return hc.HealthCheck(ctx)
	}
	return nil
}
