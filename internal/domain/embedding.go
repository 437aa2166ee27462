package domain

import "context"

// Embedder is the shared text vectorization contract between layers.
type Embedder interface {
	Embed(ctx context.Context, text string) (EmbeddingResult, error)
}

// HealthChecker verifies embedding provider availability.
type HealthChecker interface {
	HealthCheck(ctx context.Context) error
}

// EmbeddingOutcome classifies how an embedding was produced.
type EmbeddingOutcome string

const (
	// EmbeddingOK means the provider returned a real vector.
	EmbeddingOK EmbeddingOutcome = "ok"
	// EmbeddingUnavailable means no provider is configured; the vector is a zero placeholder.
	EmbeddingUnavailable EmbeddingOutcome = "unavailable"
	// EmbeddingProviderError means the provider call failed; the vector is a zero placeholder.
	EmbeddingProviderError EmbeddingOutcome = "provider_error"
)

// EmbeddingResult carries the vector, token usage, and a typed outcome so callers
// can tell a real embedding from a fail-open placeholder.
type EmbeddingResult struct {
	Vector       []float32
	Outcome      EmbeddingOutcome
	PromptTokens int
	TotalTokens  int
}

// ZeroVector returns the deterministic placeholder vector of the given dimension.
func ZeroVector(dim int) []float32 {
	return make([]float32, dim)
}
