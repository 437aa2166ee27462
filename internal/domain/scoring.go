package domain

import "math"

// SimilarityEpsilon guards the cosine denominator against zero-norm vectors,
// so a fail-open zero embedding scores 0 instead of dividing by zero.
const SimilarityEpsilon = 1e-9

// ScoringStrategy declares how a store backend derives scores. Raw scores are
// only comparable within one strategy; relative ranking is consistent across both.
type ScoringStrategy string

const (
	// StrategyCosine scores by brute-force cosine similarity: raw in [-1, 1],
	// display = max(0, raw*100).
	StrategyCosine ScoringStrategy = "cosine"
	// StrategyDistance scores from a precomputed index distance:
	// raw = 100 - distance*100, display = max(0, raw).
	StrategyDistance ScoringStrategy = "distance"
)

// Display maps a raw ranking score to the user-facing 0-100 scale.
func (s ScoringStrategy) Display(raw float64) float64 {
	switch s {
	case StrategyCosine:
		return math.Max(0, raw*100)
	default:
		return math.Max(0, raw)
	}
}

// Cosine computes the cosine similarity (q·v) / (‖q‖·‖v‖ + ε).
func Cosine(q, v []float32) float64 {
	var dot, qNorm, vNorm float64
	for i := range q {
		qi := float64(q[i])
		vi := float64(v[i])
		dot += qi * vi
		qNorm += qi * qi
		vNorm += vi * vi
	}
	return dot / (math.Sqrt(qNorm)*math.Sqrt(vNorm) + SimilarityEpsilon)
}

// DistanceScore converts an index cosine distance into a raw ranking score.
func DistanceScore(distance float64) float64 {
	return 100 - distance*100
}
