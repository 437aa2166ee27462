package domain

import (
	"math"
	"testing"
)

func TestCosine_IdenticalVectors(t *testing.T) {
	v := []float32{1, 2, 3}
	got := Cosine(v, v)
	if math.Abs(got-1.0) > 1e-6 {
		t.Errorf("Cosine(v, v) = %v, want ~1", got)
	}
}

func TestCosine_OrthogonalVectors(t *testing.T) {
	got := Cosine([]float32{1, 0}, []float32{0, 1})
	if math.Abs(got) > 1e-9 {
		t.Errorf("Cosine(orthogonal) = %v, want 0", got)
	}
}

func TestCosine_OppositeVectors(t *testing.T) {
	got := Cosine([]float32{1, 0}, []float32{-1, 0})
	if math.Abs(got+1.0) > 1e-6 {
		t.Errorf("Cosine(opposite) = %v, want ~-1", got)
	}
}

func TestCosine_ZeroVectorScoresZero(t *testing.T) {
	// The epsilon guard keeps a zero-norm query from dividing by zero.
	got := Cosine(ZeroVector(3), []float32{1, 2, 3})
	if got != 0 {
		t.Errorf("Cosine(zero, v) = %v, want 0", got)
	}
	if math.IsNaN(got) || math.IsInf(got, 0) {
		t.Errorf("Cosine(zero, v) is not finite: %v", got)
	}
}

func TestDisplay_Cosine(t *testing.T) {
	tests := []struct {
		raw  float64
		want float64
	}{
		{1.0, 100},
		{0.5, 50},
		{0, 0},
		{-0.3, 0}, // negative similarity clamps to zero
	}
	for _, tt := range tests {
		if got := StrategyCosine.Display(tt.raw); got != tt.want {
			t.Errorf("StrategyCosine.Display(%v) = %v, want %v", tt.raw, got, tt.want)
		}
	}
}

func TestDisplay_Distance(t *testing.T) {
	// raw comes from DistanceScore: distance 0 -> 100, distance 1 -> 0.
	if got := StrategyDistance.Display(DistanceScore(0)); got != 100 {
		t.Errorf("Display(DistanceScore(0)) = %v, want 100", got)
	}
	if got := StrategyDistance.Display(DistanceScore(0.25)); got != 75 {
		t.Errorf("Display(DistanceScore(0.25)) = %v, want 75", got)
	}
	// distance > 1 yields a negative raw score, clamped for display
	if got := StrategyDistance.Display(DistanceScore(1.5)); got != 0 {
		t.Errorf("Display(DistanceScore(1.5)) = %v, want 0", got)
	}
}

func TestZeroVector(t *testing.T) {
	v := ZeroVector(1536)
	if len(v) != 1536 {
		t.Fatalf("ZeroVector length = %d, want 1536", len(v))
	}
	for i, x := range v {
		if x != 0 {
			t.Fatalf("ZeroVector[%d] = %v, want 0", i, x)
		}
	}
}
