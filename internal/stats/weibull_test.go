package stats

import (
	"errors"
	"math"
	"math/rand"
	"testing"
)

func TestFitWeibull_RecoverParameters(t *testing.T) {
	// Generate draws from a known Weibull via inverse transform sampling
	// and verify the regression recovers shape and scale.
	rng := rand.New(rand.NewSource(11))
	shape, scale := 1.8, 6.0
	samples := make([]float64, 500)
	for i := range samples {
		u := rng.Float64()
		for u == 0 {
			u = rng.Float64()
		}
		samples[i] = scale * math.Pow(-math.Log(1-u), 1/shape)
	}

	fit, err := FitWeibull(samples)
	if err != nil {
		t.Fatalf("FitWeibull returned error: %v", err)
	}

	if math.Abs(fit.Shape-shape)/shape > 0.15 {
		t.Errorf("Shape = %v, want near %v", fit.Shape, shape)
	}
	if math.Abs(fit.Scale-scale)/scale > 0.15 {
		t.Errorf("Scale = %v, want near %v", fit.Scale, scale)
	}
	if fit.RSquared < 0.9 {
		t.Errorf("Expected strong fit, R² = %v", fit.RSquared)
	}
}

func TestFitWeibull_InsufficientData(t *testing.T) {
	_, err := FitWeibull([]float64{1, 2, 3})
	var insufficient *InsufficientDataError
	if !errors.As(err, &insufficient) {
		t.Fatalf("Expected InsufficientDataError, got %v", err)
	}
	if insufficient.Required != MinWeibullPoints {
		t.Errorf("Required = %d, want %d", insufficient.Required, MinWeibullPoints)
	}
}

func TestFitWeibull_IgnoresNonPositive(t *testing.T) {
	// Only two positive points remain after filtering.
	_, err := FitWeibull([]float64{0, -1, 5, 8})
	if err == nil {
		t.Error("Expected error when positive points fall below the minimum")
	}
}
