package estimate

import (
	"errors"
	"math"
	"testing"

	"mc-forecast/internal/sampling"
)

func TestRun_SamplesWithinBounds(t *testing.T) {
	gen := sampling.New(42)
	est := ThreePointEstimate{Optimistic: 5, MostLikely: 10, Pessimistic: 20}

	res, err := Run(gen, est, 5000)
	if err != nil {
		t.Fatalf("Run returned error: %v", err)
	}

	for _, s := range res.Samples {
		if s < est.Optimistic || s > est.Pessimistic {
			t.Fatalf("Sample %f outside [%f, %f]", s, est.Optimistic, est.Pessimistic)
		}
	}
}

func TestRun_MeanMatchesPERT(t *testing.T) {
	// PERT mean of (5, 10, 20) is (5 + 40 + 20)/6 = 10.8333.
	gen := sampling.New(7)
	est := ThreePointEstimate{Optimistic: 5, MostLikely: 10, Pessimistic: 20}

	res, err := Run(gen, est, 10000)
	if err != nil {
		t.Fatalf("Run returned error: %v", err)
	}

	want := (5.0 + 4*10.0 + 20.0) / 6.0
	if math.Abs(res.Mean-want) > 1e-9 {
		t.Errorf("Analytic mean = %v, want %v", res.Mean, want)
	}

	sum := 0.0
	for _, s := range res.Samples {
		sum += s
	}
	empirical := sum / float64(len(res.Samples))
	if math.Abs(empirical-want)/want > 0.03 {
		t.Errorf("Empirical mean = %v, want within 3%% of %v", empirical, want)
	}
}

func TestRun_PercentilesOrdered(t *testing.T) {
	gen := sampling.New(1)
	est := ThreePointEstimate{Optimistic: 2, MostLikely: 6, Pessimistic: 18}

	res, err := Run(gen, est, 2000)
	if err != nil {
		t.Fatalf("Run returned error: %v", err)
	}
	if !(res.P50 <= res.P85 && res.P85 <= res.P95) {
		t.Errorf("Percentiles out of order: p50=%v p85=%v p95=%v", res.P50, res.P85, res.P95)
	}
}

func TestRun_Deterministic(t *testing.T) {
	est := ThreePointEstimate{Optimistic: 1, MostLikely: 3, Pessimistic: 9}

	a, err := Run(sampling.New(55), est, 500)
	if err != nil {
		t.Fatalf("Run returned error: %v", err)
	}
	b, err := Run(sampling.New(55), est, 500)
	if err != nil {
		t.Fatalf("Run returned error: %v", err)
	}

	if a.P50 != b.P50 || a.P85 != b.P85 || a.P95 != b.P95 {
		t.Errorf("Same seed produced different percentiles: %+v vs %+v", a, b)
	}
}

func TestValidate_Ordering(t *testing.T) {
	tests := []struct {
		name    string
		est     ThreePointEstimate
		wantErr bool
		field   string
	}{
		{"Valid", ThreePointEstimate{1, 2, 3}, false, ""},
		{"OptimisticEqualsLikely", ThreePointEstimate{2, 2, 3}, true, "optimistic"},
		{"PessimisticEqualsLikely", ThreePointEstimate{1, 3, 3}, true, "pessimistic"},
		{"Inverted", ThreePointEstimate{5, 3, 1}, true, "optimistic"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.est.Validate()
			if (err != nil) != tt.wantErr {
				t.Fatalf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
			if tt.wantErr {
				var invalid *InvalidEstimateError
				if !errors.As(err, &invalid) {
					t.Fatalf("Expected InvalidEstimateError, got %T", err)
				}
				if invalid.Field != tt.field {
					t.Errorf("Offending field = %q, want %q", invalid.Field, tt.field)
				}
			}
		})
	}
}

func TestRun_RejectsZeroSamples(t *testing.T) {
	gen := sampling.New(1)
	_, err := Run(gen, ThreePointEstimate{1, 2, 3}, 0)
	var invalid *sampling.InvalidParameterError
	if !errors.As(err, &invalid) {
		t.Fatalf("Expected InvalidParameterError for sample_count=0, got %v", err)
	}
}
