package estimate

import (
	"slices"

	"mc-forecast/internal/sampling"
	"mc-forecast/internal/stats"
)

// ThreePointEstimate holds an optimistic / most-likely / pessimistic triple.
// Immutable once validated: construct, validate, then hand to Run.
type ThreePointEstimate struct {
	Optimistic  float64 `json:"optimistic"`
	MostLikely  float64 `json:"most_likely"`
	Pessimistic float64 `json:"pessimistic"`
}

// Validate enforces optimistic < most_likely < pessimistic.
func (e ThreePointEstimate) Validate() error {
	if e.Optimistic >= e.MostLikely {
		return &InvalidEstimateError{
			Field:  "optimistic",
			Detail: "optimistic must be strictly below most_likely",
		}
	}
	if e.MostLikely >= e.Pessimistic {
		return &InvalidEstimateError{
			Field:  "pessimistic",
			Detail: "pessimistic must be strictly above most_likely",
		}
	}
	return nil
}

// Result holds the output of a PERT-Beta sampling run. Samples are sorted
// ascending; the percentiles are linearly interpolated over them.
type Result struct {
	Samples  []float64 `json:"samples"`
	Mean     float64   `json:"mean"`
	StdDev   float64   `json:"std_dev"`
	Alpha    float64   `json:"alpha"`
	Beta     float64   `json:"beta"`
	P50      float64   `json:"p50"`
	P85      float64   `json:"p85"`
	P95      float64   `json:"p95"`
}

// Run converts a three-point estimate into a Beta-distributed sample set
// scaled to [optimistic, pessimistic] and extracts the summary percentiles.
// Used standalone for effort costing and as an input distribution supplier
// for the throughput forecaster.
func Run(gen *sampling.Generator, est ThreePointEstimate, sampleCount int) (Result, error) {
	if sampleCount < 1 {
		return Result{}, &sampling.InvalidParameterError{
			Param:  "sample_count",
			Value:  float64(sampleCount),
			Reason: "must be >= 1",
		}
	}
	if err := est.Validate(); err != nil {
		return Result{}, err
	}

	a, m, b := est.Optimistic, est.MostLikely, est.Pessimistic
	span := b - a

	// Classic PERT moments.
	mean := (a + 4*m + b) / 6
	stdDev := span / 6
	variance := stdDev * stdDev

	if span == 0 || variance == 0 {
		// Validate rejects a >= b, so this only trips on pathological float
		// inputs (e.g. span underflow). Reject rather than emit NaN shapes.
		return Result{}, &DegenerateEstimateError{Detail: "estimate range collapses to zero variance"}
	}

	// Method-of-moments shape parameters.
	factor := ((mean-a)*(b-mean))/variance - 1
	alpha := ((mean - a) / span) * factor
	beta := ((b - mean) / span) * factor

	samples := make([]float64, sampleCount)
	for i := range samples {
		rv, err := gen.Beta(alpha, beta)
		if err != nil {
			return Result{}, err
		}
		samples[i] = a + rv*span
	}
	slices.Sort(samples)

	return Result{
		Samples: samples,
		Mean:    mean,
		StdDev:  stdDev,
		Alpha:   alpha,
		Beta:    beta,
		P50:     stats.Percentile(samples, 0.50),
		P85:     stats.Percentile(samples, 0.85),
		P95:     stats.Percentile(samples, 0.95),
	}, nil
}
