package portfolio

import (
	"context"
	"math"
	"sort"

	"mc-forecast/internal/sampling"
)

const (
	// DefaultSampleSize is the Monte Carlo draw count when the caller
	// passes 0.
	DefaultSampleSize = 5000

	// maxRejectionAttempts bounds the rejection-sampling retries for one
	// draw. A draw that cannot satisfy the constraints within the bound is
	// skipped, not fatal; only a fully infeasible run errors.
	maxRejectionAttempts = 50

	// cancelCheckInterval controls context polling between draw batches.
	cancelCheckInterval = 500

	// frontierBuckets is the risk-axis resolution for frontier extraction.
	frontierBuckets = 50
)

// Candidate is one project eligible for portfolio inclusion.
type Candidate struct {
	Key            string  `json:"key"`
	ExpectedReturn float64 `json:"expected_return"`
	Risk           float64 `json:"risk"` // standard deviation of return
	Cost           float64 `json:"cost"`
	CapacityDemand float64 `json:"capacity_demand"`
}

// Constraints bound the feasible weight vectors. A nil field means
// unconstrained on that axis; an explicit zero is enforced as a hard cap.
type Constraints struct {
	MaxBudget   *float64 `json:"max_budget,omitempty"`
	MaxCapacity *float64 `json:"max_capacity,omitempty"`
}

// Sample is one accepted Monte Carlo portfolio draw. Ephemeral: generated
// per draw, retained in the result only for frontier plotting.
type Sample struct {
	Weights        []float64 `json:"weights"`
	ExpectedReturn float64   `json:"expected_return"`
	Risk           float64   `json:"risk"`
	SharpeRatio    float64   `json:"sharpe_ratio"`
}

// Result holds the optimizer output.
type Result struct {
	// Frontier is the non-dominated set, sorted by risk ascending.
	Frontier []Sample `json:"frontier"`
	// Best is the accepted draw with the maximum Sharpe ratio.
	Best Sample `json:"best"`
	// Samples are all accepted draws (for scatter plotting by callers).
	Samples []Sample `json:"samples"`
	// Attempted and Accepted expose the rejection-sampling yield.
	Attempted int `json:"attempted"`
	Accepted  int `json:"accepted"`
}

// Optimize samples feasible weight vectors over the candidates, computes
// risk/return/Sharpe per draw, and extracts the efficient frontier plus the
// maximum-Sharpe portfolio.
//
// Portfolio risk uses the zero-covariance simplification
// sqrt(sum w_i^2 * var_i): cross-project correlation is assumed zero unless
// the caller models it upstream.
func Optimize(ctx context.Context, gen *sampling.Generator, candidates []Candidate, constraints Constraints, riskFreeRate float64, sampleSize int) (Result, error) {
	if len(candidates) == 0 {
		return Result{}, &sampling.InvalidParameterError{
			Param:  "candidates",
			Value:  0,
			Reason: "at least one candidate is required",
		}
	}
	for _, c := range candidates {
		if c.Risk < 0 {
			return Result{}, &sampling.InvalidParameterError{
				Param:  "risk",
				Value:  c.Risk,
				Reason: "must be >= 0 (candidate " + c.Key + ")",
			}
		}
		if c.Cost < 0 || c.CapacityDemand < 0 {
			return Result{}, &sampling.InvalidParameterError{
				Param:  "cost",
				Value:  math.Min(c.Cost, c.CapacityDemand),
				Reason: "cost and capacity_demand must be >= 0 (candidate " + c.Key + ")",
			}
		}
	}
	if sampleSize < 0 {
		return Result{}, &sampling.InvalidParameterError{
			Param:  "sample_size",
			Value:  float64(sampleSize),
			Reason: "must be >= 0",
		}
	}
	if sampleSize == 0 {
		sampleSize = DefaultSampleSize
	}

	result := Result{Samples: make([]Sample, 0, sampleSize)}

	for i := 0; i < sampleSize; i++ {
		if i%cancelCheckInterval == 0 {
			select {
			case <-ctx.Done():
				return Result{}, ctx.Err()
			default:
			}
		}

		sample, ok := drawFeasible(gen, candidates, constraints, &result.Attempted)
		if !ok {
			continue // retry budget exhausted for this draw, skip it
		}

		sample.ExpectedReturn, sample.Risk = evaluate(candidates, sample.Weights)
		if sample.Risk > 0 {
			sample.SharpeRatio = (sample.ExpectedReturn - riskFreeRate) / sample.Risk
		}
		result.Samples = append(result.Samples, sample)
	}

	result.Accepted = len(result.Samples)
	if result.Accepted == 0 {
		return Result{}, &InfeasibleConstraintsError{
			Attempted:   result.Attempted,
			MaxBudget:   constraints.MaxBudget,
			MaxCapacity: constraints.MaxCapacity,
		}
	}

	result.Best = maxSharpe(result.Samples)
	result.Frontier = efficientFrontier(result.Samples)
	return result, nil
}

// drawFeasible generates Dirichlet-style weight vectors until one satisfies
// the budget and capacity constraints or the retry budget runs out.
func drawFeasible(gen *sampling.Generator, candidates []Candidate, constraints Constraints, attempted *int) (Sample, bool) {
	for attempt := 0; attempt < maxRejectionAttempts; attempt++ {
		*attempted++

		weights := make([]float64, len(candidates))
		sum := 0.0
		for i := range weights {
			weights[i] = gen.Float64()
			sum += weights[i]
		}
		if sum == 0 {
			continue
		}
		for i := range weights {
			weights[i] /= sum
		}

		if satisfies(candidates, weights, constraints) {
			return Sample{Weights: weights}, true
		}
	}
	return Sample{}, false
}

func satisfies(candidates []Candidate, weights []float64, constraints Constraints) bool {
	budget := 0.0
	capacity := 0.0
	for i, c := range candidates {
		budget += weights[i] * c.Cost
		capacity += weights[i] * c.CapacityDemand
	}
	if constraints.MaxBudget != nil && budget > *constraints.MaxBudget {
		return false
	}
	if constraints.MaxCapacity != nil && capacity > *constraints.MaxCapacity {
		return false
	}
	return true
}

func evaluate(candidates []Candidate, weights []float64) (expectedReturn, risk float64) {
	variance := 0.0
	for i, c := range candidates {
		expectedReturn += weights[i] * c.ExpectedReturn
		variance += weights[i] * weights[i] * c.Risk * c.Risk
	}
	return expectedReturn, math.Sqrt(variance)
}

func maxSharpe(samples []Sample) Sample {
	best := samples[0]
	for _, s := range samples[1:] {
		if s.SharpeRatio > best.SharpeRatio {
			best = s
		}
	}
	return best
}

// efficientFrontier buckets the risk axis and keeps the maximum-return draw
// per bucket, then filters to the non-dominated set sorted by risk ascending.
func efficientFrontier(samples []Sample) []Sample {
	minRisk, maxRisk := samples[0].Risk, samples[0].Risk
	for _, s := range samples {
		if s.Risk < minRisk {
			minRisk = s.Risk
		}
		if s.Risk > maxRisk {
			maxRisk = s.Risk
		}
	}

	span := maxRisk - minRisk
	if span == 0 {
		return []Sample{maxReturn(samples)}
	}

	bucketBest := make(map[int]Sample, frontierBuckets)
	for _, s := range samples {
		b := int((s.Risk - minRisk) / span * float64(frontierBuckets))
		if b >= frontierBuckets {
			b = frontierBuckets - 1
		}
		if cur, ok := bucketBest[b]; !ok || s.ExpectedReturn > cur.ExpectedReturn {
			bucketBest[b] = s
		}
	}

	frontier := make([]Sample, 0, len(bucketBest))
	for _, s := range bucketBest {
		frontier = append(frontier, s)
	}
	sort.Slice(frontier, func(i, j int) bool {
		return frontier[i].Risk < frontier[j].Risk
	})

	// Dominance filter: walking by risk ascending, keep only points that
	// improve on the best return seen so far.
	filtered := frontier[:0]
	bestReturn := math.Inf(-1)
	for _, s := range frontier {
		if s.ExpectedReturn > bestReturn {
			filtered = append(filtered, s)
			bestReturn = s.ExpectedReturn
		}
	}
	return filtered
}

func maxReturn(samples []Sample) Sample {
	best := samples[0]
	for _, s := range samples[1:] {
		if s.ExpectedReturn > best.ExpectedReturn {
			best = s
		}
	}
	return best
}
