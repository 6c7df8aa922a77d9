package stats

import (
	"math"
	"slices"
)

// MinWeibullPoints is the practical minimum of positive observations for a
// meaningful regression fit.
const MinWeibullPoints = 4

// WeibullFit holds the parameters of a two-parameter Weibull distribution
// fitted to empirical lead-time data.
type WeibullFit struct {
	Shape    float64 `json:"shape"`
	Scale    float64 `json:"scale"`
	RSquared float64 `json:"r_squared"`
	Points   int     `json:"points"`
}

// FitWeibull estimates Weibull shape and scale by linear regression in
// log-log space against the empirical CDF (median-rank plotting positions).
// Non-positive observations are skipped: the log transform is undefined for
// them. Fewer than MinWeibullPoints usable observations yields
// InsufficientDataError rather than an unstable fit.
func FitWeibull(leadTimes []float64) (WeibullFit, error) {
	positive := make([]float64, 0, len(leadTimes))
	for _, v := range leadTimes {
		if v > 0 {
			positive = append(positive, v)
		}
	}

	if len(positive) < MinWeibullPoints {
		return WeibullFit{}, &InsufficientDataError{
			Field:    "lead_times",
			Got:      len(positive),
			Required: MinWeibullPoints,
		}
	}

	slices.Sort(positive)
	n := len(positive)

	// x = ln(t), y = ln(-ln(1-F)) linearizes the Weibull CDF:
	// y = shape*x - shape*ln(scale).
	xs := make([]float64, n)
	ys := make([]float64, n)
	for i, t := range positive {
		f := (float64(i+1) - 0.3) / (float64(n) + 0.4) // median rank
		xs[i] = math.Log(t)
		ys[i] = math.Log(-math.Log(1 - f))
	}

	slope, intercept, r2 := linearRegression(xs, ys)
	if slope <= 0 {
		// Degenerate data (e.g. identical lead times) cannot carry a fit.
		return WeibullFit{}, &InsufficientDataError{
			Field:    "lead_times",
			Got:      n,
			Required: MinWeibullPoints,
			Detail:   "no spread in positive lead times",
		}
	}

	return WeibullFit{
		Shape:    slope,
		Scale:    math.Exp(-intercept / slope),
		RSquared: r2,
		Points:   n,
	}, nil
}

// linearRegression performs an ordinary least squares fit and returns slope,
// intercept and the coefficient of determination.
func linearRegression(xs, ys []float64) (slope, intercept, r2 float64) {
	n := float64(len(xs))
	var sumX, sumY, sumXY, sumX2, sumY2 float64
	for i := range xs {
		sumX += xs[i]
		sumY += ys[i]
		sumXY += xs[i] * ys[i]
		sumX2 += xs[i] * xs[i]
		sumY2 += ys[i] * ys[i]
	}

	den := n*sumX2 - sumX*sumX
	if den == 0 {
		return 0, 0, 0
	}
	slope = (n*sumXY - sumX*sumY) / den
	intercept = (sumY - slope*sumX) / n

	rDen := math.Sqrt(den * (n*sumY2 - sumY*sumY))
	if rDen == 0 {
		return slope, intercept, 0
	}
	r := (n*sumXY - sumX*sumY) / rDen
	return slope, intercept, r * r
}
