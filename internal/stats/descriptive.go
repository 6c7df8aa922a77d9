package stats

import (
	"math"
	"slices"
)

// Descriptive summarizes the shape of an input sample series. All fields are
// plain numbers so the record serializes directly to JSON.
type Descriptive struct {
	Count                  int     `json:"count"`
	Mean                   float64 `json:"mean"`
	Median                 float64 `json:"median"`
	Mode                   float64 `json:"mode"`
	StdDev                 float64 `json:"std_dev"`
	MeanAbsoluteDeviation  float64 `json:"mean_absolute_deviation"`
	CoefficientOfVariation float64 `json:"coefficient_of_variation"`
	Min                    float64 `json:"min"`
	Max                    float64 `json:"max"`
	Range                  float64 `json:"range"`
}

// Describe computes descriptive statistics over a sample series.
// The mode is the most frequent value after rounding to the nearest integer,
// which matches how discrete throughput counts cluster.
func Describe(values []float64) Descriptive {
	d := Descriptive{Count: len(values)}
	if len(values) == 0 {
		return d
	}

	sum := 0.0
	d.Min = values[0]
	d.Max = values[0]
	for _, v := range values {
		sum += v
		if v < d.Min {
			d.Min = v
		}
		if v > d.Max {
			d.Max = v
		}
	}
	n := float64(len(values))
	d.Mean = sum / n
	d.Range = d.Max - d.Min
	d.Median = CalculateMedianContinuous(values)
	d.Mode = roundedMode(values)

	// Sample standard deviation and mean absolute deviation.
	sqSum := 0.0
	absSum := 0.0
	for _, v := range values {
		diff := v - d.Mean
		sqSum += diff * diff
		absSum += math.Abs(diff)
	}
	if len(values) > 1 {
		d.StdDev = math.Sqrt(sqSum / (n - 1))
	}
	d.MeanAbsoluteDeviation = absSum / n

	if d.Mean != 0 {
		d.CoefficientOfVariation = d.StdDev / d.Mean
	}

	return d
}

// roundedMode finds the most frequent rounded value. Ties resolve to the
// smallest value so the result is deterministic.
func roundedMode(values []float64) float64 {
	counts := make(map[float64]int)
	for _, v := range values {
		counts[math.Round(v)]++
	}

	keys := make([]float64, 0, len(counts))
	for k := range counts {
		keys = append(keys, k)
	}
	slices.Sort(keys)

	best := keys[0]
	bestCount := counts[best]
	for _, k := range keys[1:] {
		if counts[k] > bestCount {
			best = k
			bestCount = counts[k]
		}
	}
	return best
}
