package stats

import (
	"math"
	"slices"
)

// Percentile extracts a linearly interpolated percentile from an
// already-sorted slice. p is expressed as a fraction (0.85 for P85).
// p <= 0 returns the minimum, p >= 1 the maximum.
func Percentile(sorted []float64, p float64) float64 {
	n := len(sorted)
	if n == 0 {
		return 0
	}
	if n == 1 {
		return sorted[0]
	}
	if p <= 0 {
		return sorted[0]
	}
	if p >= 1 {
		return sorted[n-1]
	}

	idx := float64(n-1) * p
	lower := int(math.Floor(idx))
	upper := int(math.Ceil(idx))
	if lower == upper {
		return sorted[lower]
	}
	frac := idx - float64(lower)
	return sorted[lower] + (sorted[upper]-sorted[lower])*frac
}

// PercentileOfUnsorted sorts a copy of the input and interpolates.
// The caller's slice is never mutated.
func PercentileOfUnsorted(values []float64, p float64) float64 {
	temp := make([]float64, len(values))
	copy(temp, values)
	slices.Sort(temp)
	return Percentile(temp, p)
}

// PercentileTable maps percentile labels (p10..p95) to values. It is derived
// output, recomputed on every run and never mutated in place.
type PercentileTable map[string]float64

// StandardLabels lists the percentiles every forecast reports, ascending.
var StandardLabels = []struct {
	Label string
	P     float64
}{
	{"p10", 0.10},
	{"p25", 0.25},
	{"p50", 0.50},
	{"p70", 0.70},
	{"p85", 0.85},
	{"p90", 0.90},
	{"p95", 0.95},
}

// BuildPercentileTable computes the standard percentile set over a sorted slice.
func BuildPercentileTable(sorted []float64) PercentileTable {
	table := make(PercentileTable, len(StandardLabels))
	for _, l := range StandardLabels {
		table[l.Label] = Percentile(sorted, l.P)
	}
	return table
}
