package estimate

import "fmt"

// InvalidEstimateError signals a three-point estimate whose ordering
// invariant (optimistic < most_likely < pessimistic) is violated.
type InvalidEstimateError struct {
	Field  string
	Detail string
}

func (e *InvalidEstimateError) Error() string {
	return fmt.Sprintf("invalid estimate field %q: %s", e.Field, e.Detail)
}

// DegenerateEstimateError signals a zero-variance or zero-range estimate
// that cannot carry a Beta distribution.
type DegenerateEstimateError struct {
	Detail string
}

func (e *DegenerateEstimateError) Error() string {
	return "degenerate estimate: " + e.Detail
}
