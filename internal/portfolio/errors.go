package portfolio

import "fmt"

// InfeasibleConstraintsError signals that rejection sampling produced zero
// feasible portfolios. It is raised explicitly instead of returning an empty
// frontier.
type InfeasibleConstraintsError struct {
	Attempted   int
	MaxBudget   *float64
	MaxCapacity *float64
}

func (e *InfeasibleConstraintsError) Error() string {
	return fmt.Sprintf(
		"no feasible portfolio found after %d attempts (max_budget=%s, max_capacity=%s)",
		e.Attempted, formatBound(e.MaxBudget), formatBound(e.MaxCapacity))
}

func formatBound(v *float64) string {
	if v == nil {
		return "unbounded"
	}
	return fmt.Sprintf("%v", *v)
}
