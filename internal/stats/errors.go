package stats

import "fmt"

// InsufficientDataError signals that a statistical fit was requested against
// too few observations. It is a fatal condition for the fit itself but is
// typically surfaced as a degraded (fit-less) result by callers.
type InsufficientDataError struct {
	Field    string
	Got      int
	Required int
	Detail   string
}

func (e *InsufficientDataError) Error() string {
	msg := fmt.Sprintf("insufficient data for %q: got %d, need at least %d", e.Field, e.Got, e.Required)
	if e.Detail != "" {
		msg += " (" + e.Detail + ")"
	}
	return msg
}
