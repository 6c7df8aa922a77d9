package sampling

import "fmt"

// InvalidParameterError signals a malformed numeric input to a sampler.
// The generator never clamps; the caller gets the offending parameter by name.
type InvalidParameterError struct {
	Param  string
	Value  float64
	Reason string
}

func (e *InvalidParameterError) Error() string {
	return fmt.Sprintf("invalid parameter %q: got %v, %s", e.Param, e.Value, e.Reason)
}
