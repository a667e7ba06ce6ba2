package models

import "fmt"

// InvalidParameterError reports a parameter that cannot be clamped into
// range, such as an unknown style or a NaN contrast.
type InvalidParameterError struct {
	Name   string
	Value  interface{}
	Reason string
}

func (e *InvalidParameterError) Error() string {
	return fmt.Sprintf("invalid parameter %s=%v: %s", e.Name, e.Value, e.Reason)
}
