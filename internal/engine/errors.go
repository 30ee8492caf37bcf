package engine

import "fmt"

// InvalidParameterError reports a config field, range definition or strategy
// parameter that is outside its domain.
type InvalidParameterError struct {
	Name   string
	Reason string
}

func (e *InvalidParameterError) Error() string {
	return fmt.Sprintf("invalid parameter %q: %s", e.Name, e.Reason)
}

// InsufficientDataError reports a price series shorter than the minimum the
// simulator accepts.
type InsufficientDataError struct {
	Required int
	Got      int
}

func (e *InsufficientDataError) Error() string {
	return fmt.Sprintf("insufficient data: got %d bars, minimum is %d", e.Got, e.Required)
}

// StrategyFailureError wraps a failure inside a strategy, either rejecting
// its parameter set or while generating signals.
type StrategyFailureError struct {
	Strategy string
	Err      error
}

func (e *StrategyFailureError) Error() string {
	return fmt.Sprintf("strategy %s failed: %v", e.Strategy, e.Err)
}

func (e *StrategyFailureError) Unwrap() error {
	return e.Err
}
