package optimize

import (
	"math"

	"quantsim/internal/engine"
)

// ParamRange defines the ordered, finite set of candidate values for one
// named parameter. The two variants, IntRange and FloatRange, are the only
// implementations.
type ParamRange interface {
	// Values expands the range into its ordered discrete values.
	Values() []float64
	// Count is the number of values: floor((max-min)/step) + 1.
	Count() int
	// Contains reports whether v is one of the candidate values.
	Contains(v float64) bool
	Validate() error
}

type IntRange struct {
	Min  int
	Max  int
	Step int
}

func (r IntRange) Validate() error {
	if r.Step <= 0 {
		return &engine.InvalidParameterError{Name: "step", Reason: "must be > 0"}
	}
	if r.Min > r.Max {
		return &engine.InvalidParameterError{Name: "min", Reason: "must be <= max"}
	}
	return nil
}

func (r IntRange) Count() int {
	if r.Step <= 0 || r.Min > r.Max {
		return 0
	}
	return (r.Max-r.Min)/r.Step + 1
}

func (r IntRange) Values() []float64 {
	n := r.Count()
	values := make([]float64, 0, n)
	for i := 0; i < n; i++ {
		values = append(values, float64(r.Min+i*r.Step))
	}
	return values
}

func (r IntRange) Contains(v float64) bool {
	if v != math.Trunc(v) {
		return false
	}
	i := int(v)
	return i >= r.Min && i <= r.Max && (i-r.Min)%r.Step == 0
}

type FloatRange struct {
	Min  float64
	Max  float64
	Step float64
}

func (r FloatRange) Validate() error {
	if r.Step <= 0 {
		return &engine.InvalidParameterError{Name: "step", Reason: "must be > 0"}
	}
	if r.Min > r.Max {
		return &engine.InvalidParameterError{Name: "min", Reason: "must be <= max"}
	}
	return nil
}

func (r FloatRange) Count() int {
	if r.Step <= 0 || r.Min > r.Max {
		return 0
	}
	// Tolerate float error at the upper bound so {0.1, 0.3, 0.1} yields 3
	// values, not 2.
	return int(math.Floor((r.Max-r.Min)/r.Step+1e-9)) + 1
}

// Values generates each value from its index rather than by accumulation so
// the step error does not drift across the range.
func (r FloatRange) Values() []float64 {
	n := r.Count()
	values := make([]float64, 0, n)
	for i := 0; i < n; i++ {
		values = append(values, r.Min+float64(i)*r.Step)
	}
	return values
}

func (r FloatRange) Contains(v float64) bool {
	if v < r.Min-1e-9 || v > r.Max+1e-9 {
		return false
	}
	steps := (v - r.Min) / r.Step
	return math.Abs(steps-math.Round(steps)) < 1e-6
}

// valueAt returns the i'th value of a range without expanding it. Indexing
// matches Values().
func valueAt(r ParamRange, i int) float64 {
	switch rr := r.(type) {
	case IntRange:
		return float64(rr.Min + i*rr.Step)
	case FloatRange:
		return rr.Min + float64(i)*rr.Step
	}
	return r.Values()[i]
}
