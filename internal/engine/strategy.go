package engine

import "quantsim/types"

// Strategy is the capability contract consumed by the simulator. OnBar must
// emit exactly one signal per bar and be deterministic for an identical bar
// history; SetParams must reject unknown keys and out-of-domain values with
// an InvalidParameterError.
type Strategy interface {
	Name() string
	SetParams(params types.ParameterSet) error
	Reset()
	OnBar(bar types.PriceBar) types.Signal
}

// Factory builds a fresh, independent strategy instance. The optimizer calls
// it once per evaluated combination so that no indicator buffers or counters
// are shared across concurrent runs.
type Factory func() Strategy
