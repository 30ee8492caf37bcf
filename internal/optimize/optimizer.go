// Package optimize searches a multi-dimensional strategy parameter space by
// running an independent simulation per combination and ranking the results
// by a chosen statistic.
package optimize

import (
	"context"
	"fmt"
	"math"
	"runtime"
	"sort"
	"sync"
	"sync/atomic"

	"quantsim/internal/engine"
	"quantsim/internal/metrics"
	"quantsim/types"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// MaxCombinations is the hard ceiling on grid size. Larger grids fail fast
// before any simulation work starts.
const MaxCombinations = 100_000

// TooManyCombinationsError reports a grid whose Cartesian product exceeds
// the combination ceiling.
type TooManyCombinationsError struct {
	Total int
	Limit int
}

func (e *TooManyCombinationsError) Error() string {
	return fmt.Sprintf("too many parameter combinations: %d (limit %d)", e.Total, e.Limit)
}

// Result pairs one evaluated ParameterSet with the simulation and report it
// produced. Objective is the target statistic's value for ranking.
type Result struct {
	Params     types.ParameterSet
	Simulation *engine.Result
	Report     metrics.Report
	Objective  float64
}

// ProgressFunc receives a monotonically increasing completed count and the
// total combination count. It may be called from any worker goroutine.
type ProgressFunc func(done, total int)

// Optimizer evaluates parameter combinations over a shared read-only price
// series, each with a fresh strategy instance from a caller-supplied factory.
type Optimizer struct {
	ranges      map[string]ParamRange
	target      metrics.OptimizationTarget
	cfg         engine.Config
	maxParallel int
	progress    ProgressFunc
	log         *zap.Logger
}

func New(ranges map[string]ParamRange, target metrics.OptimizationTarget) *Optimizer {
	return &Optimizer{
		ranges:      ranges,
		target:      target,
		cfg:         engine.DefaultConfig(),
		maxParallel: runtime.GOMAXPROCS(0),
		log:         zap.NewNop(),
	}
}

func (o *Optimizer) WithConfig(cfg engine.Config) *Optimizer {
	o.cfg = cfg
	return o
}

func (o *Optimizer) WithMaxParallel(n int) *Optimizer {
	if n < 1 {
		n = 1
	}
	o.maxParallel = n
	return o
}

func (o *Optimizer) WithProgress(fn ProgressFunc) *Optimizer {
	o.progress = fn
	return o
}

func (o *Optimizer) WithLogger(log *zap.Logger) *Optimizer {
	if log != nil {
		o.log = log
	}
	return o
}

// TotalCombinations is the grid size: the product of each range's value
// count, saturating at math.MaxInt.
func (o *Optimizer) TotalCombinations() int {
	if len(o.ranges) == 0 {
		return 0
	}
	total := 1
	for _, r := range o.ranges {
		cnt := r.Count()
		if cnt < 1 {
			return 0
		}
		if total > math.MaxInt/cnt {
			return math.MaxInt
		}
		total *= cnt
	}
	return total
}

// GridSearch evaluates the full Cartesian product of the parameter ranges.
// Range and config validation failures abort before any simulation runs; a
// failure inside a single combination is logged and skipped, and the search
// continues. The returned order is the completion order across workers and
// carries no meaning; use FindBest or TopN.
func (o *Optimizer) GridSearch(ctx context.Context, bars []types.PriceBar, factory engine.Factory) ([]Result, error) {
	combos, err := o.combinations()
	if err != nil {
		return nil, err
	}
	return o.evaluateAll(ctx, bars, factory, combos)
}

func (o *Optimizer) evaluateAll(ctx context.Context, bars []types.PriceBar, factory engine.Factory, combos []types.ParameterSet) ([]Result, error) {
	sim, err := engine.NewSimulator(o.cfg)
	if err != nil {
		return nil, err
	}
	if len(bars) < engine.MinBars {
		return nil, &engine.InsufficientDataError{Required: engine.MinBars, Got: len(bars)}
	}
	if len(combos) == 0 {
		return nil, nil
	}

	total := len(combos)
	tasks := make(chan types.ParameterSet)

	var mu sync.Mutex
	results := make([]Result, 0, total)
	var done atomic.Int64

	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		defer close(tasks)
		for _, params := range combos {
			if err := ctx.Err(); err != nil {
				return err
			}
			select {
			case <-ctx.Done():
				return ctx.Err()
			case tasks <- params:
			}
		}
		return nil
	})

	for i := 0; i < o.maxParallel; i++ {
		g.Go(func() error {
			for params := range tasks {
				res, err := o.evaluate(sim, bars, factory, params)
				n := int(done.Add(1))
				if o.progress != nil {
					o.progress(n, total)
				}
				if err != nil {
					o.log.Warn("combination skipped",
						zap.Any("params", params),
						zap.Error(err))
					continue
				}
				mu.Lock()
				results = append(results, *res)
				mu.Unlock()
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return results, err
	}
	return results, nil
}

// evaluate runs one combination: fresh strategy, parameter validation, full
// simulation, report derivation.
func (o *Optimizer) evaluate(sim *engine.Simulator, bars []types.PriceBar, factory engine.Factory, params types.ParameterSet) (*Result, error) {
	strat := factory()
	strat.Reset()
	if err := strat.SetParams(params); err != nil {
		return nil, &engine.StrategyFailureError{Strategy: strat.Name(), Err: err}
	}

	simRes, err := sim.Run(bars, strat)
	if err != nil {
		return nil, err
	}

	elapsed := bars[len(bars)-1].Timestamp.Sub(bars[0].Timestamp)
	report := metrics.Derive(simRes, elapsed)

	return &Result{
		Params:     params,
		Simulation: simRes,
		Report:     report,
		Objective:  o.target.Value(report),
	}, nil
}

// combinations validates every range, enforces the combination ceiling, and
// expands the Cartesian product in sorted-name order so enumeration is
// deterministic.
func (o *Optimizer) combinations() ([]types.ParameterSet, error) {
	if !o.target.Valid() {
		return nil, &engine.InvalidParameterError{Name: "target", Reason: fmt.Sprintf("unknown optimization target %q", o.target)}
	}
	names := o.sortedNames()

	total := 1
	for _, name := range names {
		r := o.ranges[name]
		if err := r.Validate(); err != nil {
			return nil, fmt.Errorf("range %q: %w", name, err)
		}
		// Saturate the running product rather than overflow it.
		if cnt := r.Count(); total > math.MaxInt/cnt {
			total = math.MaxInt
		} else {
			total *= cnt
		}
		if total > MaxCombinations {
			return nil, &TooManyCombinationsError{Total: total, Limit: MaxCombinations}
		}
	}
	if len(names) == 0 {
		return nil, nil
	}

	values := make([][]float64, len(names))
	for i, name := range names {
		values[i] = o.ranges[name].Values()
	}
	return expandGrid(names, values, total), nil
}

// expandGrid walks the Cartesian product odometer-style, values aligned with
// names. total sizes the output slice.
func expandGrid(names []string, values [][]float64, total int) []types.ParameterSet {
	combos := make([]types.ParameterSet, 0, total)
	indices := make([]int, len(names))
	for {
		params := make(types.ParameterSet, len(names))
		for i, name := range names {
			params[name] = values[i][indices[i]]
		}
		combos = append(combos, params)

		// Advance the odometer.
		pos := len(indices) - 1
		for pos >= 0 {
			indices[pos]++
			if indices[pos] < len(values[pos]) {
				break
			}
			indices[pos] = 0
			pos--
		}
		if pos < 0 {
			return combos
		}
	}
}

func (o *Optimizer) sortedNames() []string {
	names := make([]string, 0, len(o.ranges))
	for name := range o.ranges {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// FindBest returns the ParameterSet whose objective value is extremal for
// the optimizer's target. Ties go to the earliest element of results; the
// second return is false when results is empty.
func (o *Optimizer) FindBest(results []Result) (types.ParameterSet, bool) {
	if len(results) == 0 {
		return nil, false
	}
	best := 0
	bestValue := o.target.Value(results[0].Report)
	for i, r := range results[1:] {
		if v := o.target.Value(r.Report); v > bestValue {
			best = i + 1
			bestValue = v
		}
	}
	return results[best].Params, true
}

// TopN returns the n best results by objective value, highest first. The
// input is not modified; the sort is stable so equal objectives keep their
// input order.
func (o *Optimizer) TopN(results []Result, n int) []Result {
	sorted := make([]Result, len(results))
	copy(sorted, results)
	sort.SliceStable(sorted, func(i, j int) bool {
		return o.target.Value(sorted[i].Report) > o.target.Value(sorted[j].Report)
	})
	if n > len(sorted) {
		n = len(sorted)
	}
	return sorted[:n]
}
