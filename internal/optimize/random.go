package optimize

import (
	"context"
	"fmt"
	"math/rand"
	"strconv"
	"strings"

	"quantsim/internal/engine"
	"quantsim/types"
)

// RandomSearch samples up to `samples` distinct combinations from the grid
// instead of enumerating the full product. Grids small enough to enumerate
// are shuffled and truncated, so the sample count is exact whenever the grid
// can supply it; larger grids fall back to index sampling without
// replacement. The grid size is deliberately not checked against the
// combination ceiling. Reproducible for a fixed seed.
func (o *Optimizer) RandomSearch(ctx context.Context, bars []types.PriceBar, factory engine.Factory, samples int, seed int64) ([]Result, error) {
	if samples <= 0 {
		return nil, &engine.InvalidParameterError{Name: "samples", Reason: "must be > 0"}
	}
	if !o.target.Valid() {
		return nil, &engine.InvalidParameterError{Name: "target", Reason: fmt.Sprintf("unknown optimization target %q", o.target)}
	}

	names := o.sortedNames()
	if len(names) == 0 {
		return nil, nil
	}

	counts := make([]int, len(names))
	for i, name := range names {
		r := o.ranges[name]
		if err := r.Validate(); err != nil {
			return nil, fmt.Errorf("range %q: %w", name, err)
		}
		counts[i] = r.Count()
	}

	total := 1
	for _, n := range counts {
		if total > MaxCombinations/n {
			total = MaxCombinations + 1
			break
		}
		total *= n
	}

	rng := rand.New(rand.NewSource(seed))

	if total <= MaxCombinations {
		values := make([][]float64, len(names))
		for i, name := range names {
			values[i] = o.ranges[name].Values()
		}
		combos := expandGrid(names, values, total)
		rng.Shuffle(len(combos), func(i, j int) {
			combos[i], combos[j] = combos[j], combos[i]
		})
		if samples < len(combos) {
			combos = combos[:samples]
		}
		return o.evaluateAll(ctx, bars, factory, combos)
	}

	seen := make(map[string]struct{}, samples)
	combos := make([]types.ParameterSet, 0, samples)

	// The attempt cap bounds the loop; on a grid this large collisions are
	// rare, so the cap is never the limiting factor in practice.
	maxAttempts := samples * 100
	indices := make([]int, len(names))

	for attempt := 0; attempt < maxAttempts && len(combos) < samples; attempt++ {
		var key strings.Builder
		for i, n := range counts {
			indices[i] = rng.Intn(n)
			key.WriteString(strconv.Itoa(indices[i]))
			key.WriteByte(':')
		}
		if _, dup := seen[key.String()]; dup {
			continue
		}
		seen[key.String()] = struct{}{}

		params := make(types.ParameterSet, len(names))
		for i, name := range names {
			params[name] = valueAt(o.ranges[name], indices[i])
		}
		combos = append(combos, params)
	}

	return o.evaluateAll(ctx, bars, factory, combos)
}
