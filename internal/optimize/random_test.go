package optimize

import (
	"context"
	"errors"
	"testing"

	"quantsim/internal/engine"
	"quantsim/internal/metrics"
)

func TestRandomSearchReproducible(t *testing.T) {
	bars := testBars(120)
	run := func() []Result {
		opt := New(gridRanges(), metrics.TargetOverallScore).WithMaxParallel(1)
		results, err := opt.RandomSearch(context.Background(), bars, stubFactory(nil, nil), 5, 42)
		if err != nil {
			t.Fatal(err)
		}
		return results
	}

	first := run()
	second := run()
	if len(first) != len(second) {
		t.Fatalf("runs differ in length: %d vs %d", len(first), len(second))
	}
	for i := range first {
		a, err := first[i].Params.JSON()
		if err != nil {
			t.Fatal(err)
		}
		b, err := second[i].Params.JSON()
		if err != nil {
			t.Fatal(err)
		}
		if a != b {
			t.Errorf("result %d differs between runs: %s vs %s", i, a, b)
		}
	}
}

func TestRandomSearchSamplesWithoutReplacement(t *testing.T) {
	opt := New(gridRanges(), metrics.TargetOverallScore).WithMaxParallel(1)
	// Request more samples than the grid holds; every distinct combination
	// appears exactly once.
	results, err := opt.RandomSearch(context.Background(), testBars(120), stubFactory(nil, nil), 50, 7)
	if err != nil {
		t.Fatal(err)
	}
	if len(results) != 9 {
		t.Fatalf("got %d results from a 9-combination grid, want all 9", len(results))
	}

	seen := map[string]bool{}
	for _, r := range results {
		key, err := r.Params.JSON()
		if err != nil {
			t.Fatal(err)
		}
		if seen[key] {
			t.Errorf("duplicate combination %s", key)
		}
		seen[key] = true

		if !gridRanges()["a"].Contains(r.Params["a"]) || !gridRanges()["b"].Contains(r.Params["b"]) {
			t.Errorf("sampled combination %s outside the ranges", key)
		}
	}
}

func TestRandomSearchDeliversRequestedCount(t *testing.T) {
	// Every seed must deliver the full requested count when the grid can
	// supply it.
	for seed := int64(0); seed < 20; seed++ {
		opt := New(gridRanges(), metrics.TargetOverallScore).WithMaxParallel(1)
		results, err := opt.RandomSearch(context.Background(), testBars(120), stubFactory(nil, nil), 9, seed)
		if err != nil {
			t.Fatal(err)
		}
		if len(results) != 9 {
			t.Fatalf("seed %d: got %d results, want 9", seed, len(results))
		}

		seen := map[string]bool{}
		for _, r := range results {
			key, err := r.Params.JSON()
			if err != nil {
				t.Fatal(err)
			}
			if seen[key] {
				t.Errorf("seed %d: duplicate combination %s", seed, key)
			}
			seen[key] = true
		}
	}
}

func TestRandomSearchLargeGrid(t *testing.T) {
	// A grid above the enumeration threshold takes the index-sampling path.
	ranges := map[string]ParamRange{
		"a": IntRange{Min: 1, Max: MaxCombinations + 1, Step: 1},
	}
	opt := New(ranges, metrics.TargetOverallScore).WithMaxParallel(1)
	results, err := opt.RandomSearch(context.Background(), testBars(120), stubFactory(nil, nil), 5, 3)
	if err != nil {
		t.Fatal(err)
	}
	if len(results) != 5 {
		t.Fatalf("got %d results, want 5", len(results))
	}

	seen := map[float64]bool{}
	for _, r := range results {
		v := r.Params["a"]
		if !ranges["a"].Contains(v) {
			t.Errorf("sampled value %f outside the range", v)
		}
		if seen[v] {
			t.Errorf("duplicate sampled value %f", v)
		}
		seen[v] = true
	}
}

func TestRandomSearchRejectsNonPositiveSamples(t *testing.T) {
	opt := New(gridRanges(), metrics.TargetOverallScore)
	_, err := opt.RandomSearch(context.Background(), testBars(120), stubFactory(nil, nil), 0, 1)
	var invalid *engine.InvalidParameterError
	if !errors.As(err, &invalid) {
		t.Fatalf("RandomSearch() error = %v, want InvalidParameterError", err)
	}
	if invalid.Name != "samples" {
		t.Errorf("got parameter %q, want \"samples\"", invalid.Name)
	}
}

func TestRandomSearchRejectsInvalidRange(t *testing.T) {
	ranges := map[string]ParamRange{
		"a": FloatRange{Min: 1, Max: 0, Step: 0.1},
	}
	opt := New(ranges, metrics.TargetOverallScore)
	_, err := opt.RandomSearch(context.Background(), testBars(120), stubFactory(nil, nil), 5, 1)
	var invalid *engine.InvalidParameterError
	if !errors.As(err, &invalid) {
		t.Fatalf("RandomSearch() error = %v, want InvalidParameterError", err)
	}
}
