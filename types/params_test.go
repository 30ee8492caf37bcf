package types

import (
	"reflect"
	"testing"
)

func TestParameterSetNames(t *testing.T) {
	p := ParameterSet{"zeta": 1, "alpha": 2, "mid": 3}
	want := []string{"alpha", "mid", "zeta"}
	if got := p.Names(); !reflect.DeepEqual(got, want) {
		t.Errorf("Names() = %v, want %v", got, want)
	}
}

func TestParameterSetClone(t *testing.T) {
	p := ParameterSet{"a": 1}
	clone := p.Clone()
	clone["a"] = 2
	clone["b"] = 3

	if p["a"] != 1 {
		t.Errorf("original mutated: a = %f", p["a"])
	}
	if _, ok := p["b"]; ok {
		t.Error("original gained a key from the clone")
	}
}

func TestParameterSetJSON(t *testing.T) {
	p := ParameterSet{"b": 0.5, "a": 2}
	got, err := p.JSON()
	if err != nil {
		t.Fatal(err)
	}
	// Keys are emitted sorted, so the encoding is stable.
	if want := `{"a":2,"b":0.5}`; got != want {
		t.Errorf("JSON() = %s, want %s", got, want)
	}
}
