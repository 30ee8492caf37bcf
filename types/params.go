package types

import (
	"encoding/json"
	"sort"
)

// ParameterSet maps parameter names to numeric values. The key set is
// open-ended; each consuming strategy validates the subset it recognizes.
type ParameterSet map[string]float64

func (p ParameterSet) Clone() ParameterSet {
	out := make(ParameterSet, len(p))
	for k, v := range p {
		out[k] = v
	}
	return out
}

// Names returns the parameter names in sorted order.
func (p ParameterSet) Names() []string {
	names := make([]string, 0, len(p))
	for name := range p {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// JSON renders the set as a flat JSON object for persistence.
func (p ParameterSet) JSON() (string, error) {
	b, err := json.Marshal(p)
	if err != nil {
		return "", err
	}
	return string(b), nil
}
