package engine

import (
	"quantsim/types"

	"github.com/shopspring/decimal"
)

// Result is the raw outcome of one simulator run. Ratios are fractions
// (ROI 0.1 = 10%). The caller owns the result; the simulator never mutates
// it after return.
type Result struct {
	TotalTrades   int
	WinningTrades int
	LosingTrades  int

	ROI         float64
	WinRate     float64
	MaxDrawdown float64
	SharpeRatio float64

	Trades      []types.Trade
	EquityCurve []types.EquityPoint

	InitialBalance decimal.Decimal
	FinalBalance   decimal.Decimal
}

// Returns extracts the per-bar return series from the equity curve.
func (r *Result) Returns() []float64 {
	if len(r.EquityCurve) < 2 {
		return nil
	}
	out := make([]float64, 0, len(r.EquityCurve)-1)
	prev := r.EquityCurve[0].Equity.InexactFloat64()
	for _, p := range r.EquityCurve[1:] {
		cur := p.Equity.InexactFloat64()
		if prev > 0 {
			out = append(out, (cur-prev)/prev)
		} else {
			out = append(out, 0)
		}
		prev = cur
	}
	return out
}
