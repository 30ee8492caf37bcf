// Package indicators provides the incremental technical indicators the
// bundled strategies are built from. Indicator math is float64; callers
// convert decimal prices at the boundary.
package indicators

import "quantsim/internal/engine"

// RSI is the relative strength index, a momentum oscillator identifying
// overbought and oversold conditions. It warms up after `period` price
// changes have been observed.
type RSI struct {
	period    int
	prev      float64
	hasPrev   bool
	gains     []float64
	losses    []float64
	current   float64
	warmedUp  bool
}

func NewRSI(period int) (*RSI, error) {
	if period < 1 {
		return nil, &engine.InvalidParameterError{Name: "period", Reason: "must be >= 1"}
	}
	return &RSI{
		period: period,
		gains:  make([]float64, 0, period),
		losses: make([]float64, 0, period),
	}, nil
}

// Update feeds one closing price. The second return is false until the
// indicator has warmed up.
func (r *RSI) Update(price float64) (float64, bool) {
	if !r.hasPrev {
		r.prev = price
		r.hasPrev = true
		return 0, false
	}

	change := price - r.prev
	r.prev = price

	if change > 0 {
		r.gains = append(r.gains, change)
		r.losses = append(r.losses, 0)
	} else {
		r.gains = append(r.gains, 0)
		r.losses = append(r.losses, -change)
	}
	if len(r.gains) > r.period {
		r.gains = r.gains[1:]
		r.losses = r.losses[1:]
	}
	if len(r.gains) < r.period {
		return 0, false
	}

	var avgGain, avgLoss float64
	for i := 0; i < r.period; i++ {
		avgGain += r.gains[i]
		avgLoss += r.losses[i]
	}
	avgGain /= float64(r.period)
	avgLoss /= float64(r.period)

	if avgLoss == 0 {
		r.current = 100
	} else {
		rs := avgGain / avgLoss
		r.current = 100 - 100/(1+rs)
	}
	r.warmedUp = true
	return r.current, true
}

// Value returns the latest RSI; false before warm-up.
func (r *RSI) Value() (float64, bool) {
	return r.current, r.warmedUp
}

func (r *RSI) Reset() {
	r.hasPrev = false
	r.gains = r.gains[:0]
	r.losses = r.losses[:0]
	r.current = 0
	r.warmedUp = false
}
