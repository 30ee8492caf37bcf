package indicators

import (
	"math"

	"quantsim/internal/engine"
)

// BollingerValue is one band observation. Bandwidth is (upper-lower)/middle,
// zero when the middle band is not positive.
type BollingerValue struct {
	Upper     float64
	Middle    float64
	Lower     float64
	Bandwidth float64
}

// PercentB locates a price inside the bands: 0 at the lower band, 1 at the
// upper. Collapsed bands place every price at 0.5.
func (v BollingerValue) PercentB(price float64) float64 {
	if v.Upper == v.Lower {
		return 0.5
	}
	return (price - v.Lower) / (v.Upper - v.Lower)
}

// Bollinger computes volatility bands: a simple moving average plus and
// minus a multiple of the population standard deviation over the window.
type Bollinger struct {
	period int
	mult   float64
	window []float64

	value BollingerValue
	ready bool
}

func NewBollinger(period int, mult float64) (*Bollinger, error) {
	if period < 2 {
		return nil, &engine.InvalidParameterError{Name: "period", Reason: "must be >= 2"}
	}
	if mult <= 0 {
		return nil, &engine.InvalidParameterError{Name: "std_dev", Reason: "must be > 0"}
	}
	return &Bollinger{period: period, mult: mult, window: make([]float64, 0, period)}, nil
}

func (b *Bollinger) Update(price float64) (BollingerValue, bool) {
	b.window = append(b.window, price)
	if len(b.window) > b.period {
		b.window = b.window[1:]
	}
	if len(b.window) < b.period {
		return BollingerValue{}, false
	}

	var sum float64
	for _, p := range b.window {
		sum += p
	}
	mean := sum / float64(b.period)

	var variance float64
	for _, p := range b.window {
		variance += (p - mean) * (p - mean)
	}
	std := math.Sqrt(variance / float64(b.period))

	upper := mean + b.mult*std
	lower := mean - b.mult*std
	bandwidth := 0.0
	if mean > 0 {
		bandwidth = (upper - lower) / mean
	}

	b.value = BollingerValue{Upper: upper, Middle: mean, Lower: lower, Bandwidth: bandwidth}
	b.ready = true
	return b.value, true
}

func (b *Bollinger) Value() (BollingerValue, bool) {
	return b.value, b.ready
}

func (b *Bollinger) Reset() {
	b.window = b.window[:0]
	b.value = BollingerValue{}
	b.ready = false
}
