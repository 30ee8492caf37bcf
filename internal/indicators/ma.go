package indicators

import "quantsim/internal/engine"

// SMA is a simple moving average over a fixed window.
type SMA struct {
	period int
	window []float64
	sum    float64
}

func NewSMA(period int) (*SMA, error) {
	if period < 1 {
		return nil, &engine.InvalidParameterError{Name: "period", Reason: "must be >= 1"}
	}
	return &SMA{period: period, window: make([]float64, 0, period)}, nil
}

func (s *SMA) Update(price float64) (float64, bool) {
	s.window = append(s.window, price)
	s.sum += price
	if len(s.window) > s.period {
		s.sum -= s.window[0]
		s.window = s.window[1:]
	}
	if len(s.window) < s.period {
		return 0, false
	}
	return s.sum / float64(s.period), true
}

func (s *SMA) Value() (float64, bool) {
	if len(s.window) < s.period {
		return 0, false
	}
	return s.sum / float64(s.period), true
}

func (s *SMA) Reset() {
	s.window = s.window[:0]
	s.sum = 0
}

// EMA is an exponential moving average, seeded with an SMA over the first
// `period` prices.
type EMA struct {
	period  int
	mult    float64
	seed    []float64
	current float64
	ready   bool
}

func NewEMA(period int) (*EMA, error) {
	if period < 1 {
		return nil, &engine.InvalidParameterError{Name: "period", Reason: "must be >= 1"}
	}
	return &EMA{
		period: period,
		mult:   2.0 / (float64(period) + 1),
		seed:   make([]float64, 0, period),
	}, nil
}

func (e *EMA) Update(price float64) (float64, bool) {
	if !e.ready {
		e.seed = append(e.seed, price)
		if len(e.seed) < e.period {
			return 0, false
		}
		var sum float64
		for _, v := range e.seed {
			sum += v
		}
		e.current = sum / float64(e.period)
		e.ready = true
		return e.current, true
	}
	e.current = (price-e.current)*e.mult + e.current
	return e.current, true
}

func (e *EMA) Value() (float64, bool) {
	return e.current, e.ready
}

func (e *EMA) Reset() {
	e.seed = e.seed[:0]
	e.current = 0
	e.ready = false
}
