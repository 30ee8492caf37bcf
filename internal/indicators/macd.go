package indicators

import "quantsim/internal/engine"

// MACDValue is one MACD observation: the fast/slow EMA spread, its signal
// line, and their difference.
type MACDValue struct {
	MACD      float64
	Signal    float64
	Histogram float64
}

// MACD is the moving average convergence divergence oscillator: an EMA
// spread smoothed by a signal EMA. It warms up once the slow EMA and the
// signal EMA over the spread are both seeded.
type MACD struct {
	fast   *EMA
	slow   *EMA
	signal *EMA

	value MACDValue
	ready bool
}

func NewMACD(fastPeriod, slowPeriod, signalPeriod int) (*MACD, error) {
	if fastPeriod < 1 {
		return nil, &engine.InvalidParameterError{Name: "fast_period", Reason: "must be >= 1"}
	}
	if slowPeriod < 1 {
		return nil, &engine.InvalidParameterError{Name: "slow_period", Reason: "must be >= 1"}
	}
	if signalPeriod < 1 {
		return nil, &engine.InvalidParameterError{Name: "signal_period", Reason: "must be >= 1"}
	}
	if fastPeriod >= slowPeriod {
		return nil, &engine.InvalidParameterError{Name: "fast_period", Reason: "must be < slow period"}
	}

	fast, _ := NewEMA(fastPeriod)
	slow, _ := NewEMA(slowPeriod)
	signal, _ := NewEMA(signalPeriod)
	return &MACD{fast: fast, slow: slow, signal: signal}, nil
}

func (m *MACD) Update(price float64) (MACDValue, bool) {
	fastValue, fastOK := m.fast.Update(price)
	slowValue, slowOK := m.slow.Update(price)
	if !fastOK || !slowOK {
		return MACDValue{}, false
	}

	macd := fastValue - slowValue
	signalValue, signalOK := m.signal.Update(macd)
	if !signalOK {
		return MACDValue{}, false
	}

	m.value = MACDValue{
		MACD:      macd,
		Signal:    signalValue,
		Histogram: macd - signalValue,
	}
	m.ready = true
	return m.value, true
}

func (m *MACD) Value() (MACDValue, bool) {
	return m.value, m.ready
}

func (m *MACD) Reset() {
	m.fast.Reset()
	m.slow.Reset()
	m.signal.Reset()
	m.value = MACDValue{}
	m.ready = false
}
