// Package multiindicator scores each bar with a weighted vote across five
// indicators (RSI, MACD, Bollinger bands, SMA trend, EMA trend) and trades
// when the combined score crosses the configured threshold.
package multiindicator

import (
	"fmt"
	"math"

	"quantsim/internal/engine"
	"quantsim/internal/indicators"
	"quantsim/types"
)

const (
	defaultThreshold       = 0.6
	defaultRSIPeriod       = 14
	defaultMACDFast        = 12
	defaultMACDSlow        = 26
	defaultMACDSignal      = 9
	defaultBollingerPeriod = 20
	defaultBollingerStd    = 2.0
	defaultSMAPeriod       = 20
	defaultEMAPeriod       = 12

	// Fixed vote weights; MACD leads slightly, the trend votes trail.
	weightRSI       = 1.0
	weightMACD      = 1.2
	weightBollinger = 1.0
	weightSMA       = 0.8
	weightEMA       = 0.9
)

type Strategy struct {
	threshold       float64
	rsiPeriod       int
	macdFast        int
	macdSlow        int
	macdSignal      int
	bollingerPeriod int
	bollingerStd    float64
	smaPeriod       int
	emaPeriod       int

	rsi       *indicators.RSI
	macd      *indicators.MACD
	bollinger *indicators.Bollinger
	sma       *indicators.SMA
	ema       *indicators.EMA
}

func New() *Strategy {
	s := &Strategy{
		threshold:       defaultThreshold,
		rsiPeriod:       defaultRSIPeriod,
		macdFast:        defaultMACDFast,
		macdSlow:        defaultMACDSlow,
		macdSignal:      defaultMACDSignal,
		bollingerPeriod: defaultBollingerPeriod,
		bollingerStd:    defaultBollingerStd,
		smaPeriod:       defaultSMAPeriod,
		emaPeriod:       defaultEMAPeriod,
	}
	s.rebuild()
	return s
}

func (s *Strategy) Name() string {
	return "multi_indicator"
}

func (s *Strategy) SetParams(params types.ParameterSet) error {
	threshold := s.threshold
	rsiPeriod := s.rsiPeriod
	macdFast := s.macdFast
	macdSlow := s.macdSlow
	macdSignal := s.macdSignal
	bollingerPeriod := s.bollingerPeriod
	bollingerStd := s.bollingerStd
	smaPeriod := s.smaPeriod
	emaPeriod := s.emaPeriod

	for _, name := range params.Names() {
		value := params[name]
		switch name {
		case "threshold":
			if value <= 0 || value > 1 {
				return &engine.InvalidParameterError{Name: name, Reason: "must be in (0, 1]"}
			}
			threshold = value
		case "rsi_period":
			if value != math.Trunc(value) || value < 2 {
				return &engine.InvalidParameterError{Name: name, Reason: "must be an integer >= 2"}
			}
			rsiPeriod = int(value)
		case "macd_fast":
			if value != math.Trunc(value) || value < 1 {
				return &engine.InvalidParameterError{Name: name, Reason: "must be an integer >= 1"}
			}
			macdFast = int(value)
		case "macd_slow":
			if value != math.Trunc(value) || value < 2 {
				return &engine.InvalidParameterError{Name: name, Reason: "must be an integer >= 2"}
			}
			macdSlow = int(value)
		case "macd_signal":
			if value != math.Trunc(value) || value < 1 {
				return &engine.InvalidParameterError{Name: name, Reason: "must be an integer >= 1"}
			}
			macdSignal = int(value)
		case "bollinger_period":
			if value != math.Trunc(value) || value < 2 {
				return &engine.InvalidParameterError{Name: name, Reason: "must be an integer >= 2"}
			}
			bollingerPeriod = int(value)
		case "bollinger_std":
			if value <= 0 {
				return &engine.InvalidParameterError{Name: name, Reason: "must be > 0"}
			}
			bollingerStd = value
		case "sma_period":
			if value != math.Trunc(value) || value < 1 {
				return &engine.InvalidParameterError{Name: name, Reason: "must be an integer >= 1"}
			}
			smaPeriod = int(value)
		case "ema_period":
			if value != math.Trunc(value) || value < 1 {
				return &engine.InvalidParameterError{Name: name, Reason: "must be an integer >= 1"}
			}
			emaPeriod = int(value)
		default:
			return &engine.InvalidParameterError{Name: name, Reason: "unknown parameter"}
		}
	}

	if macdFast >= macdSlow {
		return &engine.InvalidParameterError{Name: "macd_fast", Reason: "must be < macd_slow"}
	}

	s.threshold = threshold
	s.rsiPeriod = rsiPeriod
	s.macdFast = macdFast
	s.macdSlow = macdSlow
	s.macdSignal = macdSignal
	s.bollingerPeriod = bollingerPeriod
	s.bollingerStd = bollingerStd
	s.smaPeriod = smaPeriod
	s.emaPeriod = emaPeriod
	s.rebuild()
	return nil
}

func (s *Strategy) Params() types.ParameterSet {
	return types.ParameterSet{
		"threshold":        s.threshold,
		"rsi_period":       float64(s.rsiPeriod),
		"macd_fast":        float64(s.macdFast),
		"macd_slow":        float64(s.macdSlow),
		"macd_signal":      float64(s.macdSignal),
		"bollinger_period": float64(s.bollingerPeriod),
		"bollinger_std":    s.bollingerStd,
		"sma_period":       float64(s.smaPeriod),
		"ema_period":       float64(s.emaPeriod),
	}
}

func (s *Strategy) rebuild() {
	s.rsi, _ = indicators.NewRSI(s.rsiPeriod)
	s.macd, _ = indicators.NewMACD(s.macdFast, s.macdSlow, s.macdSignal)
	s.bollinger, _ = indicators.NewBollinger(s.bollingerPeriod, s.bollingerStd)
	s.sma, _ = indicators.NewSMA(s.smaPeriod)
	s.ema, _ = indicators.NewEMA(s.emaPeriod)
}

func (s *Strategy) Reset() {
	s.rsi.Reset()
	s.macd.Reset()
	s.bollinger.Reset()
	s.sma.Reset()
	s.ema.Reset()
}

// OnBar averages the warmed-up indicator votes by weight. Indicators still
// warming up sit the vote out rather than dragging the score toward zero.
func (s *Strategy) OnBar(bar types.PriceBar) types.Signal {
	price := bar.Close.InexactFloat64()

	var sum, total float64
	if v, ok := s.rsi.Update(price); ok {
		sum += rsiVote(v) * weightRSI
		total += weightRSI
	}
	if v, ok := s.macd.Update(price); ok {
		sum += macdVote(v, price) * weightMACD
		total += weightMACD
	}
	if v, ok := s.bollinger.Update(price); ok {
		sum += bollingerVote(v, price) * weightBollinger
		total += weightBollinger
	}
	if v, ok := s.sma.Update(price); ok {
		sum += trendVote(price, v) * weightSMA
		total += weightSMA
	}
	if v, ok := s.ema.Update(price); ok {
		sum += trendVote(price, v) * weightEMA
		total += weightEMA
	}
	if total == 0 {
		return types.Hold()
	}

	score := sum / total
	switch {
	case score >= s.threshold:
		return types.Buy(math.Min(score, 1), fmt.Sprintf("composite score %.2f", score))
	case score <= -s.threshold:
		return types.Sell(math.Min(-score, 1), fmt.Sprintf("composite score %.2f", score))
	}
	return types.Hold()
}

// rsiVote maps RSI to [-1, 1]: oversold is a buy vote, overbought a sell.
func rsiVote(value float64) float64 {
	switch {
	case value < 30:
		return math.Min((30-value)/30, 1)
	case value > 70:
		return -math.Min((value-70)/30, 1)
	}
	return 0
}

// macdVote scores the histogram relative to price. A histogram worth 0.5% of
// the price is a full-strength vote.
func macdVote(value indicators.MACDValue, price float64) float64 {
	if price <= 0 {
		return 0
	}
	return clampVote(value.Histogram / price / 0.005)
}

// bollingerVote buys near the lower band and sells near the upper one,
// scaling confidence across the outer tenth of the band range.
func bollingerVote(value indicators.BollingerValue, price float64) float64 {
	position := value.PercentB(price)
	switch {
	case position <= 0.1:
		return math.Min((0.1-position)/0.1, 1)
	case position >= 0.9:
		return -math.Min((position-0.9)/0.1, 1)
	}
	return 0
}

// trendVote scores price against its moving average. A 2% gap is a
// full-strength vote.
func trendVote(price, average float64) float64 {
	if average <= 0 {
		return 0
	}
	return clampVote((price - average) / average / 0.02)
}

func clampVote(v float64) float64 {
	return math.Max(-1, math.Min(1, v))
}
