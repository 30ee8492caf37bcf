// Package meanrev implements an RSI mean-reversion strategy: buy oversold,
// sell overbought.
package meanrev

import (
	"fmt"
	"math"

	"quantsim/internal/engine"
	"quantsim/internal/indicators"
	"quantsim/types"
)

const (
	defaultPeriod     = 14
	defaultOversold   = 30.0
	defaultOverbought = 70.0
)

type Strategy struct {
	period     int
	oversold   float64
	overbought float64

	rsi *indicators.RSI
}

func New() *Strategy {
	rsi, _ := indicators.NewRSI(defaultPeriod)
	return &Strategy{
		period:     defaultPeriod,
		oversold:   defaultOversold,
		overbought: defaultOverbought,
		rsi:        rsi,
	}
}

func (s *Strategy) Name() string {
	return "meanrev"
}

func (s *Strategy) SetParams(params types.ParameterSet) error {
	period := s.period
	oversold := s.oversold
	overbought := s.overbought

	for _, name := range params.Names() {
		value := params[name]
		switch name {
		case "period":
			if value != math.Trunc(value) || value < 2 {
				return &engine.InvalidParameterError{Name: name, Reason: "must be an integer >= 2"}
			}
			period = int(value)
		case "oversold":
			oversold = value
		case "overbought":
			overbought = value
		default:
			return &engine.InvalidParameterError{Name: name, Reason: "unknown parameter"}
		}
	}

	if oversold <= 0 || oversold >= 100 {
		return &engine.InvalidParameterError{Name: "oversold", Reason: "must be in (0, 100)"}
	}
	if overbought <= 0 || overbought >= 100 {
		return &engine.InvalidParameterError{Name: "overbought", Reason: "must be in (0, 100)"}
	}
	if oversold >= overbought {
		return &engine.InvalidParameterError{Name: "oversold", Reason: "must be < overbought"}
	}

	rsi, err := indicators.NewRSI(period)
	if err != nil {
		return err
	}
	s.period = period
	s.oversold = oversold
	s.overbought = overbought
	s.rsi = rsi
	return nil
}

func (s *Strategy) Params() types.ParameterSet {
	return types.ParameterSet{
		"period":     float64(s.period),
		"oversold":   s.oversold,
		"overbought": s.overbought,
	}
}

func (s *Strategy) Reset() {
	s.rsi.Reset()
}

func (s *Strategy) OnBar(bar types.PriceBar) types.Signal {
	value, ok := s.rsi.Update(bar.Close.InexactFloat64())
	if !ok {
		return types.Hold()
	}

	switch {
	case value < s.oversold:
		confidence := math.Min((s.oversold-value)/s.oversold, 1)
		return types.Buy(confidence, fmt.Sprintf("RSI %.1f below %.1f", value, s.oversold))
	case value > s.overbought:
		confidence := math.Min((value-s.overbought)/(100-s.overbought), 1)
		return types.Sell(confidence, fmt.Sprintf("RSI %.1f above %.1f", value, s.overbought))
	}
	return types.Hold()
}
