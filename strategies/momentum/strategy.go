// Package momentum implements a price-surge detector: it buys when price
// rises by a threshold fraction within the lookback window on a volume
// spike, and exits when the move reverses by the same fraction.
package momentum

import (
	"fmt"
	"math"

	"quantsim/internal/engine"
	"quantsim/types"
)

const (
	defaultSurgeThreshold   = 0.05
	defaultVolumeMultiplier = 2.0
	defaultLookback         = 60
)

type sample struct {
	close  float64
	volume float64
}

type Strategy struct {
	surgeThreshold   float64
	volumeMultiplier float64
	lookback         int

	window []sample
}

func New() *Strategy {
	return &Strategy{
		surgeThreshold:   defaultSurgeThreshold,
		volumeMultiplier: defaultVolumeMultiplier,
		lookback:         defaultLookback,
	}
}

func (s *Strategy) Name() string {
	return "momentum"
}

func (s *Strategy) SetParams(params types.ParameterSet) error {
	for _, name := range params.Names() {
		value := params[name]
		switch name {
		case "surge_threshold":
			if value <= 0 || value > 1 {
				return &engine.InvalidParameterError{Name: name, Reason: "must be in (0, 1]"}
			}
			s.surgeThreshold = value
		case "volume_multiplier":
			if value < 1 {
				return &engine.InvalidParameterError{Name: name, Reason: "must be >= 1"}
			}
			s.volumeMultiplier = value
		case "lookback":
			if value != math.Trunc(value) || value < 2 {
				return &engine.InvalidParameterError{Name: name, Reason: "must be an integer >= 2"}
			}
			s.lookback = int(value)
		default:
			return &engine.InvalidParameterError{Name: name, Reason: "unknown parameter"}
		}
	}
	return nil
}

func (s *Strategy) Params() types.ParameterSet {
	return types.ParameterSet{
		"surge_threshold":   s.surgeThreshold,
		"volume_multiplier": s.volumeMultiplier,
		"lookback":          float64(s.lookback),
	}
}

func (s *Strategy) Reset() {
	s.window = s.window[:0]
}

func (s *Strategy) OnBar(bar types.PriceBar) types.Signal {
	s.window = append(s.window, sample{
		close:  bar.Close.InexactFloat64(),
		volume: bar.Volume.InexactFloat64(),
	})
	if len(s.window) > s.lookback {
		s.window = s.window[1:]
	}
	if len(s.window) < 2 {
		return types.Hold()
	}

	oldest := s.window[0]
	latest := s.window[len(s.window)-1]
	if oldest.close <= 0 {
		return types.Hold()
	}
	priceChange := latest.close/oldest.close - 1

	var avgVolume float64
	for _, w := range s.window {
		avgVolume += w.volume
	}
	avgVolume /= float64(len(s.window))

	volumeRatio := 1.0
	if avgVolume > 0 {
		volumeRatio = latest.volume / avgVolume
	}

	if priceChange >= s.surgeThreshold && volumeRatio >= s.volumeMultiplier {
		return types.Buy(
			s.confidence(priceChange, volumeRatio),
			fmt.Sprintf("price surged %.2f%% with %.1fx volume", priceChange*100, volumeRatio),
		)
	}
	if priceChange <= -s.surgeThreshold {
		return types.Sell(
			s.confidence(-priceChange, volumeRatio),
			fmt.Sprintf("momentum reversed %.2f%%", priceChange*100),
		)
	}
	return types.Hold()
}

// confidence blends how far the move exceeds the thresholds, price-weighted.
func (s *Strategy) confidence(priceChange, volumeRatio float64) float64 {
	priceScore := math.Min(priceChange/s.surgeThreshold, 2) / 2
	volumeScore := math.Min(volumeRatio/s.volumeMultiplier, 3) / 3
	return math.Min(priceScore*0.6+volumeScore*0.4, 1)
}
