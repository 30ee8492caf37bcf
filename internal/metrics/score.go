package metrics

// Score is a fixed weighted 0-100 composite used to rank configurations by
// overall quality. The weighting is a stable scoring policy so rankings are
// reproducible across runs:
//
//	return        30  (total return clamped to [0, 1])
//	Sharpe ratio  25  (scaled against a ceiling of 4.0)
//	win rate      20
//	profit factor 15  (scaled against a ceiling of 3.0)
//	drawdown      10  (inverse: lower drawdown scores higher)
func (r Report) Score() float64 {
	score := clamp(r.TotalReturn, 0, 1) * 30
	score += clamp(r.SharpeRatio/4, 0, 1) * 25
	score += clamp(r.WinRate, 0, 1) * 20
	score += clamp(r.ProfitFactor/3, 0, 1) * 15
	score += (1 - clamp(r.MaxDrawdown, 0, 1)) * 10
	return score
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
