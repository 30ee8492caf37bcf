// Package metrics derives a performance report from a completed simulation
// result. Everything in here is a pure function of its inputs.
package metrics

import (
	"math"
	"sort"
	"time"

	"quantsim/internal/engine"

	"github.com/shopspring/decimal"
	"gonum.org/v1/gonum/stat"
)

// year is the annualization horizon, 365 days to match the return
// compounding convention.
const year = 365 * 24 * time.Hour

// Report holds the derived risk/return statistics of one simulation.
// Ratio-like fields are fractions (TotalReturn 0.1 = 10%); Sharpe, Sortino,
// Calmar and ProfitFactor are dimensionless.
type Report struct {
	TotalReturn      float64 `json:"totalReturn"`
	AnnualizedReturn float64 `json:"annualizedReturn"`
	CAGR             float64 `json:"cagr"`

	MaxDrawdown float64 `json:"maxDrawdown"`
	Volatility  float64 `json:"volatility"`
	VaR95       float64 `json:"var95"`

	SharpeRatio  float64 `json:"sharpeRatio"`
	SortinoRatio float64 `json:"sortinoRatio"`
	CalmarRatio  float64 `json:"calmarRatio"`

	WinRate      float64 `json:"winRate"`
	ProfitFactor float64 `json:"profitFactor"`
	AvgWin       float64 `json:"avgWin"`
	AvgLoss      float64 `json:"avgLoss"`
	TotalTrades  int     `json:"totalTrades"`
}

// Derive computes the full report for a finished run. elapsed is the
// simulated calendar span; spans under one day are treated as
// non-annualizable and annualized figures fall back to the raw total return.
func Derive(res *engine.Result, elapsed time.Duration) Report {
	returns := res.Returns()

	r := Report{
		TotalReturn: res.ROI,
		MaxDrawdown: res.MaxDrawdown,
		WinRate:     res.WinRate,
		TotalTrades: res.TotalTrades,
	}

	if len(returns) >= 2 {
		r.Volatility = stat.StdDev(returns, nil)
	}
	r.VaR95 = valueAtRisk95(returns)
	r.AnnualizedReturn = annualize(res.ROI, elapsed)
	r.CAGR = cagr(res.InitialBalance, res.FinalBalance, elapsed)

	factor := annualizationFactor(len(returns), elapsed)
	r.SharpeRatio = sharpeRatio(returns, factor)
	r.SortinoRatio = sortinoRatio(returns, factor)
	if r.MaxDrawdown > 0 {
		r.CalmarRatio = r.AnnualizedReturn / r.MaxDrawdown
	}

	grossProfit, grossLoss, avgWin, avgLoss := tradeStats(res)
	r.AvgWin = avgWin
	r.AvgLoss = avgLoss
	if grossLoss > 0 {
		r.ProfitFactor = grossProfit / grossLoss
	}

	return r
}

// annualize compounds a total return to a one-year horizon. Periods of a
// year or longer are left as-is, matching the CAGR convention.
func annualize(totalReturn float64, elapsed time.Duration) float64 {
	if elapsed < 24*time.Hour {
		return totalReturn
	}
	if elapsed >= year {
		return totalReturn
	}
	return math.Pow(1+totalReturn, float64(year)/float64(elapsed)) - 1
}

func cagr(initial, final decimal.Decimal, elapsed time.Duration) float64 {
	if !initial.GreaterThan(decimal.Zero) {
		return 0
	}
	ratio := final.InexactFloat64() / initial.InexactFloat64()
	if ratio <= 0 {
		return 0
	}
	if elapsed < 24*time.Hour {
		elapsed = 24 * time.Hour
	}
	years := float64(elapsed) / float64(year)
	return math.Pow(ratio, 1/years) - 1
}

// valueAtRisk95 is the empirical 5th-percentile return: the loss magnitude
// that 95% of observed periods stayed above.
func valueAtRisk95(returns []float64) float64 {
	if len(returns) < 2 {
		return 0
	}
	sorted := make([]float64, len(returns))
	copy(sorted, returns)
	sort.Float64s(sorted)
	return stat.Quantile(0.05, stat.Empirical, sorted, nil)
}

// annualizationFactor is sqrt of the number of bar periods per year, derived
// from the average bar spacing. Zero when the span is non-annualizable.
func annualizationFactor(periods int, elapsed time.Duration) float64 {
	if periods < 1 || elapsed <= 0 {
		return 1
	}
	perPeriod := float64(elapsed) / float64(periods)
	return math.Sqrt(float64(year) / perPeriod)
}

func sharpeRatio(returns []float64, factor float64) float64 {
	if len(returns) < 2 {
		return 0
	}
	mean, std := stat.MeanStdDev(returns, nil)
	if std == 0 {
		return 0
	}
	return mean / std * factor
}

// sortinoRatio replaces the Sharpe denominator with the standard deviation
// of the negative returns only.
func sortinoRatio(returns []float64, factor float64) float64 {
	if len(returns) < 2 {
		return 0
	}

	var sumSq float64
	var n int
	for _, ret := range returns {
		if ret < 0 {
			sumSq += ret * ret
			n++
		}
	}
	if n == 0 {
		return 0
	}
	downside := math.Sqrt(sumSq / float64(n))
	if downside == 0 {
		return 0
	}
	return stat.Mean(returns, nil) / downside * factor
}

func tradeStats(res *engine.Result) (grossProfit, grossLoss, avgWin, avgLoss float64) {
	sumWin := decimal.Zero
	sumLoss := decimal.Zero
	wins, losses := 0, 0

	for _, t := range res.Trades {
		switch {
		case t.Profit.GreaterThan(decimal.Zero):
			sumWin = sumWin.Add(t.Profit)
			wins++
		case t.Profit.LessThan(decimal.Zero):
			sumLoss = sumLoss.Add(t.Profit.Abs())
			losses++
		}
	}

	grossProfit = sumWin.InexactFloat64()
	grossLoss = sumLoss.InexactFloat64()
	if wins > 0 {
		avgWin = grossProfit / float64(wins)
	}
	if losses > 0 {
		avgLoss = grossLoss / float64(losses)
	}
	return grossProfit, grossLoss, avgWin, avgLoss
}
