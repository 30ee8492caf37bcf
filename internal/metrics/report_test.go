package metrics

import (
	"math"
	"testing"
	"time"

	"quantsim/internal/engine"
	"quantsim/types"

	"github.com/shopspring/decimal"
)

func almostEqual(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

func TestAnnualize(t *testing.T) {
	tests := []struct {
		name        string
		totalReturn float64
		elapsed     time.Duration
		want        float64
	}{
		{
			name:        "under a day is left raw",
			totalReturn: 0.05,
			elapsed:     12 * time.Hour,
			want:        0.05,
		},
		{
			name:        "a year or longer is left raw",
			totalReturn: 0.4,
			elapsed:     2 * year,
			want:        0.4,
		},
		{
			name:        "half a year compounds",
			totalReturn: 0.1,
			elapsed:     year / 2,
			want:        math.Pow(1.1, 2) - 1,
		},
		{
			name:        "losses compound toward -1",
			totalReturn: -0.5,
			elapsed:     year / 2,
			want:        math.Pow(0.5, 2) - 1,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := annualize(tt.totalReturn, tt.elapsed)
			if !almostEqual(got, tt.want) {
				t.Errorf("annualize(%f, %v) = %f, want %f", tt.totalReturn, tt.elapsed, got, tt.want)
			}
		})
	}
}

func TestCAGR(t *testing.T) {
	tests := []struct {
		name    string
		initial string
		final   string
		elapsed time.Duration
		want    float64
	}{
		{
			name:    "doubling over a year",
			initial: "100",
			final:   "200",
			elapsed: year,
			want:    1,
		},
		{
			name:    "21 percent over two years",
			initial: "100",
			final:   "121",
			elapsed: 2 * year,
			want:    0.1,
		},
		{
			name:    "zero initial balance",
			initial: "0",
			final:   "100",
			elapsed: year,
			want:    0,
		},
		{
			name:    "sub-day span floors at one day",
			initial: "100",
			final:   "101",
			elapsed: time.Hour,
			want:    math.Pow(1.01, 365) - 1,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := cagr(decimal.RequireFromString(tt.initial), decimal.RequireFromString(tt.final), tt.elapsed)
			if !almostEqual(got, tt.want) {
				t.Errorf("cagr(%s, %s, %v) = %f, want %f", tt.initial, tt.final, tt.elapsed, got, tt.want)
			}
		})
	}
}

func TestValueAtRisk95(t *testing.T) {
	returns := make([]float64, 0, 20)
	returns = append(returns, -0.10, -0.05)
	for i := 0; i < 18; i++ {
		returns = append(returns, 0.01)
	}

	got := valueAtRisk95(returns)
	if !almostEqual(got, -0.10) {
		t.Errorf("valueAtRisk95 = %f, want -0.10", got)
	}

	if got := valueAtRisk95([]float64{0.01}); got != 0 {
		t.Errorf("single return VaR = %f, want 0", got)
	}
}

func TestSortinoRatio(t *testing.T) {
	// Mean 0.05, downside deviation 0.1.
	got := sortinoRatio([]float64{0.2, -0.1}, 1)
	if !almostEqual(got, 0.5) {
		t.Errorf("sortinoRatio = %f, want 0.5", got)
	}

	if got := sortinoRatio([]float64{0.1, 0.2, 0.3}, 1); got != 0 {
		t.Errorf("all-positive sortino = %f, want 0", got)
	}
	if got := sortinoRatio([]float64{0.1}, 1); got != 0 {
		t.Errorf("single return sortino = %f, want 0", got)
	}
}

func TestSharpeRatioZeroVolatility(t *testing.T) {
	if got := sharpeRatio([]float64{0.01, 0.01, 0.01}, 10); got != 0 {
		t.Errorf("constant returns sharpe = %f, want 0", got)
	}
}

func equityCurve(values ...int64) []types.EquityPoint {
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	curve := make([]types.EquityPoint, 0, len(values))
	for i, v := range values {
		curve = append(curve, types.EquityPoint{
			Timestamp: start.AddDate(0, 0, i),
			Equity:    decimal.NewFromInt(v),
		})
	}
	return curve
}

func tradeWithProfit(p int64) types.Trade {
	return types.Trade{Side: types.SideBuy, Profit: decimal.NewFromInt(p)}
}

func TestDeriveTradeStats(t *testing.T) {
	res := &engine.Result{
		TotalTrades:    4,
		WinningTrades:  2,
		LosingTrades:   2,
		ROI:            0.3,
		WinRate:        0.5,
		MaxDrawdown:    0.2,
		InitialBalance: decimal.NewFromInt(1000),
		FinalBalance:   decimal.NewFromInt(1300),
		Trades: []types.Trade{
			tradeWithProfit(600),
			tradeWithProfit(-100),
			tradeWithProfit(200),
			tradeWithProfit(-400),
		},
		EquityCurve: equityCurve(1000, 1100, 900, 1200, 1300),
	}

	r := Derive(res, 96*time.Hour)

	if r.TotalReturn != 0.3 {
		t.Errorf("TotalReturn = %f, want 0.3", r.TotalReturn)
	}
	if !almostEqual(r.ProfitFactor, 800.0/500.0) {
		t.Errorf("ProfitFactor = %f, want 1.6", r.ProfitFactor)
	}
	if !almostEqual(r.AvgWin, 400) {
		t.Errorf("AvgWin = %f, want 400", r.AvgWin)
	}
	if !almostEqual(r.AvgLoss, 250) {
		t.Errorf("AvgLoss = %f, want 250", r.AvgLoss)
	}
	if r.TotalTrades != 4 {
		t.Errorf("TotalTrades = %d, want 4", r.TotalTrades)
	}
	if r.CalmarRatio != r.AnnualizedReturn/0.2 {
		t.Errorf("CalmarRatio = %f, want %f", r.CalmarRatio, r.AnnualizedReturn/0.2)
	}
	if r.Volatility <= 0 {
		t.Errorf("Volatility = %f, want > 0", r.Volatility)
	}
}

func TestDeriveNoLosingTrades(t *testing.T) {
	res := &engine.Result{
		TotalTrades:    2,
		WinningTrades:  2,
		ROI:            0.1,
		WinRate:        1,
		InitialBalance: decimal.NewFromInt(1000),
		FinalBalance:   decimal.NewFromInt(1100),
		Trades:         []types.Trade{tradeWithProfit(60), tradeWithProfit(40)},
		EquityCurve:    equityCurve(1000, 1050, 1100),
	}

	r := Derive(res, 48*time.Hour)
	if r.ProfitFactor != 0 {
		t.Errorf("ProfitFactor = %f, want 0 with no losing trades", r.ProfitFactor)
	}
	if r.AvgLoss != 0 {
		t.Errorf("AvgLoss = %f, want 0", r.AvgLoss)
	}
	if r.SortinoRatio != 0 {
		t.Errorf("SortinoRatio = %f, want 0 with no negative returns", r.SortinoRatio)
	}
}

func TestDeriveEmptyResult(t *testing.T) {
	res := &engine.Result{
		InitialBalance: decimal.NewFromInt(1000),
		FinalBalance:   decimal.NewFromInt(1000),
		EquityCurve:    equityCurve(1000),
	}

	r := Derive(res, 0)
	if r.TotalReturn != 0 || r.SharpeRatio != 0 || r.Volatility != 0 || r.VaR95 != 0 {
		t.Errorf("empty result produced nonzero statistics: %+v", r)
	}
}

func TestDeriveIsDeterministic(t *testing.T) {
	res := &engine.Result{
		TotalTrades:    1,
		WinningTrades:  1,
		ROI:            0.25,
		WinRate:        1,
		MaxDrawdown:    0.1,
		InitialBalance: decimal.NewFromInt(1000),
		FinalBalance:   decimal.NewFromInt(1250),
		Trades:         []types.Trade{tradeWithProfit(250)},
		EquityCurve:    equityCurve(1000, 900, 1100, 1250),
	}

	first := Derive(res, 72*time.Hour)
	second := Derive(res, 72*time.Hour)
	if first != second {
		t.Error("identical inputs produced different reports")
	}
}
