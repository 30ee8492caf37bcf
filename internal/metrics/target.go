package metrics

// OptimizationTarget selects which report statistic drives parameter
// ranking. All targets are maximized; MinDrawdown negates the drawdown so
// that maximizing the objective minimizes the drawdown itself.
type OptimizationTarget string

const (
	TargetTotalReturn  OptimizationTarget = "total_return"
	TargetSharpeRatio  OptimizationTarget = "sharpe_ratio"
	TargetWinRate      OptimizationTarget = "win_rate"
	TargetMinDrawdown  OptimizationTarget = "min_drawdown"
	TargetOverallScore OptimizationTarget = "overall_score"
	TargetProfitFactor OptimizationTarget = "profit_factor"
)

func AllTargets() []OptimizationTarget {
	return []OptimizationTarget{
		TargetTotalReturn,
		TargetSharpeRatio,
		TargetWinRate,
		TargetMinDrawdown,
		TargetOverallScore,
		TargetProfitFactor,
	}
}

func (t OptimizationTarget) Valid() bool {
	switch t {
	case TargetTotalReturn, TargetSharpeRatio, TargetWinRate,
		TargetMinDrawdown, TargetOverallScore, TargetProfitFactor:
		return true
	}
	return false
}

func (t OptimizationTarget) Name() string {
	switch t {
	case TargetTotalReturn:
		return "Total Return"
	case TargetSharpeRatio:
		return "Sharpe Ratio"
	case TargetWinRate:
		return "Win Rate"
	case TargetMinDrawdown:
		return "Min Drawdown"
	case TargetOverallScore:
		return "Overall Score"
	case TargetProfitFactor:
		return "Profit Factor"
	}
	return string(t)
}

// Value extracts the objective value for this target from a report.
func (t OptimizationTarget) Value(r Report) float64 {
	switch t {
	case TargetTotalReturn:
		return r.TotalReturn
	case TargetSharpeRatio:
		return r.SharpeRatio
	case TargetWinRate:
		return r.WinRate
	case TargetMinDrawdown:
		return -r.MaxDrawdown
	case TargetOverallScore:
		return r.Score()
	case TargetProfitFactor:
		return r.ProfitFactor
	}
	return 0
}
