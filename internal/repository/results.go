package repository

import (
	"context"
	"time"

	"quantsim/internal/engine"
	"quantsim/internal/metrics"
	"quantsim/types"

	"github.com/shopspring/decimal"
)

// BacktestRow is the flat record stored per completed run: one row per
// strategy/parameter-set evaluation, keyed by an autoincrementing id.
type BacktestRow struct {
	ID           int64
	StrategyName string
	Parameters   string // JSON-encoded ParameterSet

	InitialBalance decimal.Decimal
	FinalBalance   decimal.Decimal

	TotalTrades   int
	WinningTrades int
	LosingTrades  int

	ROI          float64
	WinRate      float64
	MaxDrawdown  float64
	Volatility   float64
	VaR95        float64
	SharpeRatio  float64
	SortinoRatio float64
	CalmarRatio  float64
	ProfitFactor float64
	Score        float64

	CreatedAt time.Time
}

// NewBacktestRow flattens a finished simulation and its report into a row.
func NewBacktestRow(strategyName string, params types.ParameterSet, res *engine.Result, report metrics.Report) (BacktestRow, error) {
	encoded, err := params.JSON()
	if err != nil {
		return BacktestRow{}, err
	}
	return BacktestRow{
		StrategyName:   strategyName,
		Parameters:     encoded,
		InitialBalance: res.InitialBalance,
		FinalBalance:   res.FinalBalance,
		TotalTrades:    res.TotalTrades,
		WinningTrades:  res.WinningTrades,
		LosingTrades:   res.LosingTrades,
		ROI:            res.ROI,
		WinRate:        res.WinRate,
		MaxDrawdown:    report.MaxDrawdown,
		Volatility:     report.Volatility,
		VaR95:          report.VaR95,
		SharpeRatio:    report.SharpeRatio,
		SortinoRatio:   report.SortinoRatio,
		CalmarRatio:    report.CalmarRatio,
		ProfitFactor:   report.ProfitFactor,
		Score:          report.Score(),
	}, nil
}

const insertResultSQL = `
INSERT INTO backtest_results (
	strategy_name, parameters, initial_balance, final_balance,
	total_trades, winning_trades, losing_trades,
	roi, win_rate, max_drawdown, volatility, var_95,
	sharpe_ratio, sortino_ratio, calmar_ratio, profit_factor, score
) VALUES (
	$1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17
) RETURNING id`

// SaveResult inserts one row and returns its autoincrement id.
func (db *Database) SaveResult(ctx context.Context, row BacktestRow) (int64, error) {
	var id int64
	err := db.pool.QueryRow(ctx, insertResultSQL,
		row.StrategyName, row.Parameters, row.InitialBalance, row.FinalBalance,
		row.TotalTrades, row.WinningTrades, row.LosingTrades,
		row.ROI, row.WinRate, row.MaxDrawdown, row.Volatility, row.VaR95,
		row.SharpeRatio, row.SortinoRatio, row.CalmarRatio, row.ProfitFactor, row.Score,
	).Scan(&id)
	if err != nil {
		return 0, err
	}
	return id, nil
}

const selectResultsSQL = `
SELECT id, strategy_name, parameters, initial_balance, final_balance,
	total_trades, winning_trades, losing_trades,
	roi, win_rate, max_drawdown, volatility, var_95,
	sharpe_ratio, sortino_ratio, calmar_ratio, profit_factor, score, created_at
FROM backtest_results
WHERE strategy_name = $1
ORDER BY created_at DESC`

// GetResults lists stored rows for one strategy, newest first.
func (db *Database) GetResults(ctx context.Context, strategyName string) ([]BacktestRow, error) {
	rows, err := db.pool.Query(ctx, selectResultsSQL, strategyName)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []BacktestRow
	for rows.Next() {
		var r BacktestRow
		if err := rows.Scan(
			&r.ID, &r.StrategyName, &r.Parameters, &r.InitialBalance, &r.FinalBalance,
			&r.TotalTrades, &r.WinningTrades, &r.LosingTrades,
			&r.ROI, &r.WinRate, &r.MaxDrawdown, &r.Volatility, &r.VaR95,
			&r.SharpeRatio, &r.SortinoRatio, &r.CalmarRatio, &r.ProfitFactor, &r.Score, &r.CreatedAt,
		); err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if len(out) == 0 {
		return nil, ErrNoResults
	}
	return out, nil
}
