package engine

import (
	"time"

	"quantsim/types"

	"github.com/shopspring/decimal"
	"gonum.org/v1/gonum/stat"
)

// MinBars is the minimum price series length the simulator accepts. Shorter
// series produce statistically meaningless results.
const MinBars = 100

// Simulator replays a price series against a strategy under a fixed cost
// model. A Simulator holds no per-run state: Run is reentrant and safe to
// call concurrently as long as each call owns its strategy instance.
type Simulator struct {
	cfg Config
}

func NewSimulator(cfg Config) (*Simulator, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &Simulator{cfg: cfg}, nil
}

func (s *Simulator) Config() Config {
	return s.cfg
}

// Run feeds every bar to the strategy in order and executes its signals
// against the account. Any position still open after the last bar is
// liquidated at the final close price so every run ends flat.
func (s *Simulator) Run(bars []types.PriceBar, strat Strategy) (*Result, error) {
	if len(bars) < MinBars {
		return nil, &InsufficientDataError{Required: MinBars, Got: len(bars)}
	}

	acct := newAccount(s.cfg)
	trades := make([]types.Trade, 0)
	curve := make([]types.EquityPoint, 0, len(bars))

	peak := 0.0
	maxDrawdown := 0.0

	for _, bar := range bars {
		signal := strat.OnBar(bar)

		switch signal.Side {
		case types.SideBuy:
			if !acct.open {
				acct.buy(bar)
			}
		case types.SideSell:
			if acct.open {
				trades = append(trades, acct.sell(bar))
			}
		}

		equity := acct.equity(bar.Close)
		curve = append(curve, types.EquityPoint{Timestamp: bar.Timestamp, Equity: equity})

		eq := equity.InexactFloat64()
		if eq > peak {
			peak = eq
		}
		if peak > 0 {
			if dd := (peak - eq) / peak; dd > maxDrawdown {
				maxDrawdown = dd
			}
		}
	}

	if acct.open {
		last := bars[len(bars)-1]
		trades = append(trades, acct.liquidate(last))
	}

	return s.buildResult(trades, curve, maxDrawdown, acct.cash), nil
}

func (s *Simulator) buildResult(trades []types.Trade, curve []types.EquityPoint, maxDrawdown float64, finalBalance decimal.Decimal) *Result {
	res := &Result{
		TotalTrades:    len(trades),
		Trades:         trades,
		EquityCurve:    curve,
		MaxDrawdown:    maxDrawdown,
		InitialBalance: s.cfg.InitialBalance,
		FinalBalance:   finalBalance,
	}

	for _, t := range trades {
		if t.IsWinning() {
			res.WinningTrades++
		}
	}
	res.LosingTrades = res.TotalTrades - res.WinningTrades

	initial := s.cfg.InitialBalance.InexactFloat64()
	if initial > 0 {
		res.ROI = (finalBalance.InexactFloat64() - initial) / initial
	}
	if res.TotalTrades > 0 {
		res.WinRate = float64(res.WinningTrades) / float64(res.TotalTrades)
	}
	res.SharpeRatio = sharpe(res.Returns())

	return res
}

// sharpe is the raw per-bar Sharpe ratio: mean return over its standard
// deviation, zero when volatility is zero. Annualization happens in the
// metrics package.
func sharpe(returns []float64) float64 {
	if len(returns) < 2 {
		return 0
	}
	mean, std := stat.MeanStdDev(returns, nil)
	if std == 0 {
		return 0
	}
	return mean / std
}

// account tracks cash and the single open position during one run.
type account struct {
	cfg  Config
	cash decimal.Decimal

	open            bool
	volume          decimal.Decimal
	entryPrice      decimal.Decimal
	entryTime       time.Time
	entryCost       decimal.Decimal
	entryCommission decimal.Decimal
}

func newAccount(cfg Config) *account {
	return &account{cfg: cfg, cash: cfg.InitialBalance}
}

// buy opens an all-in long position. Slippage moves the fill price against
// the trader; commission is charged on the full cash balance. Orders whose
// investable amount falls below the configured minimum are dropped silently.
func (a *account) buy(bar types.PriceBar) {
	one := decimal.NewFromInt(1)

	available := a.cash.Mul(one.Sub(a.cfg.CommissionRate))
	if available.LessThan(a.cfg.MinOrderAmount) {
		return
	}

	fillPrice := bar.Close.Mul(one.Add(a.cfg.Slippage))
	if !fillPrice.GreaterThan(decimal.Zero) {
		return
	}

	a.open = true
	a.volume = available.Div(fillPrice)
	a.entryPrice = fillPrice
	a.entryTime = bar.Timestamp
	a.entryCost = available
	a.entryCommission = a.cash.Mul(a.cfg.CommissionRate)
	a.cash = decimal.Zero
}

// sell closes the open position at the bar close adjusted by slippage and
// returns the realized trade, net of both legs' commissions.
func (a *account) sell(bar types.PriceBar) types.Trade {
	one := decimal.NewFromInt(1)

	fillPrice := bar.Close.Mul(one.Sub(a.cfg.Slippage))
	proceeds := a.volume.Mul(fillPrice)
	exitCommission := proceeds.Mul(a.cfg.CommissionRate)
	a.cash = a.cash.Add(proceeds).Sub(exitCommission)

	trade := a.closedTrade(bar.Timestamp, fillPrice, proceeds.Sub(exitCommission), exitCommission)
	a.clear()
	return trade
}

// liquidate force-closes the position at the last close price. This is a
// mark-to-market close: no slippage and no commission on the forced leg.
func (a *account) liquidate(bar types.PriceBar) types.Trade {
	proceeds := a.volume.Mul(bar.Close)
	a.cash = a.cash.Add(proceeds)

	trade := a.closedTrade(bar.Timestamp, bar.Close, proceeds, decimal.Zero)
	a.clear()
	return trade
}

func (a *account) closedTrade(exitTime time.Time, exitPrice, netProceeds, exitCommission decimal.Decimal) types.Trade {
	invested := a.entryCost.Add(a.entryCommission)
	profit := netProceeds.Sub(invested)

	profitRate := 0.0
	if invested.GreaterThan(decimal.Zero) {
		profitRate = profit.Div(invested).InexactFloat64()
	}

	return types.Trade{
		Side:       types.SideBuy,
		EntryTime:  a.entryTime,
		ExitTime:   exitTime,
		EntryPrice: a.entryPrice,
		ExitPrice:  exitPrice,
		Volume:     a.volume,
		Commission: a.entryCommission.Add(exitCommission),
		Profit:     profit,
		ProfitRate: profitRate,
	}
}

func (a *account) clear() {
	a.open = false
	a.volume = decimal.Zero
	a.entryPrice = decimal.Zero
	a.entryTime = time.Time{}
	a.entryCost = decimal.Zero
	a.entryCommission = decimal.Zero
}

func (a *account) equity(price decimal.Decimal) decimal.Decimal {
	if !a.open {
		return a.cash
	}
	return a.cash.Add(a.volume.Mul(price))
}
