package engine

import "github.com/shopspring/decimal"

// Config is the simulator cost model. Values are fractions, not percentages:
// a CommissionRate of 0.0005 charges 0.05% of notional per leg.
type Config struct {
	InitialBalance decimal.Decimal
	CommissionRate decimal.Decimal
	Slippage       decimal.Decimal
	MinOrderAmount decimal.Decimal
}

// DefaultConfig returns the stock cost model: 1,000,000 starting cash,
// 0.05% commission, no slippage, 5,000 minimum order.
func DefaultConfig() Config {
	return Config{
		InitialBalance: decimal.NewFromInt(1_000_000),
		CommissionRate: decimal.NewFromFloat(0.0005),
		Slippage:       decimal.Zero,
		MinOrderAmount: decimal.NewFromInt(5_000),
	}
}

// NewConfig returns the default cost model with the given starting balance.
func NewConfig(initialBalance decimal.Decimal) Config {
	cfg := DefaultConfig()
	cfg.InitialBalance = initialBalance
	return cfg
}

func (c Config) WithCommission(rate decimal.Decimal) Config {
	c.CommissionRate = rate
	return c
}

func (c Config) WithSlippage(slippage decimal.Decimal) Config {
	c.Slippage = slippage
	return c
}

func (c Config) WithMinOrder(amount decimal.Decimal) Config {
	c.MinOrderAmount = amount
	return c
}

// Validate checks every cost-model field. The simulator refuses to run with
// an invalid config, so behavior never depends on construction order.
func (c Config) Validate() error {
	if !c.InitialBalance.GreaterThan(decimal.Zero) {
		return &InvalidParameterError{Name: "initial_balance", Reason: "must be > 0"}
	}
	if c.CommissionRate.IsNegative() {
		return &InvalidParameterError{Name: "commission_rate", Reason: "must be >= 0"}
	}
	if c.Slippage.IsNegative() {
		return &InvalidParameterError{Name: "slippage", Reason: "must be >= 0"}
	}
	if !c.MinOrderAmount.GreaterThan(decimal.Zero) {
		return &InvalidParameterError{Name: "min_order_amount", Reason: "must be > 0"}
	}
	return nil
}
