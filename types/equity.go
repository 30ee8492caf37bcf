package types

import (
	"time"

	"github.com/shopspring/decimal"
)

// EquityPoint is the marked-to-market account value after one bar.
type EquityPoint struct {
	Timestamp time.Time       `json:"timestamp"`
	Equity    decimal.Decimal `json:"equity"`
}
