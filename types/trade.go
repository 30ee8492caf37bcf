package types

import (
	"time"

	"github.com/shopspring/decimal"
)

// Trade is one closed round trip. Profit is net of the commissions paid on
// both legs; Commission is their sum.
type Trade struct {
	Side       Side            `json:"side"`
	EntryTime  time.Time       `json:"entryTime"`
	ExitTime   time.Time       `json:"exitTime"`
	EntryPrice decimal.Decimal `json:"entryPrice"`
	ExitPrice  decimal.Decimal `json:"exitPrice"`
	Volume     decimal.Decimal `json:"volume"`
	Commission decimal.Decimal `json:"commission"`
	Profit     decimal.Decimal `json:"profit"`
	ProfitRate float64         `json:"profitRate"`
}

func (t Trade) IsWinning() bool {
	return t.Profit.GreaterThan(decimal.Zero)
}
