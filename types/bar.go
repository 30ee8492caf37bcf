package types

import (
	"time"

	"github.com/shopspring/decimal"
)

type PriceBar struct {
	Timestamp time.Time       `json:"timestamp"`
	Open      decimal.Decimal `json:"open"`
	High      decimal.Decimal `json:"high"`
	Low       decimal.Decimal `json:"low"`
	Close     decimal.Decimal `json:"close"`
	Volume    decimal.Decimal `json:"volume"`
}

func NewPriceBar(ts time.Time, open, high, low, close, volume decimal.Decimal) PriceBar {
	return PriceBar{
		Timestamp: ts,
		Open:      open,
		High:      high,
		Low:       low,
		Close:     close,
		Volume:    volume,
	}
}
