package repository

import (
	"context"
	"errors"
	"time"

	"quantsim/types"
)

var ErrNoBars = errors.New("no price bars found")

const selectBarsSQL = `
SELECT timestamp, open, high, low, close, volume
FROM price_bars
WHERE symbol = $1 AND timestamp >= $2 AND timestamp < $3
ORDER BY timestamp ASC`

// GetBars loads the price series for one symbol in [start, end), oldest
// first.
func (db *Database) GetBars(ctx context.Context, symbol string, start, end time.Time) ([]types.PriceBar, error) {
	rows, err := db.pool.Query(ctx, selectBarsSQL, symbol, start, end)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var bars []types.PriceBar
	for rows.Next() {
		var b types.PriceBar
		if err := rows.Scan(&b.Timestamp, &b.Open, &b.High, &b.Low, &b.Close, &b.Volume); err != nil {
			return nil, err
		}
		bars = append(bars, b)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if len(bars) == 0 {
		return nil, ErrNoBars
	}
	return bars, nil
}
