package main

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"time"

	"quantsim/types"

	"github.com/shopspring/decimal"
)

// loadBarsCSV reads a price series from a CSV file with columns
// timestamp,open,high,low,close,volume. Timestamps are RFC 3339. A header
// row is skipped when present.
func loadBarsCSV(path string) ([]types.PriceBar, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	reader := csv.NewReader(f)
	reader.FieldsPerRecord = 6

	var bars []types.PriceBar
	line := 0
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}
		line++

		ts, err := time.Parse(time.RFC3339, record[0])
		if err != nil {
			if line == 1 {
				continue
			}
			return nil, fmt.Errorf("line %d: timestamp: %w", line, err)
		}

		fields := make([]decimal.Decimal, 5)
		for i, raw := range record[1:] {
			fields[i], err = decimal.NewFromString(raw)
			if err != nil {
				return nil, fmt.Errorf("line %d: column %d: %w", line, i+2, err)
			}
		}

		bars = append(bars, types.PriceBar{
			Timestamp: ts,
			Open:      fields[0],
			High:      fields[1],
			Low:       fields[2],
			Close:     fields[3],
			Volume:    fields[4],
		})
	}
	if len(bars) == 0 {
		return nil, fmt.Errorf("%s: no price bars", path)
	}
	return bars, nil
}
