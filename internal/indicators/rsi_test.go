package indicators

import (
	"math"
	"testing"
)

func TestNewRSIRejectsBadPeriod(t *testing.T) {
	if _, err := NewRSI(0); err == nil {
		t.Error("NewRSI(0) should fail")
	}
	if _, err := NewRSI(-3); err == nil {
		t.Error("NewRSI(-3) should fail")
	}
}

func TestRSIWarmUp(t *testing.T) {
	rsi, err := NewRSI(3)
	if err != nil {
		t.Fatal(err)
	}

	// Needs one seed price plus `period` changes before it reports.
	prices := []float64{10, 11, 12, 13}
	for i, p := range prices[:3] {
		if _, ok := rsi.Update(p); ok {
			t.Errorf("update %d: warmed up too early", i)
		}
		if _, ok := rsi.Value(); ok {
			t.Errorf("update %d: Value() ready too early", i)
		}
	}
	if _, ok := rsi.Update(prices[3]); !ok {
		t.Error("not warmed up after period+1 prices")
	}
}

func TestRSIExtremes(t *testing.T) {
	rsi, err := NewRSI(2)
	if err != nil {
		t.Fatal(err)
	}

	// Only gains: RSI pegs at 100.
	var v float64
	for _, p := range []float64{10, 11, 12} {
		v, _ = rsi.Update(p)
	}
	if v != 100 {
		t.Errorf("all-gain RSI = %f, want 100", v)
	}

	rsi.Reset()

	// Only losses: RSI pegs at 0.
	for _, p := range []float64{12, 11, 10} {
		v, _ = rsi.Update(p)
	}
	if v != 0 {
		t.Errorf("all-loss RSI = %f, want 0", v)
	}
}

func TestRSIMixedChanges(t *testing.T) {
	rsi, err := NewRSI(2)
	if err != nil {
		t.Fatal(err)
	}

	// Changes +2 then -1: avg gain 1, avg loss 0.5, RS 2, RSI 66.67.
	var v float64
	for _, p := range []float64{10, 12, 11} {
		v, _ = rsi.Update(p)
	}
	want := 100 - 100/(1+2.0)
	if math.Abs(v-want) > 1e-9 {
		t.Errorf("RSI = %f, want %f", v, want)
	}

	if got, ok := rsi.Value(); !ok || got != v {
		t.Errorf("Value() = %f/%v, want %f/true", got, ok, v)
	}
}

func TestRSIRollingWindow(t *testing.T) {
	rsi, err := NewRSI(2)
	if err != nil {
		t.Fatal(err)
	}

	// The early large gain must fall out of the 2-change window.
	var v float64
	for _, p := range []float64{10, 20, 19, 18} {
		v, _ = rsi.Update(p)
	}
	if v != 0 {
		t.Errorf("RSI = %f, want 0 once the gain leaves the window", v)
	}
}

func TestRSIReset(t *testing.T) {
	rsi, err := NewRSI(2)
	if err != nil {
		t.Fatal(err)
	}
	for _, p := range []float64{10, 11, 12} {
		rsi.Update(p)
	}

	rsi.Reset()
	if _, ok := rsi.Value(); ok {
		t.Error("Value() still ready after Reset")
	}
	if _, ok := rsi.Update(10); ok {
		t.Error("warmed up immediately after Reset")
	}
}
