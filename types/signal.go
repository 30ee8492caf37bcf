package types

type Side string

const (
	SideBuy  Side = "BUY"
	SideSell Side = "SELL"
	SideHold Side = "HOLD"
)

// Signal is the per-bar decision emitted by a strategy. Strength is a
// confidence value in [0, 1]; it does not affect order sizing.
type Signal struct {
	Side     Side
	Strength float64
	Reason   string
}

func Buy(strength float64, reason string) Signal {
	return Signal{Side: SideBuy, Strength: strength, Reason: reason}
}

func Sell(strength float64, reason string) Signal {
	return Signal{Side: SideSell, Strength: strength, Reason: reason}
}

func Hold() Signal {
	return Signal{Side: SideHold}
}
