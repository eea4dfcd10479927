package signal

import (
	"github.com/evdnx/gotrend/config"
	"github.com/evdnx/gotrend/types"
)

// Set holds one directional signal per named strategy slot.
type Set struct {
	ADX       types.Signal
	EMA       types.Signal
	Bollinger types.Signal
	ATR       types.Signal
	MACD      types.Signal
	RSI       types.Signal
}

// Negate flips every slot. Useful for symmetry checks.
func (s Set) Negate() Set {
	return Set{
		ADX:       -s.ADX,
		EMA:       -s.EMA,
		Bollinger: -s.Bollinger,
		ATR:       -s.ATR,
		MACD:      -s.MACD,
		RSI:       -s.RSI,
	}
}

// WeightedDecision is the weighted sum of the six signals and its ternary
// classification.
type WeightedDecision struct {
	Sum      float64
	Decision types.Decision
}

// Aggregate combines the six signals into one weighted score and thresholds
// it at ±threshold. Pure function: no state, no failure mode.
func Aggregate(s Set, w config.Weights, threshold float64) WeightedDecision {
	sum := float64(s.ADX)*w.ADX +
		float64(s.EMA)*w.EMA +
		float64(s.Bollinger)*w.Bollinger +
		float64(s.ATR)*w.ATR +
		float64(s.MACD)*w.MACD +
		float64(s.RSI)*w.RSI

	decision := types.DecisionNone
	switch {
	case sum >= threshold:
		decision = types.DecisionBuy
	case sum <= -threshold:
		decision = types.DecisionSell
	}
	return WeightedDecision{Sum: sum, Decision: decision}
}
