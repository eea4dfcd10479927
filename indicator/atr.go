package indicator

import (
	"math"

	"github.com/evdnx/gotrend/types"
)

// ATR computes the average true range series with Wilder smoothing.
func ATR(ks []types.Kline, period int) []float64 {
	if len(ks) < 2 {
		return nil
	}
	atr := make([]float64, 0, len(ks)-1)
	for i := 1; i < len(ks); i++ {
		tr := math.Max(ks[i].High-ks[i].Low,
			math.Max(math.Abs(ks[i].High-ks[i-1].Close), math.Abs(ks[i].Low-ks[i-1].Close)))
		if len(atr) < period {
			atr = append(atr, tr)
		} else {
			prev := atr[len(atr)-1]
			atr = append(atr, (prev*float64(period-1)+tr)/float64(period))
		}
	}
	return atr
}

// ATRSignal goes long when the close breaks the prior lookback high while the
// latest ATR tops the recent ATR window (a volatility burst confirming the
// breakout), short on the mirrored break below the prior low.
func ATRSignal(ks []types.Kline, period, lookback int) (types.Signal, error) {
	if len(ks) < period+1 || len(ks) < lookback+1 {
		return types.Neutral, ErrInsufficientData
	}
	atr := ATR(ks, period)
	if len(atr) < period {
		return types.Neutral, ErrInsufficientData
	}

	// Reference high/low over the bars preceding the current one.
	window := ks[len(ks)-lookback-1 : len(ks)-1]
	prevHigh, prevLow := window[0].High, window[0].Low
	for _, k := range window[1:] {
		prevHigh = math.Max(prevHigh, k.High)
		prevLow = math.Min(prevLow, k.Low)
	}

	lastATR := atr[len(atr)-1]
	breakout := true
	for _, v := range atr[len(atr)-period : len(atr)-1] {
		if lastATR <= v {
			breakout = false
			break
		}
	}

	lastClose := ks[len(ks)-1].Close
	switch {
	case breakout && lastClose > prevHigh:
		return types.Long, nil
	case breakout && lastClose < prevLow:
		return types.Short, nil
	default:
		return types.Neutral, nil
	}
}
