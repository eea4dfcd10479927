// Package indicator holds the closed-form signal calculators the bot
// combines. Every function is pure: it maps a kline history to a discrete
// direction and never touches the network.
package indicator

import (
	"errors"

	"github.com/evdnx/gotrend/types"
)

// ErrInsufficientData is returned when the supplied history is too short for
// the requested calculation. Callers treat it as a neutral signal, not a
// fault.
var ErrInsufficientData = errors.New("not enough kline history")

func closes(ks []types.Kline) []float64 {
	out := make([]float64, len(ks))
	for i, k := range ks {
		out[i] = k.Close
	}
	return out
}

// SMA returns the arithmetic mean of the last period values.
func SMA(data []float64, period int) (float64, error) {
	if period <= 0 || len(data) < period {
		return 0, ErrInsufficientData
	}
	sum := 0.0
	for _, v := range data[len(data)-period:] {
		sum += v
	}
	return sum / float64(period), nil
}

// EMA computes the exponential moving average series. The first value is the
// SMA of the opening window, every following value uses the standard
// 2/(period+1) multiplier.
func EMA(data []float64, period int) []float64 {
	if period <= 0 || len(data) < period {
		return nil
	}
	mult := 2.0 / float64(period+1)
	seed := 0.0
	for _, v := range data[:period] {
		seed += v
	}
	ema := make([]float64, 0, len(data)-period+1)
	ema = append(ema, seed/float64(period))
	for i := period; i < len(data); i++ {
		prev := ema[len(ema)-1]
		ema = append(ema, (data[i]-prev)*mult+prev)
	}
	return ema
}
