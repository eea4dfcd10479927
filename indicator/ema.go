package indicator

import "github.com/evdnx/gotrend/types"

// EMASignal compares the latest close to the latest EMA value: above → long,
// below → short.
func EMASignal(ks []types.Kline, period int) (types.Signal, error) {
	data := closes(ks)
	ema := EMA(data, period)
	if len(ema) == 0 {
		return types.Neutral, ErrInsufficientData
	}
	lastClose := data[len(data)-1]
	lastEMA := ema[len(ema)-1]
	switch {
	case lastClose > lastEMA:
		return types.Long, nil
	case lastClose < lastEMA:
		return types.Short, nil
	default:
		return types.Neutral, nil
	}
}
