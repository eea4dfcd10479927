package indicator

import "github.com/evdnx/gotrend/types"

// macdSeries holds the MACD line and its signal line, aligned so the last
// elements of both refer to the most recent bar.
type macdSeries struct {
	macd   []float64
	signal []float64
}

func calcMACD(data []float64, fast, slow, signalPeriod int) macdSeries {
	fastEMA := EMA(data, fast)
	slowEMA := EMA(data, slow)
	if len(fastEMA) == 0 || len(slowEMA) == 0 {
		return macdSeries{}
	}
	// fastEMA starts (slow-fast) bars earlier than slowEMA; align on the
	// slow series.
	offset := slow - fast
	macd := make([]float64, len(slowEMA))
	for i := range slowEMA {
		macd[i] = fastEMA[i+offset] - slowEMA[i]
	}
	return macdSeries{macd: macd, signal: EMA(macd, signalPeriod)}
}

// MACDSignal goes long when the MACD line crosses above its signal line and
// short on the opposite crossover.
func MACDSignal(ks []types.Kline, fast, slow, signalPeriod int) (types.Signal, error) {
	series := calcMACD(closes(ks), fast, slow, signalPeriod)
	if len(series.macd) < 2 || len(series.signal) < 2 {
		return types.Neutral, ErrInsufficientData
	}
	lastMACD := series.macd[len(series.macd)-1]
	prevMACD := series.macd[len(series.macd)-2]
	lastSignal := series.signal[len(series.signal)-1]
	prevSignal := series.signal[len(series.signal)-2]

	switch {
	case lastMACD > lastSignal && prevMACD < prevSignal:
		return types.Long, nil
	case lastMACD < lastSignal && prevMACD > prevSignal:
		return types.Short, nil
	default:
		return types.Neutral, nil
	}
}
