package indicator

import (
	"math"

	"github.com/evdnx/gotrend/types"
)

type band struct {
	middle float64
	upper  float64
	lower  float64
}

// bollingerBands computes rolling mean ± mult standard deviations.
func bollingerBands(data []float64, period int, mult float64) []band {
	if period <= 0 || len(data) < period {
		return nil
	}
	bands := make([]band, 0, len(data)-period+1)
	for i := period - 1; i < len(data); i++ {
		window := data[i-period+1 : i+1]
		mean := 0.0
		for _, v := range window {
			mean += v
		}
		mean /= float64(period)
		variance := 0.0
		for _, v := range window {
			variance += (v - mean) * (v - mean)
		}
		stdDev := math.Sqrt(variance / float64(period))
		bands = append(bands, band{
			middle: mean,
			upper:  mean + mult*stdDev,
			lower:  mean - mult*stdDev,
		})
	}
	return bands
}

// BollingerSignal goes long when the close touches the lower band and short
// at the upper band - a mean-reversion read of the band breakout.
func BollingerSignal(ks []types.Kline, period int, mult float64) (types.Signal, error) {
	data := closes(ks)
	bands := bollingerBands(data, period, mult)
	if len(bands) == 0 {
		return types.Neutral, ErrInsufficientData
	}
	lastClose := data[len(data)-1]
	last := bands[len(bands)-1]
	switch {
	case lastClose <= last.lower:
		return types.Long, nil
	case lastClose >= last.upper:
		return types.Short, nil
	default:
		return types.Neutral, nil
	}
}
