package indicator

import (
	"math"

	"github.com/evdnx/gotrend/types"
)

// adxResult carries the directional movement series used by ADXSignal.
type adxResult struct {
	plusDI  []float64
	minusDI []float64
	adx     []float64
}

// calcADX computes +DI, -DI and ADX over the kline series using simple
// rolling sums for smoothing.
func calcADX(ks []types.Kline, period int) adxResult {
	var res adxResult
	var tr, plusDM, minusDM, dx []float64

	for i := 1; i < len(ks); i++ {
		high, low := ks[i].High, ks[i].Low
		prevHigh, prevLow, prevClose := ks[i-1].High, ks[i-1].Low, ks[i-1].Close

		rng := math.Max(high-low, math.Max(math.Abs(high-prevClose), math.Abs(low-prevClose)))
		tr = append(tr, rng)

		upMove, downMove := high-prevHigh, prevLow-low
		if upMove > downMove {
			plusDM = append(plusDM, math.Max(upMove, 0))
		} else {
			plusDM = append(plusDM, 0)
		}
		if downMove > upMove {
			minusDM = append(minusDM, math.Max(downMove, 0))
		} else {
			minusDM = append(minusDM, 0)
		}

		if len(tr) < period {
			continue
		}
		trSum := sumLast(tr, period)
		if trSum == 0 {
			continue
		}
		plusDI := sumLast(plusDM, period) / trSum * 100
		minusDI := sumLast(minusDM, period) / trSum * 100
		res.plusDI = append(res.plusDI, plusDI)
		res.minusDI = append(res.minusDI, minusDI)

		if plusDI+minusDI == 0 {
			dx = append(dx, 0)
		} else {
			dx = append(dx, math.Abs(plusDI-minusDI)/(plusDI+minusDI)*100)
		}
		if len(dx) >= period {
			res.adx = append(res.adx, sumLast(dx, period)/float64(period))
		}
	}
	return res
}

func sumLast(data []float64, n int) float64 {
	sum := 0.0
	for _, v := range data[len(data)-n:] {
		sum += v
	}
	return sum
}

// ADXSignal goes long when +DI crosses above -DI with a strong trend
// (ADX > 25), short on the mirrored crossover.
func ADXSignal(ks []types.Kline, period int) (types.Signal, error) {
	res := calcADX(ks, period)
	if len(res.plusDI) < 2 || len(res.adx) == 0 {
		return types.Neutral, ErrInsufficientData
	}
	lastPlus := res.plusDI[len(res.plusDI)-1]
	lastMinus := res.minusDI[len(res.minusDI)-1]
	prevPlus := res.plusDI[len(res.plusDI)-2]
	prevMinus := res.minusDI[len(res.minusDI)-2]
	lastADX := res.adx[len(res.adx)-1]

	switch {
	case lastPlus > lastMinus && prevPlus < prevMinus && lastADX > 25:
		return types.Long, nil
	case lastMinus > lastPlus && prevMinus < prevPlus && lastADX > 25:
		return types.Short, nil
	default:
		return types.Neutral, nil
	}
}
