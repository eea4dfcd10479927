package signal

import (
	"context"
	"sync"

	"github.com/evdnx/gotrend/logger"
	"github.com/evdnx/gotrend/metrics"
	"github.com/evdnx/gotrend/types"
)

// Providers groups the six strategy providers by their aggregation slot.
type Providers struct {
	ADX       Provider
	EMA       Provider
	Bollinger Provider
	ATR       Provider
	MACD      Provider
	RSI       Provider
}

// Collect fetches all six signals concurrently and joins before returning.
// A provider that errors contributes a neutral signal; the cycle never
// aborts on a single bad fetch.
func Collect(ctx context.Context, p Providers, symbol, interval string, log logger.Logger) Set {
	var set Set
	slots := []struct {
		provider Provider
		dst      *types.Signal
	}{
		{p.ADX, &set.ADX},
		{p.EMA, &set.EMA},
		{p.Bollinger, &set.Bollinger},
		{p.ATR, &set.ATR},
		{p.MACD, &set.MACD},
		{p.RSI, &set.RSI},
	}

	var wg sync.WaitGroup
	for _, slot := range slots {
		if slot.provider == nil {
			continue
		}
		wg.Add(1)
		go func(provider Provider, dst *types.Signal) {
			defer wg.Done()
			sig, err := provider.Evaluate(ctx, symbol, interval)
			if err != nil {
				log.Warn("signal_fetch_failed",
					logger.String("strategy", provider.Name()),
					logger.Err(err),
				)
				sig = types.Neutral
			}
			*dst = sig
			metrics.SignalValue.WithLabelValues(provider.Name()).Set(float64(sig))
		}(slot.provider, slot.dst)
	}
	wg.Wait()
	return set
}
