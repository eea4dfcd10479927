// Package signal hosts the six strategy signal providers and the weighted
// aggregator that turns their combined opinion into a trading decision.
package signal

import (
	"context"
	"errors"

	"github.com/evdnx/goti"

	"github.com/evdnx/gotrend/indicator"
	"github.com/evdnx/gotrend/types"
)

// History windows, matching the original strategy set.
const (
	fetchLimit     = 100
	macdFetchLimit = 200

	adxPeriod     = 3
	emaPeriod     = 3
	bollPeriod    = 3
	bollStdDevs   = 3.0
	atrPeriod     = 3
	atrLookback   = 3
	macdFast      = 6
	macdSlow      = 12
	macdSignalLen = 3
)

// KlineSource provides historical candles for the indicator providers.
type KlineSource interface {
	Klines(ctx context.Context, symbol, interval string, limit int) ([]types.Kline, error)
}

// Provider produces one directional signal per cycle. Insufficient history
// is a neutral opinion, never an error.
type Provider interface {
	Name() string
	Evaluate(ctx context.Context, symbol, interval string) (types.Signal, error)
}

// normalize maps the indicator insufficient-history sentinel to a plain
// neutral signal.
func normalize(sig types.Signal, err error) (types.Signal, error) {
	if errors.Is(err, indicator.ErrInsufficientData) {
		return types.Neutral, nil
	}
	return sig, err
}

// ADX signals on a +DI/-DI crossover confirmed by trend strength.
type ADX struct {
	Source KlineSource
}

func (a *ADX) Name() string { return "adx" }

func (a *ADX) Evaluate(ctx context.Context, symbol, interval string) (types.Signal, error) {
	ks, err := a.Source.Klines(ctx, symbol, interval, fetchLimit)
	if err != nil {
		return types.Neutral, err
	}
	return normalize(indicator.ADXSignal(ks, adxPeriod))
}

// EMA signals on the close relative to a short exponential average.
type EMA struct {
	Source KlineSource
}

func (e *EMA) Name() string { return "ema" }

func (e *EMA) Evaluate(ctx context.Context, symbol, interval string) (types.Signal, error) {
	ks, err := e.Source.Klines(ctx, symbol, interval, fetchLimit)
	if err != nil {
		return types.Neutral, err
	}
	return normalize(indicator.EMASignal(ks, emaPeriod))
}

// Bollinger signals on the close touching either band.
type Bollinger struct {
	Source KlineSource
}

func (b *Bollinger) Name() string { return "bollinger" }

func (b *Bollinger) Evaluate(ctx context.Context, symbol, interval string) (types.Signal, error) {
	ks, err := b.Source.Klines(ctx, symbol, interval, fetchLimit)
	if err != nil {
		return types.Neutral, err
	}
	return normalize(indicator.BollingerSignal(ks, bollPeriod, bollStdDevs))
}

// ATR signals on a range breakout confirmed by rising volatility.
type ATR struct {
	Source KlineSource
}

func (a *ATR) Name() string { return "atr" }

func (a *ATR) Evaluate(ctx context.Context, symbol, interval string) (types.Signal, error) {
	ks, err := a.Source.Klines(ctx, symbol, interval, fetchLimit)
	if err != nil {
		return types.Neutral, err
	}
	return normalize(indicator.ATRSignal(ks, atrPeriod, atrLookback))
}

// MACD signals on the MACD line crossing its signal line.
type MACD struct {
	Source KlineSource
}

func (m *MACD) Name() string { return "macd" }

func (m *MACD) Evaluate(ctx context.Context, symbol, interval string) (types.Signal, error) {
	ks, err := m.Source.Klines(ctx, symbol, interval, macdFetchLimit)
	if err != nil {
		return types.Neutral, err
	}
	return normalize(indicator.MACDSignal(ks, macdFast, macdSlow, macdSignalLen))
}

// RSI runs the goti indicator suite over the history and signals when the
// oscillator leaves the configured bounds.
type RSI struct {
	Source     KlineSource
	Overbought float64
	Oversold   float64
}

func (r *RSI) Name() string { return "rsi" }

func (r *RSI) Evaluate(ctx context.Context, symbol, interval string) (types.Signal, error) {
	ks, err := r.Source.Klines(ctx, symbol, interval, fetchLimit)
	if err != nil {
		return types.Neutral, err
	}
	ic := goti.DefaultConfig()
	ic.RSIOverbought = r.Overbought
	ic.RSIOversold = r.Oversold
	suite, err := goti.NewIndicatorSuiteWithConfig(ic)
	if err != nil {
		return types.Neutral, err
	}
	for _, k := range ks {
		if err := suite.Add(k.High, k.Low, k.Close, k.Volume); err != nil {
			return types.Neutral, err
		}
	}
	val, err := suite.GetRSI().Calculate()
	if err != nil {
		// The suite reports an error while it is still warming up.
		return types.Neutral, nil
	}
	switch {
	case val < r.Oversold:
		return types.Long, nil
	case val > r.Overbought:
		return types.Short, nil
	default:
		return types.Neutral, nil
	}
}
