// Package bot runs the top-level decision loop: fetch market data, collect
// signals, aggregate, advance the position tracker, sleep, repeat.
package bot

import (
	"context"
	"time"

	"github.com/evdnx/gotrend/config"
	"github.com/evdnx/gotrend/logger"
	"github.com/evdnx/gotrend/metrics"
	"github.com/evdnx/gotrend/signal"
	"github.com/evdnx/gotrend/tracker"
)

// shortMAPeriod is the crossing reference for entry and exit timing.
const shortMAPeriod = 7

// MarketData is the price surface of the exchange.
type MarketData interface {
	LastPrice(ctx context.Context, symbol string) (float64, error)
	MovingAverage(ctx context.Context, symbol, interval string, period int) (float64, error)
}

// Bot wires the market data gateway, the six signal providers and the
// position tracker into a fixed-interval loop.
type Bot struct {
	cfg       config.Config
	md        MarketData
	providers signal.Providers
	tracker   *tracker.Tracker
	log       logger.Logger
}

func New(cfg config.Config, md MarketData, providers signal.Providers, tr *tracker.Tracker, log logger.Logger) *Bot {
	return &Bot{cfg: cfg, md: md, providers: providers, tracker: tr, log: log}
}

// Run loops until the context is canceled. The sleep interval is measured
// from the end of each cycle, so a cycle that blocks on order execution
// stretches the wall-clock period.
func (b *Bot) Run(ctx context.Context) error {
	b.log.Info("bot_started",
		logger.String("symbol", b.cfg.Symbol),
		logger.String("interval", b.cfg.Interval),
		logger.Duration("cycle_interval", b.cfg.CycleInterval.Duration()),
	)
	for {
		if err := b.cycle(ctx); err != nil {
			return err
		}
		if err := sleep(ctx, b.cfg.CycleInterval.Duration()); err != nil {
			return err
		}
	}
}

// cycle runs one fetch-decide-act pass. Market data failures skip the cycle;
// the only error returned is the context's.
func (b *Bot) cycle(ctx context.Context) error {
	price, err := b.md.LastPrice(ctx, b.cfg.Symbol)
	if err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		b.log.Warn("price_fetch_failed", logger.Err(err))
		return nil
	}
	shortMA, err := b.md.MovingAverage(ctx, b.cfg.Symbol, b.cfg.Interval, shortMAPeriod)
	if err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		b.log.Warn("moving_average_fetch_failed", logger.Err(err))
		return nil
	}

	set := signal.Collect(ctx, b.providers, b.cfg.Symbol, b.cfg.Interval, b.log)
	decision := signal.Aggregate(set, b.cfg.Weights, b.cfg.SignalThreshold)

	metrics.CyclesTotal.Inc()
	metrics.WeightedSum.Set(decision.Sum)
	b.log.Info("cycle",
		logger.Float64("market_price", price),
		logger.Float64("short_ma", shortMA),
		logger.Int("adx", int(set.ADX)),
		logger.Int("ema", int(set.EMA)),
		logger.Int("bollinger", int(set.Bollinger)),
		logger.Int("atr", int(set.ATR)),
		logger.Int("macd", int(set.MACD)),
		logger.Int("rsi", int(set.RSI)),
		logger.Float64("weighted_sum", decision.Sum),
		logger.String("decision", string(decision.Decision)),
	)

	return b.tracker.Advance(ctx, price, shortMA, decision.Decision)
}

func sleep(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
