// Package tracker owns the bot's single position: it decides entries and
// exits against the short moving average and delegates the actual order
// work to the execution engine.
package tracker

import (
	"context"

	"github.com/evdnx/gotrend/config"
	"github.com/evdnx/gotrend/logger"
	"github.com/evdnx/gotrend/metrics"
	"github.com/evdnx/gotrend/risk"
	"github.com/evdnx/gotrend/types"
)

// OrderExecutor runs one order to a terminal outcome.
type OrderExecutor interface {
	Execute(ctx context.Context, symbol string, side types.Side, qty float64) (types.OrderStatus, error)
}

// BalanceSource reports free margin for risk-based sizing. Optional.
type BalanceSource interface {
	AvailableBalance(ctx context.Context) (float64, error)
}

// Tracker holds at most one open position. It is not safe for concurrent
// use; the main loop is its only caller.
type Tracker struct {
	cfg     config.Config
	exec    OrderExecutor
	balance BalanceSource
	log     logger.Logger

	position *types.Position
}

// New builds a tracker starting flat. balance may be nil, which disables
// risk-based sizing in favor of the fixed configured quantity.
func New(cfg config.Config, exec OrderExecutor, balance BalanceSource, log logger.Logger) *Tracker {
	return &Tracker{cfg: cfg, exec: exec, balance: balance, log: log}
}

// Position returns a copy of the open position, or nil when flat.
func (t *Tracker) Position() *types.Position {
	if t.position == nil {
		return nil
	}
	p := *t.position
	return &p
}

// Advance runs one decision cycle: enter when flat and the decision agrees
// with the price/moving-average filter, exit when positioned and the moving
// average crosses the entry side. It blocks for the full duration of any
// order execution. The only error it returns is the context's.
func (t *Tracker) Advance(ctx context.Context, marketPrice, shortMA float64, decision types.Decision) error {
	if t.position == nil {
		switch {
		case decision == types.DecisionBuy && marketPrice > shortMA:
			return t.enter(ctx, types.Buy, marketPrice)
		case decision == types.DecisionSell && marketPrice < shortMA:
			return t.enter(ctx, types.Sell, marketPrice)
		}
		return nil
	}

	exit := (t.position.Side == types.Buy && marketPrice < shortMA) ||
		(t.position.Side == types.Sell && marketPrice > shortMA)
	if !exit {
		t.log.Info("holding_position",
			logger.String("side", string(t.position.Side)),
			logger.Float64("entry_price", t.position.EntryPrice),
			logger.Float64("market_price", marketPrice),
			logger.Float64("short_ma", shortMA),
		)
		return nil
	}
	return t.exit(ctx, marketPrice)
}

func (t *Tracker) enter(ctx context.Context, side types.Side, marketPrice float64) error {
	qty := t.quantity(ctx, marketPrice)
	t.log.Info("entering_position",
		logger.String("side", string(side)),
		logger.Float64("qty", qty),
		logger.Float64("market_price", marketPrice),
	)
	status, err := t.exec.Execute(ctx, t.cfg.Symbol, side, qty)
	if err != nil {
		return err
	}
	// Entry price is the quoted market price at decision time, not the fill
	// price; partial fills at a different level will skew it.
	t.position = &types.Position{Side: side, EntryPrice: marketPrice, Qty: qty}
	t.setPositionGauge()
	t.log.Info("position_opened",
		logger.String("side", string(side)),
		logger.Float64("entry_price", marketPrice),
		logger.String("fill_status", string(status)),
	)
	return nil
}

func (t *Tracker) exit(ctx context.Context, marketPrice float64) error {
	side := t.position.Side.Opposite()
	t.log.Info("exiting_position",
		logger.String("side", string(t.position.Side)),
		logger.Float64("entry_price", t.position.EntryPrice),
		logger.Float64("market_price", marketPrice),
	)
	status, err := t.exec.Execute(ctx, t.cfg.Symbol, side, t.position.Qty)
	if err != nil {
		return err
	}
	// Either terminal outcome flattens us; a partial exit fill leaves dust
	// the next entry will absorb.
	t.position = nil
	t.setPositionGauge()
	t.log.Info("position_closed",
		logger.Float64("market_price", marketPrice),
		logger.String("fill_status", string(status)),
	)
	return nil
}

// quantity sizes the next order: risk-based when configured and the balance
// is reachable, the fixed configured quantity otherwise.
func (t *Tracker) quantity(ctx context.Context, price float64) float64 {
	if t.cfg.MaxRiskPerTrade <= 0 || t.balance == nil {
		return t.cfg.Quantity
	}
	equity, err := t.balance.AvailableBalance(ctx)
	if err != nil {
		t.log.Warn("balance_fetch_failed", logger.Err(err))
		return t.cfg.Quantity
	}
	if qty := risk.CalcQty(equity, t.cfg.MaxRiskPerTrade, t.cfg.StopLossPct, price); qty > 0 {
		return qty
	}
	return t.cfg.Quantity
}

func (t *Tracker) setPositionGauge() {
	switch {
	case t.position == nil:
		metrics.PositionOpen.Set(0)
	case t.position.Side == types.Buy:
		metrics.PositionOpen.Set(1)
	default:
		metrics.PositionOpen.Set(-1)
	}
}
