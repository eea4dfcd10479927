package tracker

import (
	"context"
	"errors"
	"testing"

	"github.com/evdnx/gotrend/config"
	"github.com/evdnx/gotrend/testutils"
	"github.com/evdnx/gotrend/types"
)

func newTestTracker() (*Tracker, *testutils.MockOrderExecutor) {
	exec := testutils.NewMockOrderExecutor()
	tr := New(config.Default(), exec, nil, testutils.NewMockLogger())
	return tr, exec
}

func TestAdvance_EntersLongWhenBuyAboveMA(t *testing.T) {
	tr, exec := newTestTracker()

	if err := tr.Advance(context.Background(), 100, 98, types.DecisionBuy); err != nil {
		t.Fatalf("advance failed: %v", err)
	}
	pos := tr.Position()
	if pos == nil || pos.Side != types.Buy || pos.EntryPrice != 100 {
		t.Fatalf("unexpected position: %+v", pos)
	}
	orders := exec.Executed()
	if len(orders) != 1 || orders[0].Side != types.Buy || orders[0].Qty != 0.06 {
		t.Fatalf("unexpected orders: %+v", orders)
	}
}

func TestAdvance_EntersShortWhenSellBelowMA(t *testing.T) {
	tr, exec := newTestTracker()

	if err := tr.Advance(context.Background(), 96, 98, types.DecisionSell); err != nil {
		t.Fatalf("advance failed: %v", err)
	}
	pos := tr.Position()
	if pos == nil || pos.Side != types.Sell || pos.EntryPrice != 96 {
		t.Fatalf("unexpected position: %+v", pos)
	}
	if orders := exec.Executed(); len(orders) != 1 || orders[0].Side != types.Sell {
		t.Fatalf("unexpected orders: %+v", orders)
	}
}

func TestAdvance_FilterDisagreementBlocksEntry(t *testing.T) {
	tr, exec := newTestTracker()

	// BUY below the moving average and SELL above it must both stay flat.
	if err := tr.Advance(context.Background(), 97, 98, types.DecisionBuy); err != nil {
		t.Fatalf("advance failed: %v", err)
	}
	if err := tr.Advance(context.Background(), 99, 98, types.DecisionSell); err != nil {
		t.Fatalf("advance failed: %v", err)
	}
	if tr.Position() != nil {
		t.Fatalf("expected flat, got %+v", tr.Position())
	}
	if orders := exec.Executed(); len(orders) != 0 {
		t.Fatalf("expected no orders, got %+v", orders)
	}
}

func TestAdvance_NoSignalStaysFlat(t *testing.T) {
	tr, exec := newTestTracker()

	if err := tr.Advance(context.Background(), 100, 98, types.DecisionNone); err != nil {
		t.Fatalf("advance failed: %v", err)
	}
	if tr.Position() != nil || len(exec.Executed()) != 0 {
		t.Fatalf("NO_SIGNAL must not trade")
	}
}

func TestAdvance_ExitsLongOnMACross(t *testing.T) {
	tr, exec := newTestTracker()

	// Cycle 1: enter long at 100 with MA at 98.
	if err := tr.Advance(context.Background(), 100, 98, types.DecisionBuy); err != nil {
		t.Fatalf("advance failed: %v", err)
	}
	// Cycle 2: price fell below the MA → flatten, whatever the decision says.
	if err := tr.Advance(context.Background(), 97, 98, types.DecisionBuy); err != nil {
		t.Fatalf("advance failed: %v", err)
	}
	if tr.Position() != nil {
		t.Fatalf("expected flat after exit, got %+v", tr.Position())
	}
	orders := exec.Executed()
	if len(orders) != 2 {
		t.Fatalf("expected entry+exit, got %+v", orders)
	}
	if orders[1].Side != types.Sell || orders[1].Qty != orders[0].Qty {
		t.Fatalf("exit must mirror the entry quantity on the opposite side: %+v", orders)
	}
}

func TestAdvance_ExitsShortOnMACross(t *testing.T) {
	tr, exec := newTestTracker()

	if err := tr.Advance(context.Background(), 96, 98, types.DecisionSell); err != nil {
		t.Fatalf("advance failed: %v", err)
	}
	if err := tr.Advance(context.Background(), 99, 98, types.DecisionNone); err != nil {
		t.Fatalf("advance failed: %v", err)
	}
	if tr.Position() != nil {
		t.Fatalf("expected flat after exit, got %+v", tr.Position())
	}
	if orders := exec.Executed(); len(orders) != 2 || orders[1].Side != types.Buy {
		t.Fatalf("unexpected orders: %+v", orders)
	}
}

func TestAdvance_NeverHoldsTwoPositions(t *testing.T) {
	tr, exec := newTestTracker()

	if err := tr.Advance(context.Background(), 100, 98, types.DecisionBuy); err != nil {
		t.Fatalf("advance failed: %v", err)
	}
	// Repeated BUY cycles above the MA hold the existing position.
	for i := 0; i < 5; i++ {
		if err := tr.Advance(context.Background(), 101, 98, types.DecisionBuy); err != nil {
			t.Fatalf("advance failed: %v", err)
		}
	}
	if orders := exec.Executed(); len(orders) != 1 {
		t.Fatalf("expected a single entry order, got %+v", orders)
	}
}

func TestAdvance_NeverReversesInOneCycle(t *testing.T) {
	tr, exec := newTestTracker()

	if err := tr.Advance(context.Background(), 100, 98, types.DecisionBuy); err != nil {
		t.Fatalf("advance failed: %v", err)
	}
	// Price below MA with a SELL decision: the cycle only flattens; the
	// short entry has to wait for the next cycle.
	if err := tr.Advance(context.Background(), 96, 98, types.DecisionSell); err != nil {
		t.Fatalf("advance failed: %v", err)
	}
	if tr.Position() != nil {
		t.Fatalf("expected flat after exit cycle, got %+v", tr.Position())
	}
	if orders := exec.Executed(); len(orders) != 2 {
		t.Fatalf("reversal must take two cycles, got %+v", orders)
	}
	// Next cycle may now enter short.
	if err := tr.Advance(context.Background(), 96, 98, types.DecisionSell); err != nil {
		t.Fatalf("advance failed: %v", err)
	}
	if pos := tr.Position(); pos == nil || pos.Side != types.Sell {
		t.Fatalf("expected short after the follow-up cycle, got %+v", pos)
	}
}

func TestAdvance_PartialFillStillClearsPosition(t *testing.T) {
	tr, exec := newTestTracker()
	exec.Outcome = types.StatusPartiallyFilled

	if err := tr.Advance(context.Background(), 100, 98, types.DecisionBuy); err != nil {
		t.Fatalf("advance failed: %v", err)
	}
	if err := tr.Advance(context.Background(), 97, 98, types.DecisionNone); err != nil {
		t.Fatalf("advance failed: %v", err)
	}
	if tr.Position() != nil {
		t.Fatalf("partial exit fill must still clear the position")
	}
}

type staticBalance struct {
	equity float64
	err    error
}

func (b staticBalance) AvailableBalance(context.Context) (float64, error) {
	return b.equity, b.err
}

func TestQuantity_RiskSizingWhenConfigured(t *testing.T) {
	cfg := config.Default()
	cfg.MaxRiskPerTrade = 0.01
	cfg.StopLossPct = 0.015
	exec := testutils.NewMockOrderExecutor()
	tr := New(cfg, exec, staticBalance{equity: 10_000}, testutils.NewMockLogger())

	if err := tr.Advance(context.Background(), 100, 98, types.DecisionBuy); err != nil {
		t.Fatalf("advance failed: %v", err)
	}
	orders := exec.Executed()
	// risk $100 against a $1.50 stop distance → 66.66 after flooring.
	if len(orders) != 1 || orders[0].Qty != 66.66 {
		t.Fatalf("unexpected risk-sized orders: %+v", orders)
	}
}

func TestQuantity_FallsBackToFixedOnBalanceError(t *testing.T) {
	cfg := config.Default()
	cfg.MaxRiskPerTrade = 0.01
	cfg.StopLossPct = 0.015
	exec := testutils.NewMockOrderExecutor()
	tr := New(cfg, exec, staticBalance{err: errors.New("balance unavailable")}, testutils.NewMockLogger())

	if err := tr.Advance(context.Background(), 100, 98, types.DecisionBuy); err != nil {
		t.Fatalf("advance failed: %v", err)
	}
	if orders := exec.Executed(); len(orders) != 1 || orders[0].Qty != cfg.Quantity {
		t.Fatalf("expected fixed-quantity fallback, got %+v", orders)
	}
}
