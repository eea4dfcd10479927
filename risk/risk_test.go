package risk

import "testing"

func TestCalcQtyBasic(t *testing.T) {
	qty := CalcQty(10_000, 0.01, 0.015, 100) // risk $100, SL $1.5 => raw 66.66
	if qty != 66.66 {
		t.Fatalf("unexpected qty: %v", qty)
	}
}

func TestCalcQtyFloorsToTwoDecimals(t *testing.T) {
	qty := CalcQty(1000, 0.02, 0.03, 100) // raw qty 6.6666...
	if qty != 6.66 {
		t.Fatalf("expected 6.66, got %v", qty)
	}
}

func TestCalcQtyZeroStopLoss(t *testing.T) {
	if qty := CalcQty(10_000, 0.01, 0, 100); qty != 0 {
		t.Fatalf("expected 0 for zero stop-loss distance, got %v", qty)
	}
}

func TestCalcQtyZeroEquity(t *testing.T) {
	if qty := CalcQty(0, 0.01, 0.015, 100); qty != 0 {
		t.Fatalf("expected 0 for zero equity, got %v", qty)
	}
}
