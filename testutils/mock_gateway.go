package testutils

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/evdnx/gotrend/types"
)

// PlacedOrder records one accepted placement.
type PlacedOrder struct {
	Symbol        string
	Side          types.Side
	Qty           float64
	ClientOrderID string
}

// StatusStep scripts one OrderStatus response.
type StatusStep struct {
	Status types.OrderStatus
	Err    error
}

// MockGateway implements the executor's Gateway interface with scripted
// behavior: the first FailPlacements placements error out, OrderStatus
// consumes StatusScript one step per call and reports FILLED once the
// script is exhausted.
type MockGateway struct {
	mu sync.Mutex

	FailPlacements int
	FailCancels    int
	StatusScript   []StatusStep

	seq      int
	placed   []PlacedOrder
	canceled []string
}

func NewMockGateway() *MockGateway { return &MockGateway{} }

func (g *MockGateway) PlaceOrder(_ context.Context, symbol string, side types.Side, qty float64) (types.OrderResult, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.FailPlacements > 0 {
		g.FailPlacements--
		return types.OrderResult{}, errors.New("placement rejected")
	}
	g.seq++
	id := fmt.Sprintf("mock-%d", g.seq)
	g.placed = append(g.placed, PlacedOrder{Symbol: symbol, Side: side, Qty: qty, ClientOrderID: id})
	return types.OrderResult{ClientOrderID: id, OrderID: int64(g.seq), Status: types.StatusNew}, nil
}

func (g *MockGateway) CancelOrder(_ context.Context, clientOrderID, _ string) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.FailCancels > 0 {
		g.FailCancels--
		return errors.New("cancel rejected")
	}
	g.canceled = append(g.canceled, clientOrderID)
	return nil
}

func (g *MockGateway) OrderStatus(_ context.Context, _, _ string) (types.OrderStatus, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if len(g.StatusScript) == 0 {
		return types.StatusFilled, nil
	}
	step := g.StatusScript[0]
	g.StatusScript = g.StatusScript[1:]
	return step.Status, step.Err
}

// Placed returns a copy of every accepted placement.
func (g *MockGateway) Placed() []PlacedOrder {
	g.mu.Lock()
	defer g.mu.Unlock()
	out := make([]PlacedOrder, len(g.placed))
	copy(out, g.placed)
	return out
}

// Canceled returns the client order ids canceled so far.
func (g *MockGateway) Canceled() []string {
	g.mu.Lock()
	defer g.mu.Unlock()
	out := make([]string, len(g.canceled))
	copy(out, g.canceled)
	return out
}
