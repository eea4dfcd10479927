package testutils

import (
	"context"
	"sync"

	"github.com/evdnx/gotrend/types"
)

// ExecutedOrder records one Execute invocation for assertions.
type ExecutedOrder struct {
	Symbol string
	Side   types.Side
	Qty    float64
}

// MockOrderExecutor implements the tracker's OrderExecutor interface
// in-memory, returning a scripted outcome instead of talking to an exchange.
type MockOrderExecutor struct {
	mu       sync.Mutex
	Outcome  types.OrderStatus // zero value means FILLED
	Err      error
	executed []ExecutedOrder
}

// NewMockOrderExecutor returns an executor whose every order fills.
func NewMockOrderExecutor() *MockOrderExecutor { return &MockOrderExecutor{} }

// Execute records the order and returns the scripted outcome.
func (m *MockOrderExecutor) Execute(_ context.Context, symbol string, side types.Side, qty float64) (types.OrderStatus, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return "", m.Err
	}
	m.executed = append(m.executed, ExecutedOrder{Symbol: symbol, Side: side, Qty: qty})
	if m.Outcome == "" {
		return types.StatusFilled, nil
	}
	return m.Outcome, nil
}

// Executed returns a copy of all executed orders (useful for assertions).
func (m *MockOrderExecutor) Executed() []ExecutedOrder {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]ExecutedOrder, len(m.executed))
	copy(out, m.executed)
	return out
}
