package testutils

import (
	"context"

	"github.com/evdnx/gotrend/types"
)

// MockMarketData serves fixed price and moving-average values.
type MockMarketData struct {
	Price    float64
	MA       float64
	PriceErr error
	MAErr    error
}

func (m *MockMarketData) LastPrice(context.Context, string) (float64, error) {
	return m.Price, m.PriceErr
}

func (m *MockMarketData) MovingAverage(context.Context, string, string, int) (float64, error) {
	return m.MA, m.MAErr
}

// MockKlineSource serves a fixed kline history to signal providers.
type MockKlineSource struct {
	Bars []types.Kline
	Err  error
}

func (s *MockKlineSource) Klines(_ context.Context, _, _ string, limit int) ([]types.Kline, error) {
	if s.Err != nil {
		return nil, s.Err
	}
	if limit > 0 && len(s.Bars) > limit {
		return s.Bars[len(s.Bars)-limit:], nil
	}
	return s.Bars, nil
}
