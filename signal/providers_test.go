package signal

import (
	"context"
	"errors"
	"testing"

	"github.com/evdnx/gotrend/testutils"
	"github.com/evdnx/gotrend/types"
)

func trendBars(start, step float64, n int) []types.Kline {
	out := make([]types.Kline, n)
	c := start
	for i := range out {
		out[i] = types.Kline{High: c + 0.5, Low: c - 0.5, Close: c, Volume: 1000}
		c += step
	}
	return out
}

func TestEMAProviderFollowsTrend(t *testing.T) {
	src := &testutils.MockKlineSource{Bars: trendBars(100, 1, 20)}
	p := &EMA{Source: src}
	sig, err := p.Evaluate(context.Background(), "BTCUSDT", "1m")
	if err != nil {
		t.Fatalf("evaluate failed: %v", err)
	}
	if sig != types.Long {
		t.Fatalf("rising trend: sig = %d, want long", sig)
	}

	src.Bars = trendBars(100, -1, 20)
	sig, err = p.Evaluate(context.Background(), "BTCUSDT", "1m")
	if err != nil {
		t.Fatalf("evaluate failed: %v", err)
	}
	if sig != types.Short {
		t.Fatalf("falling trend: sig = %d, want short", sig)
	}
}

func TestProvidersTreatShortHistoryAsNeutral(t *testing.T) {
	src := &testutils.MockKlineSource{Bars: trendBars(100, 1, 2)}
	providers := []Provider{
		&ADX{Source: src},
		&EMA{Source: src},
		&Bollinger{Source: src},
		&ATR{Source: src},
		&MACD{Source: src},
	}
	for _, p := range providers {
		sig, err := p.Evaluate(context.Background(), "BTCUSDT", "1m")
		if err != nil {
			t.Errorf("%s: unexpected error %v", p.Name(), err)
		}
		if sig != types.Neutral {
			t.Errorf("%s: sig = %d, want neutral on short history", p.Name(), sig)
		}
	}
}

func TestProvidersPropagateFetchErrors(t *testing.T) {
	src := &testutils.MockKlineSource{Err: errors.New("connection reset")}
	p := &MACD{Source: src}
	sig, err := p.Evaluate(context.Background(), "BTCUSDT", "1m")
	if err == nil {
		t.Fatal("expected fetch error to propagate")
	}
	if sig != types.Neutral {
		t.Fatalf("sig = %d, want neutral alongside error", sig)
	}
}

func TestRSIProviderNeutralWhileWarmingUp(t *testing.T) {
	// Two bars is far below any RSI warm-up window.
	src := &testutils.MockKlineSource{Bars: trendBars(100, 1, 2)}
	p := &RSI{Source: src, Overbought: 70, Oversold: 30}
	sig, err := p.Evaluate(context.Background(), "BTCUSDT", "1m")
	if err != nil {
		t.Fatalf("evaluate failed: %v", err)
	}
	if sig != types.Neutral {
		t.Fatalf("sig = %d, want neutral while warming up", sig)
	}
}

type stubProvider struct {
	name string
	sig  types.Signal
	err  error
}

func (s *stubProvider) Name() string { return s.name }
func (s *stubProvider) Evaluate(context.Context, string, string) (types.Signal, error) {
	return s.sig, s.err
}

func TestCollectFillsEverySlot(t *testing.T) {
	p := Providers{
		ADX:       &stubProvider{name: "adx", sig: types.Long},
		EMA:       &stubProvider{name: "ema", sig: types.Long},
		Bollinger: &stubProvider{name: "bollinger", sig: types.Neutral},
		ATR:       &stubProvider{name: "atr", sig: types.Short},
		MACD:      &stubProvider{name: "macd", sig: types.Short},
		RSI:       &stubProvider{name: "rsi", sig: types.Long},
	}
	set := Collect(context.Background(), p, "BTCUSDT", "1m", testutils.NewMockLogger())
	want := Set{
		ADX: types.Long, EMA: types.Long, Bollinger: types.Neutral,
		ATR: types.Short, MACD: types.Short, RSI: types.Long,
	}
	if set != want {
		t.Fatalf("set = %+v, want %+v", set, want)
	}
}

func TestCollectErroredProviderReadsNeutral(t *testing.T) {
	log := testutils.NewMockLogger()
	p := Providers{
		ADX: &stubProvider{name: "adx", sig: types.Long},
		EMA: &stubProvider{name: "ema", sig: types.Long, err: errors.New("timeout")},
	}
	set := Collect(context.Background(), p, "BTCUSDT", "1m", log)
	if set.ADX != types.Long {
		t.Errorf("adx = %d, want long", set.ADX)
	}
	if set.EMA != types.Neutral {
		t.Errorf("errored provider reads %d, want neutral", set.EMA)
	}
	found := false
	for _, msg := range log.Messages() {
		if msg == "signal_fetch_failed" {
			found = true
		}
	}
	if !found {
		t.Error("expected a signal_fetch_failed warning")
	}
}
