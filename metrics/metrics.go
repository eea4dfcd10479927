package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	CyclesTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "gotrend_cycles_total",
			Help: "Total number of completed decision cycles.",
		},
	)

	SignalValue = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "gotrend_signal_value",
			Help: "Latest directional signal per strategy (-1, 0, +1).",
		},
		[]string{"strategy"},
	)

	WeightedSum = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "gotrend_weighted_sum",
			Help: "Latest weighted sum of all strategy signals.",
		},
	)

	OrdersSubmitted = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "gotrend_orders_submitted_total",
			Help: "Total number of order placements accepted by the exchange (by side).",
		},
		[]string{"side"},
	)

	SubmitRetries = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "gotrend_submit_retries_total",
			Help: "Total number of failed placement attempts that were retried.",
		},
	)

	OrdersCanceled = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "gotrend_orders_canceled_total",
			Help: "Total number of resting orders canceled before resubmission.",
		},
	)

	PositionOpen = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "gotrend_position_open",
			Help: "Current position direction (+1 long, -1 short, 0 flat).",
		},
	)
)

func init() {
	prometheus.MustRegister(
		CyclesTotal, SignalValue, WeightedSum,
		OrdersSubmitted, SubmitRetries, OrdersCanceled, PositionOpen,
	)
}

// Serve exposes /metrics on the supplied address in a background goroutine.
func Serve(addr string) *http.Server {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	srv := &http.Server{Addr: addr, Handler: mux}
	go func() { _ = srv.ListenAndServe() }()
	return srv
}
