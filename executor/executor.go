// Package executor drives a single order from submission to a terminal
// outcome, absorbing every transient exchange failure along the way.
package executor

import (
	"context"
	"time"

	"github.com/evdnx/gotrend/logger"
	"github.com/evdnx/gotrend/metrics"
	"github.com/evdnx/gotrend/types"
)

// Gateway is the narrow order surface of the exchange.
type Gateway interface {
	PlaceOrder(ctx context.Context, symbol string, side types.Side, qty float64) (types.OrderResult, error)
	CancelOrder(ctx context.Context, clientOrderID, symbol string) error
	OrderStatus(ctx context.Context, clientOrderID, symbol string) (types.OrderStatus, error)
}

// Engine implements the place → monitor → cancel-and-retry state machine.
// Execute never reports an exchange failure to its caller: every failure is
// retried until the order reaches FILLED or PARTIALLY_FILLED, or the context
// is canceled.
type Engine struct {
	gw  Gateway
	log logger.Logger

	submitRetryDelay   time.Duration
	statusPollInterval time.Duration
}

// New builds an engine. Non-positive intervals fall back to the production
// defaults (5s submit backoff, 60s status poll).
func New(gw Gateway, log logger.Logger, submitRetryDelay, statusPollInterval time.Duration) *Engine {
	if submitRetryDelay <= 0 {
		submitRetryDelay = 5 * time.Second
	}
	if statusPollInterval <= 0 {
		statusPollInterval = time.Minute
	}
	return &Engine{
		gw:                 gw,
		log:                log,
		submitRetryDelay:   submitRetryDelay,
		statusPollInterval: statusPollInterval,
	}
}

// Execute places an order and drives it to a terminal status. The only error
// it can return is the context's, at which point the returned status is
// empty and the in-flight order (if any) is left to the exchange.
func (e *Engine) Execute(ctx context.Context, symbol string, side types.Side, qty float64) (types.OrderStatus, error) {
	for {
		res, err := e.gw.PlaceOrder(ctx, symbol, side, qty)
		if err != nil || res.ClientOrderID == "" {
			// Submission failure is always transient here; back off and retry.
			metrics.SubmitRetries.Inc()
			e.log.Warn("order_submit_failed",
				logger.String("symbol", symbol),
				logger.String("side", string(side)),
				logger.Err(err),
			)
			if err := sleep(ctx, e.submitRetryDelay); err != nil {
				return "", err
			}
			continue
		}
		metrics.OrdersSubmitted.WithLabelValues(string(side)).Inc()

		status, err := e.monitor(ctx, res.ClientOrderID, symbol)
		if err != nil {
			return "", err
		}
		if status.Terminal() {
			e.log.Info("order_done",
				logger.String("symbol", symbol),
				logger.String("side", string(side)),
				logger.Float64("qty", qty),
				logger.String("status", string(status)),
			)
			return status, nil
		}
		// The resting order was canceled (by us or by the exchange); go
		// around and resubmit with a fresh client order id.
	}
}

// monitor polls the order until it fills, or cancels it when it is still
// resting after a full poll interval. A non-terminal return means the caller
// should resubmit.
func (e *Engine) monitor(ctx context.Context, clientOrderID, symbol string) (types.OrderStatus, error) {
	for {
		if err := sleep(ctx, e.statusPollInterval); err != nil {
			return "", err
		}
		status, err := e.gw.OrderStatus(ctx, clientOrderID, symbol)
		if err != nil {
			e.log.Warn("order_status_failed",
				logger.String("client_order_id", clientOrderID),
				logger.Err(err),
			)
			continue
		}
		switch status {
		case types.StatusFilled, types.StatusPartiallyFilled:
			return status, nil
		case types.StatusNew:
			// Still resting, priced away from the market. Cancel and let the
			// caller re-enter from scratch. A failed cancel just means we
			// poll again next interval.
			if err := e.gw.CancelOrder(ctx, clientOrderID, symbol); err != nil {
				e.log.Warn("order_cancel_failed",
					logger.String("client_order_id", clientOrderID),
					logger.Err(err),
				)
				continue
			}
			metrics.OrdersCanceled.Inc()
			return types.StatusCanceled, nil
		case types.StatusCanceled, types.StatusExpired:
			// Already dead on the exchange side; resubmit directly.
			return status, nil
		default:
			e.log.Warn("order_status_unknown",
				logger.String("client_order_id", clientOrderID),
				logger.String("status", string(status)),
			)
		}
	}
}

// sleep waits for d or until the context is canceled.
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
