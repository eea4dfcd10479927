// Package binance implements the USD-M futures REST gateway the bot trades
// through: market data (klines, ticker) plus signed order placement, lookup
// and cancellation.
package binance

import (
	"bytes"
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/shopspring/decimal"

	"github.com/evdnx/gotrend/indicator"
	"github.com/evdnx/gotrend/logger"
	"github.com/evdnx/gotrend/types"
)

const (
	mainnetBaseURL = "https://fapi.binance.com"
	testnetBaseURL = "https://testnet.binancefuture.com"

	// quoteAsset is the margin asset balances are reported in.
	quoteAsset = "USDT"
)

// Client talks to the Binance futures REST API. All methods are safe for
// sequential use from a single goroutine, which is how the bot drives them.
type Client struct {
	httpClient *http.Client
	baseURL    string
	apiKey     string
	apiSecret  string
	recvWindow time.Duration
	log        logger.Logger
}

// Option customizes a Client.
type Option func(*Client)

// WithBaseURL points the client at a different endpoint (testnet, httptest).
func WithBaseURL(u string) Option {
	return func(c *Client) { c.baseURL = u }
}

// WithTestnet switches to the public futures testnet.
func WithTestnet() Option {
	return func(c *Client) { c.baseURL = testnetBaseURL }
}

// WithHTTPClient swaps the underlying HTTP client.
func WithHTTPClient(h *http.Client) Option {
	return func(c *Client) { c.httpClient = h }
}

// WithRecvWindow bounds how stale a signed request may be before the
// exchange rejects it.
func WithRecvWindow(d time.Duration) Option {
	return func(c *Client) { c.recvWindow = d }
}

// New builds a client for the production endpoint.
func New(apiKey, apiSecret string, log logger.Logger, opts ...Option) *Client {
	c := &Client{
		httpClient: &http.Client{Timeout: 15 * time.Second},
		baseURL:    mainnetBaseURL,
		apiKey:     apiKey,
		apiSecret:  apiSecret,
		recvWindow: 5 * time.Second,
		log:        log,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// sign returns the hex-encoded HMAC-SHA256 of the canonical query string.
func (c *Client) sign(query string) string {
	mac := hmac.New(sha256.New, []byte(c.apiSecret))
	mac.Write([]byte(query))
	return hex.EncodeToString(mac.Sum(nil))
}

// signedQuery stamps the params with timestamp/recvWindow and appends the
// signature over the encoded query string.
func (c *Client) signedQuery(params url.Values) string {
	params.Set("timestamp", strconv.FormatInt(time.Now().UnixMilli(), 10))
	params.Set("recvWindow", strconv.FormatInt(c.recvWindow.Milliseconds(), 10))
	query := params.Encode()
	return query + "&signature=" + c.sign(query)
}

func (c *Client) do(ctx context.Context, method, path, rawQuery string, signed bool) ([]byte, error) {
	u := c.baseURL + path
	if rawQuery != "" {
		u += "?" + rawQuery
	}
	req, err := http.NewRequestWithContext(ctx, method, u, nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	if signed {
		req.Header.Set("X-MBX-APIKEY", c.apiKey)
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}
	if resp.StatusCode >= http.StatusBadRequest {
		return nil, fmt.Errorf("%s %s: status %d: %s", method, path, resp.StatusCode, bytes.TrimSpace(body))
	}
	return body, nil
}

// Klines fetches up to limit completed candles for symbol/interval.
func (c *Client) Klines(ctx context.Context, symbol, interval string, limit int) ([]types.Kline, error) {
	params := url.Values{}
	params.Set("symbol", symbol)
	params.Set("interval", interval)
	params.Set("limit", strconv.Itoa(limit))

	body, err := c.do(ctx, http.MethodGet, "/fapi/v1/klines", params.Encode(), false)
	if err != nil {
		return nil, err
	}

	var rows [][]json.RawMessage
	if err := json.Unmarshal(body, &rows); err != nil {
		return nil, fmt.Errorf("decode klines: %w", err)
	}
	klines := make([]types.Kline, 0, len(rows))
	for _, row := range rows {
		k, err := parseKline(row)
		if err != nil {
			return nil, err
		}
		klines = append(klines, k)
	}
	return klines, nil
}

// parseKline decodes one kline row. The exchange encodes the open time as a
// number and every price field as a string.
func parseKline(row []json.RawMessage) (types.Kline, error) {
	if len(row) < 6 {
		return types.Kline{}, fmt.Errorf("kline row has %d fields, want at least 6", len(row))
	}
	var k types.Kline
	if err := json.Unmarshal(row[0], &k.OpenTime); err != nil {
		return types.Kline{}, fmt.Errorf("decode kline open time: %w", err)
	}
	for i, dst := range []*float64{&k.Open, &k.High, &k.Low, &k.Close, &k.Volume} {
		var s string
		if err := json.Unmarshal(row[i+1], &s); err != nil {
			return types.Kline{}, fmt.Errorf("decode kline field %d: %w", i+1, err)
		}
		v, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return types.Kline{}, fmt.Errorf("parse kline field %d: %w", i+1, err)
		}
		*dst = v
	}
	return k, nil
}

// LastPrice returns the last traded price for symbol.
func (c *Client) LastPrice(ctx context.Context, symbol string) (float64, error) {
	params := url.Values{}
	params.Set("symbol", symbol)
	body, err := c.do(ctx, http.MethodGet, "/fapi/v1/ticker/price", params.Encode(), false)
	if err != nil {
		return 0, err
	}
	var out struct {
		Price string `json:"price"`
	}
	if err := json.Unmarshal(body, &out); err != nil {
		return 0, fmt.Errorf("decode ticker: %w", err)
	}
	price, err := strconv.ParseFloat(out.Price, 64)
	if err != nil {
		return 0, fmt.Errorf("parse ticker price: %w", err)
	}
	return price, nil
}

// MovingAverage returns the arithmetic mean of the closes of the most recent
// period completed intervals.
func (c *Client) MovingAverage(ctx context.Context, symbol, interval string, period int) (float64, error) {
	klines, err := c.Klines(ctx, symbol, interval, period)
	if err != nil {
		return 0, err
	}
	data := make([]float64, len(klines))
	for i, k := range klines {
		data[i] = k.Close
	}
	ma, err := indicator.SMA(data, period)
	if err != nil {
		return 0, fmt.Errorf("moving average over %d klines: %w", len(klines), err)
	}
	return ma, nil
}

type orderResponse struct {
	ClientOrderID string `json:"clientOrderId"`
	OrderID       int64  `json:"orderId"`
	Status        string `json:"status"`
	Price         string `json:"price"`
	ExecutedQty   string `json:"executedQty"`
}

func (r orderResponse) result() types.OrderResult {
	res := types.OrderResult{
		ClientOrderID: r.ClientOrderID,
		OrderID:       r.OrderID,
		Status:        types.OrderStatus(r.Status),
	}
	if v, err := decimal.NewFromString(r.Price); err == nil {
		res.Price = v.InexactFloat64()
	}
	if v, err := decimal.NewFromString(r.ExecutedQty); err == nil {
		res.ExecutedQty = v.InexactFloat64()
	}
	return res
}

// PlaceOrder submits a GTC limit order price-matched to the head of the book
// (priceMatch=QUEUE) so the bot earns maker fees instead of crossing the
// spread.
func (c *Client) PlaceOrder(ctx context.Context, symbol string, side types.Side, qty float64) (types.OrderResult, error) {
	params := url.Values{}
	params.Set("symbol", symbol)
	params.Set("side", string(side))
	params.Set("type", "LIMIT")
	params.Set("timeInForce", "GTC")
	params.Set("quantity", decimal.NewFromFloat(qty).String())
	params.Set("priceMatch", "QUEUE")

	body, err := c.do(ctx, http.MethodPost, "/fapi/v1/order", c.signedQuery(params), true)
	if err != nil {
		return types.OrderResult{}, err
	}
	var out orderResponse
	if err := json.Unmarshal(body, &out); err != nil {
		return types.OrderResult{}, fmt.Errorf("decode order response: %w", err)
	}
	res := out.result()
	c.log.Info("order_placed",
		logger.String("symbol", symbol),
		logger.String("side", string(side)),
		logger.Float64("qty", qty),
		logger.String("client_order_id", res.ClientOrderID),
		logger.String("status", string(res.Status)),
	)
	return res, nil
}

// CancelOrder cancels a resting order by its client-assigned identifier.
func (c *Client) CancelOrder(ctx context.Context, clientOrderID, symbol string) error {
	params := url.Values{}
	params.Set("symbol", symbol)
	params.Set("origClientOrderId", clientOrderID)

	_, err := c.do(ctx, http.MethodDelete, "/fapi/v1/order", c.signedQuery(params), true)
	if err != nil {
		return err
	}
	c.log.Info("order_canceled",
		logger.String("symbol", symbol),
		logger.String("client_order_id", clientOrderID),
	)
	return nil
}

// OrderStatus looks up the current status of an order by its client-assigned
// identifier.
func (c *Client) OrderStatus(ctx context.Context, clientOrderID, symbol string) (types.OrderStatus, error) {
	params := url.Values{}
	params.Set("symbol", symbol)
	params.Set("origClientOrderId", clientOrderID)

	body, err := c.do(ctx, http.MethodGet, "/fapi/v1/order", c.signedQuery(params), true)
	if err != nil {
		return "", err
	}
	var out orderResponse
	if err := json.Unmarshal(body, &out); err != nil {
		return "", fmt.Errorf("decode order response: %w", err)
	}
	return types.OrderStatus(out.Status), nil
}

// AvailableBalance returns the free margin balance in the quote asset.
func (c *Client) AvailableBalance(ctx context.Context) (float64, error) {
	body, err := c.do(ctx, http.MethodGet, "/fapi/v2/balance", c.signedQuery(url.Values{}), true)
	if err != nil {
		return 0, err
	}
	var out []struct {
		Asset            string `json:"asset"`
		AvailableBalance string `json:"availableBalance"`
	}
	if err := json.Unmarshal(body, &out); err != nil {
		return 0, fmt.Errorf("decode balance: %w", err)
	}
	for _, b := range out {
		if b.Asset == quoteAsset {
			v, err := decimal.NewFromString(b.AvailableBalance)
			if err != nil {
				return 0, fmt.Errorf("parse balance: %w", err)
			}
			return v.InexactFloat64(), nil
		}
	}
	return 0, fmt.Errorf("no %s balance in response", quoteAsset)
}
