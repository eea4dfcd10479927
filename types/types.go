package types

type Side string

const (
	Buy  Side = "BUY"
	Sell Side = "SELL"
)

// Opposite returns the side that flattens an exposure opened with s.
func (s Side) Opposite() Side {
	if s == Buy {
		return Sell
	}
	return Buy
}

// Signal is a discrete directional opinion from one strategy.
type Signal int

const (
	Short   Signal = -1
	Neutral Signal = 0
	Long    Signal = 1
)

// Decision is the ternary classification of the weighted signal combination.
type Decision string

const (
	DecisionBuy  Decision = "BUY"
	DecisionSell Decision = "SELL"
	DecisionNone Decision = "NO_SIGNAL"
)

type OrderStatus string

const (
	StatusNew             OrderStatus = "NEW"
	StatusPartiallyFilled OrderStatus = "PARTIALLY_FILLED"
	StatusFilled          OrderStatus = "FILLED"
	StatusCanceled        OrderStatus = "CANCELED"
	StatusExpired         OrderStatus = "EXPIRED"
)

// Terminal reports whether the status is a satisfactory end state for an
// execution attempt. A partial fill counts - the engine does not wait for
// the remainder.
func (s OrderStatus) Terminal() bool {
	return s == StatusFilled || s == StatusPartiallyFilled
}

// OrderResult is the exchange's acknowledgement of a placed order.
type OrderResult struct {
	ClientOrderID string
	OrderID       int64
	Status        OrderStatus
	Price         float64
	ExecutedQty   float64
}

// Kline is one completed candle.
type Kline struct {
	OpenTime int64 // ms since epoch
	Open     float64
	High     float64
	Low      float64
	Close    float64
	Volume   float64
}

// Position is the agent's current open exposure. At most one exists at a
// time; nil means flat.
type Position struct {
	Side       Side
	EntryPrice float64
	Qty        float64
}
