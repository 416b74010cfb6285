package domain

import "time"

// OrderStatus is the lifecycle state of an order on the exchange.
type OrderStatus string

const (
	OrderResting  OrderStatus = "resting"
	OrderPartial  OrderStatus = "partially_filled"
	OrderExecuted OrderStatus = "executed"
	OrderCanceled OrderStatus = "canceled"
	OrderExpired  OrderStatus = "expired"
)

// Order is an exchange order as reported by the exchange. The exchange
// is the source of truth; local copies are only a cache.
type Order struct {
	ID             string
	ClientID       string // idempotency key, assigned locally at placement
	Ticker         string
	Side           Side
	Action         string // "buy" | "sell"
	Status         OrderStatus
	PriceCents     int
	Count          int
	RemainingCount int
	CreatedAt      time.Time
}

// IsOpen reports whether the order can still fill.
func (o Order) IsOpen() bool {
	return o.Status == OrderResting || o.Status == OrderPartial
}

// Age returns how long the order has been on the book as seen at now.
func (o Order) Age(now time.Time) time.Duration {
	if o.CreatedAt.IsZero() {
		return 0
	}
	return now.Sub(o.CreatedAt)
}

// FindStaleOrders returns the open orders whose age strictly exceeds
// maxAge. An order at exactly maxAge is not yet stale.
func FindStaleOrders(orders []Order, now time.Time, maxAge time.Duration) []Order {
	var stale []Order
	for _, o := range orders {
		if !o.IsOpen() {
			continue
		}
		if o.Age(now) > maxAge {
			stale = append(stale, o)
		}
	}
	return stale
}

// OrderRequest is a new limit order to be placed on the exchange.
type OrderRequest struct {
	Ticker     string
	Side       Side
	Action     string // always "buy" for entries
	Count      int
	PriceCents int
	ClientID   string
}

// Position is an open position as reported by the exchange, enriched
// with the current mark for unrealized PnL.
type Position struct {
	Ticker        string
	Side          Side
	Quantity      int
	AvgPriceCents float64 // average entry price per contract
	MarkCents     int     // current bid of the held side
}

// UnrealizedPnL returns the dollar PnL of the position at the mark.
func (p Position) UnrealizedPnL() float64 {
	return float64(p.Quantity) * (float64(p.MarkCents) - p.AvgPriceCents) / 100.0
}

// LossFraction returns the unrealized loss as a fraction of cost basis.
// Positions at or above cost return 0.
func (p Position) LossFraction() float64 {
	cost := float64(p.Quantity) * p.AvgPriceCents / 100.0
	if cost <= 0 {
		return 0
	}
	pnl := p.UnrealizedPnL()
	if pnl >= 0 {
		return 0
	}
	return -pnl / cost
}

// AccountSnapshot is one consistent view of the account fetched from
// the exchange at FetchedAt.
type AccountSnapshot struct {
	Cash        float64 // available dollars
	Equity      float64 // cash + market value of positions
	RealizedPnL float64 // cumulative realized PnL in dollars
	Positions   []Position
	Orders      []Order // open orders
	FetchedAt   time.Time
}

// Stale reports whether the snapshot is older than maxAge as seen at now.
func (s AccountSnapshot) Stale(now time.Time, maxAge time.Duration) bool {
	if s.FetchedAt.IsZero() {
		return true
	}
	return now.Sub(s.FetchedAt) > maxAge
}

// View projects the snapshot into the working view used by the sizer.
func (s AccountSnapshot) View() AccountView {
	return AccountView{
		Cash:          s.Cash,
		Equity:        s.Equity,
		OpenPositions: len(s.Positions),
	}
}
