package kalshi

// DTOs raw del API de Kalshi. Todos los precios vienen en centavos
// enteros. La conversión a domain entities se hace en mapping.go.

type marketDTO struct {
	Ticker       string `json:"ticker"`
	EventTicker  string `json:"event_ticker"`
	Title        string `json:"title"`
	Status       string `json:"status"`
	YesBid       int    `json:"yes_bid"`
	YesAsk       int    `json:"yes_ask"`
	NoBid        int    `json:"no_bid"`
	NoAsk        int    `json:"no_ask"`
	LastPrice    int    `json:"last_price"`
	Volume       int64  `json:"volume"`
	Volume24h    int64  `json:"volume_24h"`
	Liquidity    int64  `json:"liquidity"`
	OpenInterest int64  `json:"open_interest"`
	CloseTime    string `json:"close_time"`
}

type marketsResponse struct {
	Markets []marketDTO `json:"markets"`
	Cursor  string      `json:"cursor"`
}

type balanceResponse struct {
	// Balance es el cash disponible en centavos.
	Balance int64 `json:"balance"`
	// PortfolioValue es el valor de las posiciones abiertas en centavos.
	PortfolioValue int64 `json:"portfolio_value"`
}

type positionDTO struct {
	Ticker string `json:"ticker"`
	// Position es la cantidad de contratos con signo:
	// positivo = YES, negativo = NO.
	Position int `json:"position"`
	// MarketExposure es el valor actual de la posición en centavos.
	MarketExposure int64 `json:"market_exposure"`
	// TotalTraded es el costo acumulado en centavos.
	TotalTraded int64 `json:"total_traded"`
	// RealizedPnL viene en centi-centavos: dividir por 10000 da dólares.
	RealizedPnL int64 `json:"realized_pnl"`
}

type positionsResponse struct {
	MarketPositions []positionDTO `json:"market_positions"`
	Cursor          string        `json:"cursor"`
}

type orderDTO struct {
	OrderID        string `json:"order_id"`
	ClientOrderID  string `json:"client_order_id"`
	Ticker         string `json:"ticker"`
	Side           string `json:"side"`   // "yes" | "no"
	Action         string `json:"action"` // "buy" | "sell"
	Status         string `json:"status"` // "resting" | "canceled" | "executed"
	YesPrice       int    `json:"yes_price"`
	NoPrice        int    `json:"no_price"`
	InitialCount   int    `json:"initial_count"`
	RemainingCount int    `json:"remaining_count"`
	CreatedTime    string `json:"created_time"`
}

type ordersResponse struct {
	Orders []orderDTO `json:"orders"`
	Cursor string     `json:"cursor"`
}

type orderResponse struct {
	Order orderDTO `json:"order"`
}

type createOrderRequest struct {
	Ticker        string `json:"ticker"`
	ClientOrderID string `json:"client_order_id"`
	Side          string `json:"side"`
	Action        string `json:"action"`
	Type          string `json:"type"` // siempre "limit"
	Count         int    `json:"count"`
	YesPrice      int    `json:"yes_price,omitempty"`
	NoPrice       int    `json:"no_price,omitempty"`
}
