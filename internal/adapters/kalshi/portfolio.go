package kalshi

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/alejandrodnm/kalshibot/internal/domain"
)

// FetchSnapshot implements ports.AccountProvider. It composes balance,
// positions and open orders into one consistent view, and enriches
// each position with the current bid of its side as the mark.
func (c *Client) FetchSnapshot(ctx context.Context) (domain.AccountSnapshot, error) {
	var bal balanceResponse
	if err := c.get(ctx, "/portfolio/balance", &bal); err != nil {
		return domain.AccountSnapshot{}, fmt.Errorf("kalshi.FetchSnapshot: balance: %w", err)
	}

	positions, realized, err := c.fetchPositions(ctx)
	if err != nil {
		return domain.AccountSnapshot{}, fmt.Errorf("kalshi.FetchSnapshot: %w", err)
	}

	orders, err := c.GetOpenOrders(ctx)
	if err != nil {
		return domain.AccountSnapshot{}, fmt.Errorf("kalshi.FetchSnapshot: %w", err)
	}

	if err := c.enrichMarks(ctx, positions); err != nil {
		return domain.AccountSnapshot{}, fmt.Errorf("kalshi.FetchSnapshot: %w", err)
	}

	return domain.AccountSnapshot{
		Cash:        float64(bal.Balance) / 100.0,
		Equity:      float64(bal.Balance+bal.PortfolioValue) / 100.0,
		RealizedPnL: realized,
		Positions:   positions,
		Orders:      orders,
		FetchedAt:   time.Now().UTC(),
	}, nil
}

// fetchPositions pages through portfolio positions, keeping only open
// ones, and accumulates cumulative realized PnL across all of them.
func (c *Client) fetchPositions(ctx context.Context) ([]domain.Position, float64, error) {
	var (
		positions []domain.Position
		realized  float64
		cursor    string
	)

	for page := 0; page < maxMarketsPages; page++ {
		q := url.Values{}
		q.Set("limit", "200")
		if cursor != "" {
			q.Set("cursor", cursor)
		}

		var resp positionsResponse
		if err := c.get(ctx, "/portfolio/positions?"+q.Encode(), &resp); err != nil {
			return nil, 0, fmt.Errorf("positions: %w", err)
		}

		for _, p := range resp.MarketPositions {
			// realized_pnl comes in centi-cents
			realized += float64(p.RealizedPnL) / 10000.0
			if p.Position != 0 {
				positions = append(positions, mapPosition(p))
			}
		}

		if resp.Cursor == "" || len(resp.MarketPositions) == 0 {
			return positions, realized, nil
		}
		cursor = resp.Cursor
	}
	return positions, realized, nil
}

// enrichMarks fills Position.MarkCents with the current bid of the
// held side, fetched in one batched markets call.
func (c *Client) enrichMarks(ctx context.Context, positions []domain.Position) error {
	if len(positions) == 0 {
		return nil
	}

	tickers := make([]string, 0, len(positions))
	for _, p := range positions {
		tickers = append(tickers, p.Ticker)
	}

	markets, err := c.FetchMarkets(ctx, tickers)
	if err != nil {
		return fmt.Errorf("marks: %w", err)
	}

	byTicker := make(map[string]domain.Market, len(markets))
	for _, m := range markets {
		byTicker[m.Ticker] = m
	}

	for i := range positions {
		if m, ok := byTicker[positions[i].Ticker]; ok {
			positions[i].MarkCents = m.BidCents(positions[i].Side)
		}
	}
	return nil
}

// GetOpenOrders implements ports.OrderExecutor. Returns all resting
// orders; partially filled ones are reported as such.
func (c *Client) GetOpenOrders(ctx context.Context) ([]domain.Order, error) {
	var (
		orders []domain.Order
		cursor string
	)

	for page := 0; page < maxMarketsPages; page++ {
		q := url.Values{}
		q.Set("status", "resting")
		q.Set("limit", "200")
		if cursor != "" {
			q.Set("cursor", cursor)
		}

		var resp ordersResponse
		if err := c.get(ctx, "/portfolio/orders?"+q.Encode(), &resp); err != nil {
			return nil, fmt.Errorf("kalshi.GetOpenOrders: %w", err)
		}

		for _, o := range resp.Orders {
			orders = append(orders, mapOrder(o))
		}

		if resp.Cursor == "" || len(resp.Orders) == 0 {
			return orders, nil
		}
		cursor = resp.Cursor
	}
	return orders, nil
}

// PlaceOrder implements ports.OrderExecutor. Submits a limit order
// with the caller-provided client ID as the idempotency key.
func (c *Client) PlaceOrder(ctx context.Context, req domain.OrderRequest) (domain.Order, error) {
	body := createOrderRequest{
		Ticker:        req.Ticker,
		ClientOrderID: req.ClientID,
		Side:          string(req.Side),
		Action:        req.Action,
		Type:          "limit",
		Count:         req.Count,
	}
	if req.Side == domain.SideYes {
		body.YesPrice = req.PriceCents
	} else {
		body.NoPrice = req.PriceCents
	}

	var resp orderResponse
	if err := c.post(ctx, "/portfolio/orders", body, &resp); err != nil {
		return domain.Order{}, fmt.Errorf("kalshi.PlaceOrder: %s: %w", req.Ticker, err)
	}
	return mapOrder(resp.Order), nil
}

// CancelOrder implements ports.OrderExecutor. A 404 (order gone) or
// 409 (already filled or cancelled) counts as success: the desired
// state is "no longer resting" and the exchange agrees.
func (c *Client) CancelOrder(ctx context.Context, orderID string) error {
	err := c.del(ctx, "/portfolio/orders/"+orderID, nil)
	if err == nil {
		return nil
	}

	var apiErr *apiError
	if errors.As(err, &apiErr) {
		if apiErr.Status == http.StatusNotFound || apiErr.Status == http.StatusConflict {
			return nil
		}
	}
	return fmt.Errorf("kalshi.CancelOrder: %s: %w", orderID, err)
}
