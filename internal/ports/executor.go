package ports

import (
	"context"

	"github.com/alejandrodnm/kalshibot/internal/domain"
)

// OrderExecutor places, cancels, and monitors real orders on the exchange.
type OrderExecutor interface {
	// PlaceOrder submits a limit order. The request carries a locally
	// generated client ID so a retried submission cannot double-place.
	PlaceOrder(ctx context.Context, req domain.OrderRequest) (domain.Order, error)

	// CancelOrder cancels an order by its exchange ID. Cancelling an
	// order that is already filled or cancelled is not an error.
	CancelOrder(ctx context.Context, orderID string) error

	// GetOpenOrders returns all currently resting/partial orders.
	GetOpenOrders(ctx context.Context) ([]domain.Order, error)
}
