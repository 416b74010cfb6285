package ports

import (
	"context"

	"github.com/alejandrodnm/kalshibot/internal/domain"
)

// AccountProvider obtiene el estado de cuenta desde el exchange.
// El exchange es siempre la fuente de verdad: lo que se guarda en
// local es solo un cache para análisis posterior.
type AccountProvider interface {
	// FetchSnapshot devuelve una vista consistente de la cuenta:
	// balance, equity, PnL realizado, posiciones y órdenes abiertas.
	FetchSnapshot(ctx context.Context) (domain.AccountSnapshot, error)
}
