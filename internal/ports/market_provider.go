package ports

import (
	"context"

	"github.com/alejandrodnm/kalshibot/internal/domain"
)

// MarketProvider obtiene mercados binarios desde el exchange.
type MarketProvider interface {
	// FetchOpenMarkets devuelve todos los mercados abiertos a trading.
	// Pagina automáticamente hasta obtener todos los resultados.
	FetchOpenMarkets(ctx context.Context) ([]domain.Market, error)

	// FetchMarkets devuelve los mercados pedidos por ticker. Se usa
	// para refrescar marks de posiciones abiertas.
	FetchMarkets(ctx context.Context, tickers []string) ([]domain.Market, error)
}
