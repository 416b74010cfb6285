package ports

import (
	"context"

	"github.com/alejandrodnm/kalshibot/internal/domain"
)

// EstimateProvider entrega probabilidades estimadas por ticker.
// Las estimaciones se producen fuera del bot (research externo); el
// bot solo las consume y decide si son operables.
type EstimateProvider interface {
	// FetchEstimates devuelve las estimaciones disponibles, indexadas
	// por ticker. Un ticker ausente significa sin estimación.
	FetchEstimates(ctx context.Context) (map[string]domain.Estimate, error)
}
