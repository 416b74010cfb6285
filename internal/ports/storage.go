package ports

import (
	"context"
	"time"

	"github.com/alejandrodnm/kalshibot/internal/domain"
)

// Storage persiste los resultados de cada ciclo de decisión.
// Es un espejo local de solo-lectura-analítica: nunca se usa como
// fuente de verdad sobre el estado de la cuenta.
type Storage interface {
	// SaveCycle persiste el reporte completo de un ciclo: estado de
	// riesgo, decisiones y órdenes canceladas.
	SaveCycle(ctx context.Context, report domain.CycleReport) error

	// LastRiskHistory devuelve el historial de riesgo del último ciclo
	// persistido. El booleano indica si existe historial previo.
	LastRiskHistory(ctx context.Context) (domain.RiskHistory, bool, error)

	// GetCycles devuelve los reportes registrados en el rango dado.
	GetCycles(ctx context.Context, from, to time.Time) ([]domain.CycleReport, error)

	// Close cierra la conexión a la base de datos limpiamente.
	Close() error
}
