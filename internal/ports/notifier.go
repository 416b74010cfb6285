package ports

import (
	"context"

	"github.com/alejandrodnm/kalshibot/internal/domain"
)

// Notifier presenta el resultado de cada ciclo al usuario.
type Notifier interface {
	// NotifyCycle muestra el reporte del ciclo: estado de riesgo,
	// candidatos, decisiones de tamaño y órdenes canceladas.
	// En la implementación de consola, imprime una tabla formateada.
	NotifyCycle(ctx context.Context, report domain.CycleReport) error
}
