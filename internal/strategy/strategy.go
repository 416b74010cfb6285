package strategy

import (
	"time"
)

// Strategy es un perfil de trading: define la ventana temporal de
// mercados elegibles, la ventaja mínima exigida y los umbrales de
// frescura de datos y de órdenes. Cada perfil encapsula un horizonte
// de trading diferente.
type Strategy struct {
	Name string

	// Ventana de cierre: solo se operan mercados cuyo cierre cae
	// dentro de [MinHoursToClose, MaxHoursToClose].
	MinHoursToClose float64
	MaxHoursToClose float64

	// MinEdge es la ventaja mínima exigida por este perfil.
	MinEdge float64

	// MaxDataAge es la antigüedad máxima aceptable del dato de mercado
	// antes de descartarlo como stale.
	MaxDataAge time.Duration

	// MaxOrderAge es la edad a partir de la cual una orden abierta se
	// considera stale y se cancela (estrictamente mayor).
	MaxOrderAge time.Duration
}

// Registry mantiene los perfiles disponibles indexados por nombre.
type Registry map[string]Strategy

// NewRegistry crea el registry con los perfiles por defecto.
func NewRegistry() Registry {
	r := make(Registry)
	r.Register(SameDay())
	r.Register(Weekly())
	return r
}

// Register añade un perfil al registry.
func (r Registry) Register(s Strategy) {
	r[s.Name] = s
}

// Get devuelve el perfil por nombre.
func (r Registry) Get(name string) (Strategy, bool) {
	s, ok := r[name]
	return s, ok
}

// SameDay opera mercados que cierran dentro del día. Los precios se
// mueven rápido cerca del cierre, así que exige datos frescos y rota
// órdenes a las dos horas.
func SameDay() Strategy {
	return Strategy{
		Name:            "same_day",
		MinHoursToClose: 1,
		MaxHoursToClose: 24,
		MinEdge:         0.08,
		MaxDataAge:      5 * time.Minute,
		MaxOrderAge:     2 * time.Hour,
	}
}

// Weekly opera mercados que cierran entre uno y siete días. Tolera
// datos y órdenes más viejos pero exige más ventaja para compensar la
// incertidumbre del horizonte.
func Weekly() Strategy {
	return Strategy{
		Name:            "weekly",
		MinHoursToClose: 24,
		MaxHoursToClose: 24 * 7,
		MinEdge:         0.10,
		MaxDataAge:      15 * time.Minute,
		MaxOrderAge:     6 * time.Hour,
	}
}
