package domain

import "time"

// Side es uno de los dos lados de un mercado binario.
type Side string

const (
	SideYes Side = "yes"
	SideNo  Side = "no"
)

// Opposite devuelve el lado contrario.
func (s Side) Opposite() Side {
	if s == SideYes {
		return SideNo
	}
	return SideYes
}

// Market representa un mercado de predicción binario en Kalshi.
// Todos los precios son enteros en centavos (1..99); un contrato
// liquida a $1.00 si el lado gana y a $0.00 si pierde.
type Market struct {
	Ticker       string
	EventTicker  string
	Title        string
	YesBid       int // centavos
	YesAsk       int
	NoBid        int
	NoAsk        int
	LastPrice    int
	Volume       int64 // contratos acumulados
	Volume24h    int64
	Liquidity    int64 // centavos apostables en el libro
	OpenInterest int64
	CloseTime    time.Time
	Status       string // "active" | "closed" | "settled"
	FetchedAt    time.Time
}

// AskCents devuelve el ask del lado pedido.
func (m Market) AskCents(side Side) int {
	if side == SideYes {
		return m.YesAsk
	}
	return m.NoAsk
}

// BidCents devuelve el bid del lado pedido.
func (m Market) BidCents(side Side) int {
	if side == SideYes {
		return m.YesBid
	}
	return m.NoBid
}

// SpreadCents devuelve el spread bid/ask del lado YES en centavos.
// Devuelve 99 (el máximo posible) si falta alguna cotización, para
// que los mercados sin libro queden al final de cualquier ranking.
func (m Market) SpreadCents() int {
	if m.YesAsk <= 0 || m.YesBid <= 0 {
		return 99
	}
	return m.YesAsk - m.YesBid
}

// ImpliedProb devuelve la probabilidad implícita en el ask de un lado.
// Comprar YES a 55c implica que el mercado asigna 0.55 a ese evento.
func (m Market) ImpliedProb(side Side) float64 {
	return float64(m.AskCents(side)) / 100.0
}

// HoursToClose devuelve las horas hasta el cierre del mercado vistas
// desde now. Devuelve 0 si CloseTime no está definido o ya pasó.
func (m Market) HoursToClose(now time.Time) float64 {
	if m.CloseTime.IsZero() {
		return 0
	}
	h := m.CloseTime.Sub(now).Hours()
	if h < 0 {
		return 0
	}
	return h
}

// Tradable indica si el mercado admite órdenes nuevas: está activo y
// ambos lados tienen ask dentro del rango operable. Un ask de 0 o 100
// significa que el mercado ya está efectivamente decidido.
func (m Market) Tradable() bool {
	if m.Status != "active" {
		return false
	}
	return m.YesAsk > 0 && m.YesAsk < 100 && m.NoAsk > 0 && m.NoAsk < 100
}

// DataAge devuelve la antigüedad del dato de mercado visto desde now.
func (m Market) DataAge(now time.Time) time.Duration {
	if m.FetchedAt.IsZero() {
		return 0
	}
	return now.Sub(m.FetchedAt)
}

// TruncateTitle devuelve el título truncado a maxLen caracteres, con
// el ticker como fallback si el título viene vacío.
func TruncateTitle(title, ticker string, maxLen int) string {
	t := title
	if t == "" {
		t = ticker
	}
	if len(t) > maxLen {
		t = t[:maxLen-3] + "..."
	}
	return t
}
