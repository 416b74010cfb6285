package domain

import "math"

// SizingConfig controla el tamaño de las posiciones.
type SizingConfig struct {
	KellyFraction    float64 // fracción k aplicada sobre Kelly puro
	MaxPositionPct   float64 // máximo por posición como fracción del equity
	MinCashReserve   float64 // dólares de cash que nunca se comprometen
	MinCashPct       float64 // piso de cash como fracción del equity; rige el mayor de los dos
	MaxOpenPositions int
	MinBetUSD        float64 // piso por debajo del cual no vale la pena operar
}

// CashFloor devuelve la reserva de cash efectiva para un equity dado:
// el mayor entre el piso en dólares y el piso porcentual.
func (c SizingConfig) CashFloor(equity float64) float64 {
	floor := c.MinCashReserve
	if pct := c.MinCashPct * equity; pct > floor {
		floor = pct
	}
	return floor
}

// AccountView es la vista de cuenta usada para dimensionar. El engine
// la va descontando dentro de un ciclo para que varias entradas no
// compitan por el mismo cash.
type AccountView struct {
	Cash          float64 // dólares disponibles
	Equity        float64 // cash + valor de posiciones abiertas
	OpenPositions int
}

// BindingCap identifica qué límite determinó el tamaño final de una
// posición. Se reporta siempre, también cuando el límite rechaza la
// entrada por completo.
type BindingCap string

const (
	CapKelly            BindingCap = "kelly"
	CapMaxPositionPct   BindingCap = "max_position_pct"
	CapCashReserve      BindingCap = "cash_reserve"
	CapMaxOpenPositions BindingCap = "max_open_positions"
	CapMinBet           BindingCap = "min_bet"
)

// SizingDecision es la decisión final de tamaño para una entrada.
type SizingDecision struct {
	Ticker    string
	Side      Side
	Edge      float64
	Estimate  float64
	AskCents  int
	Contracts int
	Notional  float64 // costo total en dólares
	Cap       BindingCap
	Reject    Reason
	OrderID   string // rellenado tras colocar la orden
	ClientID  string
	Note      string // tesis del research que respaldó la decisión
}

// KellyBinary devuelve la fracción de Kelly pura para un contrato
// binario que cuesta p y paga $1 con probabilidad q:
//
//	f* = (q - p) / (1 - p)
//
// Devuelve 0 si no hay ventaja (q <= p) o si p está fuera de (0, 1).
func KellyBinary(p, q float64) float64 {
	if p <= 0 || p >= 1 {
		return 0
	}
	f := (q - p) / (1 - p)
	if f < 0 {
		return 0
	}
	return f
}

// SizePosition dimensiona una entrada aplicando Kelly fraccional y
// después la cadena de límites en orden fijo: max_position_pct,
// reserva de cash, máximo de posiciones abiertas y piso mínimo de
// apuesta. El primer límite que reduce el notional queda registrado
// como Cap; los dos últimos rechazan la entrada en vez de reducirla.
func SizePosition(edge EdgeResult, acct AccountView, cfg SizingConfig) SizingDecision {
	d := SizingDecision{
		Ticker:   edge.Ticker,
		Side:     edge.Side,
		Edge:     edge.Edge,
		Estimate: edge.Estimate,
		AskCents: edge.AskCents,
	}

	if acct.OpenPositions >= cfg.MaxOpenPositions {
		d.Cap = CapMaxOpenPositions
		d.Reject = ReasonCapExceeded
		return d
	}

	p := float64(edge.AskCents) / 100.0
	notional := KellyBinary(p, edge.Estimate) * cfg.KellyFraction * acct.Equity
	d.Cap = CapKelly

	if maxPos := cfg.MaxPositionPct * acct.Equity; notional > maxPos {
		notional = maxPos
		d.Cap = CapMaxPositionPct
	}

	spendable := acct.Cash - cfg.CashFloor(acct.Equity)
	if spendable < 0 {
		spendable = 0
	}
	if notional > spendable {
		notional = spendable
		d.Cap = CapCashReserve
	}

	d.Contracts = int(math.Floor(notional / p))
	d.Notional = float64(d.Contracts) * p

	if d.Contracts <= 0 || d.Notional < cfg.MinBetUSD {
		d.Contracts = 0
		d.Notional = 0
		d.Cap = CapMinBet
		d.Reject = ReasonCapExceeded
	}
	return d
}
