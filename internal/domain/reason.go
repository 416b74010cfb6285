package domain

// Reason clasifica por qué un candidato fue descartado del pipeline.
// Un descarte no es un error: es una decisión estructurada que se
// persiste y se reporta junto al resto del ciclo.
type Reason string

const (
	ReasonNone             Reason = ""
	ReasonInsufficientData Reason = "insufficient_data"
	ReasonNoEdge           Reason = "no_edge"
	ReasonCapExceeded      Reason = "cap_exceeded"
	ReasonRiskHalted       Reason = "risk_halted"
	ReasonStaleMarketData  Reason = "stale_market_data"
	ReasonTransportError   Reason = "transport_error"
)
