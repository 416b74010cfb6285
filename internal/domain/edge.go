package domain

import "time"

// Estimate es una probabilidad estimada externa para un mercado.
// SourceCount indica cuántas fuentes independientes respaldan la
// estimación; con menos de las requeridas el mercado no se opera.
type Estimate struct {
	Ticker      string
	ProbYes     float64 // probabilidad estimada de que YES pague
	SourceCount int
	Note        string // tesis libre del research; viaja al journal de decisiones
	UpdatedAt   time.Time
}

// EdgeConfig controla el cálculo de ventaja.
type EdgeConfig struct {
	MinEdge    float64 // ventaja mínima para considerar una entrada
	MinSources int     // fuentes independientes mínimas por estimación
}

// EdgeResult es el resultado del cálculo de ventaja para un mercado.
// Si Reject != ReasonNone el mercado queda descartado y el resto de
// campos describe el mejor lado evaluado antes del descarte.
type EdgeResult struct {
	Ticker     string
	Side       Side
	MarketProb float64 // probabilidad implícita en el ask del lado
	Estimate   float64 // probabilidad estimada de que el lado pague
	Edge       float64 // Estimate - MarketProb
	AskCents   int
	Reject     Reason
}

// ComputeEdge compara la probabilidad estimada contra la implícita en
// el ask de cada lado y devuelve el lado con mayor ventaja.
//
// La ventaja de YES es probYes - yesAsk/100; la de NO es
// (1-probYes) - noAsk/100. Ambos lados se evalúan siempre: un mercado
// sobrevalorado en YES puede ser una entrada en NO.
func ComputeEdge(m Market, est Estimate, cfg EdgeConfig) EdgeResult {
	r := EdgeResult{Ticker: m.Ticker}

	if est.SourceCount < cfg.MinSources {
		r.Reject = ReasonInsufficientData
		return r
	}
	if est.ProbYes < 0 || est.ProbYes > 1 {
		r.Reject = ReasonInsufficientData
		return r
	}
	if !m.Tradable() {
		r.Reject = ReasonNoEdge
		return r
	}

	yesEdge := est.ProbYes - m.ImpliedProb(SideYes)
	noEdge := (1 - est.ProbYes) - m.ImpliedProb(SideNo)

	if yesEdge >= noEdge {
		r.Side = SideYes
		r.Edge = yesEdge
		r.Estimate = est.ProbYes
	} else {
		r.Side = SideNo
		r.Edge = noEdge
		r.Estimate = 1 - est.ProbYes
	}
	r.AskCents = m.AskCents(r.Side)
	r.MarketProb = m.ImpliedProb(r.Side)

	if r.Edge < cfg.MinEdge {
		r.Reject = ReasonNoEdge
	}
	return r
}
