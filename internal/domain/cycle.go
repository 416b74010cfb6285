package domain

import "time"

// ScoredMarket es un mercado que pasó todos los filtros, con su score
// compuesto y los componentes normalizados que lo explican.
type ScoredMarket struct {
	Market      Market
	Score       float64
	VolumeNorm  float64
	SpreadNorm  float64 // invertido: spread bajo puntúa alto
	LiquidNorm  float64
	HoursToGo   float64
}

// PipelineStats son los contadores de un ciclo completo. Cada mercado
// descartado incrementa exactamente un contador de skip.
type PipelineStats struct {
	Fetched          int
	Filtered         int // sobrevivieron el filtro
	SkippedStaleData int
	SkippedNoEstim   int
	SkippedSources   int
	SkippedNoEdge    int
	SkippedCaps      int
	SkippedRisk      int
	OrdersPlaced     int
	OrdersCanceled   int
	OrderFailures    int // colocaciones que fallaron en el exchange
}

// CycleReport es el resultado de un ciclo de decisión. Es lo que se
// persiste, se notifica y se inspecciona después.
type CycleReport struct {
	CycleID     string
	StartedAt   time.Time
	Strategy    string
	DryRun      bool
	Risk        RiskAssessment
	History     RiskHistory
	Equity      float64
	Cash        float64
	RealizedPnL float64
	Stats       PipelineStats
	Candidates  []ScoredMarket
	Decisions   []SizingDecision
	Canceled    []string // IDs de órdenes stale canceladas
	Elapsed     time.Duration
}

// PlacedCount devuelve cuántas decisiones terminaron en orden colocada.
func (r CycleReport) PlacedCount() int {
	n := 0
	for _, d := range r.Decisions {
		if d.Reject == ReasonNone && d.Contracts > 0 {
			n++
		}
	}
	return n
}
