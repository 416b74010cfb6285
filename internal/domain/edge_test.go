package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func activeMarket(yesAsk, noAsk int) Market {
	return Market{
		Ticker:    "KXTEST-26AUG30",
		YesBid:    yesAsk - 2,
		YesAsk:    yesAsk,
		NoBid:     noAsk - 2,
		NoAsk:     noAsk,
		Status:    "active",
		CloseTime: time.Now().Add(6 * time.Hour),
	}
}

var edgeCfg = EdgeConfig{MinEdge: 0.08, MinSources: 2}

func TestComputeEdge_YesSide(t *testing.T) {
	m := activeMarket(55, 47)
	est := Estimate{Ticker: m.Ticker, ProbYes: 0.70, SourceCount: 3}

	r := ComputeEdge(m, est, edgeCfg)
	assert.Equal(t, ReasonNone, r.Reject)
	assert.Equal(t, SideYes, r.Side)
	assert.InDelta(t, 0.15, r.Edge, 0.0001)
	assert.Equal(t, 55, r.AskCents)
	assert.InDelta(t, 0.55, r.MarketProb, 0.0001)
	assert.InDelta(t, 0.70, r.Estimate, 0.0001)
}

func TestComputeEdge_NoSide(t *testing.T) {
	// mercado sobrevalorado en YES: la entrada está en NO
	m := activeMarket(80, 22)
	est := Estimate{ProbYes: 0.60, SourceCount: 2}

	r := ComputeEdge(m, est, edgeCfg)
	assert.Equal(t, ReasonNone, r.Reject)
	assert.Equal(t, SideNo, r.Side)
	assert.InDelta(t, 0.18, r.Edge, 0.0001)
	assert.InDelta(t, 0.40, r.Estimate, 0.0001)
}

func TestComputeEdge_BelowThreshold(t *testing.T) {
	m := activeMarket(55, 47)
	est := Estimate{ProbYes: 0.60, SourceCount: 2}

	r := ComputeEdge(m, est, edgeCfg)
	assert.Equal(t, ReasonNoEdge, r.Reject)
	assert.InDelta(t, 0.05, r.Edge, 0.0001)
}

func TestComputeEdge_SingleSourceRejected(t *testing.T) {
	// la ventaja puede ser enorme: sin dos fuentes no se opera
	m := activeMarket(20, 82)
	est := Estimate{ProbYes: 0.95, SourceCount: 1}

	r := ComputeEdge(m, est, edgeCfg)
	assert.Equal(t, ReasonInsufficientData, r.Reject)
}

func TestComputeEdge_DegeneratePrices(t *testing.T) {
	m := activeMarket(55, 47)
	m.YesAsk = 100
	est := Estimate{ProbYes: 0.70, SourceCount: 2}

	r := ComputeEdge(m, est, edgeCfg)
	assert.Equal(t, ReasonNoEdge, r.Reject)

	m.YesAsk = 0
	r = ComputeEdge(m, est, edgeCfg)
	assert.Equal(t, ReasonNoEdge, r.Reject)
}

func TestComputeEdge_InvalidProbability(t *testing.T) {
	m := activeMarket(55, 47)
	r := ComputeEdge(m, Estimate{ProbYes: 1.2, SourceCount: 2}, edgeCfg)
	assert.Equal(t, ReasonInsufficientData, r.Reject)
}

func TestComputeEdge_Deterministic(t *testing.T) {
	m := activeMarket(55, 47)
	est := Estimate{ProbYes: 0.70, SourceCount: 3}
	a := ComputeEdge(m, est, edgeCfg)
	b := ComputeEdge(m, est, edgeCfg)
	assert.Equal(t, a, b)
}
