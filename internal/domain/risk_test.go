package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

var riskCfg = RiskConfig{
	DrawdownPct:     0.15,
	PositionLossPct: 0.30,
	ShrinkFactor:    0.5,
	MaxLossStreak:   4,
	BalanceFloorUSD: 200,
}

func TestEvaluateRiskState_Normal(t *testing.T) {
	h := RiskHistory{PeakEquity: 1000}
	snap := AccountSnapshot{Equity: 980}
	a := EvaluateRiskState(h, snap, riskCfg)
	assert.Equal(t, RiskNormal, a.State)
	assert.Empty(t, a.Reasons)
}

func TestEvaluateRiskState_DrawdownCaution(t *testing.T) {
	// 16% por debajo del pico → Caution
	h := RiskHistory{PeakEquity: 1000}
	snap := AccountSnapshot{Equity: 840}
	a := EvaluateRiskState(h, snap, riskCfg)
	assert.Equal(t, RiskCaution, a.State)
	assert.Contains(t, a.Reasons, "drawdown")
	assert.InDelta(t, 0.16, a.Drawdown, 0.0001)
}

func TestEvaluateRiskState_PositionLossCaution(t *testing.T) {
	h := RiskHistory{PeakEquity: 1000}
	snap := AccountSnapshot{
		Equity: 990,
		Positions: []Position{
			{Ticker: "A", Side: SideYes, Quantity: 100, AvgPriceCents: 60, MarkCents: 40},
		},
	}
	a := EvaluateRiskState(h, snap, riskCfg)
	assert.Equal(t, RiskCaution, a.State)
	assert.Contains(t, a.Reasons, "position_loss")
}

func TestEvaluateRiskState_BalanceFloorHalts(t *testing.T) {
	h := RiskHistory{PeakEquity: 1000}
	snap := AccountSnapshot{Equity: 199}
	a := EvaluateRiskState(h, snap, riskCfg)
	assert.Equal(t, RiskHalted, a.State)
	assert.Contains(t, a.Reasons, "balance_floor")
}

func TestEvaluateRiskState_StrictThresholds(t *testing.T) {
	// justo EN el umbral no dispara: drawdown exacto del 15%
	h := RiskHistory{PeakEquity: 1000}
	a := EvaluateRiskState(h, AccountSnapshot{Equity: 850}, riskCfg)
	assert.Equal(t, RiskNormal, a.State)

	// equity exactamente en el piso tampoco
	cfg := riskCfg
	cfg.DrawdownPct = 0.90
	a = EvaluateRiskState(h, AccountSnapshot{Equity: 200}, cfg)
	assert.Equal(t, RiskNormal, a.State)

	// pérdida de posición exactamente del 30%
	snap := AccountSnapshot{
		Equity: 990,
		Positions: []Position{
			{Ticker: "A", Side: SideYes, Quantity: 100, AvgPriceCents: 50, MarkCents: 35},
		},
	}
	a = EvaluateRiskState(RiskHistory{PeakEquity: 1000}, snap, riskCfg)
	assert.Equal(t, RiskNormal, a.State)
}

func TestEvaluateRiskState_LossStreakHalts(t *testing.T) {
	h := RiskHistory{PeakEquity: 1000, LossStreak: 4}
	snap := AccountSnapshot{Equity: 950}
	a := EvaluateRiskState(h, snap, riskCfg)
	assert.Equal(t, RiskHalted, a.State)
	assert.Contains(t, a.Reasons, "loss_streak")
}

func TestEvaluateRiskState_HaltedWinsOverCaution(t *testing.T) {
	// cumple drawdown y balance floor a la vez: manda Halted
	h := RiskHistory{PeakEquity: 1000}
	snap := AccountSnapshot{Equity: 150}
	a := EvaluateRiskState(h, snap, riskCfg)
	assert.Equal(t, RiskHalted, a.State)
	assert.NotContains(t, a.Reasons, "drawdown")
}

func TestEvaluateRiskState_Idempotent(t *testing.T) {
	h := RiskHistory{PeakEquity: 1000, LossStreak: 2}
	snap := AccountSnapshot{Equity: 840}
	a := EvaluateRiskState(h, snap, riskCfg)
	b := EvaluateRiskState(h, snap, riskCfg)
	assert.Equal(t, a, b)
}

func TestUpdateRiskHistory_StreakAndPeak(t *testing.T) {
	h := RiskHistory{}

	h = UpdateRiskHistory(h, 1000, 0)
	assert.Equal(t, 1000.0, h.PeakEquity)
	assert.Equal(t, 0, h.LossStreak)

	// pérdida realizada → streak 1
	h = UpdateRiskHistory(h, 960, -40)
	assert.Equal(t, 1, h.LossStreak)
	assert.Equal(t, 1000.0, h.PeakEquity)

	// otra pérdida → streak 2
	h = UpdateRiskHistory(h, 930, -70)
	assert.Equal(t, 2, h.LossStreak)

	// sin cambios en PnL realizado → streak intacto
	h = UpdateRiskHistory(h, 940, -70)
	assert.Equal(t, 2, h.LossStreak)

	// ganancia realizada → reset
	h = UpdateRiskHistory(h, 1020, -10)
	assert.Equal(t, 0, h.LossStreak)
	assert.Equal(t, 1020.0, h.PeakEquity)
}

func TestPosition_LossFraction(t *testing.T) {
	p := Position{Quantity: 100, AvgPriceCents: 60, MarkCents: 40}
	assert.InDelta(t, 0.3333, p.LossFraction(), 0.0001)

	winner := Position{Quantity: 100, AvgPriceCents: 40, MarkCents: 60}
	assert.Equal(t, 0.0, winner.LossFraction())
}
