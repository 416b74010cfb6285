package domain

// RiskState is the trading posture of the account.
type RiskState string

const (
	RiskNormal  RiskState = "normal"
	RiskCaution RiskState = "caution"
	RiskHalted  RiskState = "halted"
)

// RiskConfig holds the thresholds that move the account between states.
type RiskConfig struct {
	DrawdownPct     float64 // drawdown from peak equity that triggers Caution
	PositionLossPct float64 // unrealized loss on a single position that triggers Caution
	ShrinkFactor    float64 // sizing multiplier applied while in Caution
	MaxLossStreak   int     // consecutive realized losses that trigger Halted
	BalanceFloorUSD float64 // equity below this triggers Halted
}

// RiskHistory is the persisted state carried between cycles.
type RiskHistory struct {
	PeakEquity  float64
	LossStreak  int
	RealizedPnL float64 // last observed cumulative realized PnL
}

// RiskAssessment is the outcome of evaluating one account snapshot.
// Evaluating the same snapshot twice yields the same assessment.
type RiskAssessment struct {
	State      RiskState
	Reasons    []string
	Drawdown   float64 // fraction of peak equity lost
	PeakEquity float64
}

// UpdateRiskHistory folds a fresh snapshot into the persisted history.
// A drop in cumulative realized PnL counts as one loss and extends the
// streak; a gain resets it; no change leaves it untouched.
func UpdateRiskHistory(h RiskHistory, equity, realizedPnL float64) RiskHistory {
	out := h
	if equity > out.PeakEquity {
		out.PeakEquity = equity
	}
	switch {
	case realizedPnL < h.RealizedPnL:
		out.LossStreak++
	case realizedPnL > h.RealizedPnL:
		out.LossStreak = 0
	}
	out.RealizedPnL = realizedPnL
	return out
}

// EvaluateRiskState decides the trading posture for this cycle.
// Halted conditions are checked first and win over Caution: a halted
// account never shrinks into Caution by accident.
func EvaluateRiskState(h RiskHistory, snap AccountSnapshot, cfg RiskConfig) RiskAssessment {
	a := RiskAssessment{State: RiskNormal, PeakEquity: h.PeakEquity}
	if snap.Equity > a.PeakEquity {
		a.PeakEquity = snap.Equity
	}
	if a.PeakEquity > 0 {
		a.Drawdown = (a.PeakEquity - snap.Equity) / a.PeakEquity
	}

	if cfg.BalanceFloorUSD > 0 && snap.Equity < cfg.BalanceFloorUSD {
		a.State = RiskHalted
		a.Reasons = append(a.Reasons, "balance_floor")
	}
	if cfg.MaxLossStreak > 0 && h.LossStreak >= cfg.MaxLossStreak {
		a.State = RiskHalted
		a.Reasons = append(a.Reasons, "loss_streak")
	}
	if a.State == RiskHalted {
		return a
	}

	if cfg.DrawdownPct > 0 && a.Drawdown > cfg.DrawdownPct {
		a.State = RiskCaution
		a.Reasons = append(a.Reasons, "drawdown")
	}
	for _, p := range snap.Positions {
		if cfg.PositionLossPct > 0 && p.LossFraction() > cfg.PositionLossPct {
			a.State = RiskCaution
			a.Reasons = append(a.Reasons, "position_loss")
			break
		}
	}
	return a
}

// EffectiveSizing returns the sizing config adjusted for the current
// risk posture. Caution shrinks the Kelly fraction and the per-position
// cap, and raises the cash floor by the inverse of the same factor, so
// a cautious account both bets less and keeps more cash idle. Normal
// returns the config unchanged. Halted accounts never call the sizer,
// so no adjustment is defined for that state.
func EffectiveSizing(cfg SizingConfig, a RiskAssessment, shrink float64) SizingConfig {
	if a.State != RiskCaution {
		return cfg
	}
	out := cfg
	out.KellyFraction *= shrink
	out.MaxPositionPct *= shrink
	if shrink > 0 && shrink < 1 {
		out.MinCashReserve /= shrink
		out.MinCashPct /= shrink
	}
	return out
}
