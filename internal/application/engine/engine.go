package engine

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/alejandrodnm/kalshibot/internal/application/screener"
	"github.com/alejandrodnm/kalshibot/internal/domain"
	"github.com/alejandrodnm/kalshibot/internal/ports"
	"github.com/alejandrodnm/kalshibot/internal/strategy"
)

// Config contiene la configuración del engine de decisión.
type Config struct {
	Edge           domain.EdgeConfig
	Sizing         domain.SizingConfig
	Risk           domain.RiskConfig
	Screen         screener.Config
	Interval       time.Duration
	SnapshotMaxAge time.Duration // frescura exigida al snapshot de cuenta
	DryRun         bool
}

// Engine es el orquestador del ciclo de decisión: screening, ventaja,
// tamaño, riesgo, colocación y rotación de órdenes stale. Cada ciclo
// parte de un snapshot fresco del exchange; nada local es fuente de
// verdad.
type Engine struct {
	cfg       Config
	strat     strategy.Strategy
	markets   ports.MarketProvider
	account   ports.AccountProvider
	executor  ports.OrderExecutor
	estimates ports.EstimateProvider
	storage   ports.Storage
	notifier  ports.Notifier
	screener  *screener.Screener
}

// New crea un Engine con todas las dependencias inyectadas. El perfil
// de strategy manda sobre la config de screening en ventana de cierre,
// frescura de datos y ventaja mínima.
func New(
	cfg Config,
	strat strategy.Strategy,
	markets ports.MarketProvider,
	account ports.AccountProvider,
	executor ports.OrderExecutor,
	estimates ports.EstimateProvider,
	storage ports.Storage,
	notifier ports.Notifier,
) *Engine {
	scfg := cfg.Screen
	scfg.MinHoursToClose = strat.MinHoursToClose
	scfg.MaxHoursToClose = strat.MaxHoursToClose
	scfg.MaxDataAge = strat.MaxDataAge

	return &Engine{
		cfg:       cfg,
		strat:     strat,
		markets:   markets,
		account:   account,
		executor:  executor,
		estimates: estimates,
		storage:   storage,
		notifier:  notifier,
		screener:  screener.New(scfg),
	}
}

// Run ejecuta ciclos de decisión hasta que el contexto se cancele.
func (e *Engine) Run(ctx context.Context) error {
	slog.Info("engine: starting",
		"strategy", e.strat.Name,
		"interval", e.cfg.Interval,
		"dry_run", e.cfg.DryRun,
	)

	ticker := time.NewTicker(e.cfg.Interval)
	defer ticker.Stop()

	for {
		if _, err := e.RunOnce(ctx); err != nil {
			slog.Error("engine: cycle failed", "err", err)
		}
		select {
		case <-ctx.Done():
			slog.Info("engine: stopping")
			return ctx.Err()
		case <-ticker.C:
		}
	}
}

// RunOnce ejecuta un ciclo de decisión completo y devuelve el reporte.
func (e *Engine) RunOnce(ctx context.Context) (domain.CycleReport, error) {
	start := time.Now().UTC()
	report := domain.CycleReport{
		CycleID:   uuid.NewString(),
		StartedAt: start,
		Strategy:  e.strat.Name,
		DryRun:    e.cfg.DryRun,
	}

	snap, err := e.fetchFreshSnapshot(ctx)
	if err != nil {
		return report, fmt.Errorf("engine.RunOnce: %w", err)
	}
	report.Equity = snap.Equity
	report.Cash = snap.Cash
	report.RealizedPnL = snap.RealizedPnL

	history, found, err := e.loadHistory(ctx)
	if err != nil {
		return report, fmt.Errorf("engine.RunOnce: %w", err)
	}
	if !found {
		// primer ciclo: el PnL realizado previo no cuenta como racha
		history.RealizedPnL = snap.RealizedPnL
	}
	history = domain.UpdateRiskHistory(history, snap.Equity, snap.RealizedPnL)
	report.History = history

	report.Risk = domain.EvaluateRiskState(history, snap, e.cfg.Risk)
	if report.Risk.State != domain.RiskNormal {
		slog.Warn("engine: risk state degraded",
			"state", report.Risk.State,
			"reasons", report.Risk.Reasons,
			"drawdown", report.Risk.Drawdown,
		)
	}

	markets, err := e.markets.FetchOpenMarkets(ctx)
	if err != nil {
		return report, fmt.Errorf("engine.RunOnce: fetch markets: %w", err)
	}

	candidates, screenStats := e.screener.Screen(markets, start)
	report.Candidates = candidates
	report.Stats.Fetched = screenStats.Fetched
	report.Stats.SkippedStaleData = screenStats.SkippedStaleData
	report.Stats.Filtered = len(candidates)

	if report.Risk.State == domain.RiskHalted {
		// Halted bloquea entradas nuevas; cancelar stale sigue activo
		// porque solo reduce exposición.
		report.Stats.SkippedRisk = len(candidates)
		for _, c := range candidates {
			report.Decisions = append(report.Decisions, domain.SizingDecision{
				Ticker: c.Market.Ticker,
				Reject: domain.ReasonRiskHalted,
			})
		}
	} else {
		if err := e.evaluateCandidates(ctx, &report, snap, candidates); err != nil {
			return report, fmt.Errorf("engine.RunOnce: %w", err)
		}
	}

	report.Canceled = e.sweepStaleOrders(ctx, snap.Orders)
	report.Stats.OrdersCanceled = len(report.Canceled)

	report.Elapsed = time.Since(start)

	if err := e.storage.SaveCycle(ctx, report); err != nil {
		// el espejo local es un cache: perder una escritura no corta el trading
		slog.Warn("engine: save cycle failed", "err", err)
	}
	if err := e.notifier.NotifyCycle(ctx, report); err != nil {
		slog.Warn("engine: notify failed", "err", err)
	}

	slog.Info("engine: cycle done",
		"cycle", report.CycleID,
		"risk", report.Risk.State,
		"candidates", report.Stats.Filtered,
		"placed", report.Stats.OrdersPlaced,
		"canceled", report.Stats.OrdersCanceled,
		"elapsed", report.Elapsed.Round(time.Millisecond),
	)
	return report, nil
}

// evaluateCandidates recorre el ranking calculando ventaja y tamaño, y
// coloca órdenes. La vista de cuenta se descuenta con cada colocación
// para que dos entradas del mismo ciclo no comprometan el mismo cash.
func (e *Engine) evaluateCandidates(ctx context.Context, report *domain.CycleReport, snap domain.AccountSnapshot, candidates []domain.ScoredMarket) error {
	ests, err := e.estimates.FetchEstimates(ctx)
	if err != nil {
		return fmt.Errorf("fetch estimates: %w", err)
	}

	edgeCfg := e.cfg.Edge
	edgeCfg.MinEdge = e.strat.MinEdge
	sizing := domain.EffectiveSizing(e.cfg.Sizing, report.Risk, e.cfg.Risk.ShrinkFactor)

	exposed := exposedTickers(snap)
	working := snap.View()

	for _, c := range candidates {
		ticker := c.Market.Ticker

		// con posición u orden abierta en el mercado no se vuelve a entrar
		if exposed[ticker] {
			continue
		}

		est, ok := ests[ticker]
		if !ok {
			report.Stats.SkippedNoEstim++
			report.Decisions = append(report.Decisions, domain.SizingDecision{
				Ticker: ticker,
				Reject: domain.ReasonInsufficientData,
			})
			continue
		}

		edge := domain.ComputeEdge(c.Market, est, edgeCfg)
		if edge.Reject != domain.ReasonNone {
			switch edge.Reject {
			case domain.ReasonInsufficientData:
				report.Stats.SkippedSources++
			default:
				report.Stats.SkippedNoEdge++
			}
			report.Decisions = append(report.Decisions, domain.SizingDecision{
				Ticker:   ticker,
				Side:     edge.Side,
				Edge:     edge.Edge,
				Estimate: edge.Estimate,
				AskCents: edge.AskCents,
				Reject:   edge.Reject,
				Note:     est.Note,
			})
			continue
		}

		decision := domain.SizePosition(edge, working, sizing)
		decision.Note = est.Note
		if decision.Reject != domain.ReasonNone {
			report.Stats.SkippedCaps++
			report.Decisions = append(report.Decisions, decision)
			continue
		}

		decision.ClientID = uuid.NewString()
		if e.cfg.DryRun {
			slog.Info("engine: dry-run, skipping placement",
				"ticker", ticker, "side", decision.Side, "contracts", decision.Contracts)
		} else {
			order, err := e.executor.PlaceOrder(ctx, domain.OrderRequest{
				Ticker:     decision.Ticker,
				Side:       decision.Side,
				Action:     "buy",
				Count:      decision.Contracts,
				PriceCents: decision.AskCents,
				ClientID:   decision.ClientID,
			})
			if err != nil {
				// un fallo de transporte no es "sin oportunidad": se
				// reporta como tal para que el ciclo lo distinga
				slog.Error("engine: place order failed", "ticker", ticker, "err", err)
				decision.Reject = domain.ReasonTransportError
				report.Stats.OrderFailures++
				report.Decisions = append(report.Decisions, decision)
				continue
			}
			decision.OrderID = order.ID
		}

		report.Stats.OrdersPlaced++
		working.Cash -= decision.Notional
		working.OpenPositions++
		report.Decisions = append(report.Decisions, decision)
	}
	return nil
}

// fetchFreshSnapshot obtiene el snapshot de cuenta y verifica su
// frescura, con un único re-fetch si vino stale.
func (e *Engine) fetchFreshSnapshot(ctx context.Context) (domain.AccountSnapshot, error) {
	snap, err := e.account.FetchSnapshot(ctx)
	if err != nil {
		return domain.AccountSnapshot{}, fmt.Errorf("fetch snapshot: %w", err)
	}
	if !snap.Stale(time.Now(), e.cfg.SnapshotMaxAge) {
		return snap, nil
	}

	slog.Warn("engine: stale account snapshot, refetching", "fetched_at", snap.FetchedAt)
	snap, err = e.account.FetchSnapshot(ctx)
	if err != nil {
		return domain.AccountSnapshot{}, fmt.Errorf("refetch snapshot: %w", err)
	}
	if snap.Stale(time.Now(), e.cfg.SnapshotMaxAge) {
		return domain.AccountSnapshot{}, fmt.Errorf("account snapshot still stale (fetched %s)", snap.FetchedAt)
	}
	return snap, nil
}

// loadHistory carga el historial de riesgo del último ciclo. Sin
// historial previo arranca de cero: el primer ciclo fija el pico.
func (e *Engine) loadHistory(ctx context.Context) (domain.RiskHistory, bool, error) {
	history, ok, err := e.storage.LastRiskHistory(ctx)
	if err != nil {
		return domain.RiskHistory{}, false, fmt.Errorf("load risk history: %w", err)
	}
	return history, ok, nil
}

// exposedTickers devuelve los tickers donde ya hay posición u orden.
func exposedTickers(snap domain.AccountSnapshot) map[string]bool {
	out := make(map[string]bool, len(snap.Positions)+len(snap.Orders))
	for _, p := range snap.Positions {
		out[p.Ticker] = true
	}
	for _, o := range snap.Orders {
		if o.IsOpen() {
			out[o.Ticker] = true
		}
	}
	return out
}
