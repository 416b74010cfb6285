package storage

// sqlite.go — espejo local del trading, nunca fuente de verdad.
//
// Estrategia:
//   - `cycles`: UNA fila por ciclo de decisión con el estado de riesgo
//     y los contadores del pipeline. De acá sale el historial de riesgo
//     del ciclo siguiente (peak equity, loss streak, PnL realizado).
//   - `decisions`: una fila por candidato evaluado, incluyendo los
//     descartados con su razón y la nota de tesis del research. El
//     histórico de por-qué-no-se-operó vale tanto como el de órdenes
//     colocadas; las notas hacen de journal de trading.
//   - `cancellations`: órdenes stale canceladas por ciclo.
//   - Prune automático al arrancar: datos > 90 días.

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/alejandrodnm/kalshibot/internal/domain"
	_ "modernc.org/sqlite"
)

const schema = `
-- Una fila por ciclo de decisión
CREATE TABLE IF NOT EXISTS cycles (
    id              TEXT PRIMARY KEY,
    started_at      DATETIME NOT NULL,
    strategy        TEXT     NOT NULL,
    dry_run         INTEGER  NOT NULL DEFAULT 0,
    risk_state      TEXT     NOT NULL,
    risk_reasons    TEXT     NOT NULL DEFAULT '',
    equity          REAL     NOT NULL DEFAULT 0,
    cash            REAL     NOT NULL DEFAULT 0,
    realized_pnl    REAL     NOT NULL DEFAULT 0,
    drawdown        REAL     NOT NULL DEFAULT 0,
    peak_equity     REAL     NOT NULL DEFAULT 0,
    loss_streak     INTEGER  NOT NULL DEFAULT 0,
    fetched         INTEGER  NOT NULL DEFAULT 0,
    survivors       INTEGER  NOT NULL DEFAULT 0,
    orders_placed   INTEGER  NOT NULL DEFAULT 0,
    orders_canceled INTEGER  NOT NULL DEFAULT 0,
    elapsed_ms      INTEGER  NOT NULL DEFAULT 0
);

-- Una fila por candidato evaluado, operado o no
CREATE TABLE IF NOT EXISTS decisions (
    id          INTEGER PRIMARY KEY AUTOINCREMENT,
    cycle_id    TEXT NOT NULL REFERENCES cycles(id),
    ticker      TEXT NOT NULL,
    side        TEXT NOT NULL,
    edge        REAL NOT NULL DEFAULT 0,
    estimate    REAL NOT NULL DEFAULT 0,
    ask_cents   INTEGER NOT NULL DEFAULT 0,
    contracts   INTEGER NOT NULL DEFAULT 0,
    notional    REAL NOT NULL DEFAULT 0,
    binding_cap TEXT NOT NULL DEFAULT '',
    reject      TEXT NOT NULL DEFAULT '',
    order_id    TEXT NOT NULL DEFAULT '',
    client_id   TEXT NOT NULL DEFAULT '',
    note        TEXT NOT NULL DEFAULT ''
);

-- Órdenes stale canceladas por ciclo
CREATE TABLE IF NOT EXISTS cancellations (
    id       INTEGER PRIMARY KEY AUTOINCREMENT,
    cycle_id TEXT NOT NULL REFERENCES cycles(id),
    order_id TEXT NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_cycles_at        ON cycles(started_at DESC);
CREATE INDEX IF NOT EXISTS idx_decisions_cycle  ON decisions(cycle_id);
CREATE INDEX IF NOT EXISTS idx_decisions_ticker ON decisions(ticker);
`

const retention = 90 * 24 * time.Hour

// SQLiteStorage implementa ports.Storage usando SQLite (pure Go, sin CGo).
type SQLiteStorage struct {
	db *sql.DB
}

// NewSQLiteStorage abre (o crea) la base de datos en la ruta dada.
// Aplica el schema y limpia datos antiguos.
func NewSQLiteStorage(path string) (*SQLiteStorage, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("storage.NewSQLiteStorage: open %q: %w", path, err)
	}
	db.SetMaxOpenConns(1) // SQLite es single-writer
	db.SetMaxIdleConns(1)

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("storage.NewSQLiteStorage: apply schema: %w", err)
	}

	s := &SQLiteStorage{db: db}
	s.pruneOld(context.Background())
	return s, nil
}

// SaveCycle persiste el reporte completo de un ciclo en una transacción.
func (s *SQLiteStorage) SaveCycle(ctx context.Context, r domain.CycleReport) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("storage.SaveCycle: begin tx: %w", err)
	}
	defer tx.Rollback()

	dryRun := 0
	if r.DryRun {
		dryRun = 1
	}
	if _, err := tx.ExecContext(ctx, `
		INSERT INTO cycles
			(id, started_at, strategy, dry_run, risk_state, risk_reasons,
			 equity, cash, realized_pnl, drawdown, peak_equity, loss_streak,
			 fetched, survivors, orders_placed, orders_canceled, elapsed_ms)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		r.CycleID,
		r.StartedAt.UTC(),
		r.Strategy,
		dryRun,
		string(r.Risk.State),
		strings.Join(r.Risk.Reasons, ","),
		r.Equity,
		r.Cash,
		r.RealizedPnL,
		r.Risk.Drawdown,
		r.History.PeakEquity,
		r.History.LossStreak,
		r.Stats.Fetched,
		r.Stats.Filtered,
		r.Stats.OrdersPlaced,
		r.Stats.OrdersCanceled,
		r.Elapsed.Milliseconds(),
	); err != nil {
		return fmt.Errorf("storage.SaveCycle: insert cycle: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO decisions
			(cycle_id, ticker, side, edge, estimate, ask_cents, contracts,
			 notional, binding_cap, reject, order_id, client_id, note)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("storage.SaveCycle: prepare decisions: %w", err)
	}
	defer stmt.Close()

	for _, d := range r.Decisions {
		if _, err := stmt.ExecContext(ctx,
			r.CycleID, d.Ticker, string(d.Side), d.Edge, d.Estimate,
			d.AskCents, d.Contracts, d.Notional, string(d.Cap),
			string(d.Reject), d.OrderID, d.ClientID, d.Note,
		); err != nil {
			return fmt.Errorf("storage.SaveCycle: insert decision %s: %w", d.Ticker, err)
		}
	}

	for _, orderID := range r.Canceled {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO cancellations (cycle_id, order_id) VALUES (?, ?)`,
			r.CycleID, orderID,
		); err != nil {
			return fmt.Errorf("storage.SaveCycle: insert cancellation: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("storage.SaveCycle: commit: %w", err)
	}
	return nil
}

// LastRiskHistory devuelve el historial de riesgo del último ciclo.
func (s *SQLiteStorage) LastRiskHistory(ctx context.Context) (domain.RiskHistory, bool, error) {
	var h domain.RiskHistory
	err := s.db.QueryRowContext(ctx, `
		SELECT peak_equity, loss_streak, realized_pnl
		FROM cycles ORDER BY started_at DESC, id DESC LIMIT 1
	`).Scan(&h.PeakEquity, &h.LossStreak, &h.RealizedPnL)
	if err == sql.ErrNoRows {
		return domain.RiskHistory{}, false, nil
	}
	if err != nil {
		return domain.RiskHistory{}, false, fmt.Errorf("storage.LastRiskHistory: %w", err)
	}
	return h, true, nil
}

// GetCycles devuelve los reportes cuyo started_at está en el rango dado,
// del más reciente al más viejo. Las decisiones se cargan por ciclo.
func (s *SQLiteStorage) GetCycles(ctx context.Context, from, to time.Time) ([]domain.CycleReport, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, started_at, strategy, dry_run, risk_state, risk_reasons,
		       equity, cash, realized_pnl, drawdown, peak_equity, loss_streak,
		       fetched, survivors, orders_placed, orders_canceled, elapsed_ms
		FROM cycles
		WHERE started_at BETWEEN ? AND ?
		ORDER BY started_at DESC
	`, from.UTC(), to.UTC())
	if err != nil {
		return nil, fmt.Errorf("storage.GetCycles: query: %w", err)
	}
	defer rows.Close()

	var reports []domain.CycleReport
	for rows.Next() {
		var (
			r         domain.CycleReport
			dryRun    int
			reasons   string
			elapsedMs int64
		)
		if err := rows.Scan(
			&r.CycleID, &r.StartedAt, &r.Strategy, &dryRun,
			&r.Risk.State, &reasons,
			&r.Equity, &r.Cash, &r.RealizedPnL,
			&r.Risk.Drawdown, &r.History.PeakEquity, &r.History.LossStreak,
			&r.Stats.Fetched, &r.Stats.Filtered,
			&r.Stats.OrdersPlaced, &r.Stats.OrdersCanceled,
			&elapsedMs,
		); err != nil {
			return nil, fmt.Errorf("storage.GetCycles: scan row: %w", err)
		}
		r.DryRun = dryRun == 1
		if reasons != "" {
			r.Risk.Reasons = strings.Split(reasons, ",")
		}
		r.History.RealizedPnL = r.RealizedPnL
		r.Risk.PeakEquity = r.History.PeakEquity
		r.Elapsed = time.Duration(elapsedMs) * time.Millisecond
		reports = append(reports, r)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for i := range reports {
		decisions, err := s.loadDecisions(ctx, reports[i].CycleID)
		if err != nil {
			return nil, err
		}
		reports[i].Decisions = decisions
	}
	return reports, nil
}

// Close cierra la conexión a la base de datos.
func (s *SQLiteStorage) Close() error {
	return s.db.Close()
}

// --- helpers internos ---

func (s *SQLiteStorage) loadDecisions(ctx context.Context, cycleID string) ([]domain.SizingDecision, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT ticker, side, edge, estimate, ask_cents, contracts,
		       notional, binding_cap, reject, order_id, client_id, note
		FROM decisions WHERE cycle_id = ? ORDER BY id
	`, cycleID)
	if err != nil {
		return nil, fmt.Errorf("storage.loadDecisions: query: %w", err)
	}
	defer rows.Close()

	var out []domain.SizingDecision
	for rows.Next() {
		var d domain.SizingDecision
		if err := rows.Scan(
			&d.Ticker, &d.Side, &d.Edge, &d.Estimate, &d.AskCents,
			&d.Contracts, &d.Notional, &d.Cap, &d.Reject,
			&d.OrderID, &d.ClientID, &d.Note,
		); err != nil {
			return nil, fmt.Errorf("storage.loadDecisions: scan row: %w", err)
		}
		out = append(out, d)
	}
	return out, rows.Err()
}

// pruneOld elimina datos antiguos para mantener la DB ligera.
func (s *SQLiteStorage) pruneOld(ctx context.Context) {
	cutoff := time.Now().UTC().Add(-retention)
	s.db.ExecContext(ctx, `DELETE FROM decisions WHERE cycle_id IN
		(SELECT id FROM cycles WHERE started_at < ?)`, cutoff)
	s.db.ExecContext(ctx, `DELETE FROM cancellations WHERE cycle_id IN
		(SELECT id FROM cycles WHERE started_at < ?)`, cutoff)
	s.db.ExecContext(ctx, `DELETE FROM cycles WHERE started_at < ?`, cutoff)
}
