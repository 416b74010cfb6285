package engine

import (
	"context"
	"log/slog"
	"time"

	"github.com/alejandrodnm/kalshibot/internal/domain"
)

// sweepStaleOrders cancels open orders whose age strictly exceeds the
// strategy's threshold and verifies against a re-fetch that they are
// actually gone. Cancelling an already-filled order is a no-op on the
// exchange side, so a full sweep can be retried safely.
func (e *Engine) sweepStaleOrders(ctx context.Context, orders []domain.Order) []string {
	stale := domain.FindStaleOrders(orders, time.Now(), e.strat.MaxOrderAge)
	if len(stale) == 0 {
		return nil
	}

	if e.cfg.DryRun {
		slog.Info("engine: dry-run, skipping stale order sweep", "stale", len(stale))
		return nil
	}

	var canceled []string
	for _, o := range stale {
		if err := e.executor.CancelOrder(ctx, o.ID); err != nil {
			slog.Error("engine: cancel stale order failed",
				"order", o.ID, "ticker", o.Ticker, "err", err)
			continue
		}
		slog.Info("engine: canceled stale order",
			"order", o.ID, "ticker", o.Ticker, "age", o.Age(time.Now()).Round(time.Minute))
		canceled = append(canceled, o.ID)
	}

	e.verifyCanceled(ctx, canceled)
	return canceled
}

// verifyCanceled re-fetches open orders and warns about any that the
// exchange still reports as open after a cancel. The next cycle will
// retry them.
func (e *Engine) verifyCanceled(ctx context.Context, canceled []string) {
	if len(canceled) == 0 {
		return
	}

	open, err := e.executor.GetOpenOrders(ctx)
	if err != nil {
		slog.Warn("engine: verify cancellations failed", "err", err)
		return
	}

	stillOpen := make(map[string]bool, len(open))
	for _, o := range open {
		stillOpen[o.ID] = o.IsOpen()
	}
	for _, id := range canceled {
		if stillOpen[id] {
			slog.Warn("engine: order still open after cancel", "order", id)
		}
	}
}
