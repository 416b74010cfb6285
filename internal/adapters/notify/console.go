package notify

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/alejandrodnm/kalshibot/internal/domain"
	"github.com/olekukonko/tablewriter"
)

// Console implementa ports.Notifier.
type Console struct {
	out   io.Writer
	table bool
}

// NewConsole crea un notificador que escribe a stdout.
func NewConsole(table bool) *Console {
	return &Console{out: os.Stdout, table: table}
}

// NewConsoleWriter crea un notificador para tests.
func NewConsoleWriter(w io.Writer, table bool) *Console {
	return &Console{out: w, table: table}
}

// NotifyCycle imprime el reporte del ciclo en el modo configurado.
func (c *Console) NotifyCycle(_ context.Context, r domain.CycleReport) error {
	if c.table {
		c.printFull(r)
	} else {
		c.printCompact(r)
	}
	return nil
}

// printCompact imprime lo esencial en una línea por ciclo.
func (c *Console) printCompact(r domain.CycleReport) {
	now := r.StartedAt.Format("15:04:05")

	var sb strings.Builder
	fmt.Fprintf(&sb, "[%s] %s %s eq:$%.2f dd:%.1f%% | %d mkts → %d cand | placed:%d canceled:%d",
		now, r.Strategy, riskLabel(r.Risk),
		r.Equity, r.Risk.Drawdown*100,
		r.Stats.Fetched, r.Stats.Filtered,
		r.Stats.OrdersPlaced, r.Stats.OrdersCanceled)
	if r.DryRun {
		sb.WriteString(" [dry-run]")
	}

	shown := 0
	for _, d := range r.Decisions {
		if d.Reject != domain.ReasonNone || shown >= 3 {
			continue
		}
		fmt.Fprintf(&sb, " | %s %s %dx%dc e:%.0f%%",
			d.Ticker, strings.ToUpper(string(d.Side)), d.Contracts, d.AskCents, d.Edge*100)
		shown++
	}

	fmt.Fprintln(c.out, sb.String())
}

// printFull imprime el reporte completo con tabla de decisiones.
func (c *Console) printFull(r domain.CycleReport) {
	fmt.Fprintf(c.out, "\n[%s] cycle %s — strategy:%s risk:%s equity:$%.2f cash:$%.2f\n",
		r.StartedAt.Format("15:04:05"), shortID(r.CycleID), r.Strategy,
		riskLabel(r.Risk), r.Equity, r.Cash)
	if r.DryRun {
		fmt.Fprintln(c.out, "  DRY RUN — no orders were sent to the exchange")
	}

	fmt.Fprintf(c.out, "  pipeline: %d fetched → %d candidates | skips: stale:%d no-est:%d sources:%d no-edge:%d caps:%d\n",
		r.Stats.Fetched, r.Stats.Filtered,
		r.Stats.SkippedStaleData, r.Stats.SkippedNoEstim, r.Stats.SkippedSources,
		r.Stats.SkippedNoEdge, r.Stats.SkippedCaps)
	if r.Stats.OrderFailures > 0 {
		fmt.Fprintf(c.out, "  WARNING: %d order placements failed at the exchange\n", r.Stats.OrderFailures)
	}

	if len(r.Decisions) > 0 {
		c.printDecisions(r.Decisions)
	}

	if len(r.Canceled) > 0 {
		fmt.Fprintf(c.out, "  stale orders canceled: %s\n", strings.Join(r.Canceled, ", "))
	}
	fmt.Fprintf(c.out, "  elapsed: %s\n\n", r.Elapsed.Round(time.Millisecond))
}

// printDecisions imprime la tabla de decisiones, operadas o no.
func (c *Console) printDecisions(decisions []domain.SizingDecision) {
	table := tablewriter.NewWriter(c.out)
	table.Header("#", "Ticker", "Side", "Ask", "Est", "Edge", "Qty", "Notional", "Cap", "Result")

	for i, d := range decisions {
		result := "PLACED"
		if d.Reject != domain.ReasonNone {
			result = string(d.Reject)
		} else if d.OrderID != "" {
			result = "PLACED " + shortID(d.OrderID)
		}

		table.Append(
			fmt.Sprintf("%d", i+1),
			d.Ticker,
			strings.ToUpper(string(d.Side)),
			fmt.Sprintf("%dc", d.AskCents),
			fmt.Sprintf("%.2f", d.Estimate),
			fmt.Sprintf("%+.1f%%", d.Edge*100),
			fmt.Sprintf("%d", d.Contracts),
			fmt.Sprintf("$%.2f", d.Notional),
			string(d.Cap),
			result,
		)
	}

	table.Render()
}

// --- helpers ---

func riskLabel(a domain.RiskAssessment) string {
	label := strings.ToUpper(string(a.State))
	if len(a.Reasons) > 0 {
		label += "(" + strings.Join(a.Reasons, ",") + ")"
	}
	return label
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
