package notify

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/olekukonko/tablewriter"

	"github.com/alejandrodnm/kalshibot/internal/domain"
)

// Console implementa ports.Notifier escribiendo a stdout.
type Console struct {
	out   io.Writer
	table bool
}

// NewConsole crea el notificador de consola.
func NewConsole(table bool) *Console {
	return &Console{out: os.Stdout, table: table}
}

// NewConsoleWriter crea un notificador para tests.
func NewConsoleWriter(w io.Writer, table bool) *Console {
	return &Console{out: w, table: table}
}

// Notify imprime el resumen del ciclo en el modo configurado.
func (c *Console) Notify(_ context.Context, report domain.CycleReport) error {
	if c.table {
		c.printFull(report)
	} else {
		c.printCompact(report)
	}
	return nil
}

// printCompact imprime lo esencial del ciclo en una línea.
func (c *Console) printCompact(r domain.CycleReport) {
	now := r.At.Format("15:04:05")

	var sb strings.Builder
	fmt.Fprintf(&sb, "[%s] %d mkts | %d est | %d sig | open:%d skip:%d | pos:%d | bank $%.2f (inv $%.2f, pnl %+.2f)",
		now, r.MarketsScanned, r.EstimatesUsed, len(r.Signals),
		r.Execution.Opened, r.Execution.Skipped, len(r.OpenPositions),
		r.Bankroll.Available, r.Bankroll.Invested, r.Bankroll.RealizedPnL)

	if r.Resolution.Resolved > 0 {
		fmt.Fprintf(&sb, " | resolved:%d W%d/L%d %+.2f",
			r.Resolution.Resolved, r.Resolution.Wins, r.Resolution.Losses, r.Resolution.Profit)
	}

	for i, t := range r.Opened {
		if i >= 3 {
			break
		}
		fmt.Fprintf(&sb, " | +%s %s %d@%.2f", t.Ticker, t.Side, t.Contracts, t.EntryPrice)
	}

	fmt.Fprintln(c.out, sb.String())
}

// printFull imprime las tablas de señales, posiciones y bankroll.
func (c *Console) printFull(r domain.CycleReport) {
	fmt.Fprintf(c.out, "\n[%s] cycle in %s — %d markets, %d estimates\n",
		r.At.Format("15:04:05"), r.Duration.Round(time.Millisecond),
		r.MarketsScanned, r.EstimatesUsed)

	c.printSignals(r.Signals)
	c.printPositions(r.OpenPositions)
	c.printBankroll(r)
}

// printSignals imprime las señales del ciclo ordenadas por score.
func (c *Console) printSignals(signals []domain.Signal) {
	if len(signals) == 0 {
		fmt.Fprintln(c.out, "\n  no signals this cycle")
		return
	}

	fmt.Fprintf(c.out, "\n  SIGNALS (%d)\n", len(signals))
	table := tablewriter.NewWriter(c.out)
	table.Header("#", "Ticker", "Market", "Side", "Price", "Est", "Edge", "Conf", "Score", "Source")

	for i, s := range signals {
		table.Append(
			fmt.Sprintf("%d", i+1),
			s.Ticker,
			truncate(s.Title, 34),
			string(s.Side),
			fmt.Sprintf("%.2f", s.Price),
			fmt.Sprintf("%.2f", s.Probability),
			fmt.Sprintf("%+.1f%%", s.Edge*100),
			fmt.Sprintf("%.2f", s.Confidence),
			fmt.Sprintf("%.3f", s.Score),
			s.Source,
		)
	}
	table.Render()
}

// printPositions imprime las posiciones abiertas.
func (c *Console) printPositions(positions []domain.Trade) {
	if len(positions) == 0 {
		fmt.Fprintln(c.out, "\n  no open positions")
		return
	}

	fmt.Fprintf(c.out, "\n  OPEN POSITIONS (%d)\n", len(positions))
	table := tablewriter.NewWriter(c.out)
	table.Header("Ticker", "Side", "Entry", "Contracts", "Cost", "Edge@entry", "Opened")

	for _, t := range positions {
		table.Append(
			t.Ticker,
			string(t.Side),
			fmt.Sprintf("%.2f", t.EntryPrice),
			fmt.Sprintf("%d", t.Contracts),
			fmt.Sprintf("$%.2f", t.CostBasis),
			fmt.Sprintf("%+.1f%%", t.EdgeAtEntry*100),
			t.OpenedAt.Format("01-02 15:04"),
		)
	}
	table.Render()
}

// printBankroll imprime la línea de bankroll y el resumen de ejecución.
func (c *Console) printBankroll(r domain.CycleReport) {
	b := r.Bankroll
	fmt.Fprintf(c.out, "\n  bankroll: $%.2f available | $%.2f invested | pnl %+.2f | total $%.2f\n",
		b.Available, b.Invested, b.RealizedPnL, b.TotalValue)
	fmt.Fprintf(c.out, "  execution: %d opened, %d skipped", r.Execution.Opened, r.Execution.Skipped)
	if r.Resolution.Resolved > 0 {
		fmt.Fprintf(c.out, " | resolution: %d (W%d/L%d) %+.2f",
			r.Resolution.Resolved, r.Resolution.Wins, r.Resolution.Losses, r.Resolution.Profit)
	}
	fmt.Fprintln(c.out)
}

// PrintStats imprime el histórico completo del ledger.
func (c *Console) PrintStats(trades []domain.Trade, bankroll domain.Bankroll, starting float64) {
	if len(trades) == 0 {
		fmt.Fprintln(c.out, "\n  No trades yet. Run a few cycles first.")
		return
	}

	var wins, losses, sold, open int
	var totalProfit, totalCost float64
	for _, t := range trades {
		switch t.State {
		case domain.TradeWin:
			wins++
		case domain.TradeLoss:
			losses++
		case domain.TradeSold:
			sold++
		case domain.TradeOpen:
			open++
		}
		if t.Terminal() {
			totalProfit += t.Profit
			totalCost += t.CostBasis
		}
	}

	fmt.Fprintf(c.out, "\n========================================\n")
	fmt.Fprintf(c.out, "  TRADING STATS — %d trades\n", len(trades))
	fmt.Fprintf(c.out, "========================================\n\n")

	table := tablewriter.NewWriter(c.out)
	table.Header("Ticker", "Side", "State", "Entry", "Exit", "Contracts", "Cost", "Profit", "Pct")

	for _, t := range trades {
		exitLabel, profitLabel, pctLabel := "-", "-", "-"
		if t.Terminal() {
			exitLabel = fmt.Sprintf("%.2f", t.ExitPrice)
			profitLabel = fmt.Sprintf("%+.2f", t.Profit)
			pctLabel = fmt.Sprintf("%+.1f%%", t.ProfitPct)
		}
		table.Append(
			t.Ticker,
			string(t.Side),
			string(t.State),
			fmt.Sprintf("%.2f", t.EntryPrice),
			exitLabel,
			fmt.Sprintf("%d", t.Contracts),
			fmt.Sprintf("$%.2f", t.CostBasis),
			profitLabel,
			pctLabel,
		)
	}
	table.Render()

	settled := wins + losses + sold
	fmt.Fprintf(c.out, "\n  Open: %d | Wins: %d | Losses: %d | Sold: %d\n", open, wins, losses, sold)
	if wins+losses > 0 {
		fmt.Fprintf(c.out, "  Win rate:       %.1f%%\n", float64(wins)/float64(wins+losses)*100)
	}
	if settled > 0 && totalCost > 0 {
		fmt.Fprintf(c.out, "  Realized PnL:   %+.2f (%.1f%% on $%.2f deployed)\n",
			totalProfit, totalProfit/totalCost*100, totalCost)
	}
	fmt.Fprintf(c.out, "  Bankroll:       $%.2f available | $%.2f invested | total $%.2f\n",
		bankroll.Available, bankroll.Invested, bankroll.TotalValue)
	if starting > 0 {
		growth := (bankroll.TotalValue/starting - 1) * 100
		fmt.Fprintf(c.out, "  Since start:    $%.2f → $%.2f (%+.2f%%)\n",
			starting, bankroll.TotalValue, growth)
	}
	fmt.Fprintln(c.out)
}

func truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen-3] + "..."
}
