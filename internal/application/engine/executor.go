package engine

import (
	"context"
	"log/slog"

	"github.com/alejandrodnm/kalshibot/internal/domain"
)

// Executor recorre las señales en orden de score e intenta abrir una posición
// por cada una. Fold secuencial explícito: el bankroll disponible se recalcula
// antes de cada intento, así cada trade abierto encoge la base de capital que
// ve la siguiente señal. No paralelizar.
type Executor struct {
	lifecycle  *Lifecycle
	accountant *Accountant
}

// NewExecutor crea el batch executor.
func NewExecutor(lifecycle *Lifecycle, accountant *Accountant) *Executor {
	return &Executor{lifecycle: lifecycle, accountant: accountant}
}

// Execute procesa las señales (ya ordenadas) y devuelve los contadores
// agregados más los trades abiertos en esta pasada.
//
// Si el capital disponible llega a ≤ 0, todas las señales restantes (la
// actual incluida) se marcan skipped en un solo incremento y se corta:
// fail-fast deliberado en vez de intentar trades cada vez más pequeños.
func (e *Executor) Execute(ctx context.Context, signals []domain.Signal) (domain.ExecutionReport, []domain.Trade, error) {
	var report domain.ExecutionReport
	var opened []domain.Trade

	for i, sig := range signals {
		bankroll, err := e.accountant.Snapshot(ctx)
		if err != nil {
			return report, opened, err
		}

		if bankroll.Available <= 0 {
			remaining := len(signals) - i
			report.Skipped += remaining
			slog.Warn("bankroll exhausted, skipping remaining signals",
				"available", bankroll.Available,
				"skipped", remaining,
			)
			break
		}

		trade, err := e.lifecycle.OpenTrade(ctx, sig, bankroll.Available)
		if err != nil {
			return report, opened, err
		}
		if trade == nil {
			report.Skipped++
			continue
		}

		report.Opened++
		opened = append(opened, *trade)
	}

	return report, opened, nil
}
