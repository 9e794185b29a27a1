package engine

import (
	"context"
	"fmt"

	"github.com/alejandrodnm/kalshibot/internal/domain"
	"github.com/alejandrodnm/kalshibot/internal/ports"
)

// Accountant deriva el capital disponible del ledger de trades.
// Read model puro: nunca muta nada.
type Accountant struct {
	ledger   ports.TradeLedger
	starting float64
}

// NewAccountant crea el accountant con el bankroll inicial dado.
func NewAccountant(ledger ports.TradeLedger, startingBankroll float64) *Accountant {
	return &Accountant{ledger: ledger, starting: startingBankroll}
}

// Snapshot recalcula el snapshot de bankroll desde el ledger completo.
// Satisface available + invested == starting + realizedPnl en todo momento.
func (a *Accountant) Snapshot(ctx context.Context) (domain.Bankroll, error) {
	trades, err := a.ledger.AllTrades(ctx)
	if err != nil {
		return domain.Bankroll{}, fmt.Errorf("engine.Snapshot: %w", err)
	}
	return domain.ComputeBankroll(a.starting, trades), nil
}
