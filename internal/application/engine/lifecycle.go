package engine

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/alejandrodnm/kalshibot/internal/domain"
	"github.com/alejandrodnm/kalshibot/internal/ports"
)

// SizingPolicy son los parámetros de la política de sizing fractional-Kelly.
type SizingPolicy struct {
	KellyMultiplier float64
	MaxPositionPct  float64
}

// DefaultSizingPolicy devuelve quarter-Kelly con tope del 5%.
func DefaultSizingPolicy() SizingPolicy {
	return SizingPolicy{
		KellyMultiplier: domain.DefaultKellyMultiplier,
		MaxPositionPct:  domain.DefaultMaxPositionPct,
	}
}

// Lifecycle gestiona el ciclo de vida de los trades simulados:
// open → {win, loss, sold}. "No trade" es un resultado nil, nunca un error;
// los errores son fallos de storage y propagan al ciclo.
type Lifecycle struct {
	ledger ports.TradeLedger
	policy SizingPolicy
	now    func() time.Time
}

// NewLifecycle crea el lifecycle manager sobre el ledger dado.
func NewLifecycle(ledger ports.TradeLedger, policy SizingPolicy) *Lifecycle {
	return &Lifecycle{ledger: ledger, policy: policy, now: time.Now}
}

// OpenTrade abre una posición simulada para la señal si no existe ya una
// abierta para el ticker y el sizing produce al menos un contrato.
// Devuelve nil (sin error) en ambos rechazos: son decisiones de política
// deterministas, no fallos.
func (l *Lifecycle) OpenTrade(ctx context.Context, sig domain.Signal, bankroll float64) (*domain.Trade, error) {
	existing, err := l.ledger.OpenTradeByTicker(ctx, sig.Ticker)
	if err != nil {
		return nil, fmt.Errorf("engine.OpenTrade: check existing: %w", err)
	}
	if existing != nil {
		slog.Debug("position already open", "ticker", sig.Ticker)
		return nil, nil
	}

	size := domain.SizeFromSignal(sig, bankroll, l.policy.KellyMultiplier, l.policy.MaxPositionPct)
	if size.Contracts <= 0 {
		slog.Debug("zero sizing",
			"ticker", sig.Ticker,
			"kelly_full", size.KellyFull,
			"bankroll", bankroll,
		)
		return nil, nil
	}

	trade := domain.Trade{
		ID:          uuid.NewString(),
		Ticker:      sig.Ticker,
		Title:       sig.Title,
		Category:    sig.Category,
		Side:        sig.Side,
		EntryPrice:  size.Price,
		Contracts:   size.Contracts,
		CostBasis:   size.Cost,
		EdgeAtEntry: sig.Edge,
		State:       domain.TradeOpen,
		OpenedAt:    l.now().UTC(),
	}

	if err := l.ledger.SaveTrade(ctx, trade); err != nil {
		return nil, fmt.Errorf("engine.OpenTrade: save: %w", err)
	}

	slog.Info("trade opened",
		"ticker", trade.Ticker,
		"side", trade.Side,
		"contracts", trade.Contracts,
		"cost", trade.CostBasis,
		"edge", trade.EdgeAtEntry,
	)
	return &trade, nil
}

// CloseTrade vende una posición abierta al precio de salida dado.
// Devuelve nil si el trade no existe o ya no está open (trades resueltos
// incluidos): los estados terminales son definitivos.
func (l *Lifecycle) CloseTrade(ctx context.Context, tradeID string, exitPrice float64) (*domain.Trade, error) {
	trade, err := l.ledger.TradeByID(ctx, tradeID)
	if err != nil {
		return nil, fmt.Errorf("engine.CloseTrade: %w", err)
	}
	if trade == nil || trade.State != domain.TradeOpen {
		return nil, nil
	}

	trade.Settle(exitPrice, domain.TradeSold, l.now().UTC())
	if err := l.ledger.SettleTrade(ctx, *trade); err != nil {
		return nil, fmt.Errorf("engine.CloseTrade: settle: %w", err)
	}

	slog.Info("trade sold",
		"ticker", trade.Ticker,
		"exit", exitPrice,
		"profit", trade.Profit,
	)
	return trade, nil
}

// ResolveSettled resuelve todas las posiciones abiertas cuyo mercado ya tiene
// resultado terminal: payout binario, exit 1.0 en win y 0.0 en loss.
//
// Cada resolución es una unidad de trabajo independiente e idempotente:
// re-ejecutar no encuentra trades open que tocar.
func (l *Lifecycle) ResolveSettled(ctx context.Context, markets []domain.Market) (domain.ResolutionReport, error) {
	var report domain.ResolutionReport

	results := make(map[string]domain.Result, len(markets))
	for _, m := range markets {
		if m.Settled() {
			results[m.Ticker] = m.Result
		}
	}
	if len(results) == 0 {
		return report, nil
	}

	open, err := l.ledger.OpenTrades(ctx)
	if err != nil {
		return report, fmt.Errorf("engine.ResolveSettled: %w", err)
	}

	for _, trade := range open {
		result, ok := results[trade.Ticker]
		if !ok {
			continue
		}

		state := trade.ResolveAgainst(result, l.now().UTC())
		if err := l.ledger.SettleTrade(ctx, trade); err != nil {
			return report, fmt.Errorf("engine.ResolveSettled: settle %s: %w", trade.ID, err)
		}

		report.Resolved++
		report.Profit += trade.Profit
		if state == domain.TradeWin {
			report.Wins++
		} else {
			report.Losses++
		}

		slog.Info("trade resolved",
			"ticker", trade.Ticker,
			"side", trade.Side,
			"result", result,
			"state", state,
			"profit", trade.Profit,
		)
	}

	return report, nil
}
