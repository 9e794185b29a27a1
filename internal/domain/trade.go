package domain

import "time"

// TradeState es el estado del ciclo de vida de un trade simulado.
// open es inicial; win, loss y sold son terminales y definitivos.
type TradeState string

const (
	TradeOpen TradeState = "open"
	TradeWin  TradeState = "win"
	TradeLoss TradeState = "loss"
	TradeSold TradeState = "sold"
)

// Trade es una posición simulada. Es la única entidad mutable del core:
// la crea el lifecycle manager y solo la mutan close/resolve. Nunca se borra.
//
// Invariante: como máximo un trade open por ticker. Cost basis, revenue y
// profit son siempre contratos × precio (sin contratos parciales).
type Trade struct {
	ID          string
	Ticker      string
	Title       string
	Category    string
	Side        Side
	EntryPrice  float64
	Contracts   int
	CostBasis   float64
	EdgeAtEntry float64
	State       TradeState
	OpenedAt    time.Time

	// Campos de settlement, válidos solo en estados terminales.
	ExitPrice float64
	Revenue   float64
	Profit    float64
	ProfitPct float64
	SettledAt time.Time
}

// Terminal devuelve true si el trade ya no admite transiciones.
func (t Trade) Terminal() bool {
	return t.State == TradeWin || t.State == TradeLoss || t.State == TradeSold
}

// Settle aplica la transición open → state con el exit price dado y calcula
// revenue, profit y profitPct. El caller garantiza que el trade está open y
// que state es terminal.
//
// ProfitPct es 0 cuando el cost basis es 0: resultado deliberado, no error.
func (t *Trade) Settle(exitPrice float64, state TradeState, at time.Time) {
	t.ExitPrice = exitPrice
	t.Revenue = roundTo(float64(t.Contracts)*exitPrice, 2)
	t.Profit = roundTo(t.Revenue-t.CostBasis, 2)
	if t.CostBasis != 0 {
		t.ProfitPct = roundTo(t.Profit/t.CostBasis*100, 2)
	}
	t.State = state
	t.SettledAt = at
}

// ResolveAgainst aplica el payout binario del resultado terminal del mercado:
// exit 1.0 si el lado del trade coincide con el resultado, 0.0 si no.
// Devuelve el estado terminal aplicado.
func (t *Trade) ResolveAgainst(result Result, at time.Time) TradeState {
	won := string(t.Side) == string(result)
	if won {
		t.Settle(1.0, TradeWin, at)
		return TradeWin
	}
	t.Settle(0.0, TradeLoss, at)
	return TradeLoss
}
