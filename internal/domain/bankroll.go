package domain

// Bankroll es el snapshot derivado del capital. Nunca se almacena: se
// recalcula del ledger de trades en cada consulta.
//
// Invariante: Available + Invested == starting + RealizedPnL en todo momento.
type Bankroll struct {
	Available   float64
	Invested    float64
	RealizedPnL float64
	TotalValue  float64
}

// ComputeBankroll deriva el snapshot de capital a partir del bankroll inicial
// y el ledger completo de trades. Función pura, sin mutación.
func ComputeBankroll(starting float64, trades []Trade) Bankroll {
	var openCost, realized float64
	for _, t := range trades {
		switch {
		case t.State == TradeOpen:
			openCost += t.CostBasis
		case t.Terminal():
			realized += t.Profit
		}
	}

	b := Bankroll{
		Available:   roundTo(starting-openCost+realized, 2),
		Invested:    roundTo(openCost, 2),
		RealizedPnL: roundTo(realized, 2),
	}
	b.TotalValue = roundTo(b.Available+b.Invested, 2)
	return b
}
