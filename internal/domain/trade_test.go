package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

var settleAt = time.Date(2026, 8, 26, 12, 0, 0, 0, time.UTC)

func TestTradeResolve_WinPaysFullDollar(t *testing.T) {
	tr := Trade{Side: SideYes, Contracts: 10, CostBasis: 4.00, State: TradeOpen}

	state := tr.ResolveAgainst(ResultYes, settleAt)

	assert.Equal(t, TradeWin, state)
	assert.Equal(t, 1.0, tr.ExitPrice)
	assert.InDelta(t, 10.00, tr.Revenue, 0.001)
	assert.InDelta(t, 6.00, tr.Profit, 0.001)
	assert.InDelta(t, 150.0, tr.ProfitPct, 0.001)
	assert.True(t, tr.Terminal())
}

func TestTradeResolve_LossPaysZero(t *testing.T) {
	tr := Trade{Side: SideYes, Contracts: 10, CostBasis: 4.00, State: TradeOpen}

	state := tr.ResolveAgainst(ResultNo, settleAt)

	assert.Equal(t, TradeLoss, state)
	assert.Equal(t, 0.0, tr.ExitPrice)
	assert.InDelta(t, -4.00, tr.Profit, 0.001)
}

func TestTradeResolve_NoSideWinsWhenResultNo(t *testing.T) {
	tr := Trade{Side: SideNo, Contracts: 5, CostBasis: 2.50, State: TradeOpen}

	assert.Equal(t, TradeWin, tr.ResolveAgainst(ResultNo, settleAt))
	assert.InDelta(t, 2.50, tr.Profit, 0.001)
}

func TestTradeSettle_SoldAtMarketPrice(t *testing.T) {
	tr := Trade{Side: SideYes, Contracts: 20, CostBasis: 9.00, State: TradeOpen}

	tr.Settle(0.55, TradeSold, settleAt)

	assert.Equal(t, TradeSold, tr.State)
	assert.InDelta(t, 11.00, tr.Revenue, 0.001)
	assert.InDelta(t, 2.00, tr.Profit, 0.001)
	assert.Equal(t, settleAt, tr.SettledAt)
}

func TestTradeSettle_ZeroCostBasisProfitPctIsZero(t *testing.T) {
	tr := Trade{Side: SideYes, Contracts: 0, CostBasis: 0, State: TradeOpen}

	tr.Settle(0.50, TradeSold, settleAt)

	// División por cero evitada: resultado deliberado, no error.
	assert.Equal(t, 0.0, tr.ProfitPct)
}

func TestComputeBankroll_Invariant(t *testing.T) {
	const starting = 1000.0
	trades := []Trade{
		{State: TradeOpen, CostBasis: 120.50},
		{State: TradeOpen, CostBasis: 30.00},
		{State: TradeWin, CostBasis: 40.00, Profit: 60.00},
		{State: TradeLoss, CostBasis: 25.00, Profit: -25.00},
		{State: TradeSold, CostBasis: 10.00, Profit: 2.40},
	}

	b := ComputeBankroll(starting, trades)

	assert.InDelta(t, 150.50, b.Invested, 0.001)
	assert.InDelta(t, 37.40, b.RealizedPnL, 0.001)
	assert.InDelta(t, starting+b.RealizedPnL, b.Available+b.Invested, 0.001)
	assert.InDelta(t, b.Available+b.Invested, b.TotalValue, 0.001)
}

func TestComputeBankroll_EmptyLedger(t *testing.T) {
	b := ComputeBankroll(500, nil)

	assert.Equal(t, 500.0, b.Available)
	assert.Equal(t, 0.0, b.Invested)
	assert.Equal(t, 500.0, b.TotalValue)
}
