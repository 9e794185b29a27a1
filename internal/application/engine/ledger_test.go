package engine

import (
	"context"
	"fmt"

	"github.com/alejandrodnm/kalshibot/internal/domain"
)

// memLedger es un TradeLedger en memoria para tests, con la misma semántica
// que el storage real: una sola posición open por ticker y settle guardado
// por estado.
type memLedger struct {
	trades []domain.Trade
}

func (m *memLedger) SaveTrade(_ context.Context, t domain.Trade) error {
	for _, existing := range m.trades {
		if existing.Ticker == t.Ticker && existing.State == domain.TradeOpen {
			return fmt.Errorf("memLedger: open trade exists for %s", t.Ticker)
		}
	}
	m.trades = append(m.trades, t)
	return nil
}

func (m *memLedger) OpenTradeByTicker(_ context.Context, ticker string) (*domain.Trade, error) {
	for i := range m.trades {
		if m.trades[i].Ticker == ticker && m.trades[i].State == domain.TradeOpen {
			t := m.trades[i]
			return &t, nil
		}
	}
	return nil, nil
}

func (m *memLedger) TradeByID(_ context.Context, id string) (*domain.Trade, error) {
	for i := range m.trades {
		if m.trades[i].ID == id {
			t := m.trades[i]
			return &t, nil
		}
	}
	return nil, nil
}

func (m *memLedger) OpenTrades(_ context.Context) ([]domain.Trade, error) {
	var out []domain.Trade
	for _, t := range m.trades {
		if t.State == domain.TradeOpen {
			out = append(out, t)
		}
	}
	return out, nil
}

func (m *memLedger) AllTrades(_ context.Context) ([]domain.Trade, error) {
	out := make([]domain.Trade, len(m.trades))
	copy(out, m.trades)
	return out, nil
}

func (m *memLedger) SettleTrade(_ context.Context, t domain.Trade) error {
	for i := range m.trades {
		if m.trades[i].ID == t.ID && m.trades[i].State == domain.TradeOpen {
			m.trades[i] = t
		}
	}
	return nil
}
