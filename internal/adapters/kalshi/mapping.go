package kalshi

import (
	"time"

	"github.com/alejandrodnm/kalshibot/internal/domain"
)

// mapMarkets convierte los DTOs del API a domain.Market.
func mapMarkets(raw []apiMarket) []domain.Market {
	markets := make([]domain.Market, 0, len(raw))
	for _, r := range raw {
		markets = append(markets, mapMarket(r))
	}
	return markets
}

// mapMarket convierte un apiMarket a domain.Market.
// Kalshi cotiza en centavos (1-99); el domain trabaja en fracciones [0,1].
func mapMarket(r apiMarket) domain.Market {
	m := domain.Market{
		Ticker:    r.Ticker,
		Title:     r.Title,
		Category:  r.Category,
		Status:    mapStatus(r.Status),
		Result:    mapResult(r.Result),
		Volume24h: float64(r.Volume24h),
	}

	if price, ok := centsToPrice(r); ok {
		m.Price = price
		m.HasPrice = true
	}

	if r.CloseTime != "" {
		if t, err := time.Parse(time.RFC3339, r.CloseTime); err == nil {
			m.CloseTime = t.UTC()
		}
	}

	return m
}

// centsToPrice deriva el precio YES en [0,1]. Usa last_price; si no hay
// trades todavía, el midpoint de bid/ask.
func centsToPrice(r apiMarket) (float64, bool) {
	if r.LastPrice > 0 {
		return float64(r.LastPrice) / 100, true
	}
	if r.YesBid > 0 && r.YesAsk > 0 {
		return float64(r.YesBid+r.YesAsk) / 200, true
	}
	return 0, false
}

// mapStatus traduce el status de Kalshi al enum del domain.
func mapStatus(s string) domain.MarketStatus {
	switch s {
	case "open", "active":
		return domain.StatusActive
	case "settled", "finalized":
		return domain.StatusSettled
	default:
		return domain.StatusClosed
	}
}

// mapResult traduce el resultado terminal. Cualquier otro valor (p.ej.
// mercados scalar con resultados de rango) se trata como sin resultado.
func mapResult(s string) domain.Result {
	switch s {
	case "yes":
		return domain.ResultYes
	case "no":
		return domain.ResultNo
	default:
		return domain.ResultNone
	}
}
