package engine

import (
	"sync"

	"github.com/alejandrodnm/kalshibot/internal/domain"
)

// PriceBook acumula los últimos precios recibidos por el stream websocket y
// los aplica sobre el snapshot REST antes de cada ciclo. El stream escribe
// desde su propia goroutine; el engine solo lee.
type PriceBook struct {
	mu     sync.RWMutex
	prices map[string]float64 // ticker → precio YES en [0,1]
}

// NewPriceBook crea un PriceBook vacío.
func NewPriceBook() *PriceBook {
	return &PriceBook{prices: make(map[string]float64)}
}

// Set actualiza el último precio conocido de un ticker.
// Precios fuera de (0,1) se descartan: son mensajes de settlement o ruido.
func (p *PriceBook) Set(ticker string, price float64) {
	if price <= 0 || price >= 1 {
		return
	}
	p.mu.Lock()
	p.prices[ticker] = price
	p.mu.Unlock()
}

// Apply devuelve una copia de markets con los precios en vivo aplicados.
func (p *PriceBook) Apply(markets []domain.Market) []domain.Market {
	p.mu.RLock()
	defer p.mu.RUnlock()

	out := make([]domain.Market, len(markets))
	copy(out, markets)
	for i := range out {
		if price, ok := p.prices[out[i].Ticker]; ok {
			out[i].Price = price
			out[i].HasPrice = true
		}
	}
	return out
}
