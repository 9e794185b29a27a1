package domain

import "time"

// MarketStatus es el estado de trading de un mercado en Kalshi.
type MarketStatus string

const (
	StatusActive  MarketStatus = "active"
	StatusClosed  MarketStatus = "closed"
	StatusSettled MarketStatus = "settled"
)

// Result es el resultado terminal de un mercado binario.
// Vacío mientras el mercado no se haya resuelto.
type Result string

const (
	ResultYes  Result = "yes"
	ResultNo   Result = "no"
	ResultNone Result = ""
)

// Market representa un mercado de predicción binario.
// El core lo trata como read-only: lo produce el adapter de ingestión.
type Market struct {
	Ticker    string
	Title     string
	Category  string
	Status    MarketStatus
	Price     float64 // probabilidad implícita YES en [0,1]
	HasPrice  bool    // false si el mercado aún no tiene precio
	Result    Result
	Volume24h float64
	CloseTime time.Time
}

// Tradable devuelve true si el mercado admite abrir posiciones.
func (m Market) Tradable() bool {
	return m.Status == StatusActive && m.HasPrice
}

// Settled devuelve true si el mercado tiene resultado terminal.
func (m Market) Settled() bool {
	return m.Result == ResultYes || m.Result == ResultNo
}

// InBand devuelve true si el precio está dentro de la banda de incertidumbre.
// Los límites son inclusivos.
func (m Market) InBand(low, high float64) bool {
	return m.HasPrice && m.Price >= low && m.Price <= high
}
