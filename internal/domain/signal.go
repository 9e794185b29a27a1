package domain

import "sort"

// Side es el lado del contrato que compra una señal.
type Side string

const (
	SideYes Side = "yes"
	SideNo  Side = "no"
)

// Signal es una señal de trading derivada de comparar una estimación con el
// precio de mercado. Es efímera: se recalcula en cada ciclo y no se persiste.
type Signal struct {
	Ticker      string
	Title       string
	Category    string
	Side        Side
	Edge        float64 // estimación - precio, con signo
	AbsEdge     float64
	Score       float64 // |edge| × confidence, redondeado a 3 decimales
	Price       float64
	Probability float64
	Confidence  float64
	Source      string
}

// NewSignal construye la señal para un par (mercado, estimación).
// Side es "yes" si el edge es estrictamente positivo, "no" en caso contrario.
func NewSignal(m Market, e Estimate) Signal {
	edge := e.Probability - m.Price
	absEdge := edge
	if absEdge < 0 {
		absEdge = -absEdge
	}

	side := SideNo
	if edge > 0 {
		side = SideYes
	}

	return Signal{
		Ticker:      m.Ticker,
		Title:       m.Title,
		Category:    m.Category,
		Side:        side,
		Edge:        edge,
		AbsEdge:     absEdge,
		Score:       roundTo(absEdge*e.Confidence, 3),
		Price:       m.Price,
		Probability: e.Probability,
		Confidence:  e.Confidence,
		Source:      e.Source,
	}
}

// RankSignals ordena por score descendente. El sort es estable: señales con
// el mismo score conservan su orden de entrada (elección de implementación,
// no contrato).
func RankSignals(signals []Signal) []Signal {
	sort.SliceStable(signals, func(i, j int) bool {
		return signals[i].Score > signals[j].Score
	})
	return signals
}
