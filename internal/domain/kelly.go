package domain

import "math"

// Defaults de la política de sizing: quarter-Kelly con tope del 5% del
// bankroll por posición.
const (
	DefaultKellyMultiplier = 0.25
	DefaultMaxPositionPct  = 5.0
)

// PositionSize es el resultado de dimensionar una posición hipotética.
// Contracts == 0 significa "no trade": o no hay edge (KellyFull ≤ 0) o el
// bankroll no alcanza para un contrato. En ambos casos las fracciones de
// Kelly calculadas se conservan para diagnóstico.
type PositionSize struct {
	KellyFull     float64 // fracción full-Kelly, redondeada a 4 decimales
	KellyAdjusted float64 // full × multiplier, redondeada a 4 decimales
	Fraction      float64 // fracción final tras aplicar el tope
	Contracts     int
	Cost          float64 // contracts × price, redondeado a centavos
	Price         float64 // precio por contrato efectivamente usado
	Probability   float64 // probabilidad efectivamente usada
}

// KellyFraction devuelve la fracción full-Kelly para un contrato binario que
// paga $1. Devuelve 0 si price o prob están fuera del intervalo abierto (0,1):
// no hay apuesta con sentido. El resultado puede ser negativo (sin edge) —
// el caller debe tratar ≤ 0 como "no trade".
//
// Con b = (1-price)/price (odds netas):
//
//	f = (prob×b - (1-prob)) / b
func KellyFraction(prob, price float64) float64 {
	if price <= 0 || price >= 1 || prob <= 0 || prob >= 1 {
		return 0
	}
	b := (1 - price) / price
	return (prob*b - (1 - prob)) / b
}

// SizePosition dimensiona una posición con fractional Kelly.
// El multiplier reduce la varianza: las estimaciones en vivo son ruidosas y
// full-Kelly sobreapuesta con cualquier error de estimación.
func SizePosition(prob, price, bankroll, kellyMultiplier, maxPositionPct float64) PositionSize {
	full := KellyFraction(prob, price)

	size := PositionSize{
		KellyFull:   roundTo(full, 4),
		Price:       price,
		Probability: prob,
	}
	if full <= 0 {
		return size
	}

	adjusted := full * kellyMultiplier
	fraction := adjusted
	if limit := maxPositionPct / 100; fraction > limit {
		fraction = limit
	}
	size.KellyAdjusted = roundTo(adjusted, 4)
	size.Fraction = roundTo(fraction, 4)

	contracts := int(math.Floor(bankroll * fraction / price))
	if contracts <= 0 {
		// No alcanza ni para un contrato; el Kelly positivo queda reportado.
		return size
	}

	size.Contracts = contracts
	size.Cost = roundTo(float64(contracts)*price, 2)
	return size
}

// SizeFromSignal traduce una señal a la economía del contrato correcto antes
// de dimensionar. Comprar "no" cuesta 1-precio por contrato y la probabilidad
// relevante es el complemento de la del modelo.
func SizeFromSignal(sig Signal, bankroll, kellyMultiplier, maxPositionPct float64) PositionSize {
	prob, price := sig.Probability, sig.Price
	if sig.Side == SideNo {
		prob = 1 - sig.Probability
		price = 1 - sig.Price
	}
	return SizePosition(prob, price, bankroll, kellyMultiplier, maxPositionPct)
}

// roundTo redondea v a n decimales.
func roundTo(v float64, n int) float64 {
	pow := math.Pow(10, float64(n))
	return math.Round(v*pow) / pow
}
