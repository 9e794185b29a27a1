package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestKellyFraction_KnownValue(t *testing.T) {
	// b = (1-0.40)/0.40 = 1.5 → (0.55×1.5 - 0.45)/1.5 = 0.25
	assert.InDelta(t, 0.25, KellyFraction(0.55, 0.40), 0.0001)
}

func TestKellyFraction_DegeneratePrice(t *testing.T) {
	assert.Equal(t, 0.0, KellyFraction(0.55, 0))
	assert.Equal(t, 0.0, KellyFraction(0.55, 1))
	assert.Equal(t, 0.0, KellyFraction(0.55, -0.1))
	assert.Equal(t, 0.0, KellyFraction(0.55, 1.2))
}

func TestKellyFraction_DegenerateProbability(t *testing.T) {
	assert.Equal(t, 0.0, KellyFraction(0, 0.40))
	assert.Equal(t, 0.0, KellyFraction(1, 0.40))
}

func TestKellyFraction_NoEdgeIsNegative(t *testing.T) {
	// Estimación por debajo del precio → sin edge comprando YES.
	assert.Less(t, KellyFraction(0.30, 0.40), 0.0)
}

func TestSizePosition_QuarterKellyCapped(t *testing.T) {
	// bankroll=500, prob=0.55, price=0.40, quarter-Kelly, tope 5%
	size := SizePosition(0.55, 0.40, 500, 0.25, 5)

	assert.InDelta(t, 0.25, size.KellyFull, 0.0001)
	assert.InDelta(t, 0.0625, size.KellyAdjusted, 0.0001)
	assert.InDelta(t, 0.05, size.Fraction, 0.0001) // capped
	assert.Equal(t, 62, size.Contracts)
	assert.InDelta(t, 24.80, size.Cost, 0.001)
}

func TestSizePosition_NoEdgeReturnsZeroSized(t *testing.T) {
	size := SizePosition(0.35, 0.40, 500, 0.25, 5)

	assert.Equal(t, 0, size.Contracts)
	assert.Equal(t, 0.0, size.Cost)
	// El Kelly negativo queda reportado para diagnóstico.
	assert.Less(t, size.KellyFull, 0.0)
}

func TestSizePosition_CannotAffordOneContract(t *testing.T) {
	// Bankroll ínfimo: fracción positiva pero floor(dollars/price) = 0.
	size := SizePosition(0.55, 0.40, 5, 0.25, 5)

	assert.Equal(t, 0, size.Contracts)
	assert.Equal(t, 0.0, size.Cost)
	assert.Greater(t, size.KellyFull, 0.0)
	assert.Greater(t, size.Fraction, 0.0)
}

func TestSizePosition_CostBasisIsContractsTimesPrice(t *testing.T) {
	size := SizePosition(0.62, 0.45, 1000, 0.25, 5)

	assert.Greater(t, size.Contracts, 0)
	assert.InDelta(t, float64(size.Contracts)*0.45, size.Cost, 0.005)
}

func TestSizePosition_UncappedWhenBelowLimit(t *testing.T) {
	// Edge pequeño: quarter-Kelly queda por debajo del tope del 5%.
	size := SizePosition(0.52, 0.50, 1000, 0.25, 5)

	assert.Equal(t, size.KellyAdjusted, size.Fraction)
	assert.Less(t, size.Fraction, 0.05)
}

func TestSizeFromSignal_NoSideUsesComplement(t *testing.T) {
	// Señal NO: precio 0.60, modelo 0.45 → compra NO a 0.40 con prob 0.55.
	sig := Signal{Side: SideNo, Price: 0.60, Probability: 0.45}
	size := SizeFromSignal(sig, 500, 0.25, 5)

	assert.InDelta(t, 0.40, size.Price, 0.0001)
	assert.InDelta(t, 0.55, size.Probability, 0.0001)
	assert.InDelta(t, 0.25, size.KellyFull, 0.0001)
	assert.Equal(t, 62, size.Contracts)
	assert.InDelta(t, 24.80, size.Cost, 0.01)
}

func TestSizeFromSignal_YesSideDirect(t *testing.T) {
	sig := Signal{Side: SideYes, Price: 0.40, Probability: 0.55}
	size := SizeFromSignal(sig, 500, 0.25, 5)

	assert.Equal(t, SizePosition(0.55, 0.40, 500, 0.25, 5), size)
}
