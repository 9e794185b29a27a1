package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestNewSignal_YesSide(t *testing.T) {
	m := Market{Ticker: "HIGHNY-26AUG", Price: 0.40, HasPrice: true}
	e := Estimate{Ticker: "HIGHNY-26AUG", Source: "weather", Probability: 0.55, Confidence: 0.8}

	sig := NewSignal(m, e)

	assert.Equal(t, SideYes, sig.Side)
	assert.InDelta(t, 0.15, sig.Edge, 0.0001)
	assert.InDelta(t, 0.15, sig.AbsEdge, 0.0001)
	assert.InDelta(t, 0.12, sig.Score, 0.0001) // round(0.15×0.8, 3)
}

func TestNewSignal_NoSide(t *testing.T) {
	m := Market{Ticker: "FED-26SEP", Price: 0.60, HasPrice: true}
	e := Estimate{Ticker: "FED-26SEP", Source: "fed", Probability: 0.45, Confidence: 0.7}

	sig := NewSignal(m, e)

	assert.Equal(t, SideNo, sig.Side)
	assert.InDelta(t, -0.15, sig.Edge, 0.0001)
	assert.InDelta(t, 0.15, sig.AbsEdge, 0.0001)
}

func TestNewSignal_ZeroEdgeIsNoSide(t *testing.T) {
	m := Market{Price: 0.50, HasPrice: true}
	e := Estimate{Probability: 0.50, Confidence: 0.9}

	// Edge no estrictamente positivo → "no".
	assert.Equal(t, SideNo, NewSignal(m, e).Side)
}

func TestNewSignal_ScoreRoundedToThreeDecimals(t *testing.T) {
	m := Market{Price: 0.40, HasPrice: true}
	e := Estimate{Probability: 0.5333, Confidence: 0.77}

	sig := NewSignal(m, e)
	assert.Equal(t, 0.103, sig.Score) // 0.1333×0.77 = 0.102641
}

func TestRankSignals_DescendingByScore(t *testing.T) {
	signals := []Signal{
		{Ticker: "A", Score: 0.05},
		{Ticker: "B", Score: 0.12},
		{Ticker: "C", Score: 0.08},
	}

	ranked := RankSignals(signals)

	assert.Equal(t, "B", ranked[0].Ticker)
	assert.Equal(t, "C", ranked[1].Ticker)
	assert.Equal(t, "A", ranked[2].Ticker)
}

func TestRankSignals_StableOnTies(t *testing.T) {
	signals := []Signal{
		{Ticker: "A", Score: 0.08},
		{Ticker: "B", Score: 0.08},
	}

	ranked := RankSignals(signals)
	assert.Equal(t, "A", ranked[0].Ticker)
	assert.Equal(t, "B", ranked[1].Ticker)
}

func TestLatestPerSource_KeepsNewestPerSource(t *testing.T) {
	t0 := time.Date(2026, 8, 26, 10, 0, 0, 0, time.UTC)
	estimates := []Estimate{
		{Ticker: "A", Source: "weather", Probability: 0.50, CreatedAt: t0},
		{Ticker: "A", Source: "weather", Probability: 0.62, CreatedAt: t0.Add(time.Minute)},
		{Ticker: "A", Source: "econ", Probability: 0.44, CreatedAt: t0},
	}

	latest := LatestPerSource(estimates)

	assert.Len(t, latest, 2)
	assert.Equal(t, 0.62, latest[0].Probability)
	assert.Equal(t, "econ", latest[1].Source)
}

func TestLatestPerSource_TimestampTieLastWriteWins(t *testing.T) {
	t0 := time.Date(2026, 8, 26, 10, 0, 0, 0, time.UTC)
	estimates := []Estimate{
		{Ticker: "A", Source: "weather", Probability: 0.50, CreatedAt: t0},
		{Ticker: "A", Source: "weather", Probability: 0.58, CreatedAt: t0},
	}

	latest := LatestPerSource(estimates)

	assert.Len(t, latest, 1)
	assert.Equal(t, 0.58, latest[0].Probability)
}

func TestLatestPerSource_OlderWriteDoesNotReplace(t *testing.T) {
	t0 := time.Date(2026, 8, 26, 10, 0, 0, 0, time.UTC)
	estimates := []Estimate{
		{Ticker: "A", Source: "weather", Probability: 0.50, CreatedAt: t0},
		{Ticker: "A", Source: "weather", Probability: 0.70, CreatedAt: t0.Add(-time.Hour)},
	}

	latest := LatestPerSource(estimates)
	assert.Equal(t, 0.50, latest[0].Probability)
}
