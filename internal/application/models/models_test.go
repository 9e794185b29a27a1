package models

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alejandrodnm/kalshibot/internal/domain"
)

type staticFeed map[string]float64

func (f staticFeed) Fetch(_ context.Context, series string) (float64, error) {
	v, ok := f[series]
	if !ok {
		return 0, assert.AnError
	}
	return v, nil
}

func activeMarket(ticker, title, category string) domain.Market {
	return domain.Market{
		Ticker:   ticker,
		Title:    title,
		Category: category,
		Status:   domain.StatusActive,
		Price:    0.50,
		HasPrice: true,
	}
}

func TestRunner_FiltersByCategoryAndStampsMetadata(t *testing.T) {
	feed := staticFeed{"forecast_high:nyc": 95}
	runner := NewRunner()
	runner.now = func() time.Time { return time.Date(2026, 8, 26, 15, 0, 0, 0, time.UTC) }
	runner.Register(NewWeatherModel(feed))

	markets := []domain.Market{
		activeMarket("HIGHNY", "Will the high in NYC be above 90 today?", "weather"),
		activeMarket("CPI", "Will CPI be above 3.0%?", "econ"),
	}

	ests := runner.Run(context.Background(), markets)
	require.Len(t, ests, 1)
	assert.Equal(t, "HIGHNY", ests[0].Ticker)
	assert.Equal(t, "weather-v1", ests[0].Source)
	assert.Equal(t, 2026, ests[0].CreatedAt.Year())
}

func TestRunner_SkipsNonTradableMarkets(t *testing.T) {
	feed := staticFeed{"forecast_high:nyc": 95}
	runner := NewRunner()
	runner.Register(NewWeatherModel(feed))

	closed := activeMarket("HIGHNY", "Will the high in NYC be above 90 today?", "weather")
	closed.Status = domain.StatusClosed

	ests := runner.Run(context.Background(), []domain.Market{closed})
	assert.Empty(t, ests)
}

func TestWeatherModel_AboveAndBelow(t *testing.T) {
	feed := staticFeed{"forecast_high:chicago": 95}
	model := NewWeatherModel(feed)

	above, ok := model.Estimate(context.Background(), activeMarket(
		"A", "Will the high in Chicago be above 90 today?", "weather"))
	require.True(t, ok)
	assert.Greater(t, above.Probability, 0.5)

	below, ok := model.Estimate(context.Background(), activeMarket(
		"B", "Will the high in Chicago be below 90 today?", "weather"))
	require.True(t, ok)
	assert.Less(t, below.Probability, 0.5)
	assert.InDelta(t, 1.0, above.Probability+below.Probability, 1e-9)
}

func TestWeatherModel_UnknownCityNotApplicable(t *testing.T) {
	model := NewWeatherModel(staticFeed{})

	_, ok := model.Estimate(context.Background(), activeMarket(
		"A", "Will the high in Tulsa be above 90 today?", "weather"))
	assert.False(t, ok)
}

func TestWeatherModel_FeedErrorNotApplicable(t *testing.T) {
	model := NewWeatherModel(staticFeed{})

	_, ok := model.Estimate(context.Background(), activeMarket(
		"A", "Will the high in NYC be above 90 today?", "weather"))
	assert.False(t, ok)
}

func TestEconModel_BelowThresholdInverts(t *testing.T) {
	feed := staticFeed{"cpi_yoy_nowcast": 3.4}
	model := NewEconModel(feed)

	above, ok := model.Estimate(context.Background(), activeMarket(
		"A", "Will CPI be above 3.0% year over year?", "econ"))
	require.True(t, ok)
	assert.Greater(t, above.Probability, 0.5)

	below, ok := model.Estimate(context.Background(), activeMarket(
		"B", "Will inflation be below 3.0%?", "econ"))
	require.True(t, ok)
	assert.Less(t, below.Probability, 0.5)
}

func TestEconModel_NonCPITitleNotApplicable(t *testing.T) {
	model := NewEconModel(staticFeed{"cpi_yoy_nowcast": 3.4})

	_, ok := model.Estimate(context.Background(), activeMarket(
		"A", "Will GDP growth be above 2.0%?", "econ"))
	assert.False(t, ok)
}

func TestFedModel_CutExpectedRaisesCutProbability(t *testing.T) {
	feed := staticFeed{"fed_funds_target": 4.50, "fed_funds_implied": 4.20}
	model := NewFedModel(feed)

	cut, ok := model.Estimate(context.Background(), activeMarket(
		"A", "Will the Fed cut rates in September?", "fed"))
	require.True(t, ok)

	hike, ok := model.Estimate(context.Background(), activeMarket(
		"B", "Will the Fed raise rates in September?", "fed"))
	require.True(t, ok)

	assert.Greater(t, cut.Probability, hike.Probability)
}

func TestParseFedMove(t *testing.T) {
	move, ok := parseFedMove("Will the FOMC hold rates unchanged?")
	require.True(t, ok)
	assert.Equal(t, "hold", move)

	_, ok = parseFedMove("Will Powell resign this year?")
	assert.False(t, ok)
}
