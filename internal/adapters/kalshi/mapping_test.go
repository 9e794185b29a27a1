package kalshi

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alejandrodnm/kalshibot/internal/domain"
)

func TestMapMarket_CentsToFraction(t *testing.T) {
	m := mapMarket(apiMarket{
		Ticker:    "HIGHNY-26AUG26-B90",
		Title:     "Will the high in NYC be above 90°F today?",
		Category:  "Climate and Weather",
		Status:    "open",
		LastPrice: 42,
		Volume24h: 15000,
	})

	assert.Equal(t, domain.StatusActive, m.Status)
	assert.True(t, m.HasPrice)
	assert.InDelta(t, 0.42, m.Price, 0.0001)
	assert.Equal(t, 15000.0, m.Volume24h)
}

func TestMapMarket_MidpointWhenNoLastPrice(t *testing.T) {
	m := mapMarket(apiMarket{Ticker: "A", Status: "open", YesBid: 40, YesAsk: 44})

	assert.True(t, m.HasPrice)
	assert.InDelta(t, 0.42, m.Price, 0.0001)
}

func TestMapMarket_NoPriceAvailable(t *testing.T) {
	m := mapMarket(apiMarket{Ticker: "A", Status: "open"})

	assert.False(t, m.HasPrice)
	assert.False(t, m.Tradable())
}

func TestMapMarket_SettledWithResult(t *testing.T) {
	m := mapMarket(apiMarket{Ticker: "A", Status: "settled", Result: "yes"})

	assert.Equal(t, domain.StatusSettled, m.Status)
	assert.Equal(t, domain.ResultYes, m.Result)
	assert.True(t, m.Settled())
}

func TestMapMarket_UnknownStatusIsClosed(t *testing.T) {
	m := mapMarket(apiMarket{Ticker: "A", Status: "paused"})
	assert.Equal(t, domain.StatusClosed, m.Status)
}

func TestMapMarket_ScalarResultIgnored(t *testing.T) {
	m := mapMarket(apiMarket{Ticker: "A", Status: "settled", Result: "range_high"})
	assert.Equal(t, domain.ResultNone, m.Result)
	assert.False(t, m.Settled())
}

func TestMapMarket_CloseTimeParsed(t *testing.T) {
	m := mapMarket(apiMarket{Ticker: "A", Status: "open", CloseTime: "2026-08-26T20:00:00Z"})
	assert.Equal(t, 2026, m.CloseTime.Year())
}

func TestTickerMessage_Decode(t *testing.T) {
	raw := `{"type":"ticker","msg":{"market_ticker":"FED-26SEP","price":58}}`

	var msg tickerMessage
	require.NoError(t, json.Unmarshal([]byte(raw), &msg))
	assert.Equal(t, "ticker", msg.Type)
	assert.Equal(t, "FED-26SEP", msg.Msg.MarketTicker)
	assert.Equal(t, 58, msg.Msg.Price)
}
