package feeds

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHTTPFeed_FetchesValue(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/series/forecast_high:nyc", r.URL.Path)
		w.Write([]byte(`{"value": 91.5}`))
	}))
	defer srv.Close()

	v, err := NewHTTPFeed(srv.URL).Fetch(context.Background(), "forecast_high:nyc")
	require.NoError(t, err)
	assert.Equal(t, 91.5, v)
}

func TestHTTPFeed_NonOKStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	_, err := NewHTTPFeed(srv.URL).Fetch(context.Background(), "nope")
	assert.ErrorContains(t, err, "status 404")
}

func TestStaticFeed_UnknownSeries(t *testing.T) {
	feed := NewStaticFeed(map[string]float64{"cpi_yoy_nowcast": 3.1})

	v, err := feed.Fetch(context.Background(), "cpi_yoy_nowcast")
	require.NoError(t, err)
	assert.Equal(t, 3.1, v)

	_, err = feed.Fetch(context.Background(), "missing")
	assert.Error(t, err)
}
