package models

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type countingFeed struct {
	calls  int
	value  float64
	failOn bool
}

func (f *countingFeed) Fetch(_ context.Context, _ string) (float64, error) {
	f.calls++
	if f.failOn {
		return 0, assert.AnError
	}
	return f.value, nil
}

func TestTTLCache_ExpiresEntries(t *testing.T) {
	now := time.Date(2026, 8, 26, 12, 0, 0, 0, time.UTC)
	cache := NewTTLCache(10 * time.Minute)
	cache.now = func() time.Time { return now }

	cache.Set("forecast_high:nyc", 91)

	v, ok := cache.Get("forecast_high:nyc")
	require.True(t, ok)
	assert.Equal(t, 91.0, v)

	now = now.Add(9 * time.Minute)
	_, ok = cache.Get("forecast_high:nyc")
	assert.True(t, ok)

	now = now.Add(2 * time.Minute)
	_, ok = cache.Get("forecast_high:nyc")
	assert.False(t, ok)
}

func TestCachedFeed_SingleFetchPerTTL(t *testing.T) {
	inner := &countingFeed{value: 88}
	feed := NewCachedFeed(inner, NewTTLCache(time.Hour))

	for i := 0; i < 3; i++ {
		v, err := feed.Fetch(context.Background(), "forecast_high:miami")
		require.NoError(t, err)
		assert.Equal(t, 88.0, v)
	}
	assert.Equal(t, 1, inner.calls)
}

func TestCachedFeed_ErrorNotCached(t *testing.T) {
	inner := &countingFeed{failOn: true}
	feed := NewCachedFeed(inner, NewTTLCache(time.Hour))

	_, err := feed.Fetch(context.Background(), "cpi_yoy_nowcast")
	require.Error(t, err)

	inner.failOn = false
	inner.value = 3.2
	v, err := feed.Fetch(context.Background(), "cpi_yoy_nowcast")
	require.NoError(t, err)
	assert.Equal(t, 3.2, v)
	assert.Equal(t, 2, inner.calls)
}
