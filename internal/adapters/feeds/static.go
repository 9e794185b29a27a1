package feeds

import (
	"context"
	"fmt"
	"sync"
)

// StaticFeed sirve valores fijos desde memoria. Para dry-run sin red y para
// tests.
type StaticFeed struct {
	mu     sync.RWMutex
	values map[string]float64
}

// NewStaticFeed crea el feed con los valores dados.
func NewStaticFeed(values map[string]float64) *StaticFeed {
	if values == nil {
		values = make(map[string]float64)
	}
	return &StaticFeed{values: values}
}

// Set fija el valor de una serie.
func (f *StaticFeed) Set(series string, value float64) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.values[series] = value
}

// Fetch devuelve el valor fijado, o error si la serie no existe.
func (f *StaticFeed) Fetch(_ context.Context, series string) (float64, error) {
	f.mu.RLock()
	defer f.mu.RUnlock()

	v, ok := f.values[series]
	if !ok {
		return 0, fmt.Errorf("feeds.Fetch: unknown series %q", series)
	}
	return v, nil
}
