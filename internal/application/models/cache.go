package models

import (
	"context"
	"sync"
	"time"

	"github.com/alejandrodnm/kalshibot/internal/ports"
)

// TTLCache es una cache explícita con expiración por entrada. Se construye y
// se inyecta donde haga falta: nada de estado global a nivel de módulo, así
// es inspeccionable y testeable con un clock inyectado.
type TTLCache struct {
	mu      sync.Mutex
	ttl     time.Duration
	now     func() time.Time
	entries map[string]cacheEntry
}

type cacheEntry struct {
	value     float64
	expiresAt time.Time
}

// NewTTLCache crea una cache con el TTL dado.
func NewTTLCache(ttl time.Duration) *TTLCache {
	return &TTLCache{
		ttl:     ttl,
		now:     time.Now,
		entries: make(map[string]cacheEntry),
	}
}

// Get devuelve el valor si existe y no ha expirado.
func (c *TTLCache) Get(key string) (float64, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.entries[key]
	if !ok || c.now().After(e.expiresAt) {
		delete(c.entries, key)
		return 0, false
	}
	return e.value, true
}

// Set guarda el valor con expiración now+ttl.
func (c *TTLCache) Set(key string, value float64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[key] = cacheEntry{value: value, expiresAt: c.now().Add(c.ttl)}
}

// CachedFeed decora un ports.DataFeed con la TTLCache: los modelos comparten
// series (la misma ciudad aparece en varios mercados) y el feed externo no
// necesita más de una consulta por TTL.
type CachedFeed struct {
	inner ports.DataFeed
	cache *TTLCache
}

// NewCachedFeed crea el decorador.
func NewCachedFeed(inner ports.DataFeed, cache *TTLCache) *CachedFeed {
	return &CachedFeed{inner: inner, cache: cache}
}

// Fetch devuelve el valor cacheado o consulta el feed y cachea.
func (f *CachedFeed) Fetch(ctx context.Context, series string) (float64, error) {
	if v, ok := f.cache.Get(series); ok {
		return v, nil
	}

	v, err := f.inner.Fetch(ctx, series)
	if err != nil {
		return 0, err
	}
	f.cache.Set(series, v)
	return v, nil
}
