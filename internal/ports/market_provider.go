package ports

import (
	"context"

	"github.com/alejandrodnm/kalshibot/internal/domain"
)

// MarketProvider obtiene el snapshot de mercados desde el exchange.
type MarketProvider interface {
	// FetchMarkets devuelve los mercados abiertos y los recién resueltos.
	// Pagina automáticamente hasta obtener todos los resultados.
	FetchMarkets(ctx context.Context) ([]domain.Market, error)
}
