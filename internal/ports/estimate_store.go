package ports

import (
	"context"
	"time"

	"github.com/alejandrodnm/kalshibot/internal/domain"
)

// EstimateStore persiste las estimaciones que producen los modelos.
type EstimateStore interface {
	// SaveEstimates inserta un batch de estimaciones.
	SaveEstimates(ctx context.Context, estimates []domain.Estimate) error

	// EstimatesSince devuelve las estimaciones creadas desde el instante dado,
	// en orden de inserción. El detector reduce a la última por (ticker, source)
	// con domain.LatestPerSource.
	EstimatesSince(ctx context.Context, since time.Time) ([]domain.Estimate, error)
}
