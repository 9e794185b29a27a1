package ports

import (
	"context"

	"github.com/alejandrodnm/kalshibot/internal/domain"
)

// Notifier presenta el resultado de cada ciclo al usuario.
type Notifier interface {
	// Notify recibe el reporte del ciclo: señales rankeadas, trades abiertos
	// en este batch, resoluciones y el snapshot de bankroll.
	Notify(ctx context.Context, report domain.CycleReport) error
}
