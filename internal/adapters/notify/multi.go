package notify

import (
	"context"
	"errors"

	"github.com/alejandrodnm/kalshibot/internal/domain"
	"github.com/alejandrodnm/kalshibot/internal/ports"
)

// Multi agrupa varios notifiers en uno. Todos reciben el reporte aunque
// alguno falle; los errores se acumulan.
type Multi []ports.Notifier

// Notify entrega el reporte a todos los notifiers.
func (m Multi) Notify(ctx context.Context, report domain.CycleReport) error {
	var errs []error
	for _, n := range m {
		if err := n.Notify(ctx, report); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
