package ports

import (
	"context"

	"github.com/alejandrodnm/kalshibot/internal/domain"
)

// CycleLog persiste un resumen ligero por ciclo (una fila por ciclo).
type CycleLog interface {
	SaveCycle(ctx context.Context, report domain.CycleReport) error
}
