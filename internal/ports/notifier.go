package ports

import (
	"context"

	"github.com/dominolu/dex-opinion/internal/domain"
)

// Notifier presenta el progreso de la sesión al usuario.
type Notifier interface {
	// CycleDone reporta un ciclo completado.
	CycleDone(ctx context.Context, rec domain.CycleRecord) error

	// SessionDone imprime el resumen al terminar la sesión.
	SessionDone(ctx context.Context, cycles []domain.CycleRecord) error
}
