package ports

import (
	"context"

	"github.com/dominolu/dex-opinion/internal/domain"
)

// CycleJournal persiste el resultado de cada ciclo de trading.
type CycleJournal interface {
	SaveCycle(ctx context.Context, rec domain.CycleRecord) error

	// RecentCycles devuelve los últimos ciclos, el más reciente primero.
	RecentCycles(ctx context.Context, limit int) ([]domain.CycleRecord, error)

	Close() error
}
