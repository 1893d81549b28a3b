package ports

import (
	"context"

	"github.com/dominolu/dex-opinion/internal/domain"
)

// PositionProvider es la fuente primaria de holdings del Position Oracle.
type PositionProvider interface {
	// FetchPositions devuelve los holdings actuales del wallet bajo el
	// parent topic dado. Lista vacía significa sin posiciones.
	FetchPositions(ctx context.Context, wallet, topicID string) ([]domain.Position, error)
}
