package ports

import (
	"context"

	"github.com/dominolu/dex-opinion/internal/domain"
)

// BookProvider toma snapshots del orderbook de un outcome token.
type BookProvider interface {
	// FetchDepth devuelve un snapshot fresco del book. Un book sin asks
	// o sin bids devuelve domain.ErrDepthUnavailable.
	FetchDepth(ctx context.Context, tokenSymbol, questionID string) (domain.DepthSnapshot, error)
}
