package ports

import (
	"context"

	"github.com/dominolu/dex-opinion/internal/domain"
)

// MarketProvider obtiene los child markets de un topic multi-outcome.
type MarketProvider interface {
	// FetchChildMarkets devuelve la lista de sub-mercados del topic,
	// en el orden en que los lista el exchange.
	FetchChildMarkets(ctx context.Context, topicID string) ([]domain.ChildMarket, error)
}
