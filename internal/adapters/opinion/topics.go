package opinion

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"

	"github.com/dominolu/dex-opinion/internal/domain"
)

// FetchChildMarkets devuelve los sub-mercados del topic multi-outcome,
// en el orden en que los lista el exchange. Implementa ports.MarketProvider.
func (c *Client) FetchChildMarkets(ctx context.Context, topicID string) ([]domain.ChildMarket, error) {
	path := "/v2/topic/mutil/" + url.PathEscape(topicID)

	var result topicResult
	if err := c.get(ctx, path, &result); err != nil {
		return nil, fmt.Errorf("opinion.FetchChildMarkets: %w", err)
	}

	children := mapChildMarkets(result.Data.ChildList)
	slog.Debug("topic fetched", "topic", topicID, "children", len(children))
	return children, nil
}
