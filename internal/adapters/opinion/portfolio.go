package opinion

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"

	"github.com/dominolu/dex-opinion/internal/domain"
)

const portfolioPageSize = 100

// FetchPositions devuelve los holdings del wallet bajo el parent topic.
// Implementa ports.PositionProvider — es la fuente primaria del Position
// Oracle. El result malformado (list ausente) se trata como error para
// que el oracle degrade al fallback.
func (c *Client) FetchPositions(ctx context.Context, wallet, topicID string) ([]domain.Position, error) {
	path := fmt.Sprintf("/v2/portfolio?page=1&limit=%d&walletAddress=%s&parentTopicId=%s",
		portfolioPageSize, url.QueryEscape(wallet), url.QueryEscape(topicID))

	var result portfolioResult
	if err := c.get(ctx, path, &result); err != nil {
		return nil, fmt.Errorf("opinion.FetchPositions: %w", err)
	}
	if result.List == nil {
		return nil, fmt.Errorf("opinion.FetchPositions: malformed result, list missing")
	}

	positions := mapHoldings(result.List)
	slog.Debug("portfolio fetched", "wallet", shortAddr(wallet), "holdings", len(positions))
	return positions, nil
}

// shortAddr abrevia un address para los logs (0x1234...abcd).
func shortAddr(addr string) string {
	if len(addr) < 10 {
		return addr
	}
	return addr[:6] + "..." + addr[len(addr)-4:]
}
