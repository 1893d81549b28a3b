package opinion

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"
	"time"

	"github.com/dominolu/dex-opinion/internal/domain"
)

// FetchDepth toma un snapshot fresco del orderbook de un outcome token.
// Implementa ports.BookProvider. Un book sin asks o sin bids devuelve
// domain.ErrDepthUnavailable: sin ambos lados no se puede cotizar.
func (c *Client) FetchDepth(ctx context.Context, tokenSymbol, questionID string) (domain.DepthSnapshot, error) {
	path := fmt.Sprintf("/v2/order/market/depth?symbol=%s&chainId=%d&question_id=%s&symbol_types=0",
		url.QueryEscape(tokenSymbol), c.chainID, url.QueryEscape(questionID))

	var result depthResult
	if err := c.get(ctx, path, &result); err != nil {
		return domain.DepthSnapshot{}, fmt.Errorf("opinion.FetchDepth: %w", err)
	}

	snap := mapDepth(result, time.Now())
	if !snap.TwoSided() {
		return domain.DepthSnapshot{}, fmt.Errorf("opinion.FetchDepth %s: %w", tokenSymbol, domain.ErrDepthUnavailable)
	}

	slog.Debug("depth fetched",
		"symbol", tokenSymbol,
		"best_ask", snap.BestAsk().Price,
		"best_bid", snap.BestBid().Price,
		"spread", snap.Spread(),
	)
	return snap, nil
}
