package opinion

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"

	"github.com/dominolu/dex-opinion/internal/domain"
)

const ordersPageSize = 10

// ListOpenOrders devuelve las órdenes más recientes del wallet para el
// parent topic. Implementa ports.OrderClient. El status viene del
// exchange: 1=pending, 2=filled, 3=cancelled.
func (c *Client) ListOpenOrders(ctx context.Context, wallet, topicID string) ([]domain.OpenOrder, error) {
	path := fmt.Sprintf("/v2/order?page=1&limit=%d&walletAddress=%s&parentTopicId=%s&queryType=1",
		ordersPageSize, url.QueryEscape(wallet), url.QueryEscape(topicID))

	var result ordersResult
	if err := c.get(ctx, path, &result); err != nil {
		return nil, fmt.Errorf("opinion.ListOpenOrders: %w", err)
	}

	orders := mapOrders(result.List)
	slog.Debug("orders fetched", "wallet", shortAddr(wallet), "count", len(orders))
	return orders, nil
}

// CancelOrder cancela una orden por trans_no. Cancelar una orden ya
// completada o cancelada devuelve error; los callers lo loguean y
// continúan. Si chainID es 0 se usa la chain del client.
func (c *Client) CancelOrder(ctx context.Context, transNo string, chainID int64) error {
	if chainID == 0 {
		chainID = c.chainID
	}
	body := cancelRequest{TransNo: transNo, ChainID: chainID}

	if err := c.post(ctx, "/v1/order/cancel/order", body, nil); err != nil {
		return fmt.Errorf("opinion.CancelOrder %s: %w", transNo, err)
	}

	slog.Info("order cancelled", "trans_no", transNo)
	return nil
}
