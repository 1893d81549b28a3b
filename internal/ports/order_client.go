package ports

import (
	"context"

	"github.com/dominolu/dex-opinion/internal/domain"
)

// OrderClient lista y cancela órdenes del wallet en el exchange.
type OrderClient interface {
	// ListOpenOrders devuelve las órdenes más recientes del wallet para
	// el parent topic dado.
	ListOpenOrders(ctx context.Context, wallet, topicID string) ([]domain.OpenOrder, error)

	// CancelOrder cancela una orden por su trans_no. Cancelar una orden
	// ya completada o ya cancelada devuelve error; los callers lo
	// loguean y continúan, nunca es fatal. Los callers DEBEN serializar
	// las cancelaciones, no emitirlas concurrentemente.
	CancelOrder(ctx context.Context, transNo string, chainID int64) error
}
