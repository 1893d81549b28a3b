package ports

import (
	"context"

	"github.com/dominolu/dex-opinion/internal/domain"
)

// ExecutionSurface es la superficie externa que materializa intents de
// trading (la página del exchange, manejada por un script companion) y
// expone observaciones pasivas de lo que está renderizado.
//
// Todos los intents son fire-and-forget: el engine nunca asume éxito
// síncrono, la confirmación se pollea por separado vía las observaciones
// o el Position Oracle.
type ExecutionSurface interface {
	// Intents.
	SelectOption(ctx context.Context, label string) error
	SelectSide(ctx context.Context, side domain.Side) error
	// SetPrice transmite el precio límite en formato cents ("4.4").
	SetPrice(ctx context.Context, cents string) error
	SetAmount(ctx context.Context, amount float64) error
	SubmitBuy(ctx context.Context) error
	// SubmitSell vende el total (Max) de la fila dada.
	SubmitSell(ctx context.Context, row domain.SellableRow) error

	// Observaciones pasivas.
	SellableRows(ctx context.Context) ([]domain.SellableRow, error)
	Holdings(ctx context.Context) ([]domain.Position, error)
	SubmissionActive(ctx context.Context) (bool, error)
	SuccessNotice(ctx context.Context) (bool, error)
	WalletAddress(ctx context.Context) (string, error)

	// Navegación.
	Location(ctx context.Context) (string, error)
	Navigate(ctx context.Context, url string) error
}
