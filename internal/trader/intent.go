package trader

// intent.go — procedimientos compartidos sobre la execution surface.
//
// Cada intent es fire-and-forget: se emite y la confirmación se pollea
// por separado (observaciones pasivas o Position Oracle). Nunca se asume
// éxito síncrono.

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/dominolu/dex-opinion/internal/domain"
	"github.com/dominolu/dex-opinion/internal/oracle"
	"github.com/dominolu/dex-opinion/internal/ports"
)

// executor emite intents y espera sus señales de confirmación.
type executor struct {
	surface ports.ExecutionSurface
	oracle  *oracle.Oracle
	cfg     Config
}

// submitBuy transmite un intent de compra completo: opción, lado,
// precio límite (si lo hay) y monto, y somete.
func (e *executor) submitBuy(ctx context.Context, intent domain.OrderIntent) error {
	if err := e.surface.SelectOption(ctx, intent.Option); err != nil {
		return fmt.Errorf("select option %q: %w", intent.Option, err)
	}
	if err := e.surface.SelectSide(ctx, intent.Side); err != nil {
		return fmt.Errorf("select side %s: %w", intent.Side, err)
	}
	if intent.Mode == domain.ModeLimit {
		cents := domain.PriceCents(intent.Price)
		slog.Info("transmitting limit price", "price", intent.Price, "cents", cents)
		if err := e.surface.SetPrice(ctx, cents); err != nil {
			return fmt.Errorf("set price %s: %w", cents, err)
		}
	}
	if err := e.surface.SetAmount(ctx, intent.Amount); err != nil {
		return fmt.Errorf("set amount %.2f: %w", intent.Amount, err)
	}
	if err := e.surface.SubmitBuy(ctx); err != nil {
		return fmt.Errorf("submit buy: %w", err)
	}
	return nil
}

// waitForSubmission pollea la confirmación del submit: la UI de
// submission deja de estar activa, aparece una notificación de éxito, o
// el oracle reporta posición viva. El timeout NO es fatal — la
// confirmación de wallet no tiene deadline duro desde el engine — así
// que expira con warning y el ciclo sigue optimista.
func (e *executor) waitForSubmission(ctx context.Context, what string) (bool, error) {
	confirmed, err := pollUntil(ctx, e.cfg.PollInterval, e.cfg.ConfirmAttempts, func(ctx context.Context) bool {
		if active, err := e.surface.SubmissionActive(ctx); err == nil && !active {
			return true
		}
		if notice, err := e.surface.SuccessNotice(ctx); err == nil && notice {
			return true
		}
		return e.oracle.HasLivePosition(ctx)
	})
	if err != nil {
		return false, err
	}
	if !confirmed {
		slog.Warn("submission not confirmed within window, continuing optimistically", "intent", what)
	}
	return confirmed, nil
}

// waitForPosition pollea el oracle hasta que reporte want. La
// expiración no bloquea el ciclo.
func (e *executor) waitForPosition(ctx context.Context, want bool) (bool, error) {
	ok, err := pollUntil(ctx, e.cfg.PollInterval, e.cfg.PositionAttempts, func(ctx context.Context) bool {
		return e.oracle.HasLivePosition(ctx) == want
	})
	if err != nil {
		return false, err
	}
	if !ok {
		slog.Warn("oracle did not confirm position state within window", "want_live", want)
	}
	return ok, nil
}

// sellAll somete un sell-all por cada fila vendible que reporte la
// surface. Devuelve cuántas filas se vendieron.
func (e *executor) sellAll(ctx context.Context) (int, error) {
	rows, err := e.surface.SellableRows(ctx)
	if err != nil {
		return 0, fmt.Errorf("list sellable rows: %w", err)
	}
	if len(rows) == 0 {
		slog.Warn("no sellable rows reported by surface")
		return 0, nil
	}

	sold := 0
	for _, row := range rows {
		if err := ctx.Err(); err != nil {
			return sold, domain.ErrUserStop
		}
		if err := e.surface.SubmitSell(ctx, row); err != nil {
			slog.Warn("sell intent failed, skipping row", "row", row.Index, "err", err)
			continue
		}
		sold++
		slog.Info("sell submitted", "row", row.Index, "outcome", row.Outcome, "shares", row.Shares)
	}
	return sold, nil
}
