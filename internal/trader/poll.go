package trader

// poll.go — puntos de suspensión del engine.
//
// Toda espera del engine pasa por estos helpers: son los únicos lugares
// donde se chequea la cancelación cooperativa. Un stop request aborta
// dentro de un intervalo de polling, nunca después de la espera completa.

import (
	"context"
	"time"

	"github.com/dominolu/dex-opinion/internal/domain"
)

// sleepFor espera d respetando la cancelación. Devuelve ErrUserStop si
// el contexto se cancela antes.
func sleepFor(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	select {
	case <-time.After(d):
		return nil
	case <-ctx.Done():
		return domain.ErrUserStop
	}
}

// pollUntil evalúa cond cada interval hasta attempts veces. Devuelve
// (true, nil) en cuanto cond se cumple, (false, nil) si la ventana
// expira — la expiración es política del caller, no un error — y
// (false, ErrUserStop) si se pide parar.
func pollUntil(ctx context.Context, interval time.Duration, attempts int, cond func(context.Context) bool) (bool, error) {
	for i := 0; i < attempts; i++ {
		if err := sleepFor(ctx, interval); err != nil {
			return false, err
		}
		if cond(ctx) {
			return true, nil
		}
	}
	return false, nil
}

// holdFor duerme d en ticks de interval para que un stop corte la
// espera en a lo sumo un tick.
func holdFor(ctx context.Context, d, interval time.Duration) error {
	deadline := time.Now().Add(d)
	for time.Now().Before(deadline) {
		step := interval
		if remaining := time.Until(deadline); remaining < step {
			step = remaining
		}
		if err := sleepFor(ctx, step); err != nil {
			return err
		}
	}
	return nil
}
