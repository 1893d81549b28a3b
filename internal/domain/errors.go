package domain

import (
	"errors"
	"fmt"
	"strings"
)

// Errores fatales por ciclo y la señal de parada cooperativa.
// Las condiciones transitorias (fallback del oracle, cancelación
// best-effort, timeouts de confirmación) se absorben en el borde del
// componente y nunca llegan aquí.
var (
	// ErrDepthUnavailable indica un book sin asks o sin bids: no se puede
	// cotizar un mercado two-sided. Fatal para el ciclo actual.
	ErrDepthUnavailable = errors.New("order book depth unavailable")

	// ErrUserStop es la señal de parada cooperativa. Se distingue de
	// cualquier otro error y se traga en el borde del loop de estrategia
	// sin reportarse como fallo.
	ErrUserStop = errors.New("user stop requested")

	// ErrNoWallet indica que no se pudo determinar el wallet address ni
	// por configuración ni por la surface.
	ErrNoWallet = errors.New("wallet address unavailable")
)

// ResolutionError indica que el label configurado no mapea a ningún
// child market del topic. Fatal para el ciclo; quien llama decide si
// reintenta el ciclo completo.
type ResolutionError struct {
	TopicID   string
	Label     string
	Available []string // títulos disponibles, para diagnóstico
}

func (e *ResolutionError) Error() string {
	if len(e.Available) == 0 {
		return fmt.Sprintf("no market matches %q under topic %s", e.Label, e.TopicID)
	}
	return fmt.Sprintf("no market matches %q under topic %s (available: %s)",
		e.Label, e.TopicID, strings.Join(e.Available, ", "))
}

// IsUserStop devuelve true si err es (o envuelve) la señal de parada.
func IsUserStop(err error) bool {
	return errors.Is(err, ErrUserStop)
}
