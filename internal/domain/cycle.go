package domain

import "time"

// StrategyKind selecciona la estrategia de ejecución de la sesión.
type StrategyKind string

const (
	StrategyTaker StrategyKind = "taker"
	StrategyMaker StrategyKind = "maker"
)

// ParseStrategyKind normaliza el modo configurado.
func ParseStrategyKind(s string) (StrategyKind, bool) {
	switch StrategyKind(s) {
	case StrategyTaker, StrategyMaker:
		return StrategyKind(s), true
	}
	return "", false
}

// CycleRecord resume un ciclo de trading completado, para el journal
// y el reporte de sesión.
type CycleRecord struct {
	ID        string
	Strategy  StrategyKind
	Number    int
	StartedAt time.Time
	Duration  time.Duration
	Entered   bool // se emitió un intent de compra
	Filled    bool // maker: se detectó fill dentro de la ventana
	Exited    bool // se emitió la liquidación
	Err       string
}

// Failed indica si el ciclo terminó con un error fatal.
func (r CycleRecord) Failed() bool {
	return r.Err != ""
}
