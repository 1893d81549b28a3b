package trader

import (
	"time"

	"github.com/dominolu/dex-opinion/internal/domain"
)

// Config parametriza una sesión de trading. Se lee una vez al arrancar
// la sesión; reconfigurar en caliente queda fuera de alcance.
type Config struct {
	MarketURL   string // página del mercado objetivo (guard de navegación)
	TopicID     string // parent topic id
	OptionLabel string // título (o substring) del child market
	Side        domain.Side
	Strategy    domain.StrategyKind

	Amount   float64       // tamaño fijo por trade, en USD
	Hold     time.Duration // duración del hold en modo taker
	PreTrade time.Duration // espera antes del primer ciclo
	SellWait time.Duration // espera antes de cada liquidación

	// Presupuesto de cada espera: poll cada PollInterval, corta tras
	// PollInterval × attempts. La expiración degrada a "continuar
	// optimista" salvo donde se marca fatal.
	PollInterval     time.Duration
	ConfirmAttempts  int // confirmación de submit (presupuesto 60s)
	PositionAttempts int // aparición/limpieza de posición (presupuesto 30s)

	MakerTimeout         time.Duration // ventana de espera de fill
	MakerOrderCheckEvery time.Duration // consulta directa de órdenes
	MakerCancelOnTimeout bool          // cancelar resting orders al expirar
	MakerRetries         int           // ciclos fatales consecutivos tolerados

	CancelSpacing time.Duration // espaciado entre cancelaciones seriadas
	CyclePause    time.Duration // pausa entre ciclos
}

// DefaultConfig devuelve los valores de operación por defecto.
func DefaultConfig() Config {
	return Config{
		Side:     domain.SideYes,
		Strategy: domain.StrategyTaker,

		Amount:   10,
		Hold:     60 * time.Second,
		PreTrade: 2 * time.Second,
		SellWait: 5 * time.Second,

		PollInterval:     time.Second,
		ConfirmAttempts:  60,
		PositionAttempts: 30,

		MakerTimeout:         60 * time.Second,
		MakerOrderCheckEvery: 5 * time.Second,
		MakerCancelOnTimeout: false, // al expirar, las resting orders quedan vivas
		MakerRetries:         3,

		CancelSpacing: 500 * time.Millisecond,
		CyclePause:    time.Second,
	}
}
