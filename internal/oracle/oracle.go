// Package oracle reconcilia la existencia de posición desde dos fuentes
// poco fiables: el portfolio API (primaria) y los holdings renderizados
// por la execution surface (fallback). Ambas fuentes aplican el mismo
// umbral de valor, así la lógica de estrategia es agnóstica a la fuente.
package oracle

import (
	"context"
	"log/slog"
	"sync"

	"github.com/dominolu/dex-opinion/internal/adapters/opinion"
	"github.com/dominolu/dex-opinion/internal/domain"
	"github.com/dominolu/dex-opinion/internal/ports"
)

// Config parametriza el oracle.
type Config struct {
	Wallet      string  // address configurado; vacío → descubrir vía surface
	TopicID     string  // parent topic bajo el que se consultan holdings
	Floor       float64 // piso de valor; <= 0 usa domain.MinPositionValue
	UseAPIFirst bool    // false → solo surface, sin tocar el API
}

// Oracle responde "¿hay una posición viva?". Nunca devuelve error: los
// fallos de la fuente primaria degradan al fallback.
type Oracle struct {
	primary ports.PositionProvider
	surface ports.ExecutionSurface
	cfg     Config

	mu     sync.Mutex
	wallet string // address resuelto, cacheado tras el primer hit
}

// New crea un Oracle sobre las dos fuentes dadas.
func New(primary ports.PositionProvider, surface ports.ExecutionSurface, cfg Config) *Oracle {
	if cfg.Floor <= 0 {
		cfg.Floor = domain.MinPositionValue
	}
	return &Oracle{primary: primary, surface: surface, cfg: cfg}
}

// HasLivePosition devuelve true si el wallet tiene algún holding con
// valor por encima del piso. Read-only, sin efectos; puede tardar hasta
// el timeout del client primario antes de degradar.
func (o *Oracle) HasLivePosition(ctx context.Context) bool {
	if !o.cfg.UseAPIFirst {
		return o.fromSurface(ctx)
	}

	wallet, err := o.walletAddress(ctx)
	if err != nil {
		slog.Warn("oracle: wallet unavailable, falling back to surface", "err", err)
		return o.fromSurface(ctx)
	}

	positions, err := o.primary.FetchPositions(ctx, wallet, o.cfg.TopicID)
	if err != nil {
		slog.Warn("oracle: primary source failed, falling back to surface", "err", err)
		return o.fromSurface(ctx)
	}

	return domain.AnyLive(positions, o.cfg.Floor)
}

// fromSurface lee los holdings renderizados, con el MISMO umbral que la
// fuente primaria. Un fallo aquí cuenta como "sin posición": la capa de
// estrategia re-chequea en el siguiente tick de todas formas.
func (o *Oracle) fromSurface(ctx context.Context) bool {
	holdings, err := o.surface.Holdings(ctx)
	if err != nil {
		slog.Warn("oracle: surface read failed, assuming no position", "err", err)
		return false
	}
	return domain.AnyLive(holdings, o.cfg.Floor)
}

// walletAddress resuelve el address: configuración primero, observación
// de la surface después. El resultado se cachea para la sesión.
func (o *Oracle) walletAddress(ctx context.Context) (string, error) {
	o.mu.Lock()
	defer o.mu.Unlock()

	if o.wallet != "" {
		return o.wallet, nil
	}

	if o.cfg.Wallet != "" {
		addr, err := opinion.NormalizeWallet(o.cfg.Wallet)
		if err != nil {
			return "", err
		}
		o.wallet = addr
		return addr, nil
	}

	observed, err := o.surface.WalletAddress(ctx)
	if err != nil || observed == "" {
		return "", domain.ErrNoWallet
	}
	addr, err := opinion.NormalizeWallet(observed)
	if err != nil {
		return "", err
	}
	o.wallet = addr
	slog.Info("oracle: wallet discovered from surface", "address", addr)
	return addr, nil
}

// Wallet expone el address resuelto (vacío si aún no se determinó).
// Lo usa la estrategia maker para listar órdenes.
func (o *Oracle) Wallet(ctx context.Context) (string, error) {
	return o.walletAddress(ctx)
}
