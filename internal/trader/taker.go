package trader

// taker.go — estrategia de ejecución inmediata.
//
// Máquina de estados por ciclo:
//
//	CheckingPosition → Entering → Holding → Exiting → CheckingPosition
//
// La exclusión mutua entre enter y exit se impone re-consultando el
// oracle, no con memoria local: el estado externo puede cambiar por su
// cuenta (trades manuales).

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/dominolu/dex-opinion/internal/domain"
	"github.com/dominolu/dex-opinion/internal/oracle"
	"github.com/dominolu/dex-opinion/internal/ports"
)

// Taker compra a mercado, mantiene la posición un tiempo fijo y vende.
type Taker struct {
	resolver *Resolver
	oracle   *oracle.Oracle
	surface  ports.ExecutionSurface
	exec     executor
	cfg      Config
}

// NewTaker construye la estrategia taker.
func NewTaker(resolver *Resolver, orc *oracle.Oracle, surface ports.ExecutionSurface, cfg Config) *Taker {
	return &Taker{
		resolver: resolver,
		oracle:   orc,
		surface:  surface,
		exec:     executor{surface: surface, oracle: orc, cfg: cfg},
		cfg:      cfg,
	}
}

// RunCycle ejecuta un ciclo taker completo.
func (t *Taker) RunCycle(ctx context.Context, number int) (domain.CycleRecord, error) {
	rec := domain.CycleRecord{
		ID:        uuid.New().String(),
		Strategy:  domain.StrategyTaker,
		Number:    number,
		StartedAt: time.Now(),
	}
	defer func() { rec.Duration = time.Since(rec.StartedAt) }()

	// Precheck: sin wallet conectado no hay nada que hacer
	if addr, err := t.surface.WalletAddress(ctx); err != nil || addr == "" {
		rec.Err = domain.ErrNoWallet.Error()
		return rec, fmt.Errorf("taker.RunCycle: %w", domain.ErrNoWallet)
	}

	// CheckingPosition: la decisión enter/exit sale del oracle, fresca
	live := t.oracle.HasLivePosition(ctx)

	if live {
		slog.Info("taker: live position detected, exiting", "cycle", number)
		if err := t.exit(ctx, &rec); err != nil {
			return rec, err
		}
		return rec, nil
	}

	slog.Info("taker: no position, entering", "cycle", number, "option", t.cfg.OptionLabel, "side", t.cfg.Side)
	if err := t.enter(ctx, &rec); err != nil {
		return rec, err
	}

	// Holding
	slog.Info("taker: holding", "duration", t.cfg.Hold)
	if err := holdFor(ctx, t.cfg.Hold, t.cfg.PollInterval); err != nil {
		return rec, err
	}

	// Exiting
	if err := t.exit(ctx, &rec); err != nil {
		return rec, err
	}
	return rec, nil
}

// enter somete la compra a mercado y espera las confirmaciones.
func (t *Taker) enter(ctx context.Context, rec *domain.CycleRecord) error {
	ref, err := t.resolver.ResolveMarket(ctx, t.cfg.TopicID, t.cfg.OptionLabel)
	if err != nil {
		rec.Err = err.Error()
		return fmt.Errorf("taker.enter: %w", err)
	}

	intent := domain.OrderIntent{
		Option: ref.Title,
		Side:   t.cfg.Side,
		Mode:   domain.ModeMarket,
		Amount: t.cfg.Amount,
	}
	if err := t.exec.submitBuy(ctx, intent); err != nil {
		rec.Err = err.Error()
		return fmt.Errorf("taker.enter: %w", err)
	}
	rec.Entered = true

	if _, err := t.exec.waitForSubmission(ctx, "buy"); err != nil {
		return err
	}
	if _, err := t.exec.waitForPosition(ctx, true); err != nil {
		return err
	}
	return nil
}

// exit espera el pre-sell delay, vende todas las filas vendibles y
// espera a que el oracle reporte flat. Ambos timeouts son no-fatales.
func (t *Taker) exit(ctx context.Context, rec *domain.CycleRecord) error {
	if err := holdFor(ctx, t.cfg.SellWait, t.cfg.PollInterval); err != nil {
		return err
	}

	sold, err := t.exec.sellAll(ctx)
	if err != nil {
		if domain.IsUserStop(err) {
			return err
		}
		rec.Err = err.Error()
		return fmt.Errorf("taker.exit: %w", err)
	}
	rec.Exited = sold > 0

	if _, err := t.exec.waitForPosition(ctx, false); err != nil {
		return err
	}
	return nil
}
