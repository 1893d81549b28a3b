package trader

// maker.go — estrategia de resting order.
//
// Máquina de estados por ciclo:
//
//	Resolving → QuotingDepth → PlacingBothSides → Monitoring →
//	  {Reconciling → Liquidating | TimedOut} → Resolving
//
// Resolución y depth son fatales por ciclo; todo lo demás degrada a
// "continuar optimista". El invariante de orden: con fill, Reconciling
// SIEMPRE corre antes que Liquidating; sin fill, ninguno corre.

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

// Maker deja una limit order en reposo al best ask, espera el fill,
// cancela lo pendiente y liquida.
type Maker struct {
	resolver *Resolver
	books    ports.BookProvider
	orders   ports.OrderClient
	oracle   *oracle.Oracle
	exec     executor
	cfg      Config
}

// NewMaker construye la estrategia maker.
func NewMaker(resolver *Resolver, books ports.BookProvider, orders ports.OrderClient, orc *oracle.Oracle, surface ports.ExecutionSurface, cfg Config) *Maker {
	return &Maker{
		resolver: resolver,
		books:    books,
		orders:   orders,
		oracle:   orc,
		exec:     executor{surface: surface, oracle: orc, cfg: cfg},
		cfg:      cfg,
	}
}

// RunCycle ejecuta un ciclo maker completo.
func (m *Maker) RunCycle(ctx context.Context, number int) (domain.CycleRecord, error) {
	rec := domain.CycleRecord{
		ID:        uuid.New().String(),
		Strategy:  domain.StrategyMaker,
		Number:    number,
		StartedAt: time.Now(),
	}
	defer func() { rec.Duration = time.Since(rec.StartedAt) }()

	// Resolving
	ref, err := m.resolver.ResolveMarket(ctx, m.cfg.TopicID, m.cfg.OptionLabel)
	if err != nil {
		rec.Err = err.Error()
		return rec, fmt.Errorf("maker.RunCycle: %w", err)
	}

	// QuotingDepth: snapshot fresco, nunca cacheado
	depth, err := m.books.FetchDepth(ctx, ref.YesTokenID, ref.QuestionID)
	if err != nil {
		rec.Err = err.Error()
		return rec, fmt.Errorf("maker.RunCycle: %w", err)
	}

	slog.Info("maker: quoting",
		"cycle", number,
		"market", ref.Title,
		"best_ask", depth.BestAsk().Price,
		"best_bid", depth.BestBid().Price,
	)

	// PlacingBothSides: limit buy al best ask
	intent := domain.OrderIntent{
		Option: ref.Title,
		Side:   m.cfg.Side,
		Mode:   domain.ModeLimit,
		Price:  depth.BestAsk().Price,
		Amount: m.cfg.Amount,
	}
	if err := m.exec.submitBuy(ctx, intent); err != nil {
		rec.Err = err.Error()
		return rec, fmt.Errorf("maker.RunCycle: %w", err)
	}
	rec.Entered = true

	if _, err := m.exec.waitForSubmission(ctx, "limit buy"); err != nil {
		return rec, err
	}
	if _, err := m.exec.waitForPosition(ctx, true); err != nil {
		return rec, err
	}

	// Monitoring
	filled, err := m.monitor(ctx, ref)
	if err != nil {
		return rec, err
	}
	rec.Filled = filled

	if !filled {
		slog.Warn("maker: no fill within window, restarting cycle", "cycle", number)
		if m.cfg.MakerCancelOnTimeout {
			// Opt-in: por defecto las resting orders quedan vivas
			if err := m.reconcile(ctx, ref); err != nil {
				return rec, err
			}
		}
		return rec, nil
	}

	// Reconciling: siempre antes de liquidar
	if err := m.reconcile(ctx, ref); err != nil {
		return rec, err
	}

	// Liquidating
	if err := holdFor(ctx, m.cfg.SellWait, m.cfg.PollInterval); err != nil {
		return rec, err
	}
	sold, err := m.exec.sellAll(ctx)
	if err != nil {
		if domain.IsUserStop(err) {
			return rec, err
		}
		rec.Err = err.Error()
		return rec, fmt.Errorf("maker.RunCycle: %w", err)
	}
	rec.Exited = sold > 0

	if _, err := m.exec.waitForPosition(ctx, false); err != nil {
		return rec, err
	}
	return rec, nil
}

// monitor pollea hasta MakerTimeout buscando el fill: el oracle en cada
// tick, y cada MakerOrderCheckEvery una consulta directa de órdenes
// buscando status FILLED.
func (m *Maker) monitor(ctx context.Context, ref domain.MarketRef) (bool, error) {
	attempts := int(m.cfg.MakerTimeout / m.cfg.PollInterval)
	if attempts < 1 {
		attempts = 1
	}
	ordersEvery := int(m.cfg.MakerOrderCheckEvery / m.cfg.PollInterval)
	if ordersEvery < 1 {
		ordersEvery = 1
	}

	tick := 0
	return pollUntil(ctx, m.cfg.PollInterval, attempts, func(ctx context.Context) bool {
		tick++
		if m.oracle.HasLivePosition(ctx) {
			slog.Info("maker: position appeared, treating as fill")
			return true
		}
		if tick%ordersEvery != 0 {
			return false
		}

		wallet, err := m.oracle.Wallet(ctx)
		if err != nil {
			return false
		}
		orders, err := m.orders.ListOpenOrders(ctx, wallet, ref.TopicID)
		if err != nil {
			slog.Warn("maker: order poll failed", "err", err)
			return false
		}
		for _, o := range orders {
			if o.Status == domain.OrderFilled {
				slog.Info("maker: filled order detected", "trans_no", o.TransNo)
				return true
			}
		}
		return false
	})
}

// reconcile cancela toda orden PENDING del mercado, seriado y con
// espaciado fijo para no golpear el rate limit. Best-effort: una
// cancelación fallida se loguea y no se reintenta en el mismo ciclo.
func (m *Maker) reconcile(ctx context.Context, ref domain.MarketRef) error {
	wallet, err := m.oracle.Wallet(ctx)
	if err != nil {
		slog.Warn("maker: wallet unavailable, skipping reconciliation", "err", err)
		return nil
	}

	orders, err := m.orders.ListOpenOrders(ctx, wallet, ref.TopicID)
	if err != nil {
		slog.Warn("maker: could not list orders for reconciliation", "err", err)
		return nil
	}

	cancelled := 0
	for _, o := range orders {
		if o.Status != domain.OrderPending || o.TransNo == "" {
			continue
		}
		if err := m.orders.CancelOrder(ctx, o.TransNo, o.ChainID); err != nil {
			slog.Warn("maker: cancel failed, continuing", "trans_no", o.TransNo, "err", err)
		} else {
			cancelled++
		}
		if err := sleepFor(ctx, m.cfg.CancelSpacing); err != nil {
			return err
		}
	}

	slog.Info("maker: reconciliation done", "cancelled", cancelled, "orders_seen", len(orders))
	return nil
}
