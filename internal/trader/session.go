package trader

// session.go — controlador de la sesión de trading.
//
// Una sesión por proceso: Start rechaza una segunda sesión concurrente
// y Stop pide la parada cooperativa. Los errores fatales por ciclo
// suben hasta aquí y paran la sesión con reporte; hace falta un Start
// explícito posterior, no hay retry automático entre ciclos.

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"strings"
	"sync"
	"sync/atomic"

	"github.com/dominolu/dex-opinion/internal/domain"
	"github.com/dominolu/dex-opinion/internal/ports"
)

var (
	// ErrSessionRunning indica un Start con otra sesión activa.
	ErrSessionRunning = errors.New("a trading session is already running")

	// ErrRedirected indica que la surface no estaba en el mercado
	// objetivo: se navegó en vez de tradear. El caller puede re-Start
	// cuando la página cargue.
	ErrRedirected = errors.New("surface redirected to target market")
)

// Session posee el flag run/stop y despacha a la estrategia elegida.
type Session struct {
	cfg      Config
	taker    *Taker
	maker    *Maker
	surface  ports.ExecutionSurface
	journal  ports.CycleJournal
	notifier ports.Notifier

	running atomic.Bool

	mu     sync.Mutex
	cancel context.CancelFunc
	cycles []domain.CycleRecord
}

// NewSession arma el controlador. journal y notifier pueden ser nil.
func NewSession(cfg Config, taker *Taker, maker *Maker, surface ports.ExecutionSurface, journal ports.CycleJournal, notifier ports.Notifier) *Session {
	return &Session{
		cfg:      cfg,
		taker:    taker,
		maker:    maker,
		surface:  surface,
		journal:  journal,
		notifier: notifier,
	}
}

// Running indica si hay una sesión activa.
func (s *Session) Running() bool { return s.running.Load() }

// Cycles devuelve una copia de los registros de la sesión actual.
func (s *Session) Cycles() []domain.CycleRecord {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]domain.CycleRecord, len(s.cycles))
	copy(out, s.cycles)
	return out
}

// Stop pide la parada cooperativa. Cada punto de suspensión de la
// estrategia la detecta dentro de un intervalo de polling.
func (s *Session) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.cancel != nil {
		slog.Info("session: stop requested")
		s.cancel()
	}
}

// Start corre el loop de ciclos hasta stop o error fatal. Bloqueante.
// Rechaza una segunda sesión concurrente con ErrSessionRunning.
func (s *Session) Start(ctx context.Context) error {
	if !s.running.CompareAndSwap(false, true) {
		return ErrSessionRunning
	}

	runCtx, cancel := context.WithCancel(ctx)
	s.mu.Lock()
	s.cancel = cancel
	s.cycles = nil
	s.mu.Unlock()

	// El cleanup corre siempre, sea salida normal, stop o fallo
	defer func() {
		cancel()
		s.mu.Lock()
		s.cancel = nil
		s.mu.Unlock()
		s.running.Store(false)
	}()

	// Guard de navegación: si la surface no está en el mercado
	// objetivo, redirigir en vez de empezar a tradear
	if redirected, err := s.ensureLocation(runCtx); err != nil {
		return err
	} else if redirected {
		return ErrRedirected
	}

	slog.Info("session: started",
		"strategy", s.cfg.Strategy,
		"option", s.cfg.OptionLabel,
		"side", s.cfg.Side,
		"amount", s.cfg.Amount,
	)

	if err := holdFor(runCtx, s.cfg.PreTrade, s.cfg.PollInterval); err != nil {
		return s.finish(ctx, nil)
	}

	var fatalStreak int
	for number := 1; ; number++ {
		rec, err := s.runCycle(runCtx, number)
		s.record(ctx, rec)

		switch {
		case err == nil:
			fatalStreak = 0
		case domain.IsUserStop(err) || errors.Is(err, context.Canceled):
			// La parada del usuario no es un fallo
			slog.Info("session: stopped by user", "cycles", number)
			return s.finish(ctx, nil)
		default:
			fatalStreak++
			slog.Error("session: cycle failed", "cycle", number, "err", err)
			if s.cfg.Strategy != domain.StrategyMaker || fatalStreak > s.cfg.MakerRetries {
				return s.finish(ctx, fmt.Errorf("session: cycle %d: %w", number, err))
			}
			slog.Warn("session: retrying after failed maker cycle",
				"streak", fatalStreak, "allowed", s.cfg.MakerRetries)
		}

		if err := holdFor(runCtx, s.cfg.CyclePause, s.cfg.PollInterval); err != nil {
			slog.Info("session: stopped by user", "cycles", number)
			return s.finish(ctx, nil)
		}
	}
}

// runCycle despacha al ciclo de la estrategia configurada.
func (s *Session) runCycle(ctx context.Context, number int) (domain.CycleRecord, error) {
	switch s.cfg.Strategy {
	case domain.StrategyMaker:
		return s.maker.RunCycle(ctx, number)
	default:
		return s.taker.RunCycle(ctx, number)
	}
}

// ensureLocation chequea que la surface esté en el mercado objetivo y
// navega si no lo está. Efecto de navegación, no decisión de trading.
func (s *Session) ensureLocation(ctx context.Context) (redirected bool, err error) {
	if s.cfg.MarketURL == "" {
		return false, nil
	}
	loc, err := s.surface.Location(ctx)
	if err != nil {
		return false, fmt.Errorf("session: read location: %w", err)
	}
	if strings.Contains(loc, marketTarget(s.cfg.MarketURL)) {
		return false, nil
	}

	slog.Info("session: redirecting surface to market", "target", s.cfg.MarketURL)
	if err := s.surface.Navigate(ctx, s.cfg.MarketURL); err != nil {
		return false, fmt.Errorf("session: navigate: %w", err)
	}
	return true, nil
}

// marketTarget reduce el URL configurado a su path+query, que es lo que
// se compara contra el location reportado.
func marketTarget(marketURL string) string {
	u, err := url.Parse(marketURL)
	if err != nil || u.Path == "" {
		return marketURL
	}
	target := u.Path
	if u.RawQuery != "" {
		target += "?" + u.RawQuery
	}
	return target
}

// record persiste y reporta un ciclo; fallos de journal/notifier solo
// se loguean.
func (s *Session) record(ctx context.Context, rec domain.CycleRecord) {
	s.mu.Lock()
	s.cycles = append(s.cycles, rec)
	s.mu.Unlock()

	if s.journal != nil {
		if err := s.journal.SaveCycle(ctx, rec); err != nil {
			slog.Warn("session: journal write failed", "err", err)
		}
	}
	if s.notifier != nil {
		if err := s.notifier.CycleDone(ctx, rec); err != nil {
			slog.Warn("session: notifier failed", "err", err)
		}
	}
}

// finish emite el resumen de sesión y devuelve el error final.
func (s *Session) finish(ctx context.Context, err error) error {
	if s.notifier != nil {
		if nerr := s.notifier.SessionDone(ctx, s.Cycles()); nerr != nil {
			slog.Warn("session: summary failed", "err", nerr)
		}
	}
	return err
}
