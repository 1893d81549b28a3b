package surface

// bridge.go — execution surface sobre WebSocket.
//
// El engine hospeda un servidor WS; el script companion que corre en la
// página del exchange se conecta y ejecuta los intents contra el DOM.
// Cada intent es un comando con id que espera su ack; las observaciones
// pasivas salen del último snapshot de estado que empujó la página, no
// de round-trips — leer una observación nunca toca la red.

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"golang.org/x/sync/errgroup"

	"github.com/dominolu/dex-opinion/internal/domain"
)

const (
	ackTimeout    = 10 * time.Second
	writeTimeout  = 10 * time.Second
	pongWait      = 60 * time.Second
	pingInterval  = 20 * time.Second
	bridgePattern = "/bridge"
)

// ErrNotConnected indica que ningún companion está conectado (o que aún
// no empujó su primer snapshot de estado).
var ErrNotConnected = errors.New("surface bridge: page companion not connected")

// Bridge implementa ports.ExecutionSurface.
type Bridge struct {
	upgrader websocket.Upgrader

	mu      sync.Mutex
	conn    *websocket.Conn
	writeMu sync.Mutex // serializa escrituras al socket
	pending map[string]chan ack

	stateMu  sync.RWMutex
	state    pageState
	hasState bool
}

// NewBridge crea un bridge sin conexión. Las llamadas fallan con
// ErrNotConnected hasta que el companion se conecte.
func NewBridge() *Bridge {
	return &Bridge{
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			// El companion corre en el origin del exchange
			CheckOrigin: func(*http.Request) bool { return true },
		},
		pending: make(map[string]chan ack),
	}
}

// Serve levanta el servidor WS en addr y bloquea hasta que ctx termine.
func (b *Bridge) Serve(ctx context.Context, addr string) error {
	mux := http.NewServeMux()
	mux.HandleFunc(bridgePattern, b.handleUpgrade)

	srv := &http.Server{Addr: addr, Handler: mux}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		slog.Info("surface bridge listening", "addr", addr, "path", bridgePattern)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("surface.Serve: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		shutCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutCtx)
	})
	return g.Wait()
}

// handleUpgrade acepta la conexión del companion. Una conexión nueva
// reemplaza a la anterior: solo hay una página manejada a la vez.
func (b *Bridge) handleUpgrade(w http.ResponseWriter, r *http.Request) {
	conn, err := b.upgrader.Upgrade(w, r, nil)
	if err != nil {
		slog.Warn("surface bridge upgrade failed", "err", err)
		return
	}

	b.mu.Lock()
	if b.conn != nil {
		b.conn.Close()
	}
	b.conn = conn
	b.mu.Unlock()

	slog.Info("surface bridge: companion connected", "remote", conn.RemoteAddr())
	go b.readPump(conn)
	go b.pingLoop(conn)
}

func (b *Bridge) readPump(conn *websocket.Conn) {
	defer b.dropConn(conn)

	conn.SetReadDeadline(time.Now().Add(pongWait))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		var msg inbound
		if err := conn.ReadJSON(&msg); err != nil {
			slog.Warn("surface bridge: read failed, dropping companion", "err", err)
			return
		}
		conn.SetReadDeadline(time.Now().Add(pongWait))

		switch {
		case msg.Event == "state":
			b.applyState(msg.State)
		case msg.ID != "":
			b.resolveAck(ack{ID: msg.ID, OK: msg.OK, Error: msg.Error})
		}
	}
}

func (b *Bridge) pingLoop(conn *websocket.Conn) {
	ticker := time.NewTicker(pingInterval)
	defer ticker.Stop()
	for range ticker.C {
		b.writeMu.Lock()
		err := conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(writeTimeout))
		b.writeMu.Unlock()
		if err != nil {
			return
		}
	}
}

func (b *Bridge) dropConn(conn *websocket.Conn) {
	conn.Close()
	b.mu.Lock()
	if b.conn == conn {
		b.conn = nil
	}
	// Despertar a todo el que espere un ack de esta conexión
	for id, ch := range b.pending {
		close(ch)
		delete(b.pending, id)
	}
	b.mu.Unlock()
}

func (b *Bridge) applyState(raw []byte) {
	var st pageState
	if err := json.Unmarshal(raw, &st); err != nil {
		slog.Warn("surface bridge: malformed state update", "err", err)
		return
	}
	b.stateMu.Lock()
	b.state = st
	b.hasState = true
	b.stateMu.Unlock()
}

func (b *Bridge) resolveAck(a ack) {
	b.mu.Lock()
	ch, ok := b.pending[a.ID]
	if ok {
		delete(b.pending, a.ID)
	}
	b.mu.Unlock()
	if ok {
		ch <- a
		close(ch)
	}
}

// send emite un comando y espera su ack.
func (b *Bridge) send(ctx context.Context, op string, args map[string]any) error {
	b.mu.Lock()
	conn := b.conn
	if conn == nil {
		b.mu.Unlock()
		return ErrNotConnected
	}
	cmd := command{ID: uuid.New().String(), Op: op, Args: args}
	ch := make(chan ack, 1)
	b.pending[cmd.ID] = ch
	b.mu.Unlock()

	b.writeMu.Lock()
	conn.SetWriteDeadline(time.Now().Add(writeTimeout))
	err := conn.WriteJSON(cmd)
	b.writeMu.Unlock()
	if err != nil {
		b.mu.Lock()
		delete(b.pending, cmd.ID)
		b.mu.Unlock()
		return fmt.Errorf("surface bridge: write %s: %w", op, err)
	}

	select {
	case a, ok := <-ch:
		if !ok {
			return ErrNotConnected
		}
		if !a.OK {
			return fmt.Errorf("surface bridge: %s rejected: %s", op, a.Error)
		}
		return nil
	case <-time.After(ackTimeout):
		b.mu.Lock()
		delete(b.pending, cmd.ID)
		b.mu.Unlock()
		return fmt.Errorf("surface bridge: %s not acked within %s", op, ackTimeout)
	case <-ctx.Done():
		b.mu.Lock()
		delete(b.pending, cmd.ID)
		b.mu.Unlock()
		return ctx.Err()
	}
}

// snapshot devuelve el último estado empujado por la página.
func (b *Bridge) snapshot() (pageState, error) {
	b.stateMu.RLock()
	defer b.stateMu.RUnlock()
	if !b.hasState {
		return pageState{}, ErrNotConnected
	}
	return b.state, nil
}

// --- intents ---

func (b *Bridge) SelectOption(ctx context.Context, label string) error {
	return b.send(ctx, opSelectOption, map[string]any{"label": label})
}

func (b *Bridge) SelectSide(ctx context.Context, side domain.Side) error {
	return b.send(ctx, opSelectSide, map[string]any{"side": string(side)})
}

func (b *Bridge) SetPrice(ctx context.Context, cents string) error {
	return b.send(ctx, opSetPrice, map[string]any{"cents": cents})
}

func (b *Bridge) SetAmount(ctx context.Context, amount float64) error {
	return b.send(ctx, opSetAmount, map[string]any{"amount": amount})
}

func (b *Bridge) SubmitBuy(ctx context.Context) error {
	return b.send(ctx, opSubmitBuy, nil)
}

func (b *Bridge) SubmitSell(ctx context.Context, row domain.SellableRow) error {
	return b.send(ctx, opSubmitSell, map[string]any{"row": row.Index})
}

func (b *Bridge) Navigate(ctx context.Context, url string) error {
	return b.send(ctx, opNavigate, map[string]any{"url": url})
}

// --- observaciones pasivas ---

func (b *Bridge) Holdings(context.Context) ([]domain.Position, error) {
	st, err := b.snapshot()
	if err != nil {
		return nil, err
	}
	positions := make([]domain.Position, 0, len(st.Holdings))
	for _, h := range st.Holdings {
		side, ok := domain.ParseSide(h.Outcome)
		if !ok {
			continue
		}
		positions = append(positions, domain.Position{
			TopicTitle: h.TopicTitle,
			Outcome:    side,
			Value:      h.Value,
		})
	}
	return positions, nil
}

func (b *Bridge) SellableRows(context.Context) ([]domain.SellableRow, error) {
	st, err := b.snapshot()
	if err != nil {
		return nil, err
	}
	rows := make([]domain.SellableRow, 0, len(st.SellableRows))
	for _, r := range st.SellableRows {
		side, ok := domain.ParseSide(r.Outcome)
		if !ok {
			continue
		}
		rows = append(rows, domain.SellableRow{Index: r.Index, Outcome: side, Shares: r.Shares})
	}
	return rows, nil
}

func (b *Bridge) SubmissionActive(context.Context) (bool, error) {
	st, err := b.snapshot()
	if err != nil {
		return false, err
	}
	return st.SubmissionActive, nil
}

func (b *Bridge) SuccessNotice(context.Context) (bool, error) {
	st, err := b.snapshot()
	if err != nil {
		return false, err
	}
	return st.SuccessNotice, nil
}

func (b *Bridge) WalletAddress(context.Context) (string, error) {
	st, err := b.snapshot()
	if err != nil {
		return "", err
	}
	return st.Wallet, nil
}

func (b *Bridge) Location(context.Context) (string, error) {
	st, err := b.snapshot()
	if err != nil {
		return "", err
	}
	return st.Location, nil
}
