package surface

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dominolu/dex-opinion/internal/domain"
)

// dialBridge levanta el handler del bridge en un server de test y
// conecta un companion fake.
func dialBridge(t *testing.T, b *Bridge) *websocket.Conn {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(b.handleUpgrade))
	t.Cleanup(srv.Close)

	wsURL := "ws" + strings.TrimPrefix(srv.URL, "http")
	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })
	return conn
}

func pushState(t *testing.T, conn *websocket.Conn, state pageState) {
	t.Helper()
	raw, err := json.Marshal(state)
	require.NoError(t, err)
	require.NoError(t, conn.WriteJSON(map[string]any{
		"event": "state",
		"state": json.RawMessage(raw),
	}))
}

func TestBridge_NotConnected(t *testing.T) {
	b := NewBridge()

	_, err := b.Holdings(context.Background())
	assert.ErrorIs(t, err, ErrNotConnected)

	err = b.SelectOption(context.Background(), "Above 100k")
	assert.ErrorIs(t, err, ErrNotConnected)
}

func TestBridge_StateObservations(t *testing.T) {
	b := NewBridge()
	conn := dialBridge(t, b)

	pushState(t, conn, pageState{
		Holdings: []holdingMsg{
			{TopicTitle: "BTC", Outcome: "Yes", Value: 12},
			{TopicTitle: "Weird", Outcome: "Maybe", Value: 5},
		},
		SellableRows:     []rowMsg{{Index: 0, Outcome: "Yes", Shares: 24}},
		SubmissionActive: true,
		Location:         "https://opinion.trade/market/901",
		Wallet:           "0xabc",
	})

	// El estado llega asíncrono por el read pump
	require.Eventually(t, func() bool {
		_, err := b.Holdings(context.Background())
		return err == nil
	}, 2*time.Second, 5*time.Millisecond)

	holdings, err := b.Holdings(context.Background())
	require.NoError(t, err)
	// El outcome no binario se descarta
	require.Len(t, holdings, 1)
	assert.Equal(t, domain.SideYes, holdings[0].Outcome)
	assert.Equal(t, 12.0, holdings[0].Value)

	rows, err := b.SellableRows(context.Background())
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, 24.0, rows[0].Shares)

	active, err := b.SubmissionActive(context.Background())
	require.NoError(t, err)
	assert.True(t, active)

	loc, err := b.Location(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "https://opinion.trade/market/901", loc)

	wallet, err := b.WalletAddress(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "0xabc", wallet)
}

// ackAll responde ok a cada comando entrante y devuelve los comandos
// vistos por un canal.
func ackAll(conn *websocket.Conn) <-chan command {
	seen := make(chan command, 16)
	go func() {
		for {
			var cmd command
			if err := conn.ReadJSON(&cmd); err != nil {
				close(seen)
				return
			}
			seen <- cmd
			if err := conn.WriteJSON(ack{ID: cmd.ID, OK: true}); err != nil {
				return
			}
		}
	}()
	return seen
}

func TestBridge_CommandAckRoundTrip(t *testing.T) {
	b := NewBridge()
	conn := dialBridge(t, b)
	seen := ackAll(conn)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	require.NoError(t, b.SetPrice(ctx, "50.0"))
	require.NoError(t, b.SubmitSell(ctx, domain.SellableRow{Index: 2, Outcome: domain.SideYes, Shares: 10}))

	cmd := <-seen
	assert.Equal(t, "set-price", cmd.Op)
	assert.Equal(t, "50.0", cmd.Args["cents"])
	assert.NotEmpty(t, cmd.ID)

	cmd = <-seen
	assert.Equal(t, "submit-sell", cmd.Op)
	assert.EqualValues(t, 2, cmd.Args["row"])
}

func TestBridge_RejectedCommandPropagates(t *testing.T) {
	b := NewBridge()
	conn := dialBridge(t, b)

	go func() {
		var cmd command
		if err := conn.ReadJSON(&cmd); err != nil {
			return
		}
		conn.WriteJSON(ack{ID: cmd.ID, OK: false, Error: "button not found"})
	}()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	err := b.SubmitBuy(ctx)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "button not found")
}

func TestBridge_ContextCancelUnblocksSend(t *testing.T) {
	b := NewBridge()
	dialBridge(t, b) // conectado pero sin ackear nada

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		time.Sleep(20 * time.Millisecond)
		cancel()
	}()

	err := b.SelectOption(ctx, "Above 100k")
	assert.ErrorIs(t, err, context.Canceled)
}
