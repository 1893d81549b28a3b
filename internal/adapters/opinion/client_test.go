package opinion_test

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/dominolu/dex-opinion/internal/adapters/opinion"
	"github.com/dominolu/dex-opinion/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newServer monta un handler por path y devuelve un client apuntando a él.
func newServer(t *testing.T, handlers map[string]http.HandlerFunc) *opinion.Client {
	t.Helper()
	mux := http.NewServeMux()
	for path, h := range handlers {
		mux.HandleFunc(path, h)
	}
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return opinion.NewClient(srv.URL, 56)
}

func writeResult(w http.ResponseWriter, result string) {
	fmt.Fprintf(w, `{"errno":0,"errmsg":"","result":%s}`, result)
}

func TestClient_ErrnoPropagates(t *testing.T) {
	client := newServer(t, map[string]http.HandlerFunc{
		"/v2/portfolio": func(w http.ResponseWriter, r *http.Request) {
			fmt.Fprint(w, `{"errno":10032,"errmsg":"session expired","result":null}`)
		},
	})

	_, err := client.FetchPositions(context.Background(), "0xabc", "901")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "errno 10032")
	assert.Contains(t, err.Error(), "session expired")
}

func TestClient_FetchPositions(t *testing.T) {
	client := newServer(t, map[string]http.HandlerFunc{
		"/v2/portfolio": func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "0xabc", r.URL.Query().Get("walletAddress"))
			assert.Equal(t, "901", r.URL.Query().Get("parentTopicId"))
			writeResult(w, `{"list":[
				{"topicTitle":"BTC above 100k","outcome":"Yes","value":"12.40"},
				{"topicTitle":"BTC above 100k","outcome":"No","value":"0.05"},
				{"topicTitle":"Weird market","outcome":"Maybe","value":"99"}
			]}`)
		},
	})

	positions, err := client.FetchPositions(context.Background(), "0xabc", "901")
	require.NoError(t, err)
	// El outcome no binario se descarta
	require.Len(t, positions, 2)
	assert.Equal(t, domain.SideYes, positions[0].Outcome)
	assert.InDelta(t, 12.40, positions[0].Value, 1e-9)
	assert.True(t, domain.AnyLive(positions, domain.MinPositionValue))
}

func TestClient_FetchPositions_MalformedResult(t *testing.T) {
	client := newServer(t, map[string]http.HandlerFunc{
		"/v2/portfolio": func(w http.ResponseWriter, r *http.Request) {
			writeResult(w, `{}`)
		},
	})

	_, err := client.FetchPositions(context.Background(), "0xabc", "901")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "malformed")
}

func TestClient_FetchChildMarkets(t *testing.T) {
	client := newServer(t, map[string]http.HandlerFunc{
		"/v2/topic/mutil/901": func(w http.ResponseWriter, r *http.Request) {
			writeResult(w, `{"data":{"childList":[
				{"questionId":"q1","title":"Above 100k","titleShort":"100k","yesPos":"tok-y1","noPos":"tok-n1","yesMarketPrice":"0.44","noMarketPrice":"0.56"},
				{"questionId":"q2","title":"Above 120k","titleShort":"120k","yesPos":"tok-y2","noPos":"tok-n2","yesMarketPrice":"0.09","noMarketPrice":"0.91"}
			]}}`)
		},
	})

	children, err := client.FetchChildMarkets(context.Background(), "901")
	require.NoError(t, err)
	require.Len(t, children, 2)
	assert.Equal(t, "q1", children[0].QuestionID)
	assert.Equal(t, "tok-y1", children[0].YesTokenID)
	assert.InDelta(t, 0.44, children[0].YesPrice, 1e-9)

	ref := children[1].Ref("901")
	assert.Equal(t, "901", ref.TopicID)
	assert.Equal(t, "tok-n2", ref.TokenID(domain.SideNo))
}

func TestClient_FetchDepth(t *testing.T) {
	client := newServer(t, map[string]http.HandlerFunc{
		"/v2/order/market/depth": func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "tok-y1", r.URL.Query().Get("symbol"))
			assert.Equal(t, "56", r.URL.Query().Get("chainId"))
			assert.Equal(t, "q1", r.URL.Query().Get("question_id"))
			assert.Equal(t, "0", r.URL.Query().Get("symbol_types"))
			writeResult(w, `{"asks":[["0.45","120"],["0.46","300"]],"bids":[["0.43","80"]]}`)
		},
	})

	snap, err := client.FetchDepth(context.Background(), "tok-y1", "q1")
	require.NoError(t, err)
	assert.Equal(t, 0.45, snap.BestAsk().Price)
	assert.Equal(t, 0.43, snap.BestBid().Price)
	assert.InDelta(t, 0.02, snap.Spread(), 1e-9)
}

func TestClient_FetchDepth_OneSided(t *testing.T) {
	client := newServer(t, map[string]http.HandlerFunc{
		"/v2/order/market/depth": func(w http.ResponseWriter, r *http.Request) {
			writeResult(w, `{"asks":[["0.45","120"]],"bids":[]}`)
		},
	})

	_, err := client.FetchDepth(context.Background(), "tok-y1", "q1")
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrDepthUnavailable))
}

func TestClient_ListOpenOrders(t *testing.T) {
	client := newServer(t, map[string]http.HandlerFunc{
		"/v2/order": func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "1", r.URL.Query().Get("queryType"))
			writeResult(w, `{"list":[
				{"orderId":101,"transNo":"t-1","topicTitle":"BTC","side":1,"price":"0.44","amount":"10","filled":"10","status":2,"chainId":56},
				{"orderId":102,"transNo":"t-2","topicTitle":"BTC","side":1,"price":"0.43","amount":"10","filled":"0","status":1,"chainId":56}
			]}`)
		},
	})

	orders, err := client.ListOpenOrders(context.Background(), "0xabc", "901")
	require.NoError(t, err)
	require.Len(t, orders, 2)
	assert.Equal(t, domain.OrderFilled, orders[0].Status)
	assert.Equal(t, domain.OrderPending, orders[1].Status)
	assert.Equal(t, "t-2", orders[1].TransNo)
	assert.Equal(t, domain.OrderBuy, orders[1].Side)
}

func TestClient_CancelOrder(t *testing.T) {
	var got map[string]any
	client := newServer(t, map[string]http.HandlerFunc{
		"/v1/order/cancel/order": func(w http.ResponseWriter, r *http.Request) {
			require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
			writeResult(w, `null`)
		},
	})

	require.NoError(t, client.CancelOrder(context.Background(), "t-2", 0))
	assert.Equal(t, "t-2", got["trans_no"])
	// chainID 0 usa la chain del client
	assert.EqualValues(t, 56, got["chainId"])
}

func TestClient_RetriesServerErrors(t *testing.T) {
	var calls int
	client := newServer(t, map[string]http.HandlerFunc{
		"/v2/topic/mutil/901": func(w http.ResponseWriter, r *http.Request) {
			calls++
			if calls == 1 {
				w.WriteHeader(http.StatusInternalServerError)
				return
			}
			writeResult(w, `{"data":{"childList":[]}}`)
		},
	})

	children, err := client.FetchChildMarkets(context.Background(), "901")
	require.NoError(t, err)
	assert.Empty(t, children)
	assert.Equal(t, 2, calls)
}

func TestNormalizeWallet(t *testing.T) {
	got, err := opinion.NormalizeWallet("0x52908400098527886e0f7030069857d2e4169ee7")
	require.NoError(t, err)
	assert.Equal(t, "0x52908400098527886E0F7030069857D2E4169EE7", got)

	_, err = opinion.NormalizeWallet("0x5290...9EE7")
	assert.Error(t, err)

	_, err = opinion.NormalizeWallet("not-an-address")
	assert.Error(t, err)
}
