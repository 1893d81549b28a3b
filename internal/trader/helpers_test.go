package trader_test

// Fakes compartidos por los tests del paquete. La superficie fake
// registra cada intent en un log ordenado, que es lo que permite
// verificar invariantes de orden (reconciliar antes de liquidar, nunca
// vender sin fill).

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/dominolu/dex-opinion/internal/domain"
	"github.com/dominolu/dex-opinion/internal/oracle"
	"github.com/dominolu/dex-opinion/internal/trader"
)

// recorder es el log de eventos compartido entre surface y order client.
type recorder struct {
	mu     sync.Mutex
	events []string
}

func (r *recorder) add(ev string) {
	r.mu.Lock()
	r.events = append(r.events, ev)
	r.mu.Unlock()
}

func (r *recorder) all() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]string, len(r.events))
	copy(out, r.events)
	return out
}

func (r *recorder) indexOf(ev string) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i, e := range r.events {
		if e == ev {
			return i
		}
	}
	return -1
}

func (r *recorder) count(ev string) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	n := 0
	for _, e := range r.events {
		if e == ev {
			n++
		}
	}
	return n
}

// fakeSurface simula la página del exchange: los intents mutan el
// estado renderizado igual que lo haría la UI real.
type fakeSurface struct {
	rec *recorder

	mu               sync.Mutex
	wallet           string
	location         string
	holdings         []domain.Position
	rows             []domain.SellableRow
	submissionActive bool
	successNotice    bool
	fillOnBuy        bool // la compra aparece como posición al instante
	buyErr           error
}

func newFakeSurface(rec *recorder) *fakeSurface {
	return &fakeSurface{
		rec:    rec,
		wallet: "0x52908400098527886e0f7030069857d2e4169ee7",
	}
}

func (f *fakeSurface) SelectOption(_ context.Context, label string) error {
	f.rec.add("select-option:" + label)
	return nil
}

func (f *fakeSurface) SelectSide(_ context.Context, side domain.Side) error {
	f.rec.add("select-side:" + string(side))
	return nil
}

func (f *fakeSurface) SetPrice(_ context.Context, cents string) error {
	f.rec.add("set-price:" + cents)
	return nil
}

func (f *fakeSurface) SetAmount(_ context.Context, amount float64) error {
	f.rec.add(fmt.Sprintf("set-amount:%.0f", amount))
	return nil
}

func (f *fakeSurface) SubmitBuy(context.Context) error {
	f.rec.add("buy")
	if f.buyErr != nil {
		return f.buyErr
	}
	f.mu.Lock()
	if f.fillOnBuy {
		f.holdings = []domain.Position{{TopicTitle: "BTC", Outcome: domain.SideYes, Value: 10}}
		f.rows = []domain.SellableRow{{Index: 0, Outcome: domain.SideYes, Shares: 20}}
	}
	f.mu.Unlock()
	return nil
}

func (f *fakeSurface) SubmitSell(_ context.Context, row domain.SellableRow) error {
	f.rec.add(fmt.Sprintf("sell:%d", row.Index))
	f.mu.Lock()
	f.holdings = nil
	f.rows = nil
	f.mu.Unlock()
	return nil
}

func (f *fakeSurface) Holdings(context.Context) ([]domain.Position, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.holdings, nil
}

func (f *fakeSurface) SellableRows(context.Context) ([]domain.SellableRow, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.rows, nil
}

func (f *fakeSurface) SubmissionActive(context.Context) (bool, error) {
	return f.submissionActive, nil
}

func (f *fakeSurface) SuccessNotice(context.Context) (bool, error) {
	return f.successNotice, nil
}

func (f *fakeSurface) WalletAddress(context.Context) (string, error) {
	return f.wallet, nil
}

func (f *fakeSurface) Location(context.Context) (string, error) {
	return f.location, nil
}

func (f *fakeSurface) Navigate(_ context.Context, url string) error {
	f.rec.add("navigate:" + url)
	return nil
}

func (f *fakeSurface) setHoldings(positions []domain.Position, rows []domain.SellableRow) {
	f.mu.Lock()
	f.holdings = positions
	f.rows = rows
	f.mu.Unlock()
}

// fakeMarkets implementa ports.MarketProvider.
type fakeMarkets struct {
	children []domain.ChildMarket
	err      error
}

func (f *fakeMarkets) FetchChildMarkets(context.Context, string) ([]domain.ChildMarket, error) {
	return f.children, f.err
}

// fakeBooks implementa ports.BookProvider.
type fakeBooks struct {
	depth domain.DepthSnapshot
	err   error
}

func (f *fakeBooks) FetchDepth(context.Context, string, string) (domain.DepthSnapshot, error) {
	return f.depth, f.err
}

// fakeOrders implementa ports.OrderClient y registra cancelaciones.
type fakeOrders struct {
	rec    *recorder
	mu     sync.Mutex
	orders []domain.OpenOrder
}

func (f *fakeOrders) ListOpenOrders(context.Context, string, string) ([]domain.OpenOrder, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.orders, nil
}

func (f *fakeOrders) CancelOrder(_ context.Context, transNo string, _ int64) error {
	f.rec.add("cancel:" + transNo)
	return nil
}

// fakeJournal implementa ports.CycleJournal en memoria.
type fakeJournal struct {
	mu    sync.Mutex
	saved []domain.CycleRecord
}

func (f *fakeJournal) SaveCycle(_ context.Context, rec domain.CycleRecord) error {
	f.mu.Lock()
	f.saved = append(f.saved, rec)
	f.mu.Unlock()
	return nil
}

func (f *fakeJournal) RecentCycles(context.Context, int) ([]domain.CycleRecord, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.saved, nil
}

func (f *fakeJournal) Close() error { return nil }

func (f *fakeJournal) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.saved)
}

// fakeNotifier implementa ports.Notifier.
type fakeNotifier struct {
	mu          sync.Mutex
	cycles      int
	sessionDone bool
}

func (f *fakeNotifier) CycleDone(context.Context, domain.CycleRecord) error {
	f.mu.Lock()
	f.cycles++
	f.mu.Unlock()
	return nil
}

func (f *fakeNotifier) SessionDone(context.Context, []domain.CycleRecord) error {
	f.mu.Lock()
	f.sessionDone = true
	f.mu.Unlock()
	return nil
}

func (f *fakeNotifier) done() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.sessionDone
}

func defaultChildren() []domain.ChildMarket {
	return []domain.ChildMarket{
		{QuestionID: "q1", Title: "Above 100k", TitleShort: "100k", YesTokenID: "tok-y1", NoTokenID: "tok-n1"},
		{QuestionID: "q2", Title: "Above 120k", TitleShort: "120k", YesTokenID: "tok-y2", NoTokenID: "tok-n2"},
	}
}

// testConfig acelera todos los presupuestos de espera a milisegundos.
func testConfig() trader.Config {
	cfg := trader.DefaultConfig()
	cfg.TopicID = "901"
	cfg.OptionLabel = "Above 100k"
	cfg.Amount = 10

	cfg.Hold = 10 * time.Millisecond
	cfg.PreTrade = time.Millisecond
	cfg.SellWait = time.Millisecond

	cfg.PollInterval = time.Millisecond
	cfg.ConfirmAttempts = 3
	cfg.PositionAttempts = 3

	cfg.MakerTimeout = 10 * time.Millisecond
	cfg.MakerOrderCheckEvery = 2 * time.Millisecond

	cfg.CancelSpacing = time.Millisecond
	cfg.CyclePause = time.Millisecond
	return cfg
}

// newOracle arma un oracle surface-only sobre la superficie fake.
func newOracle(surface *fakeSurface) *oracle.Oracle {
	return oracle.New(nil, surface, oracle.Config{TopicID: "901", UseAPIFirst: false})
}
