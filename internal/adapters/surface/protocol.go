package surface

import "encoding/json"

// Protocolo del bridge: el engine manda comandos (intents) y el script
// companion de la página responde acks y empuja snapshots de estado
// (observaciones pasivas) cuando la página re-renderiza.

// Ops de comando que entiende el companion.
const (
	opSelectOption = "select-option"
	opSelectSide   = "select-side"
	opSetPrice     = "set-price"
	opSetAmount    = "set-amount"
	opSubmitBuy    = "submit-buy"
	opSubmitSell   = "submit-sell"
	opNavigate     = "navigate"
)

// command es un intent saliente. Args depende del op.
type command struct {
	ID   string         `json:"id"`
	Op   string         `json:"op"`
	Args map[string]any `json:"args,omitempty"`
}

// ack es la respuesta del companion a un comando.
type ack struct {
	ID    string `json:"id"`
	OK    bool   `json:"ok"`
	Error string `json:"error,omitempty"`
}

// inbound es el sobre de todo mensaje entrante: o un ack (ID presente)
// o un evento de estado (Event == "state").
type inbound struct {
	ID    string `json:"id,omitempty"`
	OK    bool   `json:"ok,omitempty"`
	Error string `json:"error,omitempty"`
	Event string `json:"event,omitempty"`
	State json.RawMessage `json:"state,omitempty"`
}

// pageState es el snapshot que empuja el companion.
type pageState struct {
	Holdings         []holdingMsg `json:"holdings"`
	SellableRows     []rowMsg     `json:"sellableRows"`
	SubmissionActive bool         `json:"submissionActive"`
	SuccessNotice    bool         `json:"successNotice"`
	Location         string       `json:"location"`
	Wallet           string       `json:"wallet"`
}

type holdingMsg struct {
	TopicTitle string  `json:"topicTitle"`
	Outcome    string  `json:"outcome"`
	Value      float64 `json:"value"`
}

type rowMsg struct {
	Index   int     `json:"index"`
	Outcome string  `json:"outcome"`
	Shares  float64 `json:"shares"`
}
